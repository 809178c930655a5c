package config

// Default values for the asset synchronizer and route generators.
const (
	DefaultSourceDir        = "./source"
	DefaultOutputDir        = "./public"
	DefaultSiteTitle        = "Portfolio"
	DefaultCarouselLookback = 200
	DefaultAssetLayout      = "ware"
	DefaultAssetTag         = "wares"
	DefaultListingLayout    = "portfolio"
	DefaultListingPath      = "portfolio-index.html"
	DefaultListingTitle     = "Portfolio"
)

// Default returns a configuration with every default applied.
func Default() Config {
	cfg := Config{Clean: true}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	if cfg.Filters.CarouselLookback == 0 {
		cfg.Filters.CarouselLookback = DefaultCarouselLookback
	}
	if cfg.Assets.Layout == "" {
		cfg.Assets.Layout = DefaultAssetLayout
	}
	if cfg.Assets.Tag == "" {
		cfg.Assets.Tag = DefaultAssetTag
	}
	if cfg.Routes.Listing.Layout == "" {
		cfg.Routes.Listing.Layout = DefaultListingLayout
	}
	if cfg.Routes.Listing.Path == "" {
		cfg.Routes.Listing.Path = DefaultListingPath
	}
	if cfg.Routes.Listing.Title == "" {
		cfg.Routes.Listing.Title = DefaultListingTitle
	}
}
