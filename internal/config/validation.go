package config

import (
	"path"
	"path/filepath"
	"strings"

	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
)

// ValidateConfig validates a configuration after defaults are applied.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	for _, check := range []func() error{v.validatePaths, v.validateFilters, v.validateAssets, v.validateRoutes} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validatePaths() error {
	src, err := filepath.Abs(cv.config.SourceDir)
	if err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryValidation, "invalid source_dir").Fatal().Build()
	}
	out, err := filepath.Abs(cv.config.OutputDir)
	if err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryValidation, "invalid output_dir").Fatal().Build()
	}
	if src == out {
		return foundationerrors.ValidationError("source_dir and output_dir must differ").
			WithContext("path", src).
			Build()
	}
	// A cleaned output directory containing the sources would delete them.
	if cv.config.Clean && isWithin(src, out) {
		return foundationerrors.ValidationError("output_dir must not contain source_dir when clean is enabled").
			WithContext("source_dir", src).
			WithContext("output_dir", out).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateFilters() error {
	if cv.config.Filters.CarouselLookback < 0 {
		return foundationerrors.ValidationError("filters.carousel_lookback must not be negative").Build()
	}
	return nil
}

func (cv *configurationValidator) validateAssets() error {
	if cv.config.Assets.Concurrency < 0 {
		return foundationerrors.ValidationError("assets.concurrency must not be negative").Build()
	}
	return nil
}

func (cv *configurationValidator) validateRoutes() error {
	p := cv.config.Routes.Listing.Path
	clean := path.Clean("/" + p)
	if strings.HasSuffix(p, "/") || clean == "/" || strings.Contains(p, "..") {
		return foundationerrors.ValidationError("routes.listing.path must be a file path inside the output root").
			WithContext("path", p).
			Build()
	}
	return nil
}

func isWithin(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
