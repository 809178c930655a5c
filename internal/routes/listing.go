package routes

import (
	"bytes"
	"html/template"
	"time"

	"git.home.luguber.info/inful/sitepipe/internal/content"
)

// ListingOptions configures the aggregate listing generator.
type ListingOptions struct {
	Layout string
	Path   string
	Title  string
}

// ListingItem is one entry on the listing page.
type ListingItem struct {
	Title   string
	URL     string
	Date    time.Time
	Tags    []string
	Excerpt string
}

// ListingPage is the data handed to the listing template.
type ListingPage struct {
	Title string
	Items []ListingItem
}

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
</head>
<body>
<main class="listing">
<h1>{{ .Title }}</h1>
{{- if .Items }}
<ul class="listing-items">
{{- range .Items }}
<li class="listing-item">
<a href="{{ .URL }}">{{ .Title }}</a>
{{- if not .Date.IsZero }} <time datetime="{{ .Date.Format "2006-01-02" }}">{{ .Date.Format "Jan 2, 2006" }}</time>{{ end }}
{{- if .Excerpt }}
<p>{{ .Excerpt }}</p>
{{- end }}
{{- if .Tags }}
<ul class="tags">{{ range .Tags }}<li>{{ . }}</li>{{ end }}</ul>
{{- end }}
</li>
{{- end }}
</ul>
{{- else }}
<p class="listing-empty">Nothing here yet.</p>
{{- end }}
</main>
</body>
</html>
`))

// Listing returns a generator that renders every document whose layout
// equals opts.Layout onto a single page at opts.Path, in collection order.
// The page is emitted even when nothing matches.
func Listing(opts ListingOptions) Func {
	return func(docs []*content.Document) ([]content.Route, error) {
		page := ListingPage{Title: opts.Title, Items: []ListingItem{}}
		for _, d := range docs {
			if d.Layout != opts.Layout {
				continue
			}
			page.Items = append(page.Items, ListingItem{
				Title:   d.Title,
				URL:     d.URL(),
				Date:    d.Date,
				Tags:    d.Tags,
				Excerpt: excerptFor(d),
			})
		}

		var buf bytes.Buffer
		if err := listingTemplate.Execute(&buf, page); err != nil {
			return nil, err
		}
		return []content.Route{{Path: opts.Path, Content: buf.String()}}, nil
	}
}
