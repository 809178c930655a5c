package build

import (
	"bytes"
	"html/template"
	"strings"

	"git.home.luguber.info/inful/sitepipe/internal/content"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Title }}{{ with .SiteTitle }} | {{ . }}{{ end }}</title>
{{- with .Canonical }}
<link rel="canonical" href="{{ . }}">
{{- end }}
</head>
<body{{ with .Layout }} class="layout-{{ . }}"{{ end }}>
<main>
<article>
<h1>{{ .Title }}</h1>
{{- if not .Date.IsZero }}
<time datetime="{{ .Date.Format "2006-01-02" }}">{{ .Date.Format "January 2, 2006" }}</time>
{{- end }}
{{ .Content }}
</article>
</main>
</body>
</html>
`))

type pageData struct {
	SiteTitle string
	Canonical string
	*content.Document
	Content template.HTML
}

// pageShell wraps rendered document content in the fixed page layout.
type pageShell struct {
	siteTitle string
	baseURL   string
}

func newPageShell(siteTitle, baseURL string) *pageShell {
	return &pageShell{siteTitle: siteTitle, baseURL: strings.TrimRight(baseURL, "/")}
}

// Render returns the complete page for doc. Content that already is a full
// HTML document is returned unchanged.
func (s *pageShell) Render(doc *content.Document) ([]byte, error) {
	if isFullDocument(doc.Content) {
		return []byte(doc.Content), nil
	}
	data := pageData{
		SiteTitle: s.siteTitle,
		Document:  doc,
		Content:   template.HTML(doc.Content), //nolint:gosec // rendered from the site's own sources
	}
	if s.baseURL != "" {
		data.Canonical = s.baseURL + doc.URL()
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isFullDocument(html string) bool {
	head := strings.ToLower(strings.TrimSpace(html))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}
