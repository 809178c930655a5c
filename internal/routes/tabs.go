package routes

import (
	"fmt"
	"path"

	"git.home.luguber.info/inful/sitepipe/internal/content"
)

// TabAlias maps a set of alias paths to the home page tab they open.
type TabAlias struct {
	Tab     string
	Aliases []string
}

// TabAliases is the fixed alias table served by TabRedirects.
var TabAliases = []TabAlias{
	{Tab: "blog", Aliases: []string{"blog", "words"}},
	{Tab: "portfolio", Aliases: []string{"works", "portfolio", "projects"}},
}

const redirectPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Redirecting…</title>
<link rel="canonical" href="%[1]s">
<meta name="robots" content="noindex">
<meta http-equiv="refresh" content="0; url=%[1]s">
</head>
<body>
<p>Redirecting to <a href="%[1]s">%[1]s</a>.</p>
</body>
</html>
`

// TabRedirects emits one redirect page per alias in TabAliases, each
// pointing at /?tab=<tab>. The document collection is ignored.
func TabRedirects(_ []*content.Document) ([]content.Route, error) {
	var out []content.Route
	for _, entry := range TabAliases {
		target := "/?tab=" + entry.Tab
		for _, alias := range entry.Aliases {
			out = append(out, content.Route{
				Path:    path.Join(alias, "index.html"),
				Content: RedirectHTML(target),
			})
		}
	}
	return out, nil
}

// RedirectHTML renders a minimal auto-redirecting page for target. target
// must already be a safe, attribute-ready URL.
func RedirectHTML(target string) string {
	return fmt.Sprintf(redirectPage, target)
}
