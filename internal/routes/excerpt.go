package routes

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitepipe/internal/content"
)

const excerptWords = 40

// excerptFor prefers an explicit excerpt or description from front matter
// and falls back to the leading words of the rendered body.
func excerptFor(d *content.Document) string {
	for _, key := range []string{"excerpt", "description"} {
		if v, ok := d.FrontMatter[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return TextExcerpt(d.Content, excerptWords)
}

// TextExcerpt returns at most n words of visible text from an HTML fragment,
// with an ellipsis when text was cut. Script, style and figcaption text is
// ignored.
func TextExcerpt(fragment string, n int) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var words []string
	skip := 0
	for len(words) <= n {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return ""
			}
			return strings.Join(words, " ")
		case html.StartTagToken:
			if isSkippedElement(z) {
				skip++
			}
		case html.EndTagToken:
			if isSkippedElement(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				words = append(words, strings.Fields(string(z.Text()))...)
			}
		}
	}
	return strings.Join(words[:n], " ") + "…"
}

func isSkippedElement(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style", "figcaption":
		return true
	}
	return false
}
