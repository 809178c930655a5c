package filters

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitepipe/internal/content"
)

var (
	loadingAttrPattern  = regexp.MustCompile(`(?i)\sloading\s*=`)
	decodingAttrPattern = regexp.MustCompile(`(?i)\sdecoding\s*=`)
)

// LazyLoad is the content filter form of LazyLoadHTML.
func LazyLoad(_ *content.Document, html string) (string, error) {
	return LazyLoadHTML(html), nil
}

// LazyLoadHTML adds loading="lazy" and decoding="async" to every <img> tag
// that lacks them. Existing attributes are never duplicated, so the rewrite
// is idempotent.
func LazyLoadHTML(html string) string {
	if !HasImages(html) {
		return html
	}
	return imgTagPattern.ReplaceAllStringFunc(html, func(tag string) string {
		var add string
		if !loadingAttrPattern.MatchString(tag) {
			add += ` loading="lazy"`
		}
		if !decodingAttrPattern.MatchString(tag) {
			add += ` decoding="async"`
		}
		if add == "" {
			return tag
		}
		// Insert right after "<img" so self-closing tags stay intact.
		return tag[:4] + add + tag[4:]
	})
}

// HasImages reports whether html contains an <img> tag.
func HasImages(html string) bool {
	return strings.Contains(strings.ToLower(html), "<img")
}
