package filters

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/sitepipe/internal/content"
)

const (
	carouselMarker = "carousel"
	// DefaultCarouselLookback is how many characters before an image tag
	// the carousel marker is searched for.
	DefaultCarouselLookback = 200
	// datedPathMarker identifies year-prefixed paths (/2023/...) that
	// already resolve from the site root.
	datedPathMarker = "/20"
)

var (
	imgTagPattern = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	// Absolute, scheme-less source: "/x" but not "//host/x".
	absoluteSrcPattern = regexp.MustCompile(`(?i)\bsrc="(/[^/"][^"]*)"`)
	altAttrPattern     = regexp.MustCompile(`(?i)\balt="[^"]*"`)
)

// CarouselPaths rewrites root-relative image paths inside carousels so they
// resolve against the document's own output directory.
//
// The check is a proximity heuristic: an image qualifies when its tag has an
// alt attribute, its src has no /20 segment, and the lookback characters before
// the tag contain "carousel". It does not inspect DOM nesting.
func CarouselPaths(lookback int) Func {
	if lookback <= 0 {
		lookback = DefaultCarouselLookback
	}
	return func(doc *content.Document, html string) (string, error) {
		if !strings.Contains(html, carouselMarker) {
			return html, nil
		}
		dir := doc.OutputDir()
		if dir == "" {
			return html, nil
		}
		prefix := "/" + dir

		tags := imgTagPattern.FindAllStringIndex(html, -1)
		if len(tags) == 0 {
			return html, nil
		}

		var b strings.Builder
		b.Grow(len(html) + len(tags)*len(prefix))
		last := 0
		for _, t := range tags {
			tag := html[t[0]:t[1]]
			src := absoluteSrcPattern.FindStringSubmatchIndex(tag)
			if src == nil || !altAttrPattern.MatchString(tag) {
				continue
			}
			imgPath := tag[src[2]:src[3]]
			if strings.Contains(imgPath, datedPathMarker) {
				continue
			}
			if !strings.Contains(lookbackWindow(html[:t[0]], lookback), carouselMarker) {
				continue
			}

			b.WriteString(html[last:t[0]])
			b.WriteString(tag[:src[2]])
			b.WriteString(prefix)
			b.WriteString(tag[src[2]:])
			last = t[1]
		}
		b.WriteString(html[last:])
		return b.String(), nil
	}
}

// lookbackWindow returns the last n runes of s.
func lookbackWindow(s string, n int) string {
	start := len(s)
	for ; n > 0 && start > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:start])
		start -= size
	}
	return s[start:]
}
