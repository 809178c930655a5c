package filters

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitepipe/internal/content"
)

// captionPattern matches ![alt](url "caption"). URL and caption are non-greedy;
// the caption group is optional.
var captionPattern = regexp.MustCompile(`!\[([^\]]*)\]\((\S+?)(?:\s+"(.*?)")?\)`)

// Caption replaces captioned markdown images with a figure holding the image
// and its caption. Images without a caption are left byte for byte. The alt
// and caption text are copied verbatim.
func Caption(_ *content.Document, html string) (string, error) {
	matches := captionPattern.FindAllStringSubmatchIndex(html, -1)
	if len(matches) == 0 {
		return html, nil
	}

	var b strings.Builder
	b.Grow(len(html))
	last := 0
	for _, m := range matches {
		// m[6] < 0: the caption group did not participate.
		if m[6] < 0 {
			continue
		}
		alt := html[m[2]:m[3]]
		src := html[m[4]:m[5]]
		caption := html[m[6]:m[7]]

		b.WriteString(html[last:m[0]])
		b.WriteString(`<figure class="image-caption"><img src="`)
		b.WriteString(src)
		b.WriteString(`" alt="`)
		b.WriteString(alt)
		b.WriteString(`"><figcaption>`)
		b.WriteString(caption)
		b.WriteString(`</figcaption></figure>`)
		last = m[1]
	}
	b.WriteString(html[last:])
	return b.String(), nil
}
