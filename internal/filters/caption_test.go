package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaption(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "captioned image",
			in:   `![alt](img.jpg "caption text")`,
			want: `<figure class="image-caption"><img src="img.jpg" alt="alt"><figcaption>caption text</figcaption></figure>`,
		},
		{
			name: "no caption is byte identical",
			in:   `![alt](img.jpg)`,
			want: `![alt](img.jpg)`,
		},
		{
			name: "caption kept verbatim",
			in:   `![a & b](/x.png "<em>Fig 1</em> &amp; more")`,
			want: `<figure class="image-caption"><img src="/x.png" alt="a & b"><figcaption><em>Fig 1</em> &amp; more</figcaption></figure>`,
		},
		{
			name: "multiple images left to right",
			in:   "<p>![one](1.png \"First\") mid ![two](2.png) end ![three](3.png \"Third\")</p>",
			want: "<p><figure class=\"image-caption\"><img src=\"1.png\" alt=\"one\"><figcaption>First</figcaption></figure> mid ![two](2.png) end <figure class=\"image-caption\"><img src=\"3.png\" alt=\"three\"><figcaption>Third</figcaption></figure></p>",
		},
		{
			name: "no markdown images",
			in:   `<p><img src="a.png" alt="a"></p>`,
			want: `<p><img src="a.png" alt="a"></p>`,
		},
		{
			name: "unterminated markup",
			in:   `![alt](img.jpg "caption`,
			want: `![alt](img.jpg "caption`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Caption(nil, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCaption_ContainsPlainImageTag(t *testing.T) {
	got, err := Caption(nil, `![alt](img.jpg "caption text")`)
	require.NoError(t, err)
	assert.Contains(t, got, `<img src="img.jpg" alt="alt">`)
	assert.Contains(t, got, `<figcaption>caption text</figcaption>`)
}
