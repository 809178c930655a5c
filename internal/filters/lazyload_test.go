package filters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLazyLoadHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "adds both attributes",
			in:   `<img src="a.png" alt="a">`,
			want: `<img loading="lazy" decoding="async" src="a.png" alt="a">`,
		},
		{
			name: "keeps explicit loading",
			in:   `<img src="a.png" loading="eager">`,
			want: `<img decoding="async" src="a.png" loading="eager">`,
		},
		{
			name: "keeps explicit decoding",
			in:   `<IMG decoding="sync" src="a.png">`,
			want: `<IMG loading="lazy" decoding="sync" src="a.png">`,
		},
		{
			name: "self closing",
			in:   `<img src="a.png"/>`,
			want: `<img loading="lazy" decoding="async" src="a.png"/>`,
		},
		{
			name: "data attributes do not count",
			in:   `<img data-loading="x" src="a.png">`,
			want: `<img loading="lazy" decoding="async" data-loading="x" src="a.png">`,
		},
		{
			name: "other tags untouched",
			in:   `<image src="a"><p>img</p>`,
			want: `<image src="a"><p>img</p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LazyLoadHTML(tt.in))
		})
	}
}

func TestLazyLoadHTML_Idempotent(t *testing.T) {
	in := `<p><img src="1.png"><img src="2.png" loading="eager"></p><figure><img src="3.png" alt="x"/></figure>`
	once := LazyLoadHTML(in)
	twice := LazyLoadHTML(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, 2, strings.Count(once, `loading="lazy"`))
	assert.Equal(t, 3, strings.Count(once, `decoding="async"`))
}

func TestHasImages(t *testing.T) {
	assert.True(t, HasImages(`<p><IMG src="x"></p>`))
	assert.False(t, HasImages(`<p>text</p>`))
	assert.Equal(t, `<p>text</p>`, LazyLoadHTML(`<p>text</p>`))
}
