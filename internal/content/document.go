// Package content holds the document model shared by every build stage and
// the loader that turns a content source tree into rendered documents.
package content

import (
	"path"
	"slices"
	"strings"
	"time"
)

const indexFile = "index.html"

// Document represents one content entry (post or page).
//
// Content is rendered HTML. It is mutated only by the content filter chain
// during the per-document phase; batch and post-build stages treat the
// document as read-only.
type Document struct {
	// SourcePath is relative to the content source root, slash separated.
	SourcePath string
	// OutputPath is relative to the site output root. It may be empty until
	// output paths are resolved.
	OutputPath string
	Layout     string
	// Tags keep the order they had in front matter.
	Tags        []string
	Title       string
	Date        time.Time
	FrontMatter map[string]any
	Content     string
}

// HasTag reports whether tag is one of the document's tags.
func (d *Document) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// OutputDir returns the directory the document's page is written into.
// An output path naming an .html file yields its parent; anything else is
// treated as a directory already. The result has no leading or trailing
// slash and is empty for the site root.
func (d *Document) OutputDir() string {
	return OutputDir(d.OutputPath)
}

// AssetDir returns the source path with its extension stripped:
// posts/foo.md has the asset directory posts/foo.
func (d *Document) AssetDir() string {
	return strings.TrimSuffix(d.SourcePath, path.Ext(d.SourcePath))
}

// URL returns the site-absolute URL of the document's page.
func (d *Document) URL() string {
	dir := d.OutputDir()
	if strings.HasSuffix(d.OutputPath, ".html") && path.Base(d.OutputPath) != indexFile {
		return "/" + strings.TrimPrefix(d.OutputPath, "/")
	}
	if dir == "" {
		return "/"
	}
	return "/" + dir + "/"
}

// OutputDir derives a directory from an output path. See Document.OutputDir.
func OutputDir(outputPath string) string {
	p := strings.Trim(outputPath, "/")
	if strings.HasSuffix(p, ".html") {
		p = path.Dir(p)
		if p == "." {
			return ""
		}
	}
	return p
}

// Route is a synthetic output page that is not backed by a Document.
type Route struct {
	// Path is relative to the site output root.
	Path    string
	Content string
	// Generator names the route generator that produced it.
	Generator string
}

// NormalizePath cleans an output path into the slash separated, root
// relative form used for collision checks.
func NormalizePath(p string) string {
	clean := path.Clean("/" + strings.TrimSpace(p))
	return strings.TrimPrefix(clean, "/")
}
