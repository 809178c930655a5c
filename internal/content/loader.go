package content

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	foundationerrors "git.home.luguber.info/inful/sitepipe/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
)

var sourceExtensions = []string{".md", ".markdown", ".html"}

// Loader discovers and renders the documents under a content source root.
type Loader struct {
	root     string
	skip     []string
	markdown goldmark.Markdown
	logger   *slog.Logger
	title    cases.Caser
}

// NewLoader creates a Loader for root. Directories listed in skip are not
// walked; pass the output root here when it lives under the source root.
//
// Markdown is rendered with raw HTML passthrough so markdown image syntax
// written inside HTML blocks (carousels) reaches the content filters verbatim.
func NewLoader(root string, logger *slog.Logger, skip ...string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	abs := make([]string, 0, len(skip))
	for _, dir := range skip {
		if dir == "" {
			continue
		}
		if a, err := filepath.Abs(dir); err == nil {
			abs = append(abs, a)
		}
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	return &Loader{
		root:     root,
		skip:     abs,
		markdown: md,
		logger:   logger,
		title:    cases.Title(language.English),
	}
}

// Load walks the source root and returns rendered documents sorted by
// source path. A missing root is fatal; a single unreadable or malformed
// file is logged and skipped.
func (l *Loader) Load(ctx context.Context) ([]*Document, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "content source root not readable").
			Fatal().
			WithContext("path", l.root).
			Build()
	}
	if !info.IsDir() {
		return nil, foundationerrors.FileSystemError("content source root is not a directory").
			WithContext("path", l.root).
			Build()
	}

	var docs []*Document
	err = filepath.WalkDir(l.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == l.root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if l.skipped(p) {
				l.logger.Debug("Skipping excluded directory", logfields.Path(p))
				return filepath.SkipDir
			}
			return nil
		}
		if !isSourceFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		doc, err := l.loadFile(p, filepath.ToSlash(rel))
		if err != nil {
			l.logger.Warn("Skipping unreadable document",
				logfields.Document(filepath.ToSlash(rel)),
				logfields.Error(err))
			return nil
		}
		if doc != nil {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to walk content source root").
			Fatal().
			WithContext("path", l.root).
			Build()
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].SourcePath < docs[j].SourcePath })
	l.logger.Debug("Loaded documents", logfields.Count(len(docs)), logfields.Path(l.root))
	return docs, nil
}

// loadFile parses and renders one source file. It returns nil for drafts.
func (l *Loader) loadFile(absPath, rel string) (*Document, error) {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	fm := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return nil, err
	}
	fm = normalizeMap(fm)
	if boolField(fm, "draft") {
		l.logger.Debug("Skipping draft", logfields.Document(rel))
		return nil, nil
	}

	rendered := string(body)
	if strings.ToLower(path.Ext(rel)) != ".html" {
		var buf bytes.Buffer
		if err := l.markdown.Convert(body, &buf); err != nil {
			return nil, err
		}
		rendered = buf.String()
	}

	doc := &Document{
		SourcePath:  rel,
		OutputPath:  ResolveOutputPath(rel, stringField(fm, "permalink")),
		Layout:      stringField(fm, "layout"),
		Tags:        tagsField(fm, "tags"),
		Title:       stringField(fm, "title"),
		Date:        dateField(fm, "date"),
		FrontMatter: fm,
		Content:     rendered,
	}
	if doc.Title == "" {
		doc.Title = l.titleFromName(rel)
	}
	return doc, nil
}

func (l *Loader) titleFromName(rel string) string {
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if name == "index" {
		if dir := path.Dir(rel); dir != "." {
			name = path.Base(dir)
		}
	}
	return l.title.String(strings.NewReplacer("-", " ", "_", " ").Replace(name))
}

// ResolveOutputPath derives the output path of a source file. A permalink
// wins; index files keep their directory; everything else gets a directory
// named after the file: posts/foo.md becomes posts/foo/index.html.
func ResolveOutputPath(sourcePath, permalink string) string {
	if permalink != "" {
		p := NormalizePath(permalink)
		switch {
		case p == "" || p == ".":
			return indexFile
		case strings.HasSuffix(permalink, "/") || path.Ext(p) == "":
			return path.Join(p, indexFile)
		default:
			return p
		}
	}

	dir := path.Dir(sourcePath)
	name := strings.TrimSuffix(path.Base(sourcePath), path.Ext(sourcePath))
	if name == "index" {
		return NormalizePath(path.Join(dir, indexFile))
	}
	return NormalizePath(path.Join(dir, name, indexFile))
}

func isSourceFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range sourceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (l *Loader) skipped(dir string) bool {
	if len(l.skip) == 0 {
		return false
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	for _, s := range l.skip {
		if abs == s {
			return true
		}
	}
	return false
}
