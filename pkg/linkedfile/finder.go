package linkedfile

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-bibfmt/pkg/entry"
	"github.com/goliatone/go-bibfmt/pkg/expand"
	"github.com/goliatone/go-bibfmt/pkg/filetype"
	"github.com/goliatone/go-bibfmt/pkg/transform"
)

// DefaultPattern matches any file named after the citation key below a file
// directory.
const DefaultPattern = "**/[bibtexkey].*"

// FinderOption customises a Finder.
type FinderOption func(*Finder)

// WithPatterns replaces the search patterns. Patterns are slash-separated
// globs relative to each directory and may contain field tokens.
func WithPatterns(patterns ...string) FinderOption {
	return func(f *Finder) {
		f.patterns = append([]string(nil), patterns...)
	}
}

// WithFileTypes sets the registry used to type the matches.
func WithFileTypes(reg *filetype.Registry) FinderOption {
	return func(f *Finder) {
		if reg != nil {
			f.types = reg
		}
	}
}

// WithTransforms sets the registry used when expanding patterns.
func WithTransforms(reg *transform.Registry) FinderOption {
	return func(f *Finder) {
		f.transforms = reg
	}
}

// WithFileSystem overrides how a directory is opened. Defaults to os.DirFS.
func WithFileSystem(open func(dir string) fs.FS) FinderOption {
	return func(f *Finder) {
		if open != nil {
			f.open = open
		}
	}
}

// Finder looks for files belonging to an entry below a set of directories.
type Finder struct {
	dirs       []string
	patterns   []string
	types      *filetype.Registry
	transforms *transform.Registry
	open       func(dir string) fs.FS

	expander *expand.Expander
}

// NewFinder builds a finder searching dirs in order.
func NewFinder(dirs []string, opts ...FinderOption) *Finder {
	f := &Finder{
		dirs:     append([]string(nil), dirs...),
		patterns: []string{DefaultPattern},
		types:    filetype.NewDefault(),
		open:     os.DirFS,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.expander = expand.New(f.transforms, expand.WithValueFilter(escapeGlob))
	return f
}

// Find returns the files matching any pattern, typed by extension and
// relativized against the directories. Patterns referencing a field the
// record lacks are skipped so "**/[bibtexkey].*" never matches every dotfile.
func (f *Finder) Find(ctx context.Context, rec entry.Record, db entry.Lookup) ([]LinkedFile, error) {
	if rec == nil {
		return nil, fmt.Errorf("linkedfile: record is required")
	}

	var (
		out  []LinkedFile
		seen = make(map[string]struct{})
	)
	for _, pattern := range f.patterns {
		tmpl := expand.Compile(pattern)
		if !fieldsPresent(tmpl, rec, db) {
			continue
		}
		glob := tmpl.Execute(f.expander, rec, db)
		if !doublestar.ValidatePattern(glob) {
			return nil, fmt.Errorf("linkedfile: invalid pattern %q (from %q)", glob, pattern)
		}

		for _, dir := range f.dirs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if strings.TrimSpace(dir) == "" {
				continue
			}
			matches, err := doublestar.Glob(f.open(dir), glob, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("linkedfile: search %s: %w", dir, err)
			}
			for _, match := range matches {
				abs := filepath.Join(dir, filepath.FromSlash(match))
				link := Relativize(abs, f.dirs)
				if _, dup := seen[link]; dup {
					continue
				}
				seen[link] = struct{}{}

				file := LinkedFile{Link: link}
				if t, ok := f.types.ForFileName(path.Base(match)); ok {
					file.FileType = t.Name
				}
				out = append(out, file)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Link < out[j].Link })
	return out, nil
}

func fieldsPresent(tmpl expand.Template, rec entry.Record, db entry.Lookup) bool {
	for _, name := range tmpl.Fields() {
		value, ok := entry.ResolveField(rec, name, db)
		if !ok || strings.TrimSpace(value) == "" {
			return false
		}
	}
	return true
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
)

// escapeGlob quotes doublestar metacharacters in substituted values. Path
// separators are replaced so a field value never adds directory levels.
func escapeGlob(value string) string {
	value = strings.ReplaceAll(value, "/", "_")
	return globEscaper.Replace(value)
}
