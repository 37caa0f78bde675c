// Package gotemplate implements template.TemplateRenderer on top of pongo2.
//
// Template data is handed to pongo2 as is: maps, slices, structs and
// pointers such as *entry.Entry keep their identity, so filters receive the
// same values the caller put in. Data must be a map, a pongo2.Context or a
// template.ContextProvider.
package gotemplate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-bibfmt/pkg/render/template"
)

// DefaultExtension is appended to template names that lack it.
const DefaultExtension = ".tpl"

// Option configures an Engine.
type Option func(*settings)

type settings struct {
	dir     string
	files   fs.FS
	ext     string
	filters map[string]template.Filter
	funcs   map[string]any
	globals map[string]any
}

// WithBaseDir searches dir before any fs.FS source.
func WithBaseDir(dir string) Option {
	return func(s *settings) { s.dir = strings.TrimSpace(dir) }
}

// WithFS searches files for templates.
func WithFS(files fs.FS) Option {
	return func(s *settings) { s.files = files }
}

// WithExtension overrides DefaultExtension. The leading dot is optional.
func WithExtension(ext string) Option {
	return func(s *settings) {
		ext = strings.TrimSpace(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext != "" {
			s.ext = ext
		}
	}
}

// WithFilter registers a filter when the engine is built.
func WithFilter(name string, fn template.Filter) Option {
	return func(s *settings) { s.filters[strings.TrimSpace(name)] = fn }
}

// WithFunc exposes a Go function to templates, e.g. {{ initials(first) }}.
func WithFunc(name string, fn any) Option {
	return func(s *settings) { s.funcs[strings.TrimSpace(name)] = fn }
}

// WithGlobals seeds values every template sees.
func WithGlobals(values map[string]any) Option {
	return func(s *settings) {
		for key, value := range values {
			s.globals[key] = value
		}
	}
}

// Engine renders templates from a directory and/or an fs.FS. Parsed files
// are cached by the underlying template set.
type Engine struct {
	mu  sync.RWMutex
	set *pongo2.TemplateSet
	ext string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. At least one template source is required.
func New(options ...Option) (*Engine, error) {
	s := &settings{
		ext:     DefaultExtension,
		filters: map[string]template.Filter{},
		funcs:   map[string]any{},
		globals: map[string]any{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	var loaders []pongo2.TemplateLoader
	if s.dir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(s.dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: template dir %s: %w", s.dir, err)
		}
		loaders = append(loaders, local)
	}
	if s.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(s.files))
	}
	if len(loaders) == 0 {
		return nil, errors.New("gotemplate: a template directory or fs.FS is required")
	}

	e := &Engine{set: pongo2.NewSet("bibfmt", loaders...), ext: s.ext}
	e.set.Globals = pongo2.Context{}

	for name, fn := range builtinFilters {
		if !pongo2.FilterExists(name) {
			if err := pongo2.RegisterFilter(name, adaptFilter(name, fn)); err != nil {
				return nil, fmt.Errorf("gotemplate: filter %s: %w", name, err)
			}
		}
	}
	for name, fn := range s.filters {
		if err := e.RegisterFilter(name, fn); err != nil {
			return nil, err
		}
	}
	for name, fn := range s.funcs {
		if name == "" || fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
			return nil, fmt.Errorf("gotemplate: func %q must be a non-nil function, got %T", name, fn)
		}
		e.set.Globals[name] = fn
	}
	if err := e.GlobalContext(s.globals); err != nil {
		return nil, err
	}
	return e, nil
}

// Render renders inline text when name contains template tags and the named
// template otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders a template from the configured sources; the
// extension may be omitted.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tpl, err := e.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("gotemplate: load %s: %w", name, err)
	}
	return e.execute(name, tpl, data, out)
}

// RenderString renders inline template text.
func (e *Engine) RenderString(text string, data any, out ...io.Writer) (string, error) {
	tpl, err := e.set.FromString(text)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse inline template: %w", err)
	}
	return e.execute("inline template", tpl, data, out)
}

func (e *Engine) execute(label string, tpl *pongo2.Template, data any, out []io.Writer) (string, error) {
	ctx, err := contextFrom(data)
	if err != nil {
		return "", err
	}

	e.mu.RLock()
	rendered, err := tpl.Execute(ctx)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: render %s: %w", label, err)
	}

	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", fmt.Errorf("gotemplate: write %s: %w", label, err)
		}
	}
	return rendered, nil
}

// RegisterFilter installs fn under name, replacing a filter of that name.
// pongo2 filters are shared by every engine in the process.
func (e *Engine) RegisterFilter(name string, fn template.Filter) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return pongo2.ReplaceFilter(name, adaptFilter(name, fn))
	}
	return pongo2.RegisterFilter(name, adaptFilter(name, fn))
}

// GlobalContext merges data into the globals. Later values win.
func (e *Engine) GlobalContext(data any) error {
	ctx, err := contextFrom(data)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.set.Globals.Update(ctx)
	e.mu.Unlock()
	return nil
}

func adaptFilter(name string, fn template.Filter) pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil && !param.IsNil() {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}
}

func contextFrom(data any) (pongo2.Context, error) {
	var values map[string]any
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		values = v
	case map[string]any:
		values = v
	case map[string]string:
		values = make(map[string]any, len(v))
		for key, value := range v {
			values[key] = value
		}
	case template.ContextProvider:
		values = v.TemplateContext()
	default:
		return nil, fmt.Errorf("gotemplate: cannot use %T as template data", data)
	}

	ctx := make(pongo2.Context, len(values))
	for key, value := range values {
		if key = strings.TrimSpace(key); key != "" {
			ctx[key] = value
		}
	}
	return ctx, nil
}

var builtinFilters = map[string]template.Filter{
	"trim":    func(in, _ any) (any, error) { return strings.TrimSpace(text(in)), nil },
	"unbrace": func(in, _ any) (any, error) { return braces.Replace(text(in)), nil },
}

// braces are BibTeX grouping characters, meaningless in rendered output.
var braces = strings.NewReplacer("{", "", "}", "")

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
