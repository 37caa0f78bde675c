// Package export renders bibliography databases through a template renderer.
//
// Templates receive:
//
//	entries  list of {key, type, fields, record}; field values have #name#
//	         constants resolved, record is the *entry.Entry itself
//	strings  the database string constants
//	count    number of entries
//
// and the filters:
//
//	bib_expand:"[author] ([year])"   expand a field template against an entry
//	bib_field:"journal"              resolve one field, crossref included
//	bib_<transform>[:arg]            apply one registry transform to a value
//
// The filters read the expander and database of the Exporter render in
// progress. Used through a renderer directly, outside Exporter.Render and
// RenderEntry, they fall back to the built-in transforms and no database.
//
// pongo2 escapes HTML by default; wrap plain-text exports in
// {% autoescape off %}.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-bibfmt/pkg/entry"
	"github.com/goliatone/go-bibfmt/pkg/expand"
	"github.com/goliatone/go-bibfmt/pkg/render/template"
	"github.com/goliatone/go-bibfmt/pkg/transform"
)

// Filter names registered besides the per-transform filters.
const (
	FilterPrefix = "bib_"
	FilterExpand = FilterPrefix + "expand"
	FilterField  = FilterPrefix + "field"
)

// renderMu serialises Exporter renders: pongo2 filters are process-wide,
// so each render publishes its expander and database through active.
var (
	renderMu sync.Mutex
	active   atomic.Pointer[renderState]
)

type renderState struct {
	expander *expand.Expander
	db       *entry.Database
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithExpander sets the expander (and so the transform registry) the
// filters use. Defaults to expand.New(nil).
func WithExpander(exp *expand.Expander) Option {
	return func(x *Exporter) {
		if exp != nil {
			x.expander = exp
		}
	}
}

// Exporter binds a renderer to an expander.
type Exporter struct {
	renderer template.TemplateRenderer
	expander *expand.Expander
	filters  []string
}

// New registers the bib_* filters on renderer and returns the exporter.
func New(renderer template.TemplateRenderer, opts ...Option) (*Exporter, error) {
	if renderer == nil {
		return nil, errors.New("export: renderer is required")
	}
	x := &Exporter{renderer: renderer}
	for _, opt := range opts {
		if opt != nil {
			opt(x)
		}
	}
	if x.expander == nil {
		x.expander = expand.New(nil)
	}

	renderMu.Lock()
	defer renderMu.Unlock()

	if err := renderer.RegisterFilter(FilterExpand, filterExpand); err != nil {
		return nil, fmt.Errorf("export: register %s: %w", FilterExpand, err)
	}
	if err := renderer.RegisterFilter(FilterField, filterField); err != nil {
		return nil, fmt.Errorf("export: register %s: %w", FilterField, err)
	}
	x.filters = []string{FilterExpand, FilterField}

	for _, name := range x.expander.Registry().List() {
		filterName := FilterName(name)
		if filterName == FilterExpand || filterName == FilterField {
			continue
		}
		if err := renderer.RegisterFilter(filterName, transformFilter(name)); err != nil {
			return nil, fmt.Errorf("export: register %s: %w", filterName, err)
		}
		x.filters = append(x.filters, filterName)
	}
	return x, nil
}

// Filters lists the filter names the exporter registered.
func (x *Exporter) Filters() []string {
	return append([]string(nil), x.filters...)
}

// Render renders a named template, or inline template text, for db.
func (x *Exporter) Render(ctx context.Context, name string, db *entry.Database, out ...io.Writer) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return x.render(name, Data(db), db, out)
}

// RenderEntry renders a template for one entry, exposed as "entry".
func (x *Exporter) RenderEntry(ctx context.Context, name string, e *entry.Entry, db *entry.Database, out ...io.Writer) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e == nil {
		return "", errors.New("export: entry is required")
	}
	return x.render(name, map[string]any{"entry": EntryData(e, db)}, db, out)
}

func (x *Exporter) render(name string, data map[string]any, db *entry.Database, out []io.Writer) (string, error) {
	renderMu.Lock()
	active.Store(&renderState{expander: x.expander, db: db})
	defer func() {
		active.Store(nil)
		renderMu.Unlock()
	}()

	rendered, err := x.renderer.Render(name, data, out...)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return rendered, nil
}

// Data builds the template context for db.
func Data(db *entry.Database) map[string]any {
	entries := db.Entries()
	list := make([]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, EntryData(e, db))
	}

	constants := make(map[string]any)
	for _, name := range db.StringNames() {
		if value, ok := db.StringConstant(name); ok {
			constants[name] = value
		}
	}

	return map[string]any{
		"entries": list,
		"strings": constants,
		"count":   len(list),
	}
}

// EntryData is the template view of one entry.
func EntryData(e *entry.Entry, db *entry.Database) map[string]any {
	key, _ := e.CitationKey()
	fields := make(map[string]any)
	for _, name := range e.FieldNames() {
		if value, ok := entry.ResolveField(e, name, lookup(db)); ok {
			fields[name] = value
		}
	}
	return map[string]any{
		"key":    key,
		"type":   e.Type(),
		"fields": fields,
		"record": e,
	}
}

// FilterName maps a transform name onto a pongo2 identifier.
func FilterName(transformName string) string {
	var b strings.Builder
	b.WriteString(FilterPrefix)
	for _, r := range strings.ToLower(transformName) {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

func current() *renderState {
	if state := active.Load(); state != nil {
		return state
	}
	return &renderState{expander: expand.New(nil)}
}

func filterExpand(input any, param any) (any, error) {
	state := current()
	tpl, ok := param.(string)
	if !ok {
		return nil, fmt.Errorf("export: %s needs a template string", FilterExpand)
	}
	rec, err := recordFrom(input, state.db)
	if err != nil {
		return nil, err
	}
	return state.expander.Expand(tpl, rec, lookup(state.db)), nil
}

func filterField(input any, param any) (any, error) {
	state := current()
	name, ok := param.(string)
	if !ok {
		return nil, fmt.Errorf("export: %s needs a field name", FilterField)
	}
	rec, err := recordFrom(input, state.db)
	if err != nil {
		return nil, err
	}
	value, _ := entry.ResolveField(rec, name, lookup(state.db))
	return value, nil
}

func transformFilter(name string) template.Filter {
	return func(input any, param any) (any, error) {
		call := transform.Call{Name: name}
		if param != nil {
			call.Arg = fmt.Sprint(param)
			call.HasArg = true
		}
		fn, ok := current().expander.Registry().Resolve(call)
		if !ok {
			return nil, fmt.Errorf("export: transform %s does not resolve", call)
		}
		return fn(stringValue(input)), nil
	}
}

// recordFrom accepts an entry view, a citation key or an *entry.Entry. Views
// built by EntryData carry their entry; other maps are read field by field.
func recordFrom(input any, db *entry.Database) (entry.Record, error) {
	switch v := input.(type) {
	case *entry.Entry:
		return v, nil
	case string:
		if e, ok := db.Entry(v); ok {
			return e, nil
		}
		return nil, fmt.Errorf("export: no entry with key %q", v)
	case map[string]any:
		if e, ok := v["record"].(*entry.Entry); ok && e != nil {
			return e, nil
		}
		key := stringValue(v["key"])
		if e, ok := db.Entry(key); ok {
			return e, nil
		}
		e := entry.New(stringValue(v["type"]), key)
		if fields, ok := v["fields"].(map[string]any); ok {
			for name, value := range fields {
				e.Set(name, stringValue(value))
			}
		}
		return e, nil
	default:
		return nil, fmt.Errorf("export: cannot use %T as an entry", input)
	}
}

// lookup avoids handing a typed nil *Database to the entry.Lookup interface.
func lookup(db *entry.Database) entry.Lookup {
	if db == nil {
		return nil
	}
	return db
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
