// Package expand substitutes bracketed field references in templates such as
// "[author] ([year]) [title:lower]" with values taken from a record.
//
// Expansion never fails. A token whose field is missing, whose name is empty
// or whose transform is unknown contributes the empty string; everything
// outside brackets is copied as is.
package expand

import (
	"strings"

	"github.com/goliatone/go-bibfmt/pkg/entry"
	"github.com/goliatone/go-bibfmt/pkg/transform"
)

// Option customises an Expander.
type Option func(*Expander)

// WithValueFilter post-processes every substituted value. Literal template
// text is never filtered.
func WithValueFilter(fn func(string) string) Option {
	return func(e *Expander) {
		e.filter = fn
	}
}

// Expander resolves templates against records using a transform registry.
// It holds no mutable state and is safe for concurrent use.
type Expander struct {
	registry *transform.Registry
	filter   func(string) string
}

// New builds an expander. A nil registry selects transform.Default().
func New(registry *transform.Registry, opts ...Option) *Expander {
	if registry == nil {
		registry = transform.Default()
	}
	e := &Expander{registry: registry}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Registry exposes the transform registry in use.
func (e *Expander) Registry() *transform.Registry {
	return e.registry
}

// Expand resolves every token of template against rec. db supplies crossref
// parents and string constants and may be nil.
func (e *Expander) Expand(template string, rec entry.Record, db entry.Lookup) string {
	if !strings.Contains(template, "[") {
		return template
	}
	return Compile(template).Execute(e, rec, db)
}

// ResolveFieldAndFormat resolves a single field spec, either bracketed
// ("[author:lower]") or plain ("author:lower"). It reports false when the
// field is missing or a transform does not resolve.
func (e *Expander) ResolveFieldAndFormat(spec string, rec entry.Record, db entry.Lookup) (string, bool) {
	spec = strings.TrimSpace(spec)
	if strings.HasPrefix(spec, "[") && strings.HasSuffix(spec, "]") {
		spec = spec[1 : len(spec)-1]
	}
	ref := parseFieldSpec(spec)
	return e.resolve(ref, rec, db)
}

// Execute expands a compiled template. A nil expander uses the default
// registry.
func (t Template) Execute(e *Expander, rec entry.Record, db entry.Lookup) string {
	if e == nil {
		e = New(nil)
	}

	var b strings.Builder
	b.Grow(len(t.source))
	for _, seg := range t.segments {
		if seg.field == nil {
			b.WriteString(seg.literal)
			continue
		}
		value, ok := e.resolve(*seg.field, rec, db)
		if !ok {
			continue
		}
		if e.filter != nil {
			value = e.filter(value)
		}
		b.WriteString(value)
	}
	return b.String()
}

func (e *Expander) resolve(ref fieldRef, rec entry.Record, db entry.Lookup) (string, bool) {
	if ref.name == "" || ref.invalid {
		return "", false
	}
	value, ok := entry.ResolveField(rec, ref.name, db)
	if !ok {
		return "", false
	}
	if len(ref.calls) == 0 {
		return value, true
	}
	return e.registry.Apply(value, ref.calls)
}
