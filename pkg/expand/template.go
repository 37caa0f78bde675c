package expand

import (
	"strings"

	"github.com/goliatone/go-bibfmt/pkg/transform"
)

// Template is a parsed field template. It is immutable and may be executed
// concurrently against many records.
type Template struct {
	source   string
	segments []segment
}

type segment struct {
	literal string
	field   *fieldRef
}

type fieldRef struct {
	name  string
	calls []transform.Call
	// invalid marks a transform part that names nothing usable, for
	// example "[author:,]". Such tokens always expand to "".
	invalid bool
}

// Compile parses a template. Text outside brackets is literal; a "[" opens a
// token closed by the next "]". An unterminated token discards the rest of
// the template while keeping the literal text before it.
func Compile(template string) Template {
	t := Template{source: template}
	rest := template

	for rest != "" {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			t.appendLiteral(rest)
			break
		}
		t.appendLiteral(rest[:open])

		closing := strings.IndexByte(rest[open+1:], ']')
		if closing < 0 {
			break
		}
		spec := rest[open+1 : open+1+closing]
		ref := parseFieldSpec(spec)
		t.segments = append(t.segments, segment{field: &ref})
		rest = rest[open+closing+2:]
	}
	return t
}

func (t *Template) appendLiteral(text string) {
	if text == "" {
		return
	}
	t.segments = append(t.segments, segment{literal: text})
}

// parseFieldSpec splits "name[:transforms]" on the first colon.
func parseFieldSpec(spec string) fieldRef {
	var ref fieldRef
	name, transforms, hasTransform := strings.Cut(spec, ":")
	ref.name = strings.TrimSpace(name)
	if !hasTransform {
		return ref
	}

	transforms = strings.TrimSpace(transforms)
	if transforms == "" {
		return ref
	}
	ref.calls = transform.ParseCalls(transforms)
	if len(ref.calls) == 0 {
		ref.invalid = true
	}
	return ref
}

// String returns the source the template was compiled from.
func (t Template) String() string {
	return t.source
}

// Fields lists the distinct field names referenced by the template in order
// of first appearance, lower-cased.
func (t Template) Fields() []string {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	for _, seg := range t.segments {
		if seg.field == nil || seg.field.name == "" {
			continue
		}
		name := strings.ToLower(seg.field.name)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// HasFields reports whether the template contains at least one token.
func (t Template) HasFields() bool {
	for _, seg := range t.segments {
		if seg.field != nil {
			return true
		}
	}
	return false
}
