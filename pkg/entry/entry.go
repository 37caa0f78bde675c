package entry

import (
	"sort"
	"strings"
)

// Record exposes named field values and a citation key. Implementations must
// treat field names case-insensitively.
type Record interface {
	Field(name string) (string, bool)
	CitationKey() (string, bool)
}

// Typed is implemented by records that know their entry type (article,
// book, ...). It backs the bibtextype pseudo-field.
type Typed interface {
	Type() string
}

// Lookup is the database context a record is resolved against.
type Lookup interface {
	EntryByKey(key string) (Record, bool)
	StringConstant(name string) (string, bool)
}

// Entry is the in-memory Record implementation.
type Entry struct {
	typ    string
	key    string
	fields map[string]string
}

var _ Record = (*Entry)(nil)
var _ Typed = (*Entry)(nil)

// New constructs an entry with the given type and citation key.
func New(typ, key string) *Entry {
	return &Entry{
		typ:    strings.ToLower(strings.TrimSpace(typ)),
		key:    strings.TrimSpace(key),
		fields: make(map[string]string),
	}
}

// Set stores a field value and returns the entry for chaining. Blank names
// are ignored.
func (e *Entry) Set(name, value string) *Entry {
	name = normalizeName(name)
	if name == "" {
		return e
	}
	if e.fields == nil {
		e.fields = make(map[string]string)
	}
	e.fields[name] = value
	return e
}

// Clear removes a field.
func (e *Entry) Clear(name string) {
	if e == nil {
		return
	}
	delete(e.fields, normalizeName(name))
}

// Field returns the stored value for name.
func (e *Entry) Field(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	value, ok := e.fields[normalizeName(name)]
	return value, ok
}

// CitationKey reports the entry key; entries without one report false.
func (e *Entry) CitationKey() (string, bool) {
	if e == nil || e.key == "" {
		return "", false
	}
	return e.key, true
}

// SetCitationKey replaces the entry key.
func (e *Entry) SetCitationKey(key string) {
	e.key = strings.TrimSpace(key)
}

// Type returns the lower-cased entry type.
func (e *Entry) Type() string {
	if e == nil {
		return ""
	}
	return e.typ
}

// FieldNames lists the stored field names in sorted order.
func (e *Entry) FieldNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fields returns a copy of the field map.
func (e *Entry) Fields() map[string]string {
	if e == nil {
		return nil
	}
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
