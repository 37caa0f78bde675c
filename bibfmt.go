// Package bibfmt formats bibliography entries: it expands field templates
// such as "[author:lower] ([year])", formats BibTeX name lists, manages
// linked files and renders whole databases through templates.
//
// The root package re-exports the common types and wires the internal
// implementations; the building blocks live under pkg/.
package bibfmt

import (
	"github.com/goliatone/go-bibfmt/pkg/entry"
	"github.com/goliatone/go-bibfmt/pkg/expand"
	"github.com/goliatone/go-bibfmt/pkg/linkedfile"
	"github.com/goliatone/go-bibfmt/pkg/transform"
)

// Record is anything the expander can read fields from.
type Record = entry.Record

// Lookup resolves crossrefs and string constants during expansion.
type Lookup = entry.Lookup

// Entry is the in-memory bibliography entry.
type Entry = entry.Entry

// Database is a keyed collection of entries plus string constants.
type Database = entry.Database

// Expander expands field templates.
type Expander = expand.Expander

// Registry holds the named transforms.
type Registry = transform.Registry

// LinkedFile is one attachment of an entry.
type LinkedFile = linkedfile.LinkedFile

// NewEntry constructs an entry with the given type and citation key.
func NewEntry(typ, key string) *Entry {
	return entry.New(typ, key)
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return entry.NewDatabase()
}

// DecodeDatabase decodes a JSON, YAML or TOML database document.
func DecodeDatabase(data []byte, source string) (*Database, error) {
	return entry.Decode(data, source)
}

// NewExpander builds an expander; a nil registry means the built-ins.
func NewExpander(registry *Registry, opts ...expand.Option) *Expander {
	return expand.New(registry, opts...)
}

// Expand replaces every [field] or [field:transform] token of template with
// the matching value of rec, using the built-in transforms. db may be nil.
func Expand(template string, rec Record, db Lookup) string {
	return expand.New(nil).Expand(template, rec, db)
}
