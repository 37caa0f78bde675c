package entry

import "strings"

// Pseudo-field and reserved field names understood by ResolveField.
const (
	FieldCitationKey = "bibtexkey"
	FieldType        = "bibtextype"
	FieldEntryType   = "entrytype"
	FieldCrossref    = "crossref"
)

// maxStringDepth bounds nested @string expansion so self-referencing
// constants terminate.
const maxStringDepth = 8

// ResolveField looks a field up on rec the way a database context would:
// pseudo-fields first, then the record, then its crossref parent. String
// constant references (#name#) in the value are expanded against db.
func ResolveField(rec Record, name string, db Lookup) (string, bool) {
	if rec == nil {
		return "", false
	}
	name = normalizeName(name)
	if name == "" {
		return "", false
	}

	switch name {
	case FieldCitationKey:
		return rec.CitationKey()
	case FieldType, FieldEntryType:
		if typed, ok := rec.(Typed); ok {
			if typ := typed.Type(); typ != "" {
				return typ, true
			}
		}
		return "", false
	}

	value, ok := rec.Field(name)
	if !ok && db != nil && name != FieldCrossref {
		value, ok = crossrefField(rec, name, db)
	}
	if !ok {
		return "", false
	}
	return ResolveStrings(value, db), true
}

func crossrefField(rec Record, name string, db Lookup) (string, bool) {
	ref, ok := rec.Field(FieldCrossref)
	if !ok {
		return "", false
	}
	ref = trimKey(ref)
	if ref == "" {
		return "", false
	}
	if key, ok := rec.CitationKey(); ok && key == ref {
		return "", false
	}
	parent, ok := db.EntryByKey(ref)
	if !ok || parent == nil {
		return "", false
	}
	return parent.Field(name)
}

// ResolveStrings replaces #name# references with the matching constants from
// db. Unknown references are kept verbatim.
func ResolveStrings(value string, db Lookup) string {
	return resolveStrings(value, db, 0)
}

func resolveStrings(value string, db Lookup, depth int) string {
	if db == nil || depth >= maxStringDepth || !strings.Contains(value, "#") {
		return value
	}

	var out strings.Builder
	rest := value
	for {
		start := strings.IndexByte(rest, '#')
		if start < 0 {
			out.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start+1:], '#')
		if end < 0 {
			out.WriteString(rest)
			break
		}
		end += start + 1

		out.WriteString(rest[:start])
		name := rest[start+1 : end]
		if replacement, ok := lookupConstant(db, name); ok {
			out.WriteString(resolveStrings(replacement, db, depth+1))
			rest = rest[end+1:]
			continue
		}
		// Keep the opening marker and retry from the closing one so
		// "a # b #c#" still resolves the trailing reference.
		out.WriteString(rest[start:end])
		rest = rest[end:]
	}
	return out.String()
}

func lookupConstant(db Lookup, name string) (string, bool) {
	if name == "" || strings.ContainsAny(name, " \t\r\n") {
		return "", false
	}
	return db.StringConstant(name)
}
