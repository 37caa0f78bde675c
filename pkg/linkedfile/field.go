package linkedfile

import "strings"

// ParseField decodes a file field value. Files are separated by ';' and the
// attributes of a file by ':' in the order description, link, type and
// source URL. A backslash escapes the next character. An element with a
// single attribute is a bare link. Empty elements are dropped.
func ParseField(value string) []LinkedFile {
	var (
		files   []LinkedFile
		current []string
		buf     strings.Builder
	)

	flushAttr := func() {
		current = append(current, buf.String())
		buf.Reset()
	}
	flushFile := func() {
		flushAttr()
		if f := fromAttributes(current); !f.IsEmpty() {
			files = append(files, f)
		}
		current = nil
	}

	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '\\' && i+1 < len(value):
			i++
			buf.WriteByte(value[i])
		case c == ':':
			flushAttr()
		case c == ';':
			flushFile()
		default:
			buf.WriteByte(c)
		}
	}
	flushFile()
	return files
}

func fromAttributes(attrs []string) LinkedFile {
	if len(attrs) == 1 {
		return LinkedFile{Link: strings.TrimSpace(attrs[0])}
	}

	var f LinkedFile
	for idx, attr := range attrs {
		switch idx {
		case 0:
			f.Description = attr
		case 1:
			f.Link = strings.TrimSpace(attr)
		case 2:
			f.FileType = strings.TrimSpace(attr)
		case 3:
			f.SourceURL = strings.TrimSpace(attr)
		default:
			// Unescaped colons inside a trailing URL.
			f.SourceURL += ":" + attr
		}
	}
	return f
}

// FormatField encodes files for storage in the file field. The source URL
// is written only when set. Empty files are skipped.
func FormatField(files []LinkedFile) string {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsEmpty() {
			continue
		}
		attrs := []string{escape(f.Description), escape(f.Link), escape(f.FileType)}
		if f.SourceURL != "" {
			attrs = append(attrs, escape(f.SourceURL))
		}
		parts = append(parts, strings.Join(attrs, ":"))
	}
	return strings.Join(parts, ";")
}

var fieldEscaper = strings.NewReplacer(`\`, `\\`, `:`, `\:`, `;`, `\;`)

func escape(s string) string {
	return fieldEscaper.Replace(s)
}
