// Package filetype describes the external file types a linked file can have
// and guesses them from file names, links and MIME types.
package filetype

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
)

// Type is an external file type such as PDF or HTML.
type Type struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Extension   string `json:"extension" yaml:"extension" toml:"extension"`
	MimeType    string `json:"mimeType,omitempty" yaml:"mimeType,omitempty" toml:"mimeType,omitempty"`
	Application string `json:"application,omitempty" yaml:"application,omitempty" toml:"application,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`

	unknown bool
}

// Unknown builds the placeholder for a type name the registry does not know.
func Unknown(name string) Type {
	return Type{Name: name, Icon: "file", unknown: true}
}

// IsUnknown reports whether t is a placeholder built by Unknown.
func (t Type) IsUnknown() bool {
	return t.unknown
}

// String returns the type name, the value stored in a linked file.
func (t Type) String() string {
	return t.Name
}

// Registry holds the known file types in registration order.
type Registry struct {
	mu    sync.RWMutex
	types []Type
}

// New creates a registry holding types. Invalid or duplicate entries are
// skipped; use Register to see the errors.
func New(types ...Type) *Registry {
	r := &Registry{}
	for _, t := range types {
		_ = r.Register(t)
	}
	return r
}

// NewDefault creates a registry with the standard types.
func NewDefault() *Registry {
	return New(Defaults()...)
}

// Defaults returns the standard file types.
func Defaults() []Type {
	return []Type{
		{Name: "PDF", Extension: "pdf", MimeType: "application/pdf", Icon: "pdf"},
		{Name: "PostScript", Extension: "ps", MimeType: "application/postscript", Icon: "postscript"},
		{Name: "Word", Extension: "doc", MimeType: "application/msword", Icon: "word"},
		{Name: "Word 2007+", Extension: "docx", MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Icon: "word"},
		{Name: "OpenDocument text", Extension: "odt", MimeType: "application/vnd.oasis.opendocument.text", Icon: "opendocument"},
		{Name: "Excel", Extension: "xls", MimeType: "application/excel", Icon: "excel"},
		{Name: "Excel 2007+", Extension: "xlsx", MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Icon: "excel"},
		{Name: "OpenDocument spreadsheet", Extension: "ods", MimeType: "application/vnd.oasis.opendocument.spreadsheet", Icon: "opendocument"},
		{Name: "PowerPoint", Extension: "ppt", MimeType: "application/vnd.ms-powerpoint", Icon: "powerpoint"},
		{Name: "PowerPoint 2007+", Extension: "pptx", MimeType: "application/vnd.openxmlformats-officedocument.presentationml.presentation", Icon: "powerpoint"},
		{Name: "OpenDocument presentation", Extension: "odp", MimeType: "application/vnd.oasis.opendocument.presentation", Icon: "opendocument"},
		{Name: "Rich Text Format", Extension: "rtf", MimeType: "application/rtf", Icon: "text"},
		{Name: "PNG image", Extension: "png", MimeType: "image/png", Icon: "picture"},
		{Name: "GIF image", Extension: "gif", MimeType: "image/gif", Icon: "picture"},
		{Name: "JPG image", Extension: "jpg", MimeType: "image/jpeg", Icon: "picture"},
		{Name: "Djvu", Extension: "djvu", MimeType: "image/vnd.djvu", Icon: "djvu"},
		{Name: "Text", Extension: "txt", MimeType: "text/plain", Icon: "text"},
		{Name: "LaTeX", Extension: "tex", MimeType: "application/x-latex", Icon: "text"},
		{Name: "CHM", Extension: "chm", MimeType: "application/mshelp", Icon: "www"},
		{Name: "TIFF image", Extension: "tiff", MimeType: "image/tiff", Icon: "picture"},
		{Name: "URL", Extension: "html", MimeType: "text/html", Icon: "www"},
		{Name: "MHT", Extension: "mht", MimeType: "multipart/related", Icon: "www"},
		{Name: "ePUB", Extension: "epub", MimeType: "application/epub+zip", Icon: "epub"},
		{Name: "Markdown", Extension: "md", MimeType: "text/markdown", Icon: "text"},
	}
}

// Register adds a type. Names and extensions are compared case-insensitively
// and must be unique.
func (r *Registry) Register(t Type) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Extension = normaliseExtension(t.Extension)
	t.MimeType = strings.TrimSpace(t.MimeType)
	t.unknown = false
	if t.Name == "" {
		return fmt.Errorf("filetype: name is required")
	}
	if t.Extension == "" {
		return fmt.Errorf("filetype: extension for %q is required", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.types {
		if strings.EqualFold(existing.Name, t.Name) {
			return fmt.Errorf("filetype: %q already registered", t.Name)
		}
		if existing.Extension == t.Extension {
			return fmt.Errorf("filetype: extension %q already registered by %q", t.Extension, existing.Name)
		}
	}
	r.types = append(r.types, t)
	return nil
}

// List returns the registered types in registration order.
func (r *Registry) List() []Type {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Type, len(r.types))
	copy(out, r.types)
	return out
}

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []string {
	types := r.List()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// ByName finds a type by name.
func (r *Registry) ByName(name string) (Type, bool) {
	name = strings.TrimSpace(name)
	return r.find(func(t Type) bool { return name != "" && strings.EqualFold(t.Name, name) })
}

// ByExtension finds a type by extension, with or without the leading dot.
func (r *Registry) ByExtension(ext string) (Type, bool) {
	ext = normaliseExtension(ext)
	return r.find(func(t Type) bool { return ext != "" && t.Extension == ext })
}

// ByMimeType finds a type by MIME type. Parameters such as charset are
// ignored.
func (r *Registry) ByMimeType(mimeType string) (Type, bool) {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	mimeType = strings.TrimSpace(mimeType)
	return r.find(func(t Type) bool { return mimeType != "" && strings.EqualFold(t.MimeType, mimeType) })
}

// ForFileName guesses the type from the extension of a path or URL. Query
// strings and fragments are ignored.
func (r *Registry) ForFileName(name string) (Type, bool) {
	ext := Extension(name)
	if ext == "" {
		return Type{}, false
	}
	return r.ByExtension(ext)
}

// ForLinkedFile picks the type for a linked file: the registered type named
// typeName, else an Unknown placeholder. With deduceUnknown set, an unknown
// name is retried as a MIME type and then as the extension of link.
func (r *Registry) ForLinkedFile(typeName, link string, deduceUnknown bool) (Type, bool) {
	typeName = strings.TrimSpace(typeName)
	if t, ok := r.ByName(typeName); ok {
		return t, true
	}
	if !deduceUnknown {
		if typeName == "" {
			return Type{}, false
		}
		return Unknown(typeName), true
	}
	if t, ok := r.ByMimeType(typeName); ok {
		return t, true
	}
	return r.ForFileName(link)
}

func (r *Registry) find(match func(Type) bool) (Type, bool) {
	if r == nil {
		return Type{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.types {
		if match(t) {
			return t, true
		}
	}
	return Type{}, false
}

// Extension returns the lower-cased extension of a path or URL without the
// dot, or "" when there is none.
func Extension(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if u, err := url.Parse(name); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		name = u.Path
	}
	name = strings.ReplaceAll(name, "\\", "/")
	return normaliseExtension(path.Ext(path.Base(name)))
}

func normaliseExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
