// Package linkedfile models the files and links attached to an entry through
// its "file" field.
package linkedfile

import (
	"regexp"
	"strings"
)

// FieldName is the entry field holding linked files.
const FieldName = "file"

var remoteLinkPattern = regexp.MustCompile(`^[a-z]+://.*`)

// LinkedFile is one attachment: a local path or an online link.
type LinkedFile struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Link        string `json:"link" yaml:"link"`
	FileType    string `json:"fileType,omitempty" yaml:"fileType,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty" yaml:"sourceUrl,omitempty"`
}

// IsOnlineLink reports whether the file points to the web.
func (f LinkedFile) IsOnlineLink() bool {
	return IsOnlineLink(f.Link)
}

// IsEmpty reports whether every attribute is blank.
func (f LinkedFile) IsEmpty() bool {
	return strings.TrimSpace(f.Description) == "" &&
		strings.TrimSpace(f.Link) == "" &&
		strings.TrimSpace(f.FileType) == "" &&
		strings.TrimSpace(f.SourceURL) == ""
}

// IsOnlineLink reports whether link starts with http:// or https://, or
// mentions "www.".
func IsOnlineLink(link string) bool {
	link = strings.TrimSpace(link)
	return strings.HasPrefix(link, "http://") ||
		strings.HasPrefix(link, "https://") ||
		strings.Contains(link, "www.")
}

// IsRemoteLink reports whether link carries a lower-case URL scheme such as
// ftp:// or https://.
func IsRemoteLink(link string) bool {
	return remoteLinkPattern.MatchString(link)
}
