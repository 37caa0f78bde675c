// Package doi recognises Digital Object Identifiers in their bare, doi: and
// resolver-URL spellings and builds canonical resolver links.
package doi

import (
	"net/url"
	"regexp"
	"strings"
)

// ResolverHost is the host used for resolver links.
const ResolverHost = "doi.org"

var (
	doiPattern    = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
	prefixPattern = regexp.MustCompile(`(?i)^(?:https?://(?:dx\.)?doi\.org/|doi:/*)`)
)

// DOI is a validated identifier such as 10.1109/VLHCC.2004.20.
type DOI struct {
	value string
}

// Parse extracts a DOI from s. Accepted forms: "10.x/y", "doi:10.x/y",
// "doi:/10.x/y", "doi://10.x/y" and resolver URLs.
func Parse(s string) (DOI, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return DOI{}, false
	}
	trimmed = prefixPattern.ReplaceAllString(trimmed, "")
	if unescaped, err := url.PathUnescape(trimmed); err == nil {
		trimmed = unescaped
	}
	if !doiPattern.MatchString(trimmed) {
		return DOI{}, false
	}
	return DOI{value: trimmed}, true
}

// IsValid reports whether s is a bare DOI (no prefix).
func IsValid(s string) bool {
	return doiPattern.MatchString(strings.TrimSpace(s))
}

// String returns the bare identifier.
func (d DOI) String() string {
	return d.value
}

// URL returns the resolver link, e.g. https://doi.org/10.1109/VLHCC.2004.20.
func (d DOI) URL() string {
	if d.value == "" {
		return ""
	}
	u := url.URL{Scheme: "https", Host: ResolverHost, Path: "/" + d.value}
	return u.String()
}
