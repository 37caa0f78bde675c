package bibutil

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/goliatone/go-bibfmt/pkg/doi"
)

var doiPrefixPattern = regexp.MustCompile(`(?i)^doi:/*`)

// uriLegal lists the ASCII punctuation that may appear unescaped in a URI
// reference. '%' is kept so escapes that failed to decode are not doubled.
const uriLegal = "-._~:/?#[]@!$&'()*+,;=%"

const hexDigits = "0123456789ABCDEF"

// SanitizeURL normalises a link typed into a url field:
//   - surrounding whitespace and a \url{...} wrapper are removed;
//   - DOIs (bare or with a doi: prefix) become resolver URLs;
//   - percent escapes are decoded and characters that are illegal in a URI
//     (spaces, non-ASCII) are re-escaped.
//
// Local paths and ftp/file URLs pass through unchanged apart from escaping.
func SanitizeURL(link string) string {
	link = strings.TrimSpace(link)
	if strings.HasPrefix(link, `\url{`) && strings.HasSuffix(link, "}") {
		link = strings.TrimSpace(link[len(`\url{`) : len(link)-1])
	}

	if d, ok := doi.Parse(link); ok {
		return d.URL()
	}
	if doiPrefixPattern.MatchString(link) {
		link = doiPrefixPattern.ReplaceAllString(link, "")
	}

	if decoded, err := url.PathUnescape(link); err == nil {
		link = decoded
	}
	return quoteIllegal(link)
}

func quoteIllegal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

func isURIChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c >= 0x80:
		return false
	default:
		return strings.IndexByte(uriLegal, c) >= 0
	}
}
