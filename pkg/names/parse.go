package names

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is one word of a name part with the separator that followed it in
// the source ("-" for hyphenated names, " " otherwise).
type Token struct {
	Text string
	Sep  string
}

// Author holds the four BibTeX name parts.
type Author struct {
	First []Token
	Von   []Token
	Last  []Token
	Jr    []Token
}

// List is an ordered author list.
type List []Author

// Parse splits value on top-level "and" and parses every name. Empty names
// are skipped.
func Parse(value string) List {
	var (
		out     List
		current []string
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		if author, ok := ParseName(strings.Join(current, " ")); ok {
			out = append(out, author)
		}
		current = nil
	}

	for _, word := range splitWords(value) {
		if strings.EqualFold(word, "and") {
			flush()
			continue
		}
		current = append(current, word)
	}
	flush()
	return out
}

// ParseName parses a single name. It reports false when the name is blank.
func ParseName(name string) (Author, bool) {
	parts := splitTopLevel(strings.TrimSpace(name), ',')

	var a Author
	switch len(parts) {
	case 0:
		return Author{}, false
	case 1:
		tokens := tokenize(parts[0])
		if len(tokens) == 0 {
			return Author{}, false
		}
		a.First, a.Von, a.Last = splitFirstVonLast(tokens)
	case 2:
		a.Von, a.Last = splitVonLast(tokenize(parts[0]))
		a.First = tokenize(parts[1])
	default:
		a.Von, a.Last = splitVonLast(tokenize(parts[0]))
		a.Jr = tokenize(parts[1])
		a.First = tokenize(strings.Join(parts[2:], ", "))
	}

	if a.empty() {
		return Author{}, false
	}
	return a, true
}

// Part returns the tokens for a part letter (f, v, l or j).
func (a Author) Part(letter byte) []Token {
	switch letter {
	case 'f':
		return a.First
	case 'v':
		return a.Von
	case 'l':
		return a.Last
	case 'j':
		return a.Jr
	}
	return nil
}

// String renders the name as "First von Last, Jr".
func (a Author) String() string {
	return FormatName(a, DefaultPattern)
}

func (a Author) empty() bool {
	return len(a.First) == 0 && len(a.Von) == 0 && len(a.Last) == 0 && len(a.Jr) == 0
}

func splitFirstVonLast(tokens []Token) (first, von, last []Token) {
	n := len(tokens)
	vonStart, vonEnd := -1, -1
	for i := 0; i < n-1; i++ {
		if isLowerToken(tokens[i].Text) {
			if vonStart < 0 {
				vonStart = i
			}
			vonEnd = i
		}
	}
	if vonStart < 0 {
		return tokens[:n-1], nil, tokens[n-1:]
	}
	return tokens[:vonStart], tokens[vonStart : vonEnd+1], tokens[vonEnd+1:]
}

func splitVonLast(tokens []Token) (von, last []Token) {
	n := len(tokens)
	if n == 0 {
		return nil, nil
	}
	vonEnd := -1
	for i := 0; i < n-1; i++ {
		if isLowerToken(tokens[i].Text) {
			vonEnd = i
		}
	}
	if vonEnd < 0 {
		return nil, tokens
	}
	return tokens[:vonEnd+1], tokens[vonEnd+1:]
}

// isLowerToken reports whether the first letter at brace depth 0 is lower
// case. A brace group starting with a control sequence ({\"o}) counts by the
// letter it decorates; any other brace group is caseless.
func isLowerToken(text string) bool {
	depth := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '{':
			if depth == 0 {
				if i+1 < len(text) && text[i+1] == '\\' {
					return specialCharIsLower(text[i+2:])
				}
				return false
			}
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && unicode.IsLetter(r):
			return unicode.IsLower(r)
		}
		i += size
	}
	return false
}

func specialCharIsLower(rest string) bool {
	for _, r := range rest {
		if r == '}' {
			return false
		}
		if unicode.IsLetter(r) {
			return unicode.IsLower(r)
		}
	}
	return false
}

// splitWords splits on whitespace outside braces.
func splitWords(value string) []string {
	var (
		words []string
		buf   strings.Builder
		depth int
	)
	for _, r := range value {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && unicode.IsSpace(r):
			if buf.Len() > 0 {
				words = append(words, buf.String())
				buf.Reset()
			}
			continue
		}
		buf.WriteRune(r)
	}
	if buf.Len() > 0 {
		words = append(words, buf.String())
	}
	return words
}

// splitTopLevel splits on sep outside braces and trims every part.
func splitTopLevel(value string, sep rune) []string {
	if value == "" {
		return nil
	}
	var (
		parts []string
		buf   strings.Builder
		depth int
	)
	for _, r := range value {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && r == sep:
			parts = append(parts, strings.TrimSpace(buf.String()))
			buf.Reset()
			continue
		}
		buf.WriteRune(r)
	}
	parts = append(parts, strings.TrimSpace(buf.String()))
	return parts
}

// tokenize splits a name part on whitespace, '~' and '-' outside braces.
func tokenize(part string) []Token {
	var (
		tokens []Token
		buf    strings.Builder
		depth  int
	)
	emit := func(sep string) {
		if buf.Len() == 0 {
			if sep == "-" && len(tokens) > 0 {
				tokens[len(tokens)-1].Sep = sep
			}
			return
		}
		tokens = append(tokens, Token{Text: buf.String(), Sep: sep})
		buf.Reset()
	}

	for _, r := range part {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (unicode.IsSpace(r) || r == '~'):
			emit(" ")
			continue
		case depth == 0 && r == '-':
			emit("-")
			continue
		}
		buf.WriteRune(r)
	}
	emit(" ")
	return tokens
}
