package names

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultPattern renders a name as "First von Last, Jr".
const DefaultPattern = "{ff }{vv }{ll}{, jj}"

// DefaultFormat applies DefaultPattern to every author of any list.
const DefaultFormat = "*@*@" + DefaultPattern

// FormatName renders a single author with a format.name$-style pattern.
func FormatName(a Author, pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		c := pattern[i]
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}
		end := matchingBrace(pattern, i)
		if end < 0 {
			b.WriteString(pattern[i:])
			break
		}
		b.WriteString(formatGroup(a, pattern[i+1:end]))
		i = end + 1
	}
	return b.String()
}

func formatGroup(a Author, group string) string {
	start := -1
	for i := 0; i < len(group); i++ {
		if group[i] == '{' {
			break
		}
		if isASCIILetter(group[i]) {
			start = i
			break
		}
	}
	if start < 0 || !strings.ContainsRune("fvlj", rune(group[start])) {
		return group
	}

	letter := group[start]
	end := start
	for end < len(group) && group[end] == letter {
		end++
	}
	abbreviate := end-start == 1

	var (
		sep    string
		hasSep bool
	)
	if end < len(group) && group[end] == '{' {
		if close := matchingBrace(group, end); close > 0 {
			sep, hasSep = group[end+1:close], true
			end = close + 1
		}
	}

	tokens := a.Part(letter)
	if len(tokens) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(group[:start])
	for i, tok := range tokens {
		if abbreviate {
			b.WriteString(initial(tok.Text))
		} else {
			b.WriteString(tok.Text)
		}
		if i == len(tokens)-1 {
			break
		}
		switch {
		case hasSep:
			b.WriteString(sep)
		case abbreviate:
			b.WriteString(".")
			b.WriteString(tokenSep(tok))
		default:
			b.WriteString(tokenSep(tok))
		}
	}
	b.WriteString(group[end:])
	return b.String()
}

func tokenSep(tok Token) string {
	if tok.Sep == "-" {
		return "-"
	}
	return " "
}

// initial returns the first letter of a word. A leading brace group counts
// as one letter and is kept whole.
func initial(word string) string {
	if strings.HasPrefix(word, "{") {
		if end := matchingBrace(word, 0); end > 0 {
			return word[:end+1]
		}
	}
	for _, r := range word {
		if unicode.IsLetter(r) {
			return string(r)
		}
	}
	r, _ := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return ""
	}
	return string(r)
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Formatter applies patterns selected by author count and position.
//
// The format is a list of cases separated by "@@". Each case is
// "count@range@pattern[@range@pattern...]" where count is "*" or a number
// of authors, and range is "*", a 1-based position, or "from..to". Negative
// positions count from the end of the list.
type Formatter struct {
	cases []formatCase
}

type formatCase struct {
	anyCount bool
	count    int
	rules    []rangeRule
}

type rangeRule struct {
	all      bool
	from, to int
	pattern  string
}

// ParseFormat compiles a formatter description.
func ParseFormat(format string) (Formatter, error) {
	if strings.TrimSpace(format) == "" {
		return Formatter{}, fmt.Errorf("names: empty format")
	}

	var f Formatter
	for _, raw := range strings.Split(format, "@@") {
		parts := strings.Split(raw, "@")
		if len(parts) < 3 || len(parts)%2 == 0 {
			return Formatter{}, fmt.Errorf("names: malformed format case %q", raw)
		}

		var fc formatCase
		countSpec := strings.TrimSpace(parts[0])
		if countSpec == "*" {
			fc.anyCount = true
		} else {
			n, err := strconv.Atoi(countSpec)
			if err != nil || n < 0 {
				return Formatter{}, fmt.Errorf("names: invalid author count %q", countSpec)
			}
			fc.count = n
		}

		for i := 1; i < len(parts); i += 2 {
			rule, err := parseRange(parts[i])
			if err != nil {
				return Formatter{}, err
			}
			rule.pattern = parts[i+1]
			fc.rules = append(fc.rules, rule)
		}
		f.cases = append(f.cases, fc)
	}
	return f, nil
}

// MustParseFormat is ParseFormat that panics on error.
func MustParseFormat(format string) Formatter {
	f, err := ParseFormat(format)
	if err != nil {
		panic(err)
	}
	return f
}

func parseRange(spec string) (rangeRule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "*" {
		return rangeRule{all: true}, nil
	}
	if from, to, ok := strings.Cut(spec, ".."); ok {
		a, errA := strconv.Atoi(strings.TrimSpace(from))
		b, errB := strconv.Atoi(strings.TrimSpace(to))
		if errA != nil || errB != nil {
			return rangeRule{}, fmt.Errorf("names: invalid position range %q", spec)
		}
		return rangeRule{from: a, to: b}, nil
	}
	n, err := strconv.Atoi(spec)
	if err != nil {
		return rangeRule{}, fmt.Errorf("names: invalid position %q", spec)
	}
	return rangeRule{from: n, to: n}, nil
}

func (r rangeRule) matches(pos, total int) bool {
	if r.all {
		return true
	}
	from, to := r.from, r.to
	if from < 0 {
		from += total + 1
	}
	if to < 0 {
		to += total + 1
	}
	return pos >= from && pos <= to
}

// Format parses value as an author list and renders it with the first case
// whose count matches. It returns "" when no case applies.
func (f Formatter) Format(value string) string {
	return f.FormatList(Parse(value))
}

// FormatList renders an already parsed list.
func (f Formatter) FormatList(list List) string {
	total := len(list)
	for _, fc := range f.cases {
		if !fc.anyCount && fc.count != total {
			continue
		}
		var b strings.Builder
		for i, author := range list {
			for _, rule := range fc.rules {
				if rule.matches(i+1, total) {
					b.WriteString(FormatName(author, rule.pattern))
					break
				}
			}
		}
		return b.String()
	}
	return ""
}
