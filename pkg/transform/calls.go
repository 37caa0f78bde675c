package transform

import "strings"

// Call is one element of a transform chain: a name and an optional argument.
type Call struct {
	Name   string
	Arg    string
	HasArg bool
}

// String renders the call back into chain syntax.
func (c Call) String() string {
	if !c.HasArg {
		return c.Name
	}
	return c.Name + "(" + c.Arg + ")"
}

// ParseCalls splits a transform chain such as `lower,truncate(20)` or
// `names("*@*@{ll}"),upper` into calls. Arguments may be quoted; inside
// quotes a backslash escapes the next character. Empty elements are skipped.
func ParseCalls(spec string) []Call {
	var calls []Call
	i, n := 0, len(spec)

	for i < n {
		for i < n && (spec[i] == ',' || isSpace(spec[i])) {
			i++
		}
		if i >= n {
			break
		}

		start := i
		for i < n && spec[i] != ',' && spec[i] != '(' {
			i++
		}
		call := Call{Name: strings.TrimSpace(spec[start:i])}

		if i < n && spec[i] == '(' {
			i++
			call.Arg, i = parseArg(spec, i)
			call.HasArg = true
			for i < n && spec[i] != ',' {
				i++
			}
		}

		if call.Name != "" {
			calls = append(calls, call)
		}
	}
	return calls
}

// parseArg reads an argument starting after '(' and returns it with the
// index just past the closing ')'.
func parseArg(spec string, i int) (string, int) {
	n := len(spec)
	for i < n && isSpace(spec[i]) {
		i++
	}

	if i < n && spec[i] == '"' {
		var b strings.Builder
		i++
		for i < n && spec[i] != '"' {
			if spec[i] == '\\' && i+1 < n {
				i++
			}
			b.WriteByte(spec[i])
			i++
		}
		if i < n {
			i++
		}
		for i < n && spec[i] != ')' {
			i++
		}
		if i < n {
			i++
		}
		return b.String(), i
	}

	start := i
	for i < n && spec[i] != ')' {
		i++
	}
	arg := strings.TrimSpace(spec[start:i])
	if i < n {
		i++
	}
	return arg, i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
