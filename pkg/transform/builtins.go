package transform

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-bibfmt/pkg/bibutil"
	"github.com/goliatone/go-bibfmt/pkg/names"
)

// Built-in transform names.
const (
	NameLower      = "lower"
	NameUpper      = "upper"
	NameCapitalize = "capitalize"
	NameTitle      = "title"
	NameTrim       = "trim"
	NameShave      = "shave"
	NameASCII      = "ascii"
	NameKey        = "key"
	NamePlain      = "plain"
	NameLastNames  = "lastnames"
	NameTruncate   = "truncate"
	NameNames      = "names"
)

const lastNamePattern = "{vv }{ll}"

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

func registerBuiltins(r *Registry) {
	r.MustRegister(NameLower, strings.ToLower)
	r.MustRegister(NameUpper, strings.ToUpper)
	r.MustRegister(NameCapitalize, bibutil.CapitalizeFirst)
	r.MustRegister(NameTitle, titleCase)
	r.MustRegister(NameTrim, strings.TrimSpace)
	r.MustRegister(NameShave, bibutil.ShaveString)
	r.MustRegister(NameASCII, bibutil.ReplaceSpecialCharacters)
	r.MustRegister(NameKey, bibutil.CheckLegalKey)
	r.MustRegister(NamePlain, stripMarkup)
	r.MustRegister(NameLastNames, lastNames)

	mustRegisterParam(r, NameTruncate, truncateFactory)
	mustRegisterParam(r, NameNames, namesFactory)
}

func mustRegisterParam(r *Registry, name string, factory Factory) {
	if err := r.RegisterParam(name, factory); err != nil {
		panic(err)
	}
}

// cases.Caser keeps state, so each call gets its own.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func stripMarkup(s string) string {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}

func lastNames(s string) string {
	list := names.Parse(s)
	out := make([]string, 0, len(list))
	for _, author := range list {
		if last := names.FormatName(author, lastNamePattern); last != "" {
			out = append(out, last)
		}
	}
	return strings.Join(out, ", ")
}

func truncateFactory(arg string) (Func, error) {
	if strings.TrimSpace(arg) == "" {
		return func(s string) string { return s }, nil
	}
	limit, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || limit < 0 {
		return nil, fmt.Errorf("transform: truncate expects a non-negative length, got %q", arg)
	}
	return func(s string) string {
		if utf8.RuneCountInString(s) <= limit {
			return s
		}
		runes := []rune(s)
		return strings.TrimRight(string(runes[:limit]), " ")
	}, nil
}

func namesFactory(arg string) (Func, error) {
	format := arg
	if strings.TrimSpace(format) == "" {
		format = names.DefaultFormat
	}
	formatter, err := names.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return formatter.Format, nil
}

// WithNameFormats registers one name formatter per entry of transformNames,
// built from the format at the same index. formats is padded with empty
// strings or truncated to match; an empty format selects names.DefaultFormat.
// Blank names are skipped. Formatters replace existing transforms of the
// same name.
func WithNameFormats(transformNames, formats []string) Option {
	return func(r *Registry) error {
		normalised := make([]string, len(transformNames))
		copy(normalised, formats)

		for idx, name := range transformNames {
			if strings.TrimSpace(name) == "" {
				continue
			}
			format := normalised[idx]
			if strings.TrimSpace(format) == "" {
				format = names.DefaultFormat
			}
			formatter, err := names.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("transform: name format %q: %w", name, err)
			}
			if err := r.replace(name, formatter.Format); err != nil {
				return err
			}
		}
		return nil
	}
}
