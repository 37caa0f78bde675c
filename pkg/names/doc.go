// Package names parses BibTeX author lists and formats individual names
// with format.name$-style patterns.
//
// A list is split on the word "and" outside braces. Each name is parsed in
// one of the three BibTeX forms:
//
//	First von Last
//	von Last, First
//	von Last, Jr, First
//
// Patterns are literal text plus brace groups naming a part: {ff} full
// first names, {f} abbreviated first names, and likewise vv, ll, jj. Text
// inside a group before and after the part letters is emitted only when the
// part is present, so "{ff }{vv }{ll}{, jj}" renders "Eric von Hippel".
//
// Formatter combines patterns with author-count and position selectors
// ("*@*@{ll}", "2@1@{ll} and @2@{ll}"), the syntax used for user-defined
// name transforms.
package names
