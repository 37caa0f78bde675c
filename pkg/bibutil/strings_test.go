package bibutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCapitalizeFirst(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"hello":   "Hello",
		"HELLO":   "Hello",
		"ümlaut":  "Ümlaut",
		"a":       "A",
		"mIxEd c": "Mixed c",
	}
	for input, want := range cases {
		if got := CapitalizeFirst(input); got != want {
			t.Fatalf("CapitalizeFirst(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestShaveString(t *testing.T) {
	cases := map[string]string{
		"  {Title}  ": "Title",
		`"quoted"`:    "quoted",
		"{{double}}":  "{double}",
		"{open":       "{open",
		`{mixed"`:     `{mixed"`,
		"x":           "x",
		"":            "",
	}
	for input, want := range cases {
		if got := ShaveString(input); got != want {
			t.Fatalf("ShaveString(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCheckLegalKey(t *testing.T) {
	cases := map[string]string{
		"SPECIAL CHARS#{\\\"}~,^": "SPECIALCHARS",
		"Müller2003":              "Mueller2003",
		"Élan'99":                 "Elan99",
		"plain":                   "plain",
		"":                        "",
	}
	for input, want := range cases {
		if got := CheckLegalKey(input); got != want {
			t.Fatalf("CheckLegalKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestReplaceSpecialCharacters(t *testing.T) {
	cases := map[string]string{
		"Straße":  "Strasse",
		"Øresund": "Oeresund",
		"Łódź":    "Lodz",
		"café":    "cafe",
		"ascii":   "ascii",
	}
	for input, want := range cases {
		if got := ReplaceSpecialCharacters(input); got != want {
			t.Fatalf("ReplaceSpecialCharacters(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSeparatedKeywords(t *testing.T) {
	got := SeparatedKeywords("w1, w2a w2b, w3")
	want := []string{"w1", "w2a w2b", "w3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}

	got = SeparatedKeywords(" a; b ,, a;  ")
	want = []string{"a", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}

	if got := SeparatedKeywords(""); len(got) != 0 {
		t.Fatalf("expected no keywords, got %v", got)
	}
}
