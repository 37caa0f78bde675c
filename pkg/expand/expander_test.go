package expand_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bibfmt/pkg/entry"
	"github.com/goliatone/go-bibfmt/pkg/expand"
	"github.com/goliatone/go-bibfmt/pkg/transform"
)

func hipKro03() *entry.Entry {
	return entry.New("article", "HipKro03").
		Set("author", "Eric von Hippel and Georg von Krogh").
		Set("title", "Open Source Software and the \"Private-Collective\" Innovation Model: Issues for Organization Science").
		Set("journal", "Organization Science").
		Set("year", "2003")
}

func TestExpand_Properties(t *testing.T) {
	exp := expand.New(nil)
	rec := hipKro03()

	cases := []struct {
		name     string
		template string
		want     string
	}{
		{"no brackets is identity", "plain text: with colons", "plain text: with colons"},
		{"empty template", "", ""},
		{"unknown field", "[unknownfield]", ""},
		{"empty field name", "[:]", ""},
		{"empty field name with transform", "[:lower]", ""},
		{"empty brackets", "[]", ""},
		{"lower transform", "[author:lower]", "eric von hippel and georg von krogh"},
		{"citation key", "[bibtexkey]", "HipKro03"},
		{"citation key empty transform", "[bibtexkey:]", "HipKro03"},
		{"case-insensitive field", "[JOURNAL]", "Organization Science"},
		{"padded field name", "[ year ]", "2003"},
		{"unknown transform drops token", "[author:nosuchthing]", ""},
		{"chain", "[journal:upper,lower]", "organization science"},
		{"chain with unknown element", "[journal:upper,nosuchthing]", ""},
		{"separator-only chain", "[journal:,]", ""},
		{"parameterised", "[journal:truncate(12)]", "Organization"},
		{"names format", `[author:names("*@*@{ll};")]`, "Hippel;Krogh;"},
		{"unterminated keeps prefix", "before [author", "before "},
		{"unterminated after token", "[year] and [title", "2003 and "},
		{"first closing bracket wins", "[year]]", "2003]"},
		{"no nesting", "[[year]]", "]"},
		{"stray closing bracket", "a]b", "a]b"},
		{"entry type", "[bibtextype]", "article"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exp.Expand(tc.template, rec, nil); got != tc.want {
				t.Fatalf("Expand(%q) = %q, want %q", tc.template, got, tc.want)
			}
		})
	}
}

func TestExpand_Concatenation(t *testing.T) {
	exp := expand.New(nil)
	rec := hipKro03()

	for _, field := range []string{"[author]", "[missing]", "[title:upper]", "[:]", "[year:nope]"} {
		for _, pair := range [][2]string{{"A", "B"}, {"", "tail"}, {"head ", ""}, {"x: ", " :y"}} {
			left, right := pair[0], pair[1]
			want := left + exp.Expand(field, rec, nil) + right
			if got := exp.Expand(left+field+right, rec, nil); got != want {
				t.Fatalf("Expand(%q) = %q, want %q", left+field+right, got, want)
			}
		}
	}
}

func TestExpand_EndToEnd(t *testing.T) {
	exp := expand.New(nil)
	rec := hipKro03()

	got := exp.Expand("[author] have published [title] in [journal].", rec, nil)
	want := "Eric von Hippel and Georg von Krogh have published " +
		"Open Source Software and the \"Private-Collective\" Innovation Model: Issues for Organization Science" +
		" in Organization Science."
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("end-to-end mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_DatabaseContext(t *testing.T) {
	db := entry.NewDatabase()
	db.SetString("os", "Organization Science")
	parent := entry.New("proceedings", "conf").Set("booktitle", "#os# Conference")
	child := entry.New("inproceedings", "paper").Set("crossref", "conf").Set("title", "A Paper")
	for _, e := range []*entry.Entry{parent, child} {
		if err := db.Add(e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	exp := expand.New(nil)
	got := exp.Expand("[title] in [booktitle:upper]", child, db)
	if got != "A Paper in ORGANIZATION SCIENCE CONFERENCE" {
		t.Fatalf("unexpected expansion %q", got)
	}
}

func TestExpand_NilRecord(t *testing.T) {
	exp := expand.New(nil)
	if got := exp.Expand("x[author]y", nil, nil); got != "xy" {
		t.Fatalf("expected tokens to drop without a record, got %q", got)
	}
}

func TestExpand_UsesSuppliedRegistry(t *testing.T) {
	reg := transform.NewEmptyRegistry()
	reg.MustRegister("shout", func(s string) string { return strings.ToUpper(s) + "!" })

	exp := expand.New(reg)
	rec := hipKro03()
	if got := exp.Expand("[year:shout]", rec, nil); got != "2003!" {
		t.Fatalf("unexpected %q", got)
	}
	if got := exp.Expand("[year:lower]", rec, nil); got != "" {
		t.Fatalf("expected built-in to be absent from empty registry, got %q", got)
	}
}

func TestExpand_ValueFilter(t *testing.T) {
	exp := expand.New(nil, expand.WithValueFilter(func(s string) string {
		return "<" + s + ">"
	}))
	rec := hipKro03()
	got := exp.Expand("[year]/[missing]/[bibtexkey]", rec, nil)
	if got != "<2003>//<HipKro03>" {
		t.Fatalf("unexpected filtered expansion %q", got)
	}
}

func TestResolveFieldAndFormat(t *testing.T) {
	exp := expand.New(nil)
	rec := hipKro03()

	cases := []struct {
		spec string
		want string
		ok   bool
	}{
		{"[author:lower]", "eric von hippel and georg von krogh", true},
		{"author", "Eric von Hippel and Georg von Krogh", true},
		{"journal:upper", "ORGANIZATION SCIENCE", true},
		{" [bibtexkey] ", "HipKro03", true},
		{"[bibtexkey:]", "HipKro03", true},
		{"[unknownfield]", "", false},
		{"[author:unknown]", "", false},
		{"[:]", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := exp.ResolveFieldAndFormat(tc.spec, rec, nil)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ResolveFieldAndFormat(%q) = %q (ok=%v), want %q (ok=%v)", tc.spec, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCompile_Fields(t *testing.T) {
	tmpl := expand.Compile("**/[bibtexkey]-[Year:lower]/[year]*[:x]")
	if diff := cmp.Diff([]string{"bibtexkey", "year"}, tmpl.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if !tmpl.HasFields() {
		t.Fatalf("expected template to have fields")
	}
	if expand.Compile("plain").HasFields() {
		t.Fatalf("expected literal template to have no fields")
	}
	if tmpl.String() != "**/[bibtexkey]-[Year:lower]/[year]*[:x]" {
		t.Fatalf("unexpected source %q", tmpl.String())
	}
}

func TestTemplate_ConcurrentExecute(t *testing.T) {
	exp := expand.New(nil)
	tmpl := expand.Compile("[bibtexkey]: [title:truncate(11)]")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := tmpl.Execute(exp, hipKro03(), nil); got != "HipKro03: Open Source" {
				t.Errorf("unexpected concurrent expansion %q", got)
			}
		}()
	}
	wg.Wait()
}
