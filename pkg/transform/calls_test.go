package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCalls(t *testing.T) {
	cases := []struct {
		spec string
		want []Call
	}{
		{"bla", []Call{{Name: "bla"}}},
		{"bla,", []Call{{Name: "bla"}}},
		{"_bla.bla.blub,", []Call{{Name: "_bla.bla.blub"}}},
		{
			`bla("test"),foo("fark")`,
			[]Call{{Name: "bla", Arg: "test", HasArg: true}, {Name: "foo", Arg: "fark", HasArg: true}},
		},
		{
			"bla(test),foo(fark)",
			[]Call{{Name: "bla", Arg: "test", HasArg: true}, {Name: "foo", Arg: "fark", HasArg: true}},
		},
		{
			`names("*@1@{ll}@2..-1@ et al., (x)"), upper`,
			[]Call{{Name: "names", Arg: "*@1@{ll}@2..-1@ et al., (x)", HasArg: true}, {Name: "upper"}},
		},
		{`q("say \"hi\"")`, []Call{{Name: "q", Arg: `say "hi"`, HasArg: true}}},
		{"truncate( 20 )", []Call{{Name: "truncate", Arg: "20", HasArg: true}}},
		{"open(", []Call{{Name: "open", HasArg: true}}},
		{" , ,", nil},
		{"", nil},
	}

	for _, tc := range cases {
		t.Run(tc.spec, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, ParseCalls(tc.spec)); diff != "" {
				t.Fatalf("ParseCalls(%q) mismatch (-want +got):\n%s", tc.spec, diff)
			}
		})
	}
}

func TestCall_String(t *testing.T) {
	if got := (Call{Name: "lower"}).String(); got != "lower" {
		t.Fatalf("unexpected %q", got)
	}
	if got := (Call{Name: "truncate", Arg: "5", HasArg: true}).String(); got != "truncate(5)" {
		t.Fatalf("unexpected %q", got)
	}
}
