package gotemplate_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-bibfmt/pkg/render/template/gotemplate"
	"github.com/goliatone/go-bibfmt/pkg/testsupport"
)

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	files := fstest.MapFS{
		"hello.tpl":      {Data: []byte("Hello {{ name }}!")},
		"use-global.tpl": {Data: []byte("style={{ settings.style }}")},
		"use-filter.tpl": {Data: []byte("{{ name|shout }}")},
		"braces.tpl":     {Data: []byte("{{ title|unbrace|trim }}")},
	}

	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada!" || written != result {
		t.Fatalf("unexpected output result=%q written=%q", result, written)
	}

	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestEngine_RenderDispatchesInlineContent(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.Render("{{ year }}", citation{key: "HipKro03", year: "2003"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "2003" {
		t.Fatalf("unexpected inline output %q", got)
	}

	got, err = engine.Render("hello.tpl", map[string]any{"name": "Grace"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Grace!" {
		t.Fatalf("unexpected named output %q", got)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobals(map[string]any{
		"settings": map[string]any{"style": "apa"},
	}))

	got, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "style=apa" {
		t.Fatalf("unexpected output %q", got)
	}

	if err := engine.GlobalContext(map[string]any{"settings": map[string]any{"style": "ieee"}}); err != nil {
		t.Fatalf("global context: %v", err)
	}
	got, err = engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "style=ieee" {
		t.Fatalf("unexpected output after update %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	shout := func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	}
	if err := engine.RegisterFilter("shout", shout); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	// Registering again replaces the filter.
	if err := engine.RegisterFilter("shout", shout); err != nil {
		t.Fatalf("re-register filter: %v", err)
	}
	if err := engine.RegisterFilter(" ", shout); err == nil {
		t.Fatalf("expected error for blank filter name")
	}

	got, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_FilterErrorsSurface(t *testing.T) {
	engine := newEngine(t)
	if err := engine.RegisterFilter("fail_always", func(any, any) (any, error) {
		return nil, fmt.Errorf("nope")
	}); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if _, err := engine.RenderString("{{ x|fail_always }}", map[string]any{"x": 1}); err == nil {
		t.Fatalf("expected filter error to fail the render")
	}
}

func TestEngine_DefaultFilters(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("braces", map[string]any{"title": "  The {GNU} Manifesto "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "The GNU Manifesto" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_TemplateFuncs(t *testing.T) {
	engine := newEngine(t, gotemplate.WithFunc("initials", func(s string) string {
		if s == "" {
			return ""
		}
		return s[:1] + "."
	}))

	got, err := engine.RenderString(`{{ initials(first) }} {{ last }}`, map[string]any{"first": "Donald", "last": "Knuth"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "D. Knuth" {
		t.Fatalf("unexpected output %q", got)
	}

	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
	if _, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{}), gotemplate.WithFunc("bad", "not a func")); err == nil {
		t.Fatalf("expected error for a non-function helper")
	}
}

type citation struct {
	key  string
	year string
}

func (c citation) TemplateContext() map[string]any {
	return map[string]any{"key": c.key, "year": c.year}
}

type book struct {
	Title string `json:"-"`
	Pages int
}

func TestEngine_PassesValuesNatively(t *testing.T) {
	engine := newEngine(t)

	original := &book{Title: "The TeXbook", Pages: 483}
	var seen any
	if err := engine.RegisterFilter("capture_book", func(input any, _ any) (any, error) {
		seen = input
		return "", nil
	}); err != nil {
		t.Fatalf("register filter: %v", err)
	}

	data := map[string]any{"view": map[string]any{"book": original}}
	got, err := engine.RenderString("{{ view.book.Title }} ({{ view.book.Pages }}){{ view|capture_book }}", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "The TeXbook (483)" {
		t.Fatalf("unexpected output %q", got)
	}
	view, ok := seen.(map[string]any)
	if !ok || view["book"] != original {
		t.Fatalf("filter received %#v, want the original view", seen)
	}

	if _, err := engine.RenderString("{{ Title }}", *original); err == nil {
		t.Fatalf("expected error for plain struct data")
	}
}

func TestEngine_WithFilter(t *testing.T) {
	engine := newEngine(t, gotemplate.WithFilter("initial", func(input any, _ any) (any, error) {
		return strings.ToUpper(fmt.Sprint(input))[:1], nil
	}), gotemplate.WithExtension("tpl"))

	got, err := engine.RenderString("{{ name|initial }}", map[string]string{"name": "knuth"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "K" {
		t.Fatalf("unexpected output %q", got)
	}
	if _, err := engine.RenderTemplate("hello", nil); err != nil {
		t.Fatalf("render with explicit extension: %v", err)
	}
}
