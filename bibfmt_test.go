package bibfmt_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bibfmt"
	"github.com/goliatone/go-bibfmt/pkg/config"
	"github.com/goliatone/go-bibfmt/pkg/testsupport"
)

func TestExpand_HipKro03(t *testing.T) {
	rec := bibfmt.NewEntry("article", "HipKro03").
		Set("author", "Eric von Hippel and Georg von Krogh").
		Set("title", "Open Source Software and the \"Private-Collective\" Innovation Model: Issues for Organization Science").
		Set("journal", "Organization Science").
		Set("year", "2003")

	got := bibfmt.Expand("[author] wrote [title] in [journal], [year] ([bibtexkey])", rec, nil)
	want := "Eric von Hippel and Georg von Krogh wrote Open Source Software and the \"Private-Collective\" Innovation Model: Issues for Organization Science in Organization Science, 2003 (HipKro03)"
	if got != want {
		t.Fatalf("Expand mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestDecodeDatabase(t *testing.T) {
	db, err := bibfmt.DecodeDatabase([]byte(`{"entries": [{"type": "book", "key": "Knuth84", "fields": {"title": "TeX"}}]}`), "db.json")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	e, ok := db.Entry("Knuth84")
	if !ok {
		t.Fatalf("expected Knuth84")
	}
	if got := bibfmt.Expand("[title:upper]", e, db); got != "TEX" {
		t.Fatalf("unexpected expansion %q", got)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bibfmt.toml")
	doc := "[transforms]\nnames = [\"first\"]\nformats = [\"*@1@{ll}@2..-1@\"]\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := bibfmt.LoadConfig(context.Background(), config.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	registry, err := cfg.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	got := bibfmt.NewExpander(registry).Expand("[author:first]", testsupport.HipKro03(), nil)
	if got != "Hippel" {
		t.Fatalf("unexpected expansion %q", got)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	names, err := fs.Glob(bibfmt.EmbeddedTemplates(), "*.tpl")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if diff := cmp.Diff([]string{"bibtex.tpl", "markdown.tpl", "plain.tpl"}, names); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}
}

func TestNewExporter_Plain(t *testing.T) {
	x, err := bibfmt.NewExporter(nil)
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}

	got, err := x.Render(context.Background(), "plain", testsupport.SampleDatabase())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(got, "\n")
	want := `[HipKro03] von Hippel, von Krogh (2003). Open Source Software and the "Private-Collective" Innovation Model: Issues for Organization Science.`
	if lines[0] != want {
		t.Fatalf("first line mismatch\nwant: %q\n got: %q", want, lines[0])
	}
	if lines[2] != "[Knuth84a] Knuth (1984). Literate Programming." {
		t.Fatalf("unexpected crossref line %q", lines[2])
	}
}
