package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-bibfmt/internal/loader"
	"github.com/goliatone/go-bibfmt/pkg/config"
)

const document = "logging:\n  level: debug\n"

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bibfmt.yaml")
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := loader.New(config.NewLoaderOptions())
	doc, err := l.Load(context.Background(), config.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != document || doc.Location() != path {
		t.Fatalf("unexpected document %q from %q", doc.Raw(), doc.Location())
	}

	if _, err := l.Load(context.Background(), config.SourceFromFile(filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{"conf/bibfmt.yaml": {Data: []byte(document)}}
	l := loader.New(config.NewLoaderOptions(config.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), config.SourceFromFS("conf/bibfmt.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != document {
		t.Fatalf("unexpected document %q", doc.Raw())
	}

	withoutFS := loader.New(config.NewLoaderOptions())
	if _, err := withoutFS.Load(context.Background(), config.SourceFromFS("conf/bibfmt.yaml")); err == nil {
		t.Fatalf("expected error without fs")
	}
}

func TestLoader_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bibfmt.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(document))
	}))
	defer server.Close()

	offline := loader.New(config.NewLoaderOptions())
	if _, err := offline.Load(context.Background(), config.SourceFromURL(server.URL+"/bibfmt.yaml")); err == nil {
		t.Fatalf("expected http to be disabled by default")
	}

	l := loader.New(config.NewLoaderOptions(config.WithHTTPClient(server.Client()), config.WithHTTPFallback(time.Second)))
	doc, err := l.Load(context.Background(), config.SourceFromURL(server.URL+"/bibfmt.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != document {
		t.Fatalf("unexpected document %q", doc.Raw())
	}

	if _, err := l.Load(context.Background(), config.SourceFromURL(server.URL+"/missing")); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestLoader_Errors(t *testing.T) {
	l := loader.New(config.NewLoaderOptions())
	if _, err := l.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil source")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, config.SourceFromFile("bibfmt.yaml")); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
