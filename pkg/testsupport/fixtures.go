// Package testsupport holds fixtures and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bibfmt/pkg/entry"
)

// HipKro03 returns the article used throughout the expansion examples.
func HipKro03() *entry.Entry {
	return entry.New("article", "HipKro03").
		Set("author", "Eric von Hippel and Georg von Krogh").
		Set("title", "Open Source Software and the \"Private-Collective\" Innovation Model: Issues for Organization Science").
		Set("journal", "Organization Science").
		Set("pages", "209--223").
		Set("volume", "14").
		Set("number", "2").
		Set("month", "#mar#").
		Set("year", "2003")
}

// SampleDatabase returns a small database with a month constant, a crossref
// pair and HipKro03.
func SampleDatabase() *entry.Database {
	db := entry.NewDatabase()
	db.SetString("mar", "March")

	proceedings := entry.New("proceedings", "Knuth84").
		Set("editor", "Donald E. Knuth").
		Set("booktitle", "Literate Programming").
		Set("publisher", "CSLI").
		Set("year", "1984")
	chapter := entry.New("inproceedings", "Knuth84a").
		Set("author", "Donald E. Knuth").
		Set("title", "Literate Programming").
		Set("crossref", "Knuth84")

	for _, e := range []*entry.Entry{HipKro03(), proceedings, chapter} {
		if err := db.Add(e); err != nil {
			panic(err)
		}
	}
	return db
}

// LoadDatabase decodes a database fixture, failing the test on error.
func LoadDatabase(t *testing.T, path string) *entry.Database {
	t.Helper()

	db, err := LoadDatabaseFromPath(path)
	if err != nil {
		t.Fatalf("load database: %v", err)
	}
	return db
}

// LoadDatabaseFromPath decodes a database fixture without a *testing.T.
func LoadDatabaseFromPath(path string) (*entry.Database, error) {
	if path == "" {
		return nil, errors.New("testsupport: database path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read database: %w", err)
	}
	db, err := entry.Decode(data, path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: decode database: %w", err)
	}
	return db, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
