package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bibfmt/pkg/editor"
	"github.com/goliatone/go-bibfmt/pkg/linkedfile"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	inputConfigs []InputConfig
	selectConfig []SelectConfig
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectConfig = append(s.selectConfig, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFileDialog_ResolvesRelativeAnswer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "papers", "HipKro03.pdf"))

	driver := &stubDriver{inputs: []string{"papers/HipKro03.pdf"}}
	dialog := NewFileDialog(WithPromptDriver(driver))

	path, ok, err := dialog.ShowFileOpenDialog(context.Background(), editor.FileDialogConfig{
		InitialDirectory: dir,
		InitialFileName:  "HipKro03.pdf",
	})
	if err != nil || !ok {
		t.Fatalf("expected a path, got ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(dir, "papers", "HipKro03.pdf") {
		t.Fatalf("unexpected path %q", path)
	}

	cfg := driver.inputConfigs[0]
	if cfg.Default != filepath.Join(dir, "HipKro03.pdf") {
		t.Fatalf("unexpected default %q", cfg.Default)
	}
	if err := cfg.Validator("papers/HipKro03.pdf"); err != nil {
		t.Fatalf("expected existing file to validate: %v", err)
	}
	if err := cfg.Validator("papers"); err == nil {
		t.Fatalf("expected directory to fail validation")
	}
	if err := cfg.Validator(""); err != nil {
		t.Fatalf("expected empty answer to be allowed: %v", err)
	}

	suggestions := cfg.Suggest("pa")
	if diff := cmp.Diff([]string{filepath.Join(dir, "papers") + string(filepath.Separator)}, suggestions); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestFileDialog_EmptyAnswerCancels(t *testing.T) {
	dialog := NewFileDialog(WithPromptDriver(&stubDriver{inputs: []string{"  "}}))
	path, ok, err := dialog.ShowFileOpenDialog(context.Background(), editor.FileDialogConfig{})
	if err != nil || ok || path != "" {
		t.Fatalf("expected cancellation, got %q ok=%v err=%v", path, ok, err)
	}
}

func TestEditDialog_Run(t *testing.T) {
	library := t.TempDir()
	chosen := filepath.Join(library, "scans", "HipKro03.djvu")
	writeFile(t, chosen)

	driver := &stubDriver{
		confirm: []bool{true},
		// file dialog answer, link (accept default), description, source URL
		inputs:    []string{chosen, "scans/HipKro03.djvu", "Scan", "https://example.org"},
		selectIdx: []int{-2},
	}
	prefs := editor.NewFilePreferences(library, library)
	vm := editor.NewViewModel(linkedfile.LinkedFile{}, nil, NewFileDialog(WithPromptDriver(driver)), prefs)

	// Select is scripted out of range first to exercise ErrNoSelection.
	if _, err := NewEditDialog(WithPromptDriver(driver)).Run(context.Background(), vm); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}

	if got := driver.inputConfigs[1].Default; got != filepath.Join("scans", "HipKro03.djvu") {
		t.Fatalf("expected link default from browse, got %q", got)
	}
	sel := driver.selectConfig[0]
	if sel.Options[sel.DefaultIndex] != "Djvu" {
		t.Fatalf("expected Djvu preselected, got %q", sel.Options[sel.DefaultIndex])
	}

	driver.confirm = append(driver.confirm, false)
	driver.inputs = append(driver.inputs, "scans/HipKro03.djvu", "Scan", "https://example.org")
	driver.selectIdx = append(driver.selectIdx, sel.DefaultIndex)

	file, err := NewEditDialog(WithPromptDriver(driver)).Run(context.Background(), vm)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := linkedfile.LinkedFile{
		Description: "Scan",
		Link:        filepath.Join("scans", "HipKro03.djvu"),
		FileType:    "Djvu",
		SourceURL:   "https://example.org",
	}
	if diff := cmp.Diff(want, file); diff != "" {
		t.Fatalf("linked file mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 1 || driver.infoMessages[0] != linkedfile.FormatField([]linkedfile.LinkedFile{want}) {
		t.Fatalf("unexpected info messages %v", driver.infoMessages)
	}
}

func TestEditDialog_NoTypeOption(t *testing.T) {
	driver := &stubDriver{
		confirm:   []bool{false},
		inputs:    []string{"paper.pdf", "", ""},
		selectIdx: []int{0},
	}
	vm := editor.NewViewModel(linkedfile.LinkedFile{Link: "paper.pdf"}, nil, nil, nil)

	file, err := NewEditDialog(WithPromptDriver(driver)).Run(context.Background(), vm)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if file.FileType != "" {
		t.Fatalf("expected cleared type, got %q", file.FileType)
	}
}

func TestEditDialog_PropagatesAbort(t *testing.T) {
	driver := &abortingDriver{}
	vm := editor.NewViewModel(linkedfile.LinkedFile{}, nil, nil, nil)
	if _, err := NewEditDialog(WithPromptDriver(driver)).Run(context.Background(), vm); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := NewEditDialog(WithPromptDriver(driver)).Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil view-model")
	}
}

type abortingDriver struct{ stubDriver }

func (a *abortingDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	return false, ErrAborted
}
