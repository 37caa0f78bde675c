// Package tui implements the linked-file dialogs for terminals on top of a
// PromptDriver. The default driver uses survey.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-bibfmt/pkg/editor"
	"github.com/goliatone/go-bibfmt/pkg/filetype"
	"github.com/goliatone/go-bibfmt/pkg/linkedfile"
)

const (
	maxSuggestions = 20
	noFileType     = "(none)"
)

// Option configures the dialogs.
type Option func(*options)

type options struct {
	driver PromptDriver
}

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(o *options) {
		if driver != nil {
			o.driver = driver
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.driver == nil {
		o.driver = NewSurveyDriver(nil)
	}
	return o
}

// FileDialog asks for a path on the terminal. It implements
// editor.DialogService.
type FileDialog struct {
	driver PromptDriver
}

var _ editor.DialogService = (*FileDialog)(nil)

// NewFileDialog creates a file dialog.
func NewFileDialog(opts ...Option) *FileDialog {
	return &FileDialog{driver: buildOptions(opts).driver}
}

// ShowFileOpenDialog prompts for an existing file. The answer defaults to the
// initial file inside the initial directory; relative answers are resolved
// against the initial directory. An empty answer cancels.
func (d *FileDialog) ShowFileOpenDialog(ctx context.Context, cfg editor.FileDialogConfig) (string, bool, error) {
	base := cfg.InitialDirectory
	def := ""
	if cfg.InitialFileName != "" {
		def = filepath.Join(base, cfg.InitialFileName)
	}

	answer, err := d.driver.Input(ctx, InputConfig{
		Message: "File",
		Default: def,
		Help:    "Path of the file to link; leave empty to cancel",
		Suggest: func(toComplete string) []string {
			return suggestPaths(base, toComplete)
		},
		Validator: func(value string) error {
			if strings.TrimSpace(value) == "" {
				return nil
			}
			if !isRegularFile(resolveAgainst(base, value)) {
				return fmt.Errorf("%s is not a file", value)
			}
			return nil
		},
	})
	if err != nil {
		return "", false, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false, nil
	}
	return resolveAgainst(base, answer), true, nil
}

// EditDialog walks the user through editing a linked file.
type EditDialog struct {
	driver PromptDriver
}

// NewEditDialog creates an edit dialog.
func NewEditDialog(opts ...Option) *EditDialog {
	return &EditDialog{driver: buildOptions(opts).driver}
}

// Run prompts for the link (optionally browsing), description, source URL
// and file type, then returns the edited file.
func (d *EditDialog) Run(ctx context.Context, vm *editor.ViewModel) (linkedfile.LinkedFile, error) {
	if vm == nil {
		return linkedfile.LinkedFile{}, fmt.Errorf("tui: view-model is required")
	}

	browse, err := d.driver.Confirm(ctx, ConfirmConfig{
		Message: "Browse for a file?",
		Default: strings.TrimSpace(vm.Link.Get()) == "",
	})
	if err != nil {
		return linkedfile.LinkedFile{}, err
	}
	if browse {
		if err := vm.OpenBrowseDialog(ctx); err != nil {
			return linkedfile.LinkedFile{}, err
		}
	}

	link, err := d.driver.Input(ctx, InputConfig{Message: "Link", Default: vm.Link.Get()})
	if err != nil {
		return linkedfile.LinkedFile{}, err
	}
	vm.Link.Set(strings.TrimSpace(link))

	description, err := d.driver.Input(ctx, InputConfig{Message: "Description", Default: vm.Description.Get()})
	if err != nil {
		return linkedfile.LinkedFile{}, err
	}
	vm.Description.Set(description)

	source, err := d.driver.Input(ctx, InputConfig{Message: "Source URL", Default: vm.SourceURL.Get()})
	if err != nil {
		return linkedfile.LinkedFile{}, err
	}
	vm.SourceURL.Set(strings.TrimSpace(source))

	if err := d.selectType(ctx, vm); err != nil {
		return linkedfile.LinkedFile{}, err
	}

	file := vm.NewLinkedFile()
	if err := d.driver.Info(ctx, linkedfile.FormatField([]linkedfile.LinkedFile{file})); err != nil {
		return linkedfile.LinkedFile{}, err
	}
	return file, nil
}

func (d *EditDialog) selectType(ctx context.Context, vm *editor.ViewModel) error {
	types := vm.FileTypes()
	options := make([]string, 0, len(types)+1)
	options = append(options, noFileType)
	defaultIdx := 0
	selected := vm.SelectedFileType.Get().Name
	for i, t := range types {
		options = append(options, t.Name)
		if selected != "" && t.Name == selected {
			defaultIdx = i + 1
		}
	}

	idx, err := d.driver.Select(ctx, SelectConfig{
		Message:      "File type",
		Options:      options,
		DefaultIndex: defaultIdx,
		PageSize:     10,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return ErrNoSelection
	}
	if idx == 0 {
		vm.SelectedFileType.Set(filetype.Type{})
		return nil
	}
	return vm.SelectFileType(options[idx])
}

func resolveAgainst(base, value string) string {
	value = strings.TrimSpace(value)
	if filepath.IsAbs(value) || base == "" {
		return filepath.Clean(value)
	}
	return filepath.Join(base, value)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

var globMeta = strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`)

// suggestPaths completes toComplete against the file system. Directories get
// a trailing separator.
func suggestPaths(base, toComplete string) []string {
	prefix := resolveAgainst(base, toComplete)
	if strings.HasSuffix(toComplete, string(filepath.Separator)) || toComplete == "" {
		prefix += string(filepath.Separator)
	}
	matches, err := doublestar.FilepathGlob(globMeta.Replace(prefix) + "*")
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	for i, match := range matches {
		if info, err := os.Stat(match); err == nil && info.IsDir() {
			matches[i] = match + string(filepath.Separator)
		}
	}
	return matches
}
