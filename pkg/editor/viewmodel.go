// Package editor contains the view-model behind the linked-file edit dialog.
// It is toolkit independent: a front end binds to the properties and
// supplies a DialogService.
package editor

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-bibfmt/pkg/binding"
	"github.com/goliatone/go-bibfmt/pkg/filetype"
	"github.com/goliatone/go-bibfmt/pkg/linkedfile"
)

// htmlExtension selects the file type for remote links.
const htmlExtension = "html"

// FileDialogConfig configures a file-open dialog.
type FileDialogConfig struct {
	InitialDirectory string
	InitialFileName  string
}

// DialogService shows file dialogs. ok is false when the user cancelled.
type DialogService interface {
	ShowFileOpenDialog(ctx context.Context, cfg FileDialogConfig) (path string, ok bool, err error)
}

// ViewModel backs the dialog that edits one linked file.
type ViewModel struct {
	Link             *binding.Property[string]
	Description      *binding.Property[string]
	SourceURL        *binding.Property[string]
	SelectedFileType *binding.Property[filetype.Type]

	types   *filetype.Registry
	dialogs DialogService
	prefs   *FilePreferences
}

// NewViewModel builds a view-model populated from file. A nil registry
// selects the default file types.
func NewViewModel(file linkedfile.LinkedFile, types *filetype.Registry, dialogs DialogService, prefs *FilePreferences) *ViewModel {
	if types == nil {
		types = filetype.NewDefault()
	}
	if prefs == nil {
		prefs = NewFilePreferences("")
	}
	vm := &ViewModel{
		Link:             binding.NewProperty(""),
		Description:      binding.NewProperty(""),
		SourceURL:        binding.NewProperty(""),
		SelectedFileType: binding.NewProperty(filetype.Type{}),
		types:            types,
		dialogs:          dialogs,
		prefs:            prefs,
	}
	vm.SetValues(file)
	return vm
}

// FileTypes lists the selectable file types.
func (vm *ViewModel) FileTypes() []filetype.Type {
	return vm.types.List()
}

// Preferences exposes the file preferences in use.
func (vm *ViewModel) Preferences() *FilePreferences {
	return vm.prefs
}

// SetValues loads file into the properties. Local links are shown relative
// to the file directories. The type is the file's own registered type, else
// a guess from the link.
func (vm *ViewModel) SetValues(file linkedfile.LinkedFile) {
	vm.Description.Set(file.Description)
	vm.SourceURL.Set(file.SourceURL)

	if file.IsOnlineLink() {
		vm.Link.Set(file.Link)
	} else {
		vm.Link.Set(linkedfile.Relativize(file.Link, vm.prefs.Directories()))
	}

	if t, ok := vm.types.ForLinkedFile(file.FileType, file.Link, false); ok && !t.IsUnknown() {
		vm.SelectedFileType.Set(t)
		return
	}
	if strings.TrimSpace(file.Link) != "" {
		vm.selectTypeForLink(file.Link)
	}
}

// SelectFileType selects the registered type called name.
func (vm *ViewModel) SelectFileType(name string) error {
	t, ok := vm.types.ByName(name)
	if !ok {
		return fmt.Errorf("editor: unknown file type %q", name)
	}
	vm.SelectedFileType.Set(t)
	return nil
}

// OpenBrowseDialog lets the user pick a file. The dialog starts next to the
// current link when it resolves, else in the working directory. A chosen
// file updates the working directory, the link and the type.
func (vm *ViewModel) OpenBrowseDialog(ctx context.Context) error {
	if vm.dialogs == nil {
		return fmt.Errorf("editor: dialog service is required")
	}

	current := strings.TrimSpace(vm.Link.Get())
	dirs := vm.prefs.Directories()

	cfg := FileDialogConfig{InitialDirectory: vm.prefs.WorkingDirectory()}
	if found, ok := linkedfile.Find(current, dirs); ok {
		cfg.InitialDirectory = filepath.Dir(found)
	}
	if current != "" {
		cfg.InitialFileName = filepath.Base(current)
	}

	chosen, ok, err := vm.dialogs.ShowFileOpenDialog(ctx, cfg)
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(chosen) == "" {
		return nil
	}

	vm.prefs.SetWorkingDirectory(filepath.Dir(chosen))
	vm.Link.Set(linkedfile.Relativize(chosen, dirs))
	vm.selectTypeForLink(vm.Link.Get())
	return nil
}

// NewLinkedFile builds the edited file from the current properties.
func (vm *ViewModel) NewLinkedFile() linkedfile.LinkedFile {
	link := vm.Link.Get()
	switch {
	case linkedfile.IsOnlineLink(link):
		if u, err := url.Parse(strings.TrimSpace(link)); err == nil && u.Scheme != "" {
			link = u.String()
		}
	case strings.TrimSpace(link) != "":
		link = filepath.Clean(strings.TrimSpace(link))
	}

	return linkedfile.LinkedFile{
		Description: vm.Description.Get(),
		Link:        link,
		FileType:    vm.SelectedFileType.Get().Name,
		SourceURL:   vm.SourceURL.Get(),
	}
}

func (vm *ViewModel) selectTypeForLink(link string) {
	if link == "" {
		return
	}
	if linkedfile.IsRemoteLink(link) {
		if t, ok := vm.types.ByExtension(htmlExtension); ok {
			vm.SelectedFileType.Set(t)
		}
	}
	if t, ok := vm.types.ForFileName(strings.TrimSpace(link)); ok {
		vm.SelectedFileType.Set(t)
	}
}
