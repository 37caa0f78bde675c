package editor

import (
	"path/filepath"
	"strings"
	"sync"
)

// FilePreferences holds the directories the editor works with. Values live
// in memory only.
type FilePreferences struct {
	mu               sync.RWMutex
	workingDirectory string
	directories      []string
}

// NewFilePreferences creates preferences with a working directory and the
// file directories searched for relative links, in priority order.
func NewFilePreferences(workingDirectory string, directories ...string) *FilePreferences {
	p := &FilePreferences{workingDirectory: strings.TrimSpace(workingDirectory)}
	for _, dir := range directories {
		if dir = strings.TrimSpace(dir); dir != "" {
			p.directories = append(p.directories, dir)
		}
	}
	return p
}

// WorkingDirectory is where file dialogs open when nothing better is known.
func (p *FilePreferences) WorkingDirectory() string {
	if p == nil {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.workingDirectory
}

// SetWorkingDirectory stores dir for the next dialog.
func (p *FilePreferences) SetWorkingDirectory(dir string) {
	if p == nil || strings.TrimSpace(dir) == "" {
		return
	}
	p.mu.Lock()
	p.workingDirectory = filepath.Clean(dir)
	p.mu.Unlock()
}

// Directories returns the file directories.
func (p *FilePreferences) Directories() []string {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.directories...)
}
