package linkedfile

import (
	"os"
	"path/filepath"
	"strings"
)

// Relativize returns path relative to the first directory in dirs that
// contains it. Paths outside every directory are returned cleaned.
func Relativize(path string, dirs []string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	if !filepath.IsAbs(cleaned) {
		return cleaned
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		rel, err := filepath.Rel(filepath.Clean(dir), cleaned)
		if err != nil {
			continue
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return rel
	}
	return cleaned
}

// Find resolves link to an existing regular file. Absolute links are
// checked as they are; relative links are tried against each directory in
// order. Online links never resolve.
func Find(link string, dirs []string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" || IsOnlineLink(link) || IsRemoteLink(link) {
		return "", false
	}
	if filepath.IsAbs(link) {
		if isFile(link) {
			return link, true
		}
		return "", false
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		candidate := filepath.Join(dir, link)
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
