// Package filex holds small filesystem helpers: data directory setup and
// the "save as" export used when content leaves the encrypted store.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxNameAttempts bounds the "name (n).ext" search in SaveFile.
const maxNameAttempts = 1000

// EnsureSubdDir creates dirName under the current working directory if it is
// missing and returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return EnsureDir(filepath.Join(cwd, dirName))
}

// EnsureDir creates dir (and parents) with owner/group access only.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// SaveResult mirrors the reply of the desktop shell's save-file channel.
type SaveResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SaveFile writes content into dir under defaultFilename. Existing files are
// never overwritten: "report.txt" becomes "report (1).txt", "report (2).txt"
// and so on. Only the base name of defaultFilename is used.
func SaveFile(dir, content, defaultFilename string) SaveResult {
	name := filepath.Base(strings.TrimSpace(defaultFilename))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return SaveResult{Error: "invalid file name"}
	}

	if _, err := EnsureDir(dir); err != nil {
		return SaveResult{Error: err.Error()}
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxNameAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return SaveResult{Error: err.Error()}
		}

		_, werr := f.WriteString(content)
		cerr := f.Close()
		if werr != nil {
			return SaveResult{Error: werr.Error()}
		}
		if cerr != nil {
			return SaveResult{Error: cerr.Error()}
		}
		return SaveResult{Success: true, Path: path}
	}

	return SaveResult{Error: "no free file name for " + name}
}
