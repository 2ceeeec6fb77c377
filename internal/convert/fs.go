package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// directory entry as seen by the batch converter
type FileInfo struct {
	Name string
	Ext  string
}

// file and directory access used by the converter
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	// writes UTF-8 content, creating parent directories as needed
	WriteFile(path string, data []byte) error
	Exists(path string) bool
	IsDir(path string) bool
	// regular files only, non-recursive, sorted by name
	ListFiles(dir string) ([]FileInfo, error)
}

// FileSystem backed by the os package
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileSystem) WriteFile(path string, data []byte) error {
	if isDirPath(path) {
		return fmt.Errorf("%s names a directory, not a file", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OSFileSystem) ListFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, FileInfo{Name: e.Name(), Ext: filepath.Ext(e.Name())})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// reports whether path ends with a separator, i.e. names a directory
func isDirPath(path string) bool {
	return strings.HasSuffix(path, "/") ||
		strings.HasSuffix(path, string(filepath.Separator))
}
