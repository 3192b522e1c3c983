package slot

import (
	"os"
	"path/filepath"
)

// FileSlot stores the value as the entire content of one file.
//
// Writes are plain whole-file overwrites, not atomic renames. The
// calling loop runs iterations sequentially, so last-write-wins is the
// accepted model here; a crash mid-write can lose the slot content.
type FileSlot struct {
	path string
}

// NewFileSlot creates a slot backed by the file at path.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Path returns the backing file path.
func (s *FileSlot) Path() string { return s.path }

// Read returns the file content, or nil when the file does not exist.
func (s *FileSlot) Read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Write replaces the file content wholesale, creating parent
// directories as needed.
func (s *FileSlot) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Clear removes the file. A missing file is not an error.
func (s *FileSlot) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
