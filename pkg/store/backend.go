package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend is durable storage for one serialized blob. Read returns nil data
// when nothing has been written yet. Both calls are synchronous.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// FileBackend stores a blob in a single file, replaced atomically on write.
type FileBackend struct {
	Path string
}

// NewFileBackend returns a backend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (f *FileBackend) Read() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	return data, nil
}

func (f *FileBackend) Write(data []byte) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", f.Path, err)
	}
	return nil
}

// MemBackend keeps the blob in memory. Set WriteErr to make writes fail.
type MemBackend struct {
	Data     []byte
	WriteErr error
	Writes   int
}

func (m *MemBackend) Read() ([]byte, error) {
	if m.Data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.Data))
	copy(out, m.Data)
	return out, nil
}

func (m *MemBackend) Write(data []byte) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Data = append(m.Data[:0:0], data...)
	m.Writes++
	return nil
}
