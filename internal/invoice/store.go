package invoice

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirStore saves rendered invoices into a directory on disk. The HTTP layer
// serves them back under /invoices/{filename}.
type DirStore struct {
	Dir string
}

func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create invoice dir: %w", err)
	}
	return &DirStore{Dir: dir}, nil
}

func (s *DirStore) Save(filename string, data []byte) error {
	path := filepath.Join(s.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save invoice %s: %w", filename, err)
	}
	return nil
}

// Path resolves a stored invoice, refusing anything that escapes the directory.
func (s *DirStore) Path(filename string) string {
	return filepath.Join(s.Dir, filepath.Base(filename))
}
