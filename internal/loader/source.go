package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source opens a named table file. Implementations return an error
// wrapping fs.ErrNotExist when the file is missing.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// String describes the source for logs.
	String() string
}

// DirSource reads table files from a local directory.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

func (s *DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return f, nil
}

func (s *DirSource) String() string { return "dir:" + s.Dir }
