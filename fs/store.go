// Package fs provides file-based storage for encoded results.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ehviewer/ehparse"
)

// Ensure FileStore implements ehparse.ResultStore at compile time.
var _ ehparse.ResultStore = (*FileStore)(nil)

// FileStore implements ehparse.ResultStore with atomic update semantics.
// Results are saved to a temporary directory, then moved atomically on Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes data to name inside the temporary directory. The name must be a
// plain file name.
func (s *FileStore) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return ehparse.Errorf(ehparse.EINVALID, "invalid result file name %q", name)
	}

	dir := s.tempDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0644)
}

func (s *FileStore) Commit() error {
	// Nothing saved: leave any previous output alone.
	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		return nil
	}

	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// ResultName returns the file name for the result of the input at position.
// Example: (3, "pages/fav.html") → 0003-fav.json
func ResultName(position int, inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "result"
	}
	return fmt.Sprintf("%04d-%s.json", position, base)
}
