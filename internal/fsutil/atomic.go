package fsutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tt "github.com/goof2/bfmine/internal/types"
)

// WriteFileAtomic creates the parent directories of path, streams the output
// of write into a temporary file next to path and renames it into place once
// write succeeds. On any failure the temporary file is removed and path is
// left untouched.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory %s: %v", tt.ErrFileSystem, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file in %s: %v", tt.ErrFileSystem, dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", tt.ErrFileSystem, path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: failed to set mode on %s: %v", tt.ErrFileSystem, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %v", tt.ErrFileSystem, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: failed to rename %s: %v", tt.ErrFileSystem, tmpName, err)
	}
	return nil
}
