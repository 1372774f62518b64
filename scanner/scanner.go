package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	tt "github.com/goof2/bfmine/internal/types"
)

type FileInfo struct {
	Path string
	Name string // slash-separated path relative to the scanned root
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
	recursive  bool
}

func New(rootDir string, extensions ...string) *Scanner {
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Recursive makes Scan descend into subdirectories.
func (s *Scanner) Recursive(on bool) *Scanner {
	s.recursive = on
	return s
}

// Scan lists matching regular files, and symlinks to them, sorted
// lexicographically by name, so repeated scans of an unchanged directory
// return the same order. Dangling symlinks are skipped.
func (s *Scanner) Scan() ([]FileInfo, error) {
	info, err := os.Stat(s.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", tt.ErrInputNotFound, s.rootDir)
		}
		return nil, fmt.Errorf("%w: failed to access %s: %v", tt.ErrFileSystem, s.rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", tt.ErrInputNotFound, s.rootDir)
	}

	// WalkDir does not descend into a symlinked root, so walk its target and
	// report paths under the name the caller gave.
	root, err := filepath.EvalSymlinks(s.rootDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve %s: %v", tt.ErrFileSystem, s.rootDir, err)
	}

	var files []FileInfo
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !s.recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.isTargetFile(path) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		// symlinked files are collected when they point at a regular file
		if fi.Mode()&fs.ModeSymlink != 0 {
			fi, err = os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
		}
		if !fi.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, FileInfo{
			Path: filepath.Join(s.rootDir, rel),
			Name: filepath.ToSlash(rel),
			Size: fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan %s: %v", tt.ErrFileSystem, s.rootDir, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
