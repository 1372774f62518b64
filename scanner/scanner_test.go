package scanner

import (
	"os"
	"path/filepath"
	"testing"

	tt "github.com/goof2/bfmine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
}

func names(files []FileInfo) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestScanTopLevelSorted(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{
		"b.bf":        "+",
		"a.bf":        "++",
		"C.bf":        "+++",
		"notes.txt":   "text",
		"sub/deep.bf": "-",
	})

	files, err := New(tempDir, ".bf").Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"C.bf", "a.bf", "b.bf"}, names(files))
	assert.Equal(t, filepath.Join(tempDir, "a.bf"), files[1].Path)
	assert.Equal(t, int64(2), files[1].Size)
}

func TestScanRecursive(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{
		"z.bf":        "+",
		"sub/deep.bf": "-",
		"sub/x.b":     "-",
	})

	files, err := New(tempDir, ".bf").Recursive(true).Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/deep.bf", "z.bf"}, names(files))
}

func TestScanNoExtensionFilter(t *testing.T) {
	tempDir := t.TempDir()
	writeFiles(t, tempDir, map[string]string{"a.txt": "", "b.bf": ""})

	files, err := New(tempDir).Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.bf"}, names(files))
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), ".bf").Scan()
	assert.ErrorIs(t, err, tt.ErrInputNotFound)

	file := filepath.Join(t.TempDir(), "file.bf")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(file, ".bf").Scan()
	assert.ErrorIs(t, err, tt.ErrInputNotFound)
}

func TestScanSymlinkedRoot(t *testing.T) {
	realDir := t.TempDir()
	writeFiles(t, realDir, map[string]string{"a.bf": "+++", "b.bf": "-"})

	link := filepath.Join(t.TempDir(), "programs")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := New(link, ".bf").Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.bf", "b.bf"}, names(files))
	assert.Equal(t, filepath.Join(link, "a.bf"), files[0].Path)
	assert.Equal(t, int64(3), files[0].Size)
}

func TestScanSymlinkedFiles(t *testing.T) {
	target := t.TempDir()
	writeFiles(t, target, map[string]string{"shared.bf": "++"})

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.bf": "+"})
	if err := os.Symlink(filepath.Join(target, "shared.bf"), filepath.Join(dir, "b.bf")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(target, "gone.bf"), filepath.Join(dir, "c.bf")))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "d.bf")))

	files, err := New(dir, ".bf").Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.bf", "b.bf"}, names(files))
	assert.Equal(t, int64(2), files[1].Size)
}
