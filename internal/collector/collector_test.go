package collector

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goof2/bfmine/internal/normalize"
	tt "github.com/goof2/bfmine/internal/types"
)

func createSources(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	createSources(t, src, map[string]string{
		"b.bf":     "+++\n>>",
		"a.bf":     "hello +- world",
		"skip.txt": "++++",
		"c.bf":     "[-]",
		"sub/d.bf": "++",
	})

	out := filepath.Join(t.TempDir(), "data", "dataset.tsv")
	logger, _ := zap.NewProduction()
	stats, err := New(logger).Collect(src, out)
	require.NoError(t, err)

	assert.Equal(t, Stats{Files: 3, Samples: 3, Bytes: int64(len("+++\n>>") + len("hello +- world") + len("[-]"))}, stats)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	expected := "hello +- world\t+\n" +
		"+++ >>\t+\n" +
		"[-]\t[-]\n"
	assert.Equal(t, expected, string(data))
}

func TestCollectDeterministic(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	createSources(t, src, map[string]string{
		"z.bf": "++--<<>>",
		"m.bf": "+[->+<]>.",
		"a.bf": ",\n.\n",
	})
	outDir := t.TempDir()
	first := filepath.Join(outDir, "first.tsv")
	second := filepath.Join(outDir, "second.tsv")

	c := New(nil)
	_, err := c.Collect(src, first)
	require.NoError(t, err)
	_, err = c.Collect(src, second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCollectOverwrites(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	createSources(t, src, map[string]string{"a.bf": "+"})
	out := filepath.Join(t.TempDir(), "dataset.tsv")
	require.NoError(t, os.WriteFile(out, []byte("stale\tline\nmore\tlines\n"), 0o644))

	_, err := New(nil).Collect(src, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "+\t+\n", string(data))
}

func TestCollectInvalidUTF8IsFatal(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	createSources(t, src, map[string]string{
		"a.bf": "+",
		"b.bf": string([]byte{'+', 0xff, 0xfe}),
	})
	out := filepath.Join(t.TempDir(), "dataset.tsv")

	_, err := New(nil).Collect(src, out)
	require.ErrorIs(t, err, tt.ErrEncoding)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no partial dataset should be written")
}

func TestCollectSymlinkedSourceDirectory(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	createSources(t, src, map[string]string{"a.bf": "+++"})

	link := filepath.Join(t.TempDir(), "programs")
	if err := os.Symlink(src, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	out := filepath.Join(t.TempDir(), "dataset.tsv")

	stats, err := New(nil).Collect(link, out)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Files)
	assert.Equal(t, 1, stats.Samples)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "+++\t+\n", string(data))
}

func TestCollectLineTooLong(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	createSources(t, src, map[string]string{
		"a.bf": "+",
		"b.bf": "+++++",
	})
	out := filepath.Join(t.TempDir(), "dataset.tsv")

	c := New(nil)
	c.maxLine = len("+++++\t+\n") - 1
	_, err := c.Collect(src, out)
	require.ErrorIs(t, err, tt.ErrLineTooLong)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))

	c.maxLine = len("+++++\t+\n")
	stats, err := c.Collect(src, out)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Samples)
}

func TestCollectMissingDirectory(t *testing.T) {
	t.Parallel()
	_, err := New(nil).Collect(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "out.tsv"))
	assert.ErrorIs(t, err, tt.ErrInputNotFound)
}

func TestCollectOptions(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	createSources(t, src, map[string]string{
		"a.b":     "++",
		"sub/b.b": "+++",
		"c.bf":    "+",
	})
	out := filepath.Join(t.TempDir(), "dataset.tsv")

	cache, err := normalize.NewCache(8)
	require.NoError(t, err)
	var progress bytes.Buffer

	c := New(nil,
		WithExtensions(".b"),
		WithRecursive(true),
		WithNormalizer(cache),
		WithProgress(&progress))
	stats, err := c.Collect(src, out)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Samples)
	assert.Equal(t, 2, cache.Len())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "++\t\n+++\t+\n", string(data))
	assert.NotEmpty(t, progress.String())
}

func TestCollectEmptyDirectory(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "dataset.tsv")
	stats, err := New(nil).Collect(t.TempDir(), out)
	require.NoError(t, err)
	assert.Zero(t, stats.Samples)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Empty(t, data)
}
