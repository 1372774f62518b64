package collector

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/goof2/bfmine/internal/dataset"
	"github.com/goof2/bfmine/internal/fsutil"
	"github.com/goof2/bfmine/internal/normalize"
	tt "github.com/goof2/bfmine/internal/types"
	"github.com/goof2/bfmine/scanner"
)

const DefaultExtension = ".bf"

// Normalizer turns a raw program into its canonical form.
type Normalizer interface {
	Normalize(text string) string
}

type normalizerFunc func(string) string

func (f normalizerFunc) Normalize(text string) string { return f(text) }

// Stats summarizes one collection run.
type Stats struct {
	Files   int
	Samples int
	Bytes   int64
}

// Collector pairs every source program in a directory with its normalized
// form and writes the pairs as a dataset file.
type Collector struct {
	logger     *zap.Logger
	extensions []string
	recursive  bool
	normalizer Normalizer
	progress   io.Writer
	maxLine    int
}

type Option func(*Collector)

// WithExtensions overrides the source file extensions (default ".bf").
func WithExtensions(exts ...string) Option {
	return func(c *Collector) {
		if len(exts) > 0 {
			c.extensions = exts
		}
	}
}

func WithRecursive(on bool) Option {
	return func(c *Collector) { c.recursive = on }
}

func WithNormalizer(n Normalizer) Option {
	return func(c *Collector) {
		if n != nil {
			c.normalizer = n
		}
	}
}

// WithProgress renders a progress bar to w while reading sources.
func WithProgress(w io.Writer) Option {
	return func(c *Collector) {
		if w != nil {
			c.progress = w
		}
	}
}

func New(logger *zap.Logger, opts ...Option) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger:     logger,
		extensions: []string{DefaultExtension},
		normalizer: normalizerFunc(normalize.Normalize),
		progress:   io.Discard,
		maxLine:    dataset.MaxLineSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect reads every source file in sourceDir in name order and replaces
// outputPath with one "raw\tnormalized" line per file. Any unreadable or
// non-UTF-8 source aborts the run before outputPath is touched.
func (c *Collector) Collect(sourceDir, outputPath string) (Stats, error) {
	var stats Stats

	files, err := scanner.New(sourceDir, c.extensions...).Recursive(c.recursive).Scan()
	if err != nil {
		return stats, err
	}
	c.logger.Debug("Scanned source directory",
		zap.String("dir", sourceDir),
		zap.Strings("extensions", c.extensions),
		zap.Int("files", len(files)))

	var bar *progressbar.ProgressBar
	if len(files) > 0 {
		bar = c.newProgressBar(sourceDir, len(files))
	}

	samples := make([]tt.Sample, 0, len(files))
	for _, f := range files {
		raw, err := readSource(f.Path)
		if err != nil {
			c.logger.Error("Failed to read source", zap.String("file", f.Path), zap.Error(err))
			return stats, err
		}
		sample := dataset.NewSample(raw, c.normalizer.Normalize(raw))
		// a line the miner cannot read back must not reach the dataset
		if n := len(dataset.FormatSample(sample)); n > c.maxLine {
			err := fmt.Errorf("%w: %s needs a %d byte dataset line, limit is %d", tt.ErrLineTooLong, f.Path, n, c.maxLine)
			c.logger.Error("Source too large", zap.String("file", f.Path), zap.Error(err))
			return stats, err
		}
		samples = append(samples, sample)
		stats.Files++
		stats.Bytes += int64(len(raw))
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	err = fsutil.WriteFileAtomic(outputPath, func(w io.Writer) error {
		for _, s := range samples {
			if _, err := io.WriteString(w, dataset.FormatSample(s)); err != nil {
				return fmt.Errorf("%w: %v", tt.ErrFileSystem, err)
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	stats.Samples = len(samples)

	c.logger.Info("Collected samples",
		zap.String("output", outputPath),
		zap.Int("samples", stats.Samples),
		zap.Int64("bytes", stats.Bytes))
	return stats, nil
}

func (c *Collector) newProgressBar(description string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %v", tt.ErrFileSystem, path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", tt.ErrEncoding, path)
	}
	return string(data), nil
}
