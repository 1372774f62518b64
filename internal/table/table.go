// Package table compiles a rule list into a constant lookup table that the
// interpreter includes at build time.
package table

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/goof2/bfmine/internal/dataset"
	"github.com/goof2/bfmine/internal/fsutil"
	tt "github.com/goof2/bfmine/internal/types"
)

const (
	DefaultPackage = "mlmodel"
	// DefaultNamespace is the C++ namespace the interpreter includes the
	// table from.
	DefaultNamespace = "goof2"
)

// DefaultName returns the package or namespace used when none is configured.
func DefaultName(f tt.Format) string {
	if f == tt.FormatGo {
		return DefaultPackage
	}
	return DefaultNamespace
}

type Compiler struct {
	logger  *zap.Logger
	format  tt.Format
	pkgName string
}

type Option func(*Compiler)

// WithFormat fixes the output language. Without it the format follows the
// output file extension.
func WithFormat(f tt.Format) Option {
	return func(c *Compiler) { c.format = f }
}

// WithPackage sets the Go package or C++ namespace of the generated table.
// Without it the name follows the format (see DefaultName).
func WithPackage(name string) Option {
	return func(c *Compiler) {
		if name != "" {
			c.pkgName = name
		}
	}
}

func New(logger *zap.Logger, opts ...Option) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Compiler{logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FormatFor infers the table format from an output path: ".go" files get Go
// source, everything else a C++ header.
func FormatFor(outputPath string) tt.Format {
	if filepath.Ext(outputPath) == ".go" {
		return tt.FormatGo
	}
	return tt.FormatCpp
}

// Compile renders the rules of ruleListPath into outputPath and returns the
// number of entries written.
func (c *Compiler) Compile(ruleListPath, outputPath string) (int, error) {
	f := c.format
	if f == "" {
		f = FormatFor(outputPath)
	}
	if _, err := tt.ParseFormat(string(f)); err != nil {
		return 0, err
	}
	pkgName := c.pkgName
	if pkgName == "" {
		pkgName = DefaultName(f)
	}
	if !token.IsIdentifier(pkgName) {
		return 0, fmt.Errorf("invalid package name %q", pkgName)
	}

	rules, err := c.Load(ruleListPath)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := Render(&buf, rules, f, pkgName, filepath.ToSlash(ruleListPath)); err != nil {
		return 0, err
	}

	err = fsutil.WriteFileAtomic(outputPath, func(w io.Writer) error {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("%w: %v", tt.ErrFileSystem, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	c.logger.Info("Compiled rule table",
		zap.String("rules", ruleListPath),
		zap.String("output", outputPath),
		zap.String("format", string(f)),
		zap.Int("entries", len(rules)))
	return len(rules), nil
}

// Load reads the rule list, skipping blank lines, comments and lines that do
// not hold exactly two tab-separated fields.
func (c *Compiler) Load(ruleListPath string) (tt.RuleTable, error) {
	file, err := os.Open(ruleListPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", tt.ErrInputNotFound, ruleListPath)
		}
		return nil, fmt.Errorf("%w: failed to open %s: %v", tt.ErrFileSystem, ruleListPath, err)
	}
	defer file.Close()

	var rules tt.RuleTable
	err = dataset.ScanLines(file, func(lineNo int, line string) error {
		if dataset.IsComment(line) {
			return nil
		}
		rule, err := dataset.ParseRule(line)
		if err != nil {
			c.logger.Debug("Skipping rule line",
				zap.String("rules", ruleListPath),
				zap.Int("line", lineNo),
				zap.Error(err))
			return nil
		}
		rules = append(rules, rule)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// Render writes rules as a table in format f. Patterns become raw literals and
// replacements escaped quoted literals.
func Render(w io.Writer, rules tt.RuleTable, f tt.Format, pkgName, source string) error {
	data := tableData{
		Source:  source,
		Package: pkgName,
		Entries: make([]literalEntry, 0, len(rules)),
		Count:   len(rules),
	}

	rawLiteral := cppRawLiteral
	tmpl := cppTmpl
	if f == tt.FormatGo {
		rawLiteral = goRawLiteral
		tmpl = goTmpl
	}
	for _, r := range rules {
		data.Entries = append(data.Entries, literalEntry{
			Pattern:     rawLiteral(r.Pattern),
			Replacement: quoted(r.Replacement),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s table: %w", f, err)
	}

	out := buf.Bytes()
	if f == tt.FormatGo {
		formatted, err := format.Source(out)
		if err != nil {
			return fmt.Errorf("failed to format generated table: %w", err)
		}
		out = formatted
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("%w: %v", tt.ErrFileSystem, err)
	}
	return nil
}
