// Package dataset reads and writes the tab-separated line formats exchanged
// between pipeline stages: samples ("raw\tnormalized") and rule lists
// ("pattern\treplacement").
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	tt "github.com/goof2/bfmine/internal/types"
)

// MaxLineSize bounds a single dataset line, terminator included. Raw programs
// are stored on one line, so this is also the largest program the pipeline
// accepts.
const MaxLineSize = 64 << 20

var rawReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// NewSample pairs raw with normalized, flattening raw onto a single line.
func NewSample(raw, normalized string) tt.Sample {
	return tt.Sample{Raw: rawReplacer.Replace(raw), Normalized: normalized}
}

func FormatSample(s tt.Sample) string {
	return s.Raw + "\t" + s.Normalized + "\n"
}

// ParseSample splits line on its first tab.
func ParseSample(line string) (tt.Sample, error) {
	raw, normalized, ok := strings.Cut(line, "\t")
	if !ok {
		return tt.Sample{}, fmt.Errorf("%w: missing tab delimiter", tt.ErrMalformedLine)
	}
	return tt.Sample{Raw: raw, Normalized: normalized}, nil
}

// IsComment reports whether a rule-list line carries no rule: blank lines and
// lines starting with "#" or "//".
func IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//")
}

// ParseRule parses a rule-list line made of exactly two tab-separated fields.
// Fields are kept verbatim; an empty replacement is valid.
func ParseRule(line string) (tt.RuleEntry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 2 {
		return tt.RuleEntry{}, fmt.Errorf("%w: expected 2 tab-separated fields, got %d", tt.ErrMalformedLine, len(fields))
	}
	return tt.RuleEntry{Pattern: fields[0], Replacement: fields[1]}, nil
}

func FormatRule(r tt.RuleEntry) string {
	return r.Pattern + "\t" + r.Replacement + "\n"
}

// WriteRules writes one "pattern\treplacement" line per entry, in order.
func WriteRules(w io.Writer, table tt.RuleTable) error {
	for _, r := range table {
		if _, err := io.WriteString(w, FormatRule(r)); err != nil {
			return fmt.Errorf("%w: %v", tt.ErrFileSystem, err)
		}
	}
	return nil
}

// ScanLines calls fn for every line of r with its 1-based number. The line
// terminator, including a trailing carriage return, is removed.
func ScanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := fn(lineNo, sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("%w: line %d exceeds %d bytes", tt.ErrLineTooLong, lineNo+1, MaxLineSize)
		}
		return fmt.Errorf("%w: failed to read line %d: %v", tt.ErrFileSystem, lineNo+1, err)
	}
	return nil
}
