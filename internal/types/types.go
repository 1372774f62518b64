package types

import "fmt"

// Sample is one raw program paired with its normalized form.
// Raw never contains newlines or tabs, so a Sample always fits on one line.
type Sample struct {
	Raw        string
	Normalized string
}

// RuleEntry is an observed rewrite and how often it was seen.
type RuleEntry struct {
	Pattern     string
	Replacement string
	Frequency   int
}

// RuleTable is a ranked list of rules.
type RuleTable []RuleEntry

// Mode selects how the miner turns pairs into rules.
type Mode string

const (
	// ModeAllDistinct emits every distinct (raw, normalized) pair ranked by count.
	ModeAllDistinct Mode = "all-distinct"
	// ModeBestPerPattern emits one rule per raw program, picking its most frequent replacement.
	ModeBestPerPattern Mode = "best-per-pattern"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAllDistinct, ModeBestPerPattern:
		return m, nil
	case "":
		return ModeAllDistinct, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Format is the language of a compiled rule table.
type Format string

const (
	FormatGo  Format = "go"
	FormatCpp Format = "cpp"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatGo, FormatCpp:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}
