package miner

import (
	"fmt"
	"sort"

	tt "github.com/goof2/bfmine/internal/types"
)

// tally counts one distinct value and remembers the index of the sample
// where it first appeared.
type tally struct {
	entry     tt.RuleEntry
	firstSeen int
}

// Rank builds the rule table for samples. Samples whose raw and normalized
// text are equal describe no rewrite and are ignored.
func Rank(samples []tt.Sample, mode tt.Mode) (tt.RuleTable, error) {
	switch mode {
	case tt.ModeAllDistinct:
		return rankAllDistinct(samples), nil
	case tt.ModeBestPerPattern:
		return rankBestPerPattern(samples), nil
	default:
		return nil, fmt.Errorf("%w: %q", tt.ErrInvalidMode, mode)
	}
}

func rankAllDistinct(samples []tt.Sample) tt.RuleTable {
	index := make(map[tt.Sample]int)
	var tallies []tally

	for i, s := range samples {
		if s.Raw == s.Normalized {
			continue
		}
		if j, ok := index[s]; ok {
			tallies[j].entry.Frequency++
			continue
		}
		index[s] = len(tallies)
		tallies = append(tallies, tally{
			entry:     tt.RuleEntry{Pattern: s.Raw, Replacement: s.Normalized, Frequency: 1},
			firstSeen: i,
		})
	}

	sortTallies(tallies)

	table := make(tt.RuleTable, 0, len(tallies))
	for _, t := range tallies {
		table = append(table, t.entry)
	}
	return table
}

type patternGroup struct {
	candidates []tally
	index      map[string]int
}

func rankBestPerPattern(samples []tt.Sample) tt.RuleTable {
	groups := make(map[string]*patternGroup)
	var order []string

	for i, s := range samples {
		if s.Raw == s.Normalized {
			continue
		}
		g, ok := groups[s.Raw]
		if !ok {
			g = &patternGroup{index: make(map[string]int)}
			groups[s.Raw] = g
			order = append(order, s.Raw)
		}
		if j, ok := g.index[s.Normalized]; ok {
			g.candidates[j].entry.Frequency++
			continue
		}
		g.index[s.Normalized] = len(g.candidates)
		g.candidates = append(g.candidates, tally{
			entry:     tt.RuleEntry{Pattern: s.Raw, Replacement: s.Normalized, Frequency: 1},
			firstSeen: i,
		})
	}

	table := make(tt.RuleTable, 0, len(order))
	for _, raw := range order {
		candidates := groups[raw].candidates
		sortTallies(candidates)
		table = append(table, candidates[0].entry)
	}
	return table
}

// sortTallies orders by descending frequency, then by first appearance.
func sortTallies(tallies []tally) {
	sort.SliceStable(tallies, func(i, j int) bool {
		a, b := tallies[i], tallies[j]
		if a.entry.Frequency != b.entry.Frequency {
			return a.entry.Frequency > b.entry.Frequency
		}
		return a.firstSeen < b.firstSeen
	})
}
