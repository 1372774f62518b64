// Package normalize canonicalizes programs written in the eight-symbol
// instruction language.
//
// Normalization drops every character outside the instruction alphabet and
// then collapses runs of the two arithmetic-like classes: a run of two or more
// symbols from {'+', '-'}, or from {'<', '>'}, becomes its first symbol when
// that symbol occurs an odd number of times in the run, and disappears
// otherwise. Only the first symbol is counted, so a mixed run such as "+-"
// collapses to "+" rather than cancelling out. The mined rule corpus is
// defined relative to that rule, so it must not be replaced by true
// arithmetic cancellation.
//
// Collapsing can bring two runs of the same class next to each other (for
// example "+<<+" becomes "++"), so the collapse is repeated until the text no
// longer changes. The result is therefore idempotent.
package normalize
