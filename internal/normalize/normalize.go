package normalize

import "strings"

// Alphabet lists the symbols that carry meaning; everything else is noise.
const Alphabet = "+-<>.,[]"

type class uint8

const (
	classOther class = iota
	classPlusMinus
	classAngle
)

func classify(c byte) class {
	switch c {
	case '+', '-':
		return classPlusMinus
	case '<', '>':
		return classAngle
	default:
		return classOther
	}
}

func isInstruction(c byte) bool {
	return strings.IndexByte(Alphabet, c) >= 0
}

// Normalize returns the canonical form of text. It is pure and total.
func Normalize(text string) string {
	code := strip(text)
	for {
		next := collapse(code)
		if next == code {
			return code
		}
		code = next
	}
}

// strip keeps only instruction symbols. The alphabet is ASCII, so bytes of
// multi-byte runes never match.
func strip(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if isInstruction(text[i]) {
			b.WriteByte(text[i])
		}
	}
	return b.String()
}

// collapse performs one left-to-right pass over code, replacing each maximal
// same-class run by its first symbol or by nothing, depending on the parity
// of that symbol's count within the run.
func collapse(code string) string {
	var b strings.Builder
	b.Grow(len(code))

	for i := 0; i < len(code); {
		first := code[i]
		cls := classify(first)
		if cls == classOther {
			b.WriteByte(first)
			i++
			continue
		}

		same := 0
		j := i
		for ; j < len(code) && classify(code[j]) == cls; j++ {
			if code[j] == first {
				same++
			}
		}
		// a single symbol is its own run with an odd count
		if same%2 == 1 {
			b.WriteByte(first)
		}
		i = j
	}
	return b.String()
}
