package table

import (
	"strconv"
	"strings"
)

// quoteEscaper doubles backslashes and escapes double quotes in a single
// pass, so backslashes it inserts are never escaped again.
var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Escape prepares s for embedding between double quotes.
func Escape(s string) string {
	return quoteEscaper.Replace(s)
}

func quoted(s string) string {
	return `"` + Escape(s) + `"`
}

// goRawLiteral returns s as a Go raw string. Raw strings cannot hold a
// backquote, and carriage returns are discarded from them, so such patterns
// fall back to an interpreted literal.
func goRawLiteral(s string) string {
	if strings.ContainsAny(s, "`\r") {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}

// cppRawLiteral returns s as a C++ R"(...)" literal, or a quoted literal when
// s contains the )" terminator.
func cppRawLiteral(s string) string {
	if strings.Contains(s, `)"`) {
		return quoted(s)
	}
	return `R"(` + s + `)"`
}
