package table

import "text/template"

const goTemplate = `// Code generated by bfmine from {{.Source}}. DO NOT EDIT.

package {{.Package}}

// Rule rewrites occurrences of Pattern with Replacement.
type Rule struct {
	Pattern     string
	Replacement string
}

// Rules holds the mined rewrites in rank order.
var Rules = [...]Rule{
{{- range .Entries}}
	{ {{.Pattern}}, {{.Replacement}} },
{{- end}}
}

// RuleCount is the number of entries in Rules.
const RuleCount = {{.Count}}
`

// An empty table keeps one null entry so the array is never zero-length;
// mlModelCount stays 0.
const cppTemplate = `// Auto-generated from {{.Source}}
#pragma once

namespace {{.Package}} {
struct MlRule { const char* pattern; const char* replacement; };
inline constexpr MlRule mlModel[] = {
{{- range .Entries}}
    { {{- .Pattern}}, {{.Replacement -}} },
{{- else}}
    {nullptr, nullptr},
{{- end}}
};
inline constexpr size_t mlModelCount = {{.Count}};
} // namespace {{.Package}}
`

var (
	goTmpl  = template.Must(template.New("go").Parse(goTemplate))
	cppTmpl = template.Must(template.New("cpp").Parse(cppTemplate))
)

type literalEntry struct {
	Pattern     string
	Replacement string
}

type tableData struct {
	Source  string
	Package string
	Entries []literalEntry
	Count   int
}
