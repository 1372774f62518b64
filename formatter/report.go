package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/fatih/color"

	tt "github.com/goof2/bfmine/internal/types"
)

// maxShownWidth caps how much of a pattern or replacement is printed.
// Raw programs are often long, and the report only needs a recognizable prefix.
const maxShownWidth = 48

var (
	titleStyle       = color.New(color.FgCyan, color.Bold)
	rankStyle        = color.New(color.FgHiBlue, color.Bold)
	countStyle       = color.New(color.FgYellow, color.Bold)
	patternStyle     = color.New(color.FgRed)
	arrowStyle       = color.New(color.FgWhite)
	replacementStyle = color.New(color.FgGreen, color.Bold)
	emptyStyle       = color.New(color.FgHiBlack)
)

const reportTemplate = `{{title .Title .Total .Shown -}}
{{range $i, $r := .Rules}}
{{rank $i $.RankWidth}} {{count $r.Frequency $.CountWidth}} {{pattern $r.Pattern}} {{arrow}} {{replacement $r.Replacement}}
{{- end}}
`

type reportData struct {
	Title      string
	Total      int
	Shown      int
	RankWidth  int
	CountWidth int
	Rules      tt.RuleTable
}

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"title":       title,
	"rank":        rank,
	"count":       count,
	"pattern":     pattern,
	"arrow":       arrow,
	"replacement": replacement,
}).Parse(reportTemplate))

// FormatRuleTable renders the first top rules of table (all of them when top
// is not positive) as a human-readable ranking.
func FormatRuleTable(title string, table tt.RuleTable, top int) string {
	shown := table
	if top > 0 && top < len(table) {
		shown = table[:top]
	}

	maxCount := 0
	for _, r := range shown {
		maxCount = max(maxCount, r.Frequency)
	}

	data := reportData{
		Title:      title,
		Total:      len(table),
		Shown:      len(shown),
		RankWidth:  len(fmt.Sprint(len(shown))),
		CountWidth: len(fmt.Sprint(maxCount)),
		Rules:      shown,
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting rules: %v", err)
	}
	return buf.String()
}

func title(name string, total, shown int) string {
	if shown < total {
		return titleStyle.Sprintf("%s: %d rules (top %d)", name, total, shown)
	}
	return titleStyle.Sprintf("%s: %d rules", name, total)
}

func rank(i, width int) string {
	return rankStyle.Sprintf("%*d.", width, i+1)
}

func count(n, width int) string {
	return countStyle.Sprintf("x%-*d", width, n)
}

func pattern(s string) string {
	return patternStyle.Sprint(shorten(s))
}

func arrow() string {
	return arrowStyle.Sprint("->")
}

func replacement(s string) string {
	if s == "" {
		return emptyStyle.Sprint("(empty)")
	}
	return replacementStyle.Sprint(shorten(s))
}

func shorten(s string) string {
	if utf8.RuneCountInString(s) <= maxShownWidth {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:maxShownWidth-3]), " ") + "..."
}
