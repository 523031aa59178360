package audit

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as Markdown.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Token Registry Audit\n\n")
	sb.WriteString(fmt.Sprintf("Network: %s | Slot: %d\n\n", r.Network, r.Slot))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	sb.WriteString("| Token | Check | Address | Status | Detail |\n")
	sb.WriteString("|-------|-------|---------|--------|--------|\n")
	for _, f := range r.Findings {
		status := "PASS"
		if !f.OK() {
			status = strings.ToUpper(f.Outcome)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			f.Token, f.Check, f.Address, status, markdownCell(f.Detail)))
	}
	sb.WriteString("\n")

	problems := r.Problems()
	if len(problems) == 0 {
		sb.WriteString("All checks passed.\n")
	} else {
		sb.WriteString(fmt.Sprintf("%d of %d checks failed.\n", len(problems), len(r.Findings)))
	}

	return sb.String()
}

// RenderCSV renders findings as CSV.
func RenderCSV(r *Report) string {
	var sb strings.Builder

	sb.WriteString("network,slot,token,check,address,outcome,detail\n")
	for _, f := range r.Findings {
		sb.WriteString(fmt.Sprintf("%s,%d,%s,%s,%s,%s,%s\n",
			r.Network,
			r.Slot,
			f.Token,
			f.Check,
			f.Address,
			f.Outcome,
			csvQuote(f.Detail),
		))
	}

	return sb.String()
}

// markdownCell keeps s inside one table cell.
var markdownCell = strings.NewReplacer(
	"|", "\\|",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
).Replace

func csvQuote(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
