package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/nodusapp/nodus/internal/contract"
	"github.com/nodusapp/nodus/internal/domain"
)

// FormatPageFooter prints "page 2 of 3 (25 total)".
func FormatPageFooter(p contract.Page) string {
	if p.Total == 0 {
		return Dim("no entries")
	}
	footer := fmt.Sprintf("page %d of %d (%d total)", p.Page, p.TotalPages, p.Total)
	if p.Beyond() {
		footer += " - past the last page"
	}
	return Dim(footer)
}

// FormatLedgerPage renders one page of realized money movements.
func FormatLedgerPage(page *contract.LedgerPage) string {
	headers := []string{"ID", "DATE", "AMOUNT", "CUR", "FINANCE"}
	rows := make([][]string, 0, len(page.Rows))
	for _, r := range page.Rows {
		title := Placeholder()
		if r.FinanceTitle != "" {
			title = Truncate(r.FinanceTitle, 32)
		}
		rows = append(rows, []string{
			FormatID(r.ID),
			r.Date.Format(time.DateOnly),
			Amount(r.Amount, r.CurrencySymbol),
			Dim(r.CurrencyCode),
			title,
		})
	}

	var b strings.Builder
	if len(rows) > 0 {
		t := Table{Headers: headers, Rows: rows, Align: []Align{AlignLeft, AlignLeft, AlignRight}}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	b.WriteString(FormatPageFooter(page.Page))
	return RenderBox("Ledger", b.String())
}

// FormatTotals renders per-currency sums.
func FormatTotals(totals []contract.CurrencyTotal) string {
	if len(totals) == 0 {
		return Dim("No entries.") + "\n"
	}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{Bold(t.Code), Amount(t.Total, t.Symbol), fmt.Sprintf("%d", t.Count)})
	}
	table := Table{Headers: []string{"CUR", "TOTAL", "ENTRIES"}, Rows: rows, Align: []Align{AlignLeft, AlignRight, AlignRight}}
	return RenderBox("Totals", table.Render())
}

// FormatFinanceList shows planned money records. codes maps currency ids
// to their codes.
func FormatFinanceList(finances []*domain.Finance, codes map[int64]string) string {
	if len(finances) == 0 {
		return Dim("No finances.") + "\n"
	}
	rows := make([][]string, 0, len(finances))
	for _, f := range finances {
		link := ""
		switch {
		case f.TaskID != nil:
			link = "task " + FormatID(*f.TaskID)
		case f.HabitID != nil:
			link = "habit " + FormatID(*f.HabitID)
		}
		rows = append(rows, []string{
			FormatID(f.ID),
			Bold(f.Title),
			FormatAmount(f.Amount, ""),
			Dim(codes[f.CurrencyID]),
			link,
		})
	}
	table := Table{
		Headers: []string{"ID", "TITLE", "AMOUNT", "CUR", "LINKED"},
		Rows:    rows,
		Align:   []Align{AlignLeft, AlignLeft, AlignRight},
	}
	return RenderBox("Finances", table.Render())
}

// FormatNotePage renders note search results with excerpts.
func FormatNotePage(page *contract.NotePage, now time.Time) string {
	var b strings.Builder
	for _, n := range page.Notes {
		fmt.Fprintf(&b, "%s %s  %s\n", FormatID(n.ID), Bold(n.Title), Dim(HumanTimestamp(n.UpdatedAt, now)))
		if n.Excerpt != "" {
			b.WriteString("   " + n.Excerpt + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(FormatPageFooter(page.Page))
	return RenderBox("Notes", b.String())
}
