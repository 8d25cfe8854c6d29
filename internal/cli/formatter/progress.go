package formatter

import (
	"fmt"
	"strings"

	"github.com/nodusapp/nodus/internal/contract"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// FormatTaskProgress renders a one-card summary of a task's goal.
func FormatTaskProgress(p *contract.TaskProgress) string {
	var b strings.Builder
	b.WriteString(Bold(p.Title) + "  " + ModeBadge(p.Mode) + "\n\n")
	b.WriteString(RenderProgress(p.Percent, 24) + "\n")
	fmt.Fprintf(&b, "%s %d / %d %s", Dim("PROGRESS"), p.Progress, p.Goal, p.Mode.Unit())
	if p.IsComplete {
		b.WriteString("  " + StyleGreen.Render("✔ complete"))
	}
	if p.ActiveExecutionID != nil {
		fmt.Fprintf(&b, "\n%s session %s running", StyleGreen.Render("●"), FormatID(*p.ActiveExecutionID))
	}
	return RenderBox("Progress", b.String())
}
