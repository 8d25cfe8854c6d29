package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nodusapp/nodus/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ProjectSwatch renders a block in the project's own hex color.
func ProjectSwatch(hex string) string {
	if hex == "" {
		hex = domain.DefaultProjectColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}

// ModeBadge labels a completion mode.
func ModeBadge(mode domain.CompletionMode) string {
	switch mode {
	case domain.CompletionByDuration:
		return StyleBlue.Render("◷ duration")
	case domain.CompletionByCount:
		return StylePurple.Render("# count")
	default:
		return StyleDim.Render(mode.String())
	}
}

// SessionPill shows whether a session is still running.
func SessionPill(e *domain.TaskExecution) string {
	switch {
	case e.Active():
		return StyleGreen.Render("● running")
	case e.Completed():
		return StyleDim.Render("✔ done")
	default:
		return StyleDim.Render("○ pending")
	}
}

// Amount colors income green and expenses red.
func Amount(v float64, symbol string) string {
	text := FormatAmount(v, symbol)
	switch {
	case v > 0:
		return StyleGreen.Render(text)
	case v < 0:
		return StyleRed.Render(text)
	default:
		return StyleDim.Render(text)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
