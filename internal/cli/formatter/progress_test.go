package formatter

import (
	"strings"
	"testing"

	"github.com/nodusapp/nodus/internal/contract"
	"github.com/nodusapp/nodus/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name   string
		pct    float64
		width  int
		filled int
		label  string
	}{
		{"empty", 0, 10, 0, "  0%"},
		{"half", 0.5, 10, 5, " 50%"},
		{"full", 1, 10, 10, "100%"},
		{"over 100% clamps", 1.5, 10, 10, "100%"},
		{"negative clamps", -0.5, 10, 0, "  0%"},
		{"tiny width clamps to 2", 0.5, 1, 1, " 50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderProgress(tt.pct, tt.width)
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.True(t, strings.HasSuffix(got, tt.label), got)
		})
	}
}

func TestFormatTaskProgress(t *testing.T) {
	active := int64(7)
	out := FormatTaskProgress(&contract.TaskProgress{
		TaskID:            3,
		Title:             "Reading",
		Mode:              domain.CompletionByDuration,
		Progress:          45,
		Goal:              60,
		Percent:           0.75,
		ActiveExecutionID: &active,
	})

	assert.Contains(t, out, "Reading")
	assert.Contains(t, out, "45 / 60 min")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "#7 running")
	assert.NotContains(t, out, "complete")

	done := FormatTaskProgress(&contract.TaskProgress{Title: "Cards", Mode: domain.CompletionByCount, Progress: 2, Goal: 2, Percent: 1, IsComplete: true})
	assert.Contains(t, done, "2 / 2 sessions")
	assert.Contains(t, done, "complete")
}
