package ui

import (
	"fmt"
	"strings"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorCmd     = 250 // light gray
	colorMuted   = 245 // medium gray
	colorHealthy = 114 // green
	colorWarning = 179 // amber
	colorBad     = 203 // red
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render(colorCmd, s) }

// RenderError returns s in the error (red) color.
func RenderError(s string) string { return render(colorBad, s) }

func statusColor(st model.HeatmapStatus) int {
	switch st {
	case model.StatusBottleneck:
		return colorBad
	case model.StatusWarning:
		return colorWarning
	default:
		return colorHealthy
	}
}

// RenderStatus returns the status name in its heatmap color.
func RenderStatus(st model.HeatmapStatus) string {
	if st == "" {
		st = model.StatusHealthy
	}
	return render(statusColor(st), string(st))
}

// RenderScore formats a 1-10 score with one decimal in the color of st.
func RenderScore(score float64, st model.HeatmapStatus) string {
	return render(statusColor(st), fmt.Sprintf("%.1f", score))
}

// ScoreBar draws score on a ten-cell bar, e.g. "███████░░░".
func ScoreBar(score float64, st model.HeatmapStatus) string {
	filled := int(score + 0.5)
	filled = max(0, min(filled, model.MaxNumericValue))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", model.MaxNumericValue-filled)
	return render(statusColor(st), bar)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
