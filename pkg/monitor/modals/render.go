package modals

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/openpanel/panel/pkg/monitor/modal"
)

var (
	backdropStyle = lipgloss.NewStyle().Foreground(modal.Backdrop)

	placeholderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(modal.BorderNormal).
				Padding(1, 4)

	failedStyle = placeholderStyle.BorderForeground(modal.Error)
)

// dimFrame redraws base in the backdrop colour, padded to fill the
// viewport so the backdrop covers the whole screen.
func dimFrame(base string, width, height int) string {
	lines := splitLines(ansi.Strip(base))
	for len(lines) < height {
		lines = append(lines, "")
	}
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = backdropStyle.Render(padRight(ansi.Truncate(line, width, ""), width))
	}
	return strings.Join(lines, "\n")
}

// fillFrame pads base to the viewport height so overlays below the host
// content still have lines to land on.
func fillFrame(base string, height int) string {
	lines := splitLines(base)
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// overlayAt composites overlay on top of base at cell position (x, y).
func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitLines(base)
	overlayLines := splitLines(overlay)
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || (height > 0 && row >= height) {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		overlayLine := padRight(line, overlayWidth)
		right := ""
		if width > 0 {
			right = ansi.TruncateLeft(target, x+ansi.StringWidth(overlayLine), "")
		}
		baseLines[row] = left + overlayLine + right
	}
	return strings.Join(baseLines, "\n")
}

// centerOrigin returns the top-left cell that centers a w×h box.
func centerOrigin(w, h, width, height int) (int, int) {
	return max((width-w)/2, 0), max((height-h)/2, 0)
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
