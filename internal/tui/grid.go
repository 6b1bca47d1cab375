package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"starmap-service/internal/domain"
)

const cellWidth = 6

// renderGrid draws the current subsector page as staggered columns of
// two-line hex cells. Even-numbered columns sit half a cell lower, matching
// the hex geometry the distance math assumes.
func (m Model) renderGrid() string {
	minCol, minRow, maxCol, maxRow, err := domain.SubsectorBounds(byte('A' + m.page))
	if err != nil {
		return ""
	}

	gutter := make([]string, 0, 2*(maxRow-minRow+1)+1)
	gutter = append(gutter, "   ")
	for row := minRow; row <= maxRow; row++ {
		gutter = append(gutter, fmt.Sprintf("%2d ", row), "   ")
	}

	cols := make([]string, 0, maxCol-minCol+2)
	cols = append(cols, strings.Join(gutter, "\n"))

	for col := minCol; col <= maxCol; col++ {
		lines := make([]string, 0, 2*(maxRow-minRow+1)+2)
		lines = append(lines, centerText(fmt.Sprintf("%02d", col), cellWidth))
		if col%2 == 0 {
			lines = append(lines, strings.Repeat(" ", cellWidth))
		}
		for row := minRow; row <= maxRow; row++ {
			top, bottom := m.renderCell(domain.Hex{Col: col, Row: row})
			lines = append(lines, top, bottom)
		}
		cols = append(cols, strings.Join(lines, "\n"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// renderCell returns the two text lines of one hex: the glyph line and the
// name line.
func (m Model) renderCell(hex domain.Hex) (string, string) {
	w := m.worlds[hex]
	if w == nil {
		style := m.theme.EmptyHex
		if hex == m.cursor {
			style = style.Reverse(true)
		}
		return style.Render(centerText(".", cellWidth)), strings.Repeat(" ", cellWidth)
	}

	style := m.zoneStyle(w.Zone)
	if m.onRoute[hex] {
		style = style.Underline(true)
	}
	if m.origin != nil && *m.origin == hex {
		style = style.Bold(true)
	}
	if hex == m.cursor {
		style = style.Reverse(true)
	}

	return style.Render(centerText(worldGlyph(w), cellWidth)),
		style.Render(centerText(truncate(w.Name, cellWidth), cellWidth))
}

func (m Model) zoneStyle(z domain.TravelZone) lipgloss.Style {
	switch z {
	case domain.ZoneAmber:
		return m.theme.ZoneAmber
	case domain.ZoneRed:
		return m.theme.ZoneRed
	default:
		return m.theme.ZoneGreen
	}
}

// worldGlyph is the map symbol: starport class, then a base marker, a gas
// giant marker, and a referee-only marker for hidden worlds.
func worldGlyph(w *domain.World) string {
	var b strings.Builder
	b.WriteByte(w.UWP.Starport)
	if w.Bases != "" {
		b.WriteByte('*')
	}
	if w.HasGasGiant() {
		b.WriteByte('g')
	}
	if w.Hidden {
		b.WriteByte('!')
	}
	return b.String()
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
