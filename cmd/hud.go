package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arcanaland/cardhouse/internal/card"
	"github.com/arcanaland/cardhouse/internal/session"
)

// Top-down view of the table: x to the right, z down.
const (
	mapCols  = 41
	mapRows  = 21
	mapRange = 10.0
)

var (
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	ghostStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func mapCell(x, z float64) (col, row int, ok bool) {
	col = int(math.Round((x + mapRange) / (2 * mapRange) * (mapCols - 1)))
	row = int(math.Round((z + mapRange) / (2 * mapRange) * (mapRows - 1)))
	return col, row, col >= 0 && col < mapCols && row >= 0 && row < mapRows
}

// renderMap draws cards by their simulated position and the ghost target.
func renderMap(v session.View) string {
	grid := make([][]string, mapRows)
	for r := range grid {
		grid[r] = make([]string, mapCols)
		for c := range grid[r] {
			grid[r][c] = dimStyle.Render("·")
		}
	}

	for _, c := range v.Cards {
		col, row, ok := mapCell(c.BodyPosition.X(), c.BodyPosition.Z())
		if !ok {
			continue
		}
		glyph := card.StyleOf(c.Suit).Symbol
		switch {
		case c.Locked:
			glyph = lockedStyle.Render(glyph)
		case c.Color == card.Red:
			glyph = redStyle.Render(glyph)
		}
		grid[row][col] = glyph
	}
	if g := v.Ghost; g != nil {
		if col, row, ok := mapCell(g.Target.X(), g.Target.Z()); ok {
			grid[row][col] = ghostStyle.Render("+")
		}
	}

	lines := make([]string, mapRows)
	for r, row := range grid {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

// renderStatus lists the mode flags, the ghost and the body counters.
func renderStatus(v session.View, notice string) string {
	line := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-11s", label)) + value
	}

	physics := "running"
	if v.State.Freeze {
		physics = lockedStyle.Render("frozen")
	}
	lines := []string{
		titleStyle.Render("house of cards"),
		"",
		line("physics", physics),
		line("preset", v.Preset),
		line("placement", strings.ToLower(string(v.State.Interaction))),
		line("pointer", strings.ToLower(string(v.State.Pointer))),
	}
	if v.State.DraggingID != "" {
		lines = append(lines, line("dragging", shortID(v.State.DraggingID)))
	}
	if g := v.Ghost; g != nil {
		lines = append(lines,
			line("target", fmt.Sprintf("%.1f %.2f %.1f", g.Target.X(), g.Target.Y(), g.Target.Z())),
			line("offsets", fmt.Sprintf("%.0f° %.0f° %.0f°", deg(g.Yaw), deg(g.Pitch), deg(g.Roll))),
		)
	}

	moving := 0
	for _, c := range v.Cards {
		if c.Mass > 0 && !c.Sleeping {
			moving++
		}
	}
	lines = append(lines,
		"",
		line("cards", fmt.Sprintf("%d (%d moving)", len(v.Cards), moving)),
		line("bodies", fmt.Sprintf("+%d -%d", v.Stats.Created, v.Stats.Destroyed)),
		line("locks", fmt.Sprintf("%d/%d", v.Stats.Locks, v.Stats.Unlocks)),
		line("tick", fmt.Sprintf("%d", v.Tick)),
	)
	if notice != "" {
		lines = append(lines, "", noticeStyle.Render(notice))
	}
	lines = append(lines, "", dimStyle.Render("arrows aim · c place · ctrl+s save · ctrl+c quit"))
	return strings.Join(lines, "\n")
}

// renderHUD puts the map and the status side by side.
func renderHUD(v session.View, notice string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(renderMap(v)),
		boxStyle.Render(renderStatus(v, notice)),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
