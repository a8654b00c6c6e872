package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
)

const (
	logPanelWidth = 380
	logMaxEntries = 80
)

// LogLine is a single row of the on-screen combat log.
type LogLine struct {
	Round   int
	Actor   string
	Side    combat.CombatantType
	Message string
}

// LogPanel is a ring buffer of the most recent combat log entries.
type LogPanel struct {
	entries []LogLine
	head    int
	count   int
	seen    int // engine log entries already copied in
}

// NewLogPanel creates a log panel with a fixed capacity.
func NewLogPanel() *LogPanel {
	return &LogPanel{
		entries: make([]LogLine, logMaxEntries),
	}
}

// Add appends a line, dropping the oldest once full.
func (lp *LogPanel) Add(l LogLine) {
	lp.entries[lp.head] = l
	lp.head = (lp.head + 1) % logMaxEntries
	if lp.count < logMaxEntries {
		lp.count++
	}
}

// Sync copies in engine log entries that have not been seen yet. The
// engine log is append-only so a running count is enough.
func (lp *LogPanel) Sync(st *combat.CombatState) {
	if lp.seen > len(st.CombatLog) {
		lp.seen = 0
	}
	for _, e := range st.CombatLog[lp.seen:] {
		line := LogLine{Round: e.Round, Actor: e.CombatantID, Message: e.Result}
		if c, ok := st.Combatant(e.CombatantID); ok {
			line.Side = c.Type
		}
		lp.Add(line)
	}
	lp.seen = len(st.CombatLog)
}

// Recent returns entries in chronological order (oldest first).
func (lp *LogPanel) Recent() []LogLine {
	result := make([]LogLine, lp.count)
	for i := 0; i < lp.count; i++ {
		idx := (lp.head - lp.count + i + logMaxEntries) % logMaxEntries
		result[i] = lp.entries[idx]
	}
	return result
}

// Draw renders the log panel on the right side of the screen.
func (lp *LogPanel) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 18, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	drawText(screen, "COMBAT LOG  [C] copy", panelX+8, 2, color.RGBA{R: 200, G: 220, B: 200, A: 255})
	vector.StrokeLine(screen, float32(panelX), 18, float32(panelX+logPanelWidth), 18, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := lp.Recent()

	// Newest at the bottom.
	maxVisible := (panelH - 26) / lineH
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}
	visible := entries[startIdx:]
	recent := 3
	cols := (logPanelWidth - 16) / charW

	y := 22
	for i, e := range visible {
		isRecent := i >= len(visible)-recent
		if isRecent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(lineH), color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		textCol := color.RGBA{R: 150, G: 160, B: 150, A: 255}
		if isRecent {
			textCol = color.RGBA{R: 235, G: 240, B: 235, A: 255}
		}
		if e.Side != "" {
			vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, sideColor(e.Side), false)
		}
		line := fmt.Sprintf("R%d %s: %s", e.Round, e.Actor, e.Message)
		drawText(screen, clip(line, cols), panelX+12, y, textCol)
		y += lineH
	}
}
