package game

import "github.com/atotto/clipboard"

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// copyLog puts the full combat log on the system clipboard.
func (g *Game) copyLog() {
	text := g.session.LogText()
	if text == "" {
		text = " "
	}
	if err := writeClipboard(text); err != nil {
		g.flash = "clipboard unavailable: " + err.Error()
		return
	}
	g.flash = "combat log copied"
}
