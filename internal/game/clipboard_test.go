package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/repairman29/MythSeeker-sub003/internal/scenario"
)

func TestCopyLog(t *testing.T) {
	doc, err := scenario.Parse([]byte(hotseatDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g, err := New(doc, Options{Seed: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	var copied string
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	g.copyLog()
	if !strings.Contains(copied, "combat started") || g.flash != "combat log copied" {
		t.Fatalf("copied=%q flash=%q", copied, g.flash)
	}

	writeClipboard = func(string) error { return errors.New("no display") }
	g.copyLog()
	if !strings.Contains(g.flash, "no display") {
		t.Fatalf("flash = %q", g.flash)
	}
}

func TestNew_SizesWindowToBoard(t *testing.T) {
	doc, err := scenario.Parse([]byte(hotseatDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g, err := New(doc, Options{TileSize: 40})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w, h := g.Size()
	if want := borderWidth*2 + 6*40 + inspWidth + 8 + logPanelWidth; w != want {
		t.Fatalf("width = %d, want %d", w, want)
	}
	if h != 600 {
		t.Fatalf("height = %d, want the 600px minimum for a 3-row board", h)
	}
	if len(g.logPanel.Recent()) != 1 {
		t.Fatal("log panel should start with the encounter's opening entry")
	}
}
