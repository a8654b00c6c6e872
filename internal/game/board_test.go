package game

import (
	"testing"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
)

func TestBoardLayout_TileAt(t *testing.T) {
	l := boardLayout{offX: 24, offY: 24, tile: 48, cols: 12, rows: 8}
	tests := []struct {
		name   string
		mx, my int
		want   combat.Position
		ok     bool
	}{
		{"top-left corner", 24, 24, combat.Position{}, true},
		{"inside cell", 24 + 48*3 + 10, 24 + 48*2 + 47, combat.Position{X: 3, Y: 2}, true},
		{"last cell", 24 + 48*12 - 1, 24 + 48*8 - 1, combat.Position{X: 11, Y: 7}, true},
		{"border", 10, 30, combat.Position{}, false},
		{"past right edge", 24 + 48*12, 30, combat.Position{}, false},
		{"past bottom edge", 30, 24 + 48*8, combat.Position{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.tileAt(tt.mx, tt.my)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("tileAt(%d,%d) = %s,%v want %s,%v", tt.mx, tt.my, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBoardLayout_OriginAndCentre(t *testing.T) {
	l := boardLayout{offX: 10, offY: 20, tile: 32, cols: 4, rows: 4}
	x, y := l.origin(combat.Position{X: 2, Y: 1})
	if x != 74 || y != 52 {
		t.Fatalf("origin = (%v,%v), want (74,52)", x, y)
	}
	cx, cy := l.centre(combat.Position{X: 2, Y: 1})
	if cx != 90 || cy != 68 {
		t.Fatalf("centre = (%v,%v), want (90,68)", cx, cy)
	}
	if l.pixelWidth() != 128 || l.pixelHeight() != 128 {
		t.Fatalf("pixel size = %dx%d", l.pixelWidth(), l.pixelHeight())
	}
}

func TestTileColor(t *testing.T) {
	floor := tileColor(combat.Tile{Type: combat.TileFloor})
	if floor == tileColor(combat.Tile{Type: combat.TileWall}) {
		t.Fatal("walls and floor should be distinguishable")
	}
	high := tileColor(combat.Tile{Type: combat.TileFloor, Elevation: 2})
	if high.G <= floor.G {
		t.Fatal("higher ground should be lighter")
	}
	capped := tileColor(combat.Tile{Type: combat.TileHazard, Elevation: 50})
	if capped != tileColor(combat.Tile{Type: combat.TileHazard, Elevation: 4}) {
		t.Fatal("elevation shading should cap")
	}
	if satAdd(250, 10) != 255 || satAdd(10, 10) != 20 {
		t.Fatal("satAdd should saturate at 255")
	}
}

func TestSideColor(t *testing.T) {
	p := sideColor(combat.TypePlayer)
	e := sideColor(combat.TypeEnemy)
	n := sideColor(combat.TypeNPC)
	if p == e || e == n || p == n {
		t.Fatal("each side should have its own colour")
	}
}

func TestHealthFraction(t *testing.T) {
	tests := []struct {
		health, max int
		want        float32
	}{
		{10, 10, 1},
		{5, 10, 0.5},
		{0, 10, 0},
		{-3, 10, 0},
		{12, 10, 1},
		{5, 0, 0},
	}
	for _, tt := range tests {
		c := &combat.Combatant{Health: tt.health, MaxHealth: tt.max}
		if got := healthFraction(c); got != tt.want {
			t.Fatalf("healthFraction(%d/%d) = %v, want %v", tt.health, tt.max, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	if clip("goblin", 10) != "goblin" {
		t.Fatal("short strings should pass through")
	}
	if got := clip("goblin", 4); got != "gob~" {
		t.Fatalf("clip = %q, want gob~", got)
	}
	if clip("goblin", 0) != "" {
		t.Fatal("zero width should clip to nothing")
	}
}
