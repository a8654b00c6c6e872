package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
)

// borderWidth is the pixel gap between the window edge and the board.
const borderWidth = 24

// uiFace is the fixed 7x13 bitmap font used for every label.
var uiFace = text.NewGoXFace(basicfont.Face7x13)

const (
	charW = 7
	lineH = 14
)

// boardLayout maps between screen pixels and grid cells.
type boardLayout struct {
	offX, offY int
	tile       int
	cols, rows int
}

func (l boardLayout) pixelWidth() int  { return l.cols * l.tile }
func (l boardLayout) pixelHeight() int { return l.rows * l.tile }

// tileAt returns the cell under a screen point.
func (l boardLayout) tileAt(mx, my int) (combat.Position, bool) {
	x, y := mx-l.offX, my-l.offY
	if x < 0 || y < 0 || l.tile <= 0 {
		return combat.Position{}, false
	}
	p := combat.Position{X: x / l.tile, Y: y / l.tile}
	if p.X >= l.cols || p.Y >= l.rows {
		return combat.Position{}, false
	}
	return p, true
}

// origin is the top-left screen pixel of a cell.
func (l boardLayout) origin(p combat.Position) (float32, float32) {
	return float32(l.offX + p.X*l.tile), float32(l.offY + p.Y*l.tile)
}

// centre is the middle of a cell in screen pixels.
func (l boardLayout) centre(p combat.Position) (float32, float32) {
	x, y := l.origin(p)
	h := float32(l.tile) / 2
	return x + h, y + h
}

// tileColor shades terrain; higher ground is drawn lighter.
func tileColor(t combat.Tile) color.RGBA {
	var c color.RGBA
	switch t.Type {
	case combat.TileWall:
		c = color.RGBA{R: 70, G: 66, B: 60, A: 255}
	case combat.TileDifficult:
		c = color.RGBA{R: 92, G: 78, B: 48, A: 255}
	case combat.TileHazard:
		c = color.RGBA{R: 140, G: 52, B: 34, A: 255}
	default:
		c = color.RGBA{R: 44, G: 70, B: 44, A: 255}
	}
	lift := uint8(min(max(t.Elevation, 0), 4) * 12)
	c.R = satAdd(c.R, lift)
	c.G = satAdd(c.G, lift)
	c.B = satAdd(c.B, lift)
	return c
}

func satAdd(a, b uint8) uint8 {
	if int(a)+int(b) > 255 {
		return 255
	}
	return a + b
}

// sideColor is the token colour for a combatant type.
func sideColor(t combat.CombatantType) color.RGBA {
	switch t {
	case combat.TypeEnemy:
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case combat.TypeNPC:
		return color.RGBA{R: 200, G: 180, B: 80, A: 255}
	default:
		return color.RGBA{R: 70, G: 120, B: 220, A: 255}
	}
}

// healthFraction is health over max health, clamped to [0,1].
func healthFraction(c *combat.Combatant) float32 {
	if c.MaxHealth <= 0 {
		return 0
	}
	f := float32(c.Health) / float32(c.MaxHealth)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// clip shortens s to at most n runes, marking the cut with '~'.
func clip(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

func drawText(dst *ebiten.Image, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, uiFace, op)
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	st := g.session.State()
	m := st.BattleMap
	l := g.layout
	ts := float32(l.tile)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := combat.Position{X: x, Y: y}
			t := m.At(p)
			ox, oy := l.origin(p)
			vector.FillRect(screen, ox, oy, ts, ts, tileColor(t), false)
			switch t.Cover {
			case combat.CoverPartial:
				vector.StrokeRect(screen, ox+ts*0.3, oy+ts*0.3, ts*0.4, ts*0.4, 2, color.RGBA{R: 170, G: 170, B: 150, A: 200}, false)
			case combat.CoverFull:
				vector.FillRect(screen, ox+ts*0.3, oy+ts*0.3, ts*0.4, ts*0.4, color.RGBA{R: 170, G: 170, B: 150, A: 220}, false)
			}
			if t.Elevation > 0 {
				drawText(screen, string(rune('0'+min(t.Elevation, 9))), int(ox)+2, int(oy)+1, color.RGBA{R: 230, G: 230, B: 200, A: 180})
			}
			if _, ok := g.session.CanMoveTo(p); ok {
				vector.FillRect(screen, ox, oy, ts, ts, color.RGBA{R: 90, G: 220, B: 120, A: 70}, false)
			}
		}
	}
	drawGridOffset(screen, l.offX, l.offY, l.pixelWidth(), l.pixelHeight(), l.tile, color.RGBA{R: 20, G: 30, B: 20, A: 160})

	if g.hoverOK {
		ox, oy := l.origin(g.hover)
		vector.StrokeRect(screen, ox+1, oy+1, ts-2, ts-2, 2, color.RGBA{R: 240, G: 240, B: 240, A: 160}, false)
		if r, ok := g.session.CanMoveTo(g.hover); ok {
			g.drawPath(screen, r.Path)
		}
	}

	cur, _ := st.Current()
	for _, c := range st.Combatants {
		g.drawCombatant(screen, c, cur != nil && c.ID == cur.ID)
	}
}

func (g *Game) drawPath(screen *ebiten.Image, path []combat.Position) {
	col := color.RGBA{R: 200, G: 255, B: 200, A: 200}
	for i := 1; i < len(path); i++ {
		ax, ay := g.layout.centre(path[i-1])
		bx, by := g.layout.centre(path[i])
		vector.StrokeLine(screen, ax, ay, bx, by, 2, col, false)
	}
}

func (g *Game) drawCombatant(screen *ebiten.Image, c *combat.Combatant, active bool) {
	l := g.layout
	ts := float32(l.tile)
	cx, cy := l.centre(c.Position)
	r := ts * 0.34

	col := sideColor(c.Type)
	if c.IsDefeated() {
		col = color.RGBA{R: 60, G: 60, B: 60, A: 200}
	}
	if active {
		vector.FillCircle(screen, cx, cy, r+4, color.RGBA{R: 255, G: 230, B: 120, A: 120}, true)
	}
	vector.FillCircle(screen, cx, cy, r, col, true)
	if g.session.IsTarget(c.ID) && !active {
		vector.StrokeCircle(screen, cx, cy, r+3, 2, color.RGBA{R: 255, G: 60, B: 60, A: 230}, true)
	}
	if sel, ok := g.session.Selected(); ok && sel.ID == c.ID {
		ox, oy := l.origin(c.Position)
		vector.StrokeRect(screen, ox+2, oy+2, ts-4, ts-4, 1, color.RGBA{R: 255, G: 255, B: 255, A: 220}, false)
	}

	ox, oy := l.origin(c.Position)
	bar := ts - 6
	vector.FillRect(screen, ox+3, oy+ts-6, bar, 3, color.RGBA{R: 40, G: 10, B: 10, A: 220}, false)
	vector.FillRect(screen, ox+3, oy+ts-6, bar*healthFraction(c), 3, color.RGBA{R: 80, G: 220, B: 80, A: 255}, false)

	label := clip(c.ID, l.tile/charW)
	drawText(screen, label, int(cx)-len(label)*charW/2, int(cy)-lineH/2, color.White)
}

func drawGridOffset(screen *ebiten.Image, offX, offY, w, h, spacing int, c color.Color) {
	if spacing <= 0 {
		return
	}
	ox, oy := float32(offX), float32(offY)
	for x := 0; x <= w; x += spacing {
		xf := ox + float32(x)
		vector.StrokeLine(screen, xf, oy, xf, oy+float32(h), 1.0, c, false)
	}
	for y := 0; y <= h; y += spacing {
		yf := oy + float32(y)
		vector.StrokeLine(screen, ox, yf, ox+float32(w), yf, 1.0, c, false)
	}
}
