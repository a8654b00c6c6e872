package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
	"github.com/repairman29/MythSeeker-sub003/internal/scenario"
)

// hudLines is the number of text rows reserved under the board.
const hudLines = 4

// skillKeys arm skills by slot.
var skillKeys = [9]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6,
	ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// Game is the hot-seat viewer: it renders a Session and feeds it mouse and
// keyboard input.
type Game struct {
	width  int
	height int
	layout boardLayout
	seed   int64
	logger *zap.Logger

	session   *Session
	logPanel  *LogPanel
	inspector Inspector

	hover   combat.Position
	hoverOK bool
	flash   string // transient message from the viewer itself

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
}

// Options configure the viewer window.
type Options struct {
	TileSize int
	Seed     int64
	Logger   *zap.Logger
}

// New builds a viewer for the scenario and starts its encounter.
func New(doc *scenario.Document, opts Options) (*Game, error) {
	if opts.TileSize <= 0 {
		opts.TileSize = 48
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s, err := NewSession(doc, opts.Seed, opts.Logger)
	if err != nil {
		return nil, err
	}
	m := s.State().BattleMap
	l := boardLayout{offX: borderWidth, offY: borderWidth, tile: opts.TileSize, cols: m.Width, rows: m.Height}
	g := &Game{
		width:    borderWidth + l.pixelWidth() + borderWidth + inspWidth + 8 + logPanelWidth,
		height:   max(borderWidth+l.pixelHeight()+borderWidth+hudLines*lineH+8, 600),
		layout:   l,
		seed:     opts.Seed,
		logger:   opts.Logger,
		session:  s,
		logPanel: NewLogPanel(),
		prevKeys: make(map[ebiten.Key]bool),
	}
	g.logPanel.Sync(s.State())
	return g, nil
}

// Size returns the window size the viewer lays itself out for.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}

func (g *Game) Update() error {
	g.handleInput()
	g.logPanel.Sync(g.session.State())
	return nil
}

// pressed reports a key going down this frame and records it for the next.
func (g *Game) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	mx, my := ebiten.CursorPosition()
	g.hover, g.hoverOK = g.layout.tileAt(mx, my)

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !g.prevMouseLeft && g.hoverOK {
			g.flash = ""
			g.session.Click(g.hover)
		}
	}
	g.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	for i, k := range skillKeys {
		if g.pressed(currentKeys, k) {
			g.flash = ""
			g.session.ArmSkill(i + 1)
		}
	}

	// E: end turn.
	if g.pressed(currentKeys, ebiten.KeyE) {
		g.flash = ""
		g.session.EndTurn()
	}

	// G: let the greedy policy act once.
	if g.pressed(currentKeys, ebiten.KeyG) {
		g.flash = ""
		g.session.Auto()
	}

	// Escape: disarm a readied skill.
	if g.pressed(currentKeys, ebiten.KeyEscape) {
		g.session.Disarm()
	}

	// C: copy the combat log.
	if g.pressed(currentKeys, ebiten.KeyC) {
		g.copyLog()
	}

	// I: toggle inspector raw/curated view.
	if g.pressed(currentKeys, ebiten.KeyI) {
		g.inspector.rawView = !g.inspector.rawView
	}

	// R: restart with the next seed.
	if g.pressed(currentKeys, ebiten.KeyR) {
		g.seed++
		if err := g.session.Restart(g.seed); err != nil {
			g.logger.Warn("restart failed", zap.Int64("seed", g.seed), zap.Error(err))
			g.flash = "restart failed: " + err.Error()
		} else {
			g.logPanel = NewLogPanel()
			g.flash = fmt.Sprintf("restarted with seed %d", g.seed)
		}
	}

	g.prevKeys = currentKeys
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	g.drawBoard(screen)

	l := g.layout
	ox, oy := float32(l.offX), float32(l.offY)
	bw, bh := float32(l.pixelWidth()), float32(l.pixelHeight())
	vector.StrokeRect(screen, ox-1, oy-1, bw+2, bh+2, 2.0, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)

	g.drawHUD(screen)
	g.drawInspector(screen)
	g.logPanel.Draw(screen, g.width-logPanelWidth, g.height)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	st := g.session.State()
	turn := "--"
	if cur, ok := st.Current(); ok {
		turn = fmt.Sprintf("%s (%s)", cur.Name, cur.Type)
	}
	status := g.session.Status()
	if g.flash != "" {
		status = g.flash
	}
	lines := []string{
		fmt.Sprintf("round %d  turn %d  active: %s  seed %d", st.Round, st.Turn, turn, g.seed),
		status,
		"click=move/attack/inspect  1-9=skill  E=end turn  G=auto",
		"C=copy log  I=inspector view  R=restart",
	}
	if out := g.session.Outcome(); out.Ended {
		lines[0] = fmt.Sprintf("COMBAT OVER: %s after %d rounds", out, st.Round)
	}
	cols := (g.layout.pixelWidth() + inspWidth) / charW
	y := g.layout.offY + g.layout.pixelHeight() + 8
	for i, line := range lines {
		col := color.RGBA{R: 200, G: 210, B: 200, A: 255}
		if i == 1 {
			col = color.RGBA{R: 255, G: 230, B: 150, A: 255}
		}
		drawText(screen, clip(line, cols), g.layout.offX, y+i*lineH, col)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
