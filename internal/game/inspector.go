package game

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
)

const (
	inspWidth = 260
	inspPad   = 6
)

// Inspector holds the view toggle for the selected-combatant panel.
type Inspector struct {
	rawView bool // false = curated, true = raw dump
}

// inspectorLines builds the curated panel text. skills is non-nil only when
// c is the active combatant, in which case slot numbers are shown.
func inspectorLines(c *combat.Combatant, skills []string, armed string) []string {
	var out []string
	line := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}
	section := func(title string) {
		out = append(out, "-- "+title+" --")
	}

	line("[ %s %s ]", strings.ToUpper(string(c.Type)), c.Name)
	if c.IsDefeated() {
		line("DEFEATED")
	}
	line("hp   %s %d/%d", bar(healthFraction(c)), c.Health, c.MaxHealth)
	if c.MaxMana > 0 {
		line("mana %d/%d", c.Mana, c.MaxMana)
	}
	line("pos %s  reach %d", c.Position, c.Reach)

	section("STATS")
	st := c.Stats
	line("STR %2d (%+d)  DEX %2d (%+d)", st.Strength, combat.AbilityModifier(st.Strength), st.Dexterity, combat.AbilityModifier(st.Dexterity))
	line("INT %2d (%+d)  CHA %2d (%+d)", st.Intelligence, combat.AbilityModifier(st.Intelligence), st.Charisma, combat.AbilityModifier(st.Charisma))
	line("AC  %d", st.ArmorClass)

	section("ACTIONS")
	ap := c.CurrentActionPoints
	line("move %d/%d  action %d/%d", ap.Move, c.ActionPoints.Move, ap.Action, c.ActionPoints.Action)
	line("bonus %d  reaction %d", ap.Bonus, ap.Reaction)

	if len(c.StatusEffects) > 0 {
		section("STATUS")
		for _, se := range c.StatusEffects {
			line("%s (%d) %s", se.Name, se.Duration, se.Effect)
		}
	}

	if len(c.Skills) > 0 {
		section("SKILLS")
		ids := skills
		if ids == nil {
			for id := range c.Skills {
				ids = append(ids, id)
			}
			sort.Strings(ids)
		}
		for i, id := range ids {
			sk := c.Skills[id]
			slot := "  "
			if skills != nil && i < 9 {
				slot = fmt.Sprintf("%d ", i+1)
			}
			mark := " "
			if id == armed {
				mark = "*"
			}
			line("%s%s%s r%d c%d%s", slot, mark, sk.Name, sk.Range, sk.Cost, skillDice(sk))
		}
	}
	return out
}

// rawLines dumps the combatant verbatim.
func rawLines(c *combat.Combatant) []string {
	return []string{
		fmt.Sprintf("id=%s type=%s", c.ID, c.Type),
		fmt.Sprintf("pos=%s hp=%d/%d mp=%d/%d", c.Position, c.Health, c.MaxHealth, c.Mana, c.MaxMana),
		fmt.Sprintf("stats=%+v", c.Stats),
		fmt.Sprintf("ap=%+v", c.ActionPoints),
		fmt.Sprintf("cur=%+v", c.CurrentActionPoints),
		fmt.Sprintf("active=%v acted=%v", c.IsActive, c.HasActed),
		fmt.Sprintf("status=%v", c.StatusEffects),
	}
}

func skillDice(sk combat.Skill) string {
	var parts []string
	if sk.Damage > 0 {
		parts = append(parts, fmt.Sprintf(" dmg d%d", sk.Damage))
	}
	if sk.Heal > 0 {
		parts = append(parts, fmt.Sprintf(" heal d%d", sk.Heal))
	}
	if st := sk.Effect["status"]; st != "" {
		parts = append(parts, " "+st)
	}
	return strings.Join(parts, "")
}

// bar renders a 10-cell ASCII gauge.
func bar(f float32) string {
	filled := int(f*10 + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 10-filled) + "]"
}

// drawInspector renders the selected combatant's panel in the column
// between the board and the log.
func (g *Game) drawInspector(screen *ebiten.Image) {
	c, ok := g.session.Selected()
	if !ok {
		return
	}
	var lines []string
	if g.inspector.rawView {
		lines = rawLines(c)
	} else {
		var skills []string
		if cur, ok := g.session.State().Current(); ok && cur.ID == c.ID {
			skills = g.session.SkillIDs()
		}
		lines = inspectorLines(c, skills, g.session.Armed())
	}
	view := "CURATED"
	if g.inspector.rawView {
		view = "RAW"
	}
	lines = append(lines, fmt.Sprintf("view: %s  [I] toggle", view))

	w := float32(inspWidth)
	h := float32(len(lines)*lineH + inspPad*2)
	px := float32(g.width - logPanelWidth - inspWidth - 8)
	py := float32(borderWidth)

	panelBorder := color.RGBA{R: 55, G: 80, B: 55, A: 255}
	vector.FillRect(screen, px, py, w, h, color.RGBA{R: 14, G: 16, B: 14, A: 230}, false)
	vector.StrokeRect(screen, px, py, w, h, 1.0, panelBorder, false)
	vector.StrokeLine(screen, px+1, py+1, px+w-1, py+1, 1.0, color.RGBA{R: 70, G: 110, B: 70, A: 60}, false)

	cols := (inspWidth - inspPad*2) / charW
	for i, l := range lines {
		drawText(screen, clip(l, cols), int(px)+inspPad, int(py)+inspPad+i*lineH, color.RGBA{R: 220, G: 228, B: 220, A: 255})
	}
}
