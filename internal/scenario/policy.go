package scenario

import (
	"sort"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
)

// Policy chooses the next action for whoever is active.
type Policy interface {
	Next(e *combat.Engine) combat.Action
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc func(e *combat.Engine) combat.Action

// Next implements Policy.
func (f PolicyFunc) Next(e *combat.Engine) combat.Action { return f(e) }

// Greedy fights the nearest opponent: attack if one is in reach, otherwise
// cast the first affordable damage skill that reaches one, otherwise close
// the distance, otherwise end the turn. Players and npcs fight enemies.
var Greedy = PolicyFunc(greedy)

// Opposed reports whether two combatant types fight each other: enemies
// against players and npcs.
func Opposed(a, b combat.CombatantType) bool {
	return (a == combat.TypeEnemy) != (b == combat.TypeEnemy)
}

func greedy(e *combat.Engine) combat.Action {
	end := combat.Action{Type: combat.ActionEndTurn}
	cur, ok := e.Active()
	if !ok || cur.IsDefeated() {
		return end
	}
	st := e.State()
	var foes []*combat.Combatant
	for _, c := range st.Combatants {
		if c.ID != cur.ID && !c.IsDefeated() && Opposed(cur.Type, c.Type) {
			foes = append(foes, c)
		}
	}
	if len(foes) == 0 || cur.CurrentActionPoints.Action <= 0 {
		return end
	}

	targets, _ := e.ValidTargets(cur.ID)
	for _, tg := range targets {
		for _, f := range foes {
			if f.ID == tg.CombatantID {
				return combat.Action{Type: combat.ActionAttack, TargetID: f.ID}
			}
		}
	}
	if a, ok := pickSkill(cur, foes, st.BattleMap); ok {
		return a
	}

	nearest := func(p combat.Position) int {
		best := -1
		for _, f := range foes {
			if d := combat.Manhattan(p, f.Position); best < 0 || d < best {
				best = d
			}
		}
		return best
	}
	here := nearest(cur.Position)
	moves, _ := e.ValidMoves(cur.ID)
	var pick *combat.Reachable
	for i := range moves {
		if d := nearest(moves[i].Position); d < here {
			here = d
			pick = &moves[i]
		}
	}
	if pick == nil {
		return end
	}
	dest := pick.Position
	return combat.Action{Type: combat.ActionMove, Target: &dest, Path: pick.Path}
}

// pickSkill returns a damage skill aimed at the first foe it can reach.
// Skills are tried in id order so the choice is reproducible.
func pickSkill(cur *combat.Combatant, foes []*combat.Combatant, m *combat.BattleMap) (combat.Action, bool) {
	ids := make([]string, 0, len(cur.Skills))
	for id := range cur.Skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sk := cur.Skills[id]
		if sk.Damage <= 0 || sk.Range <= 0 || cur.Mana < sk.Cost {
			continue
		}
		for _, f := range foes {
			if combat.Manhattan(cur.Position, f.Position) <= sk.Range && combat.HasLineOfSight(cur.Position, f.Position, m) {
				return combat.Action{Type: combat.ActionSkill, SkillID: id, TargetID: f.ID}, true
			}
		}
	}
	return combat.Action{}, false
}
