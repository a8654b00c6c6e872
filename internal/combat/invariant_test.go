package combat

import (
	"fmt"
	"testing"
)

// greedyStep picks an action for the active combatant: attack a living
// opponent in reach, else step toward the nearest one, else end the turn.
func greedyStep(e *Engine) Action {
	cur := e.current()
	targets, _ := e.ValidTargets(cur.ID)
	if cur.CurrentActionPoints.Action > 0 {
		for _, tg := range targets {
			other := e.byID[tg.CombatantID]
			if !tg.Defeated && other.Type != cur.Type {
				return Action{Type: ActionAttack, TargetID: tg.CombatantID}
			}
		}
	}
	nearest := func(p Position) int {
		best := -1
		for _, other := range e.combatants {
			if other.IsDefeated() || other.Type == cur.Type {
				continue
			}
			if d := Manhattan(p, other.Position); best < 0 || d < best {
				best = d
			}
		}
		return best
	}
	here := nearest(cur.Position)
	moves, _ := e.ValidMoves(cur.ID)
	var pick *Reachable
	for i := range moves {
		if d := nearest(moves[i].Position); d >= 1 && d < here {
			here = d
			pick = &moves[i]
		}
	}
	if pick != nil && cur.CurrentActionPoints.Action > 0 {
		dest := pick.Position
		return Action{Type: ActionMove, Target: &dest}
	}
	return Action{Type: ActionEndTurn}
}

func checkInvariants(st *CombatState) error {
	active := 0
	living := map[Position]string{}
	for _, c := range st.Combatants {
		ap, full := c.CurrentActionPoints, c.ActionPoints
		if ap.Move < 0 || ap.Move > full.Move || ap.Action < 0 || ap.Action > full.Action ||
			ap.Bonus < 0 || ap.Bonus > full.Bonus || ap.Reaction < 0 || ap.Reaction > full.Reaction {
			return fmt.Errorf("%s action points %+v outside 0..%+v", c.ID, ap, full)
		}
		if c.Health < 0 || c.Health > c.MaxHealth {
			return fmt.Errorf("%s health %d outside 0..%d", c.ID, c.Health, c.MaxHealth)
		}
		if c.IsActive {
			active++
		}
		if c.IsDefeated() {
			continue
		}
		if !st.BattleMap.IsWalkable(c.Position) {
			return fmt.Errorf("%s stands on unwalkable %s", c.ID, c.Position)
		}
		if other, dup := living[c.Position]; dup {
			return fmt.Errorf("%s and %s share %s", other, c.ID, c.Position)
		}
		living[c.Position] = c.ID
	}
	if st.IsActive && active != 1 {
		return fmt.Errorf("%d active combatants", active)
	}
	if cur, ok := st.Current(); st.IsActive && (!ok || !cur.IsActive) {
		return fmt.Errorf("turn pointer does not match the active flag")
	}
	return nil
}

func TestInvariants_SeededSkirmishes(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		e := New(WithSeed(seed), WithEncounterID(testEncounter), WithClock(fixedClock))
		roster := []*Combatant{
			fighter("p1", TypePlayer, 0, 0),
			fighter("p2", TypePlayer, 0, 0),
			fighter("e1", TypeEnemy, 0, 0),
			fighter("e2", TypeEnemy, 0, 0),
			fighter("e3", TypeEnemy, 0, 0),
		}
		roster[0].Stats.Strength = 16
		roster[1].Stats.Dexterity = 16
		st, err := e.StartCombat(roster, NewBattleMap(12, 8))
		if err != nil {
			t.Fatalf("seed %d: StartCombat: %v", seed, err)
		}
		if err := checkInvariants(st); err != nil {
			t.Fatalf("seed %d at start: %v", seed, err)
		}

		ended := false
		for step := 0; step < 2000; step++ {
			round := e.round
			res := e.ExecuteAction(greedyStep(e))
			if !res.Success {
				t.Fatalf("seed %d step %d: greedy action rejected: %s", seed, step, res.Message)
			}
			if err := checkInvariants(res.NewState); err != nil {
				t.Fatalf("seed %d step %d: %v", seed, step, err)
			}
			if res.NewState.Round < round {
				t.Fatalf("seed %d: round went backwards", seed)
			}
			if e.CheckCombatEnd().Ended {
				ended = true
				break
			}
		}
		if !ended {
			t.Fatalf("seed %d: skirmish did not finish", seed)
		}
		if st := e.EndCombat(); st.IsActive {
			t.Fatalf("seed %d: still active after EndCombat", seed)
		}
	}
}
