package combat

import (
	"errors"
	"testing"
)

func TestValidMoves_OpenGridMatchesManhattan(t *testing.T) {
	e := startFixed(t, NewBattleMap(5, 5), NewScriptedRoller(20, 1),
		fighter("hero", TypePlayer, 0, 0), fighter("gob", TypeEnemy, 4, 4))
	moves, err := e.ValidMoves("hero")
	if err != nil {
		t.Fatalf("ValidMoves: %v", err)
	}
	// x+y <= 6 on a 5x5 grid, minus the start tile.
	if len(moves) != 21 {
		t.Fatalf("got %d reachable tiles, want 21", len(moves))
	}
	for _, mv := range moves {
		if mv.Cost != Manhattan(Position{}, mv.Position) {
			t.Fatalf("%s cost %d, want manhattan distance", mv.Position, mv.Cost)
		}
		if mv.Path[0] != (Position{}) || mv.Path[len(mv.Path)-1] != mv.Position {
			t.Fatalf("path to %s = %v", mv.Position, mv.Path)
		}
		if len(mv.Path) != mv.Cost+1 {
			t.Fatalf("path to %s has %d steps for cost %d", mv.Position, len(mv.Path), mv.Cost)
		}
	}
	for i := 1; i < len(moves); i++ {
		if moves[i].Cost < moves[i-1].Cost {
			t.Fatal("moves not sorted by cost")
		}
	}
}

func TestValidMoves_DifficultTerrainAndWalls(t *testing.T) {
	m, err := ParseBattleMap([]string{
		".~^.",
		".#..",
	}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	hero := fighter("hero", TypePlayer, 0, 0)
	hero.ActionPoints = ActionPoints{Move: 3, Action: 1}
	e := startFixed(t, m, NewScriptedRoller(20, 1), hero, fighter("gob", TypeEnemy, 3, 1))

	moves, err := e.ValidMoves("hero")
	if err != nil {
		t.Fatalf("ValidMoves: %v", err)
	}
	got := map[Position]int{}
	for _, mv := range moves {
		got[mv.Position] = mv.Cost
	}
	want := map[Position]int{
		{X: 1, Y: 0}: 2,
		{X: 0, Y: 1}: 1,
	}
	if len(got) != len(want) {
		t.Fatalf("reachable = %v, want %v", got, want)
	}
	for p, c := range want {
		if got[p] != c {
			t.Fatalf("cost to %s = %d, want %d", p, got[p], c)
		}
	}
}

func TestValidMoves_ExecutableAtListedCost(t *testing.T) {
	layout := []string{
		"..~...",
		".#^#..",
		"......",
	}
	build := func() *Engine {
		m, err := ParseBattleMap(layout, nil)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		return startFixed(t, m, NewScriptedRoller(20, 1),
			fighter("hero", TypePlayer, 0, 0), fighter("gob", TypeEnemy, 5, 2))
	}
	moves, err := build().ValidMoves("hero")
	if err != nil {
		t.Fatalf("ValidMoves: %v", err)
	}
	if len(moves) == 0 {
		t.Fatal("expected some reachable tiles")
	}
	for _, mv := range moves {
		e := build()
		dest := mv.Position
		res := mustAct(t, e, Action{Type: ActionMove, Target: &dest})
		hero, _ := res.NewState.Combatant("hero")
		if spent := 6 - hero.CurrentActionPoints.Move; spent != mv.Cost {
			t.Fatalf("move to %s spent %d, listed %d", dest, spent, mv.Cost)
		}
	}
}

func TestValidMoves_BlockedByLivingOnly(t *testing.T) {
	body := fighter("body", TypeEnemy, 1, 0)
	body.Health = 0
	e := startFixed(t, NewBattleMap(4, 1), NewScriptedRoller(20, 1, 1, 1),
		fighter("hero", TypePlayer, 0, 0), body, fighter("gob", TypeEnemy, 3, 0))
	moves, err := e.ValidMoves("hero")
	if err != nil {
		t.Fatalf("ValidMoves: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("reachable = %+v, want (1,0) and (2,0)", moves)
	}
	for _, mv := range moves {
		if mv.Position == (Position{X: 3, Y: 0}) {
			t.Fatal("a living combatant's tile should not be reachable")
		}
	}
}

func TestValidMoves_EmptyWhenSpentOrDefeated(t *testing.T) {
	e := startFixed(t, NewBattleMap(8, 1), NewScriptedRoller(20, 1),
		fighter("hero", TypePlayer, 0, 0), fighter("gob", TypeEnemy, 7, 0))
	mustAct(t, e, Action{Type: ActionMove, Target: &Position{X: 6, Y: 0}})
	if moves, _ := e.ValidMoves("hero"); len(moves) != 0 {
		t.Fatalf("moves after spending everything = %v", moves)
	}
	e.byID["gob"].Health = 0
	if moves, _ := e.ValidMoves("gob"); len(moves) != 0 {
		t.Fatalf("defeated combatant has moves: %v", moves)
	}
	if _, err := e.ValidMoves("nobody"); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("unknown id err = %v", err)
	}
}

func TestValidTargets_ReachAndSight(t *testing.T) {
	m, err := ParseBattleMap([]string{
		"......",
		"..#...",
		"......",
	}, []string{
		"100000",
		"000000",
		"000000",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	hero := fighter("hero", TypePlayer, 0, 0)
	near := fighter("near", TypeEnemy, 1, 0)
	far := fighter("far", TypeEnemy, 5, 0)
	hidden := fighter("hidden", TypeEnemy, 3, 2)
	e := startFixed(t, m, NewScriptedRoller(20, 1, 1, 1), hero, near, far, hidden)

	targets, err := e.ValidTargets("hero")
	if err != nil {
		t.Fatalf("ValidTargets: %v", err)
	}
	if len(targets) != 1 || targets[0].CombatantID != "near" {
		t.Fatalf("reach-1 targets = %+v, want only near", targets)
	}
	if !targets[0].HighGround || targets[0].Distance != 1 {
		t.Fatalf("near target = %+v, want high ground at distance 1", targets[0])
	}

	e.byID["hero"].Reach = 10
	targets, _ = e.ValidTargets("hero")
	ids := map[string]bool{}
	for _, tg := range targets {
		ids[tg.CombatantID] = true
	}
	if !ids["near"] || !ids["far"] {
		t.Fatalf("long-reach targets = %v", ids)
	}
	if HasLineOfSight(Position{}, Position{X: 3, Y: 2}, m) != ids["hidden"] {
		t.Fatal("ValidTargets disagrees with HasLineOfSight")
	}
}

func TestValidTargets_IncludesDefeated(t *testing.T) {
	body := fighter("body", TypeEnemy, 1, 0)
	body.Health = 0
	e := startFixed(t, NewBattleMap(4, 2), NewScriptedRoller(20, 1, 1),
		fighter("hero", TypePlayer, 0, 0), body, fighter("gob", TypeEnemy, 3, 1))
	targets, err := e.ValidTargets("hero")
	if err != nil {
		t.Fatalf("ValidTargets: %v", err)
	}
	if len(targets) != 1 || !targets[0].Defeated {
		t.Fatalf("targets = %+v, want the defeated body flagged", targets)
	}
}
