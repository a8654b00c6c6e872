package combat

import "testing"

func TestDetermineOutcome(t *testing.T) {
	alive := func(id string, typ CombatantType) *Combatant { return fighter(id, typ, 0, 0) }
	down := func(id string, typ CombatantType) *Combatant {
		c := fighter(id, typ, 0, 0)
		c.Health = 0
		return c
	}
	cases := []struct {
		name   string
		roster []*Combatant
		want   Outcome
	}{
		{"empty", nil, Outcome{}},
		{"both sides standing", []*Combatant{alive("p", TypePlayer), alive("e", TypeEnemy)}, Outcome{}},
		{"enemies down", []*Combatant{alive("p", TypePlayer), down("e", TypeEnemy)}, Outcome{Ended: true, Winner: WinnerPlayers}},
		{"players down", []*Combatant{down("p", TypePlayer), alive("e", TypeEnemy)}, Outcome{Ended: true, Winner: WinnerEnemies}},
		{"npc left does not count", []*Combatant{down("p", TypePlayer), alive("n", TypeNPC), alive("e", TypeEnemy)}, Outcome{Ended: true, Winner: WinnerEnemies}},
		{"everyone down favours players", []*Combatant{down("p", TypePlayer), down("e", TypeEnemy)}, Outcome{Ended: true, Winner: WinnerPlayers}},
		{"no enemies at all", []*Combatant{alive("p", TypePlayer), alive("n", TypeNPC)}, Outcome{Ended: true, Winner: WinnerPlayers}},
	}
	for _, tc := range cases {
		if got := DetermineOutcome(tc.roster); got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestOutcome_String(t *testing.T) {
	if s := (Outcome{}).String(); s != "ongoing" {
		t.Fatalf("ongoing = %q", s)
	}
	if s := (Outcome{Ended: true, Winner: WinnerEnemies}).String(); s != "enemies_victory" {
		t.Fatalf("enemies = %q", s)
	}
}

func TestCheckCombatEnd_IsPure(t *testing.T) {
	e := duel(t)
	e.byID["gob"].Health = 0
	before := len(e.Log())
	out := e.CheckCombatEnd()
	if !out.Ended || out.Winner != WinnerPlayers {
		t.Fatalf("outcome = %s", out)
	}
	if len(e.Log()) != before || !e.IsActive() {
		t.Fatal("CheckCombatEnd should not change the encounter")
	}
	st := e.EndCombat()
	last := st.CombatLog[len(st.CombatLog)-1]
	if last.Result != "combat ended; players win" {
		t.Fatalf("end entry = %q", last.Result)
	}
}
