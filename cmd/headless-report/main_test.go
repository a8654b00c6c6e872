package main

import (
	"strings"
	"testing"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
	"github.com/repairman29/MythSeeker-sub003/internal/scenario"
)

func sampleReport() *scenario.Report {
	return &scenario.Report{
		Sides: map[string]combat.CombatantType{
			"knight": combat.TypePlayer,
			"mage":   combat.TypePlayer,
			"gob1":   combat.TypeEnemy,
			"gob2":   combat.TypeEnemy,
			"guide":  combat.TypeNPC,
		},
		Survivors: []string{"knight", "gob1", "gob2", "guide"},
		Log: []combat.LogEntry{
			{Round: 1, Action: combat.LogMove, CombatantID: "knight"},
			{Round: 1, Action: combat.LogAttack, CombatantID: "gob1", Target: "mage", Result: "miss (roll 3+0=3 vs AC 10)"},
			{Round: 2, Action: combat.LogAttack, CombatantID: "gob1", Target: "mage", Result: "hit for 4 (roll 15+0=15 vs AC 10)"},
			{Round: 2, Action: combat.LogSkill, CombatantID: "mage", Target: "gob2", Result: "Firebolt: 3 damage to Goblin"},
			{Round: 3, Action: combat.LogAttack, CombatantID: "gob2", Target: "mage", Result: "hit for 5 (roll 12+0=12 vs AC 10); Mage is defeated"},
		},
	}
}

func TestTeamSurvivalCounts(t *testing.T) {
	playerTotal, enemyTotal, playerSurvivors, enemySurvivors := teamSurvivalCounts(sampleReport())
	if playerTotal != 2 || enemyTotal != 2 {
		t.Fatalf("expected totals players=2 enemies=2, got players=%d enemies=%d", playerTotal, enemyTotal)
	}
	if playerSurvivors != 1 || enemySurvivors != 2 {
		t.Fatalf("expected survivors players=1 enemies=2, got players=%d enemies=%d", playerSurvivors, enemySurvivors)
	}
}

func TestCollectStats_CountsLogEvents(t *testing.T) {
	rs := collectStats(1, 7, sampleReport())
	if rs.attacks != 3 || rs.hits != 2 || rs.skills != 1 || rs.moves != 1 {
		t.Fatalf("unexpected counts: attacks=%d hits=%d skills=%d moves=%d", rs.attacks, rs.hits, rs.skills, rs.moves)
	}
	if rs.firstHitRound != 2 || rs.firstSkillRound != 2 || rs.firstDefeatRound != 3 {
		t.Fatalf("unexpected markers: hit=%d skill=%d defeat=%d", rs.firstHitRound, rs.firstSkillRound, rs.firstDefeatRound)
	}
	if got := joinSet(rs.defeated); got != "mage" {
		t.Fatalf("expected defeated=mage, got %s", got)
	}
}

func TestFirstRound_MissingReturnsMinusOne(t *testing.T) {
	if r := firstRound(nil, combat.LogAttack, ""); r != -1 {
		t.Fatalf("expected -1, got %d", r)
	}
}

func TestDetectStalemate_TrueWhenUndecidedAndBothSidesStanding(t *testing.T) {
	rs := runStats{
		report:           &scenario.Report{},
		playerTotal:      3,
		enemyTotal:       3,
		playerSurvivors:  3,
		enemySurvivors:   2,
		attacks:          10,
		hits:             1,
		firstDefeatRound: -1,
	}

	isStalemate, reason := detectStalemate(rs)
	if !isStalemate {
		t.Fatalf("expected stalemate=true, got false (reason=%s)", reason)
	}
	for _, want := range []string{"high_mutual_survival", "low_hit_rate", "no_defeats"} {
		if !strings.Contains(reason, want) {
			t.Fatalf("expected reason to mention %s, got: %s", want, reason)
		}
	}
}

func TestDetectStalemate_FalseWhenDecided(t *testing.T) {
	rs := runStats{
		report:          &scenario.Report{Outcome: combat.Outcome{Ended: true, Winner: combat.WinnerPlayers}},
		playerTotal:     3,
		enemyTotal:      3,
		playerSurvivors: 3,
		enemySurvivors:  0,
	}
	if isStalemate, reason := detectStalemate(rs); isStalemate {
		t.Fatalf("expected stalemate=false for a finished run (reason=%s)", reason)
	}
}

func TestDetectStalemate_FalseWhenAttritionDecisive(t *testing.T) {
	rs := runStats{
		report:          &scenario.Report{},
		playerTotal:     4,
		enemyTotal:      4,
		playerSurvivors: 1,
		enemySurvivors:  4,
	}

	isStalemate, reason := detectStalemate(rs)
	if isStalemate {
		t.Fatalf("expected stalemate=false under decisive attrition (reason=%s)", reason)
	}
	if !strings.HasPrefix(reason, "attrition") {
		t.Fatalf("expected attrition reason, got: %s", reason)
	}
}

func TestHelpers(t *testing.T) {
	if avg(5, 0) != 0 || avg(6, 4) != 1.5 {
		t.Fatal("avg mismatch")
	}
	if avgRoundString(nil) != "n/a" || avgRoundString([]int{1, 2}) != "1.5" {
		t.Fatal("avgRoundString mismatch")
	}
	if joinSet(nil) != "none" || joinSet(map[string]struct{}{"b": {}, "a": {}}) != "a,b" {
		t.Fatal("joinSet mismatch")
	}
	if got := topDealer(map[string]int{"mage": 9, "archer": 9, "knight": 3}); got != "archer(9)" {
		t.Fatalf("topDealer = %s, want archer(9)", got)
	}
	if got := topDealer(map[string]int{"knight": 0}); got != "" {
		t.Fatalf("topDealer with no damage = %q", got)
	}
}
