package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
)

// Report summarises one run of a scenario.
type Report struct {
	Scenario string
	Seed     int64
	Outcome  combat.Outcome
	Rounds   int
	// Actions counts successful actions, end-turns included.
	Actions    int
	Rejected   []Rejection
	Mismatches []Mismatch
	// DamageDealt is keyed by the acting combatant, DamageTaken by the one
	// that lost health.
	DamageDealt map[string]int
	DamageTaken map[string]int
	Survivors   []string
	// Sides maps every combatant id to its type.
	Sides map[string]combat.CombatantType
	Log   []combat.LogEntry
	// Failures lists unmet expectations.
	Failures []string

	roster []string
}

// Rejection is a scripted or policy action the engine refused.
type Rejection struct {
	Step    int
	Actor   string
	Type    combat.ActionType
	Code    combat.Code
	Message string
}

// Mismatch records a step whose advisory actor was not the active combatant.
type Mismatch struct {
	Step     int
	Expected string
	Actual   string
}

func newReport(name string, seed int64, st *combat.CombatState) *Report {
	rep := &Report{
		Scenario:    name,
		Seed:        seed,
		DamageDealt: map[string]int{},
		DamageTaken: map[string]int{},
		Sides:       map[string]combat.CombatantType{},
	}
	for _, c := range st.Combatants {
		rep.roster = append(rep.roster, c.ID)
		rep.Sides[c.ID] = c.Type
	}
	return rep
}

func (r *Report) reject(step int, before *combat.CombatState, a combat.Action, res combat.Result) {
	rj := Rejection{Step: step, Type: a.Type, Message: res.Message}
	if cur, ok := before.Current(); ok {
		rj.Actor = cur.ID
	}
	var ce *combat.Error
	if errors.As(res.Err, &ce) {
		rj.Code = ce.Code
	}
	r.Rejected = append(r.Rejected, rj)
}

// record attributes every health drop between two snapshots to the
// combatant that acted.
func (r *Report) record(before, after *combat.CombatState) {
	r.Actions++
	actor, ok := before.Current()
	if !ok {
		return
	}
	for _, c := range after.Combatants {
		prev, ok := before.Combatant(c.ID)
		if !ok {
			continue
		}
		if drop := prev.Health - c.Health; drop > 0 {
			r.DamageTaken[c.ID] += drop
			r.DamageDealt[actor.ID] += drop
		}
	}
}

func (r *Report) finish(out combat.Outcome, final *combat.CombatState) {
	r.Outcome = out
	r.Rounds = final.Round
	r.Log = final.CombatLog
	for _, c := range final.Combatants {
		if !c.IsDefeated() {
			r.Survivors = append(r.Survivors, c.ID)
		}
	}
}

func (r *Report) check(exp *Expectation) {
	if exp == nil {
		return
	}
	if exp.Winner != combat.WinnerNone && (!r.Outcome.Ended || r.Outcome.Winner != exp.Winner) {
		r.Failures = append(r.Failures, fmt.Sprintf("expected %s to win, got %s", exp.Winner, r.Outcome))
	}
	if exp.MaxRounds > 0 && r.Rounds > exp.MaxRounds {
		r.Failures = append(r.Failures, fmt.Sprintf("expected at most %d rounds, took %d", exp.MaxRounds, r.Rounds))
	}
	if exp.Rejections != nil && len(r.Rejected) != *exp.Rejections {
		r.Failures = append(r.Failures, fmt.Sprintf("expected %d rejected actions, got %d", *exp.Rejections, len(r.Rejected)))
	}
}

// Passed reports whether every expectation held.
func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// String renders the report as a plain-text block.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "scenario %s  seed %d  outcome %s  rounds %d  actions %d\n",
		r.Scenario, r.Seed, r.Outcome, r.Rounds, r.Actions)
	fmt.Fprintf(&sb, "  %-10s %6s %6s %s\n", "combatant", "dealt", "taken", "status")
	survived := make(map[string]bool, len(r.Survivors))
	for _, id := range r.Survivors {
		survived[id] = true
	}
	for _, id := range r.roster {
		status := "down"
		if survived[id] {
			status = "standing"
		}
		fmt.Fprintf(&sb, "  %-10s %6d %6d %s\n", id, r.DamageDealt[id], r.DamageTaken[id], status)
	}
	for _, rj := range r.Rejected {
		fmt.Fprintf(&sb, "  rejected step %d (%s %s): %s %s\n", rj.Step, rj.Actor, rj.Type, rj.Code, rj.Message)
	}
	for _, mm := range r.Mismatches {
		fmt.Fprintf(&sb, "  step %d scripted for %s but %s was active\n", mm.Step, mm.Expected, mm.Actual)
	}
	for _, f := range r.Failures {
		fmt.Fprintf(&sb, "  FAIL %s\n", f)
	}
	return sb.String()
}

// Summary aggregates a batch of runs.
type Summary struct {
	Runs       int
	PlayerWins int
	EnemyWins  int
	Undecided  int
	MeanRounds float64
	Rejected   int
	Mismatches int
	Failed     int
}

// Summarize folds reports into a Summary.
func Summarize(reports []*Report) Summary {
	var s Summary
	rounds := 0
	for _, r := range reports {
		s.Runs++
		switch {
		case !r.Outcome.Ended:
			s.Undecided++
		case r.Outcome.Winner == combat.WinnerPlayers:
			s.PlayerWins++
		case r.Outcome.Winner == combat.WinnerEnemies:
			s.EnemyWins++
		}
		rounds += r.Rounds
		s.Rejected += len(r.Rejected)
		s.Mismatches += len(r.Mismatches)
		if !r.Passed() {
			s.Failed++
		}
	}
	if s.Runs > 0 {
		s.MeanRounds = float64(rounds) / float64(s.Runs)
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("runs %d  players %d  enemies %d  undecided %d  mean rounds %.1f  rejected %d  mismatches %d  failed %d",
		s.Runs, s.PlayerWins, s.EnemyWins, s.Undecided, s.MeanRounds, s.Rejected, s.Mismatches, s.Failed)
}
