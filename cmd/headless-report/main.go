package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
	"github.com/repairman29/MythSeeker-sub003/internal/config"
	"github.com/repairman29/MythSeeker-sub003/internal/scenario"
)

type runStats struct {
	runIndex int
	seed     int64
	report   *scenario.Report

	firstHitRound    int
	firstDefeatRound int
	firstSkillRound  int

	attacks      int
	hits         int
	skills       int
	moves        int
	statusEvents int

	playerTotal     int
	enemyTotal      int
	playerSurvivors int
	enemySurvivors  int

	defeated map[string]struct{}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}

	var runs int
	var seedBase int64
	var seedStep int64
	var path string
	var scriptOnly bool
	var maxActions int

	flag.IntVar(&runs, "runs", cfg.Runs, "number of headless runs")
	flag.Int64Var(&seedBase, "seed-base", cfg.Seed, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&path, "scenario", cfg.Scenario, "scenario file (YAML)")
	flag.BoolVar(&scriptOnly, "script-only", false, "stop each run when the script runs out")
	flag.IntVar(&maxActions, "max-actions", scenario.DefaultMaxActions, "action cap per run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if path == "" {
		fmt.Println("error: -scenario is required (or set SKIRMISH_SCENARIO)")
		os.Exit(2)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	doc, err := scenario.Load(path)
	if err != nil {
		logger.Error("load scenario", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}

	runner := &scenario.Runner{Logger: logger, MaxActions: maxActions}
	if !scriptOnly {
		runner.Policy = scenario.Greedy
	}

	fmt.Printf("=== Headless Combat Report ===\n")
	fmt.Printf("scenario=%s runs=%d seed_base=%d seed_step=%d script_only=%t\n\n", doc.Name, runs, seedBase, seedStep, scriptOnly)

	ctx := context.Background()
	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rep, err := runner.Run(ctx, doc, seed)
		if err != nil {
			logger.Error("run failed", zap.Int("run", i+1), zap.Int64("seed", seed), zap.Error(err))
			os.Exit(1)
		}
		stats := collectStats(i+1, seed, rep)
		all = append(all, stats)
		printRun(stats)
	}

	if failed := printAggregate(all); failed > 0 {
		os.Exit(1)
	}
}

func collectStats(runIndex int, seed int64, rep *scenario.Report) runStats {
	rs := runStats{
		runIndex: runIndex,
		seed:     seed,
		report:   rep,
		defeated: map[string]struct{}{},
	}
	for _, e := range rep.Log {
		switch e.Action {
		case combat.LogAttack:
			rs.attacks++
			if strings.HasPrefix(e.Result, "hit") {
				rs.hits++
			}
		case combat.LogSkill:
			rs.skills++
		case combat.LogMove:
			rs.moves++
		case combat.LogStatus:
			rs.statusEvents++
		}
		if strings.Contains(e.Result, "defeated") && e.Target != "" {
			rs.defeated[e.Target] = struct{}{}
		}
	}
	rs.firstHitRound = firstRound(rep.Log, combat.LogAttack, "hit")
	rs.firstDefeatRound = firstRound(rep.Log, "", "defeated")
	rs.firstSkillRound = firstRound(rep.Log, combat.LogSkill, "")
	rs.playerTotal, rs.enemyTotal, rs.playerSurvivors, rs.enemySurvivors = teamSurvivalCounts(rep)
	return rs
}

// firstRound returns the round of the first entry matching action whose
// result contains the given text, or -1.
func firstRound(entries []combat.LogEntry, action, contains string) int {
	for _, e := range entries {
		if action != "" && e.Action != action {
			continue
		}
		if contains == "" || strings.Contains(e.Result, contains) {
			return e.Round
		}
	}
	return -1
}

// teamSurvivalCounts splits the roster by side. NPCs are not counted.
func teamSurvivalCounts(rep *scenario.Report) (playerTotal, enemyTotal, playerSurvivors, enemySurvivors int) {
	standing := make(map[string]bool, len(rep.Survivors))
	for _, id := range rep.Survivors {
		standing[id] = true
	}
	for id, typ := range rep.Sides {
		switch typ {
		case combat.TypePlayer:
			playerTotal++
			if standing[id] {
				playerSurvivors++
			}
		case combat.TypeEnemy:
			enemyTotal++
			if standing[id] {
				enemySurvivors++
			}
		}
	}
	return playerTotal, enemyTotal, playerSurvivors, enemySurvivors
}

// detectStalemate flags runs that stopped without a winner while both sides
// kept most of their members and few attacks landed.
func detectStalemate(rs runStats) (bool, string) {
	if rs.report != nil && rs.report.Outcome.Ended {
		return false, "decided"
	}
	if rs.playerTotal == 0 || rs.enemyTotal == 0 {
		return false, "one_sided_roster"
	}
	playerSurv := float64(rs.playerSurvivors) / float64(rs.playerTotal)
	enemySurv := float64(rs.enemySurvivors) / float64(rs.enemyTotal)
	if playerSurv < 0.5 || enemySurv < 0.5 {
		return false, fmt.Sprintf("attrition player_surv=%.2f enemy_surv=%.2f", playerSurv, enemySurv)
	}
	reasons := []string{"high_mutual_survival"}
	if rs.attacks == 0 {
		reasons = append(reasons, "no_attacks")
	} else if float64(rs.hits)/float64(rs.attacks) < 0.25 {
		reasons = append(reasons, "low_hit_rate")
	}
	if rs.firstDefeatRound < 0 {
		reasons = append(reasons, "no_defeats")
	}
	return true, strings.Join(reasons, ",")
}

func printRun(rs runStats) {
	rep := rs.report
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome=%s rounds=%d actions=%d rejected=%d mismatches=%d\n",
		rep.Outcome, rep.Rounds, rep.Actions, len(rep.Rejected), len(rep.Mismatches))
	fmt.Printf("phase_markers: first_hit=%d first_skill=%d first_defeat=%d\n",
		rs.firstHitRound, rs.firstSkillRound, rs.firstDefeatRound)
	fmt.Printf("event_totals: attack=%d hit=%d skill=%d move=%d status=%d\n",
		rs.attacks, rs.hits, rs.skills, rs.moves, rs.statusEvents)
	fmt.Printf("survival: players=%d/%d enemies=%d/%d\n",
		rs.playerSurvivors, rs.playerTotal, rs.enemySurvivors, rs.enemyTotal)
	fmt.Printf("defeated_labels: %s\n", joinSet(rs.defeated))
	if stale, reason := detectStalemate(rs); stale {
		fmt.Printf("stalemate: %s\n", reason)
	}
	fmt.Print(rep.String())
	fmt.Println()
}

// printAggregate prints the cross-run summary and returns how many runs
// failed their expectations.
func printAggregate(all []runStats) int {
	totalAttacks := 0
	totalHits := 0
	totalSkills := 0
	totalMoves := 0
	stalemates := 0

	hitRounds := make([]int, 0, len(all))
	defeatRounds := make([]int, 0, len(all))
	defeatedGlobal := map[string]struct{}{}
	reports := make([]*scenario.Report, 0, len(all))

	type combatantAgg struct {
		dealt    int
		taken    int
		count    int
		survived int
	}
	aggs := map[string]*combatantAgg{}

	for _, rs := range all {
		totalAttacks += rs.attacks
		totalHits += rs.hits
		totalSkills += rs.skills
		totalMoves += rs.moves
		if rs.firstHitRound >= 0 {
			hitRounds = append(hitRounds, rs.firstHitRound)
		}
		if rs.firstDefeatRound >= 0 {
			defeatRounds = append(defeatRounds, rs.firstDefeatRound)
		}
		if stale, _ := detectStalemate(rs); stale {
			stalemates++
		}
		for id := range rs.defeated {
			defeatedGlobal[id] = struct{}{}
		}
		reports = append(reports, rs.report)

		standing := map[string]bool{}
		for _, id := range rs.report.Survivors {
			standing[id] = true
		}
		for id := range rs.report.Sides {
			ag, ok := aggs[id]
			if !ok {
				ag = &combatantAgg{}
				aggs[id] = ag
			}
			ag.dealt += rs.report.DamageDealt[id]
			ag.taken += rs.report.DamageTaken[id]
			ag.count++
			if standing[id] {
				ag.survived++
			}
		}
	}

	sum := scenario.Summarize(reports)
	fmt.Println("=== Aggregate ===")
	fmt.Println(sum)
	fmt.Printf("avg_events_per_run: attack=%.1f hit=%.1f skill=%.1f move=%.1f\n",
		avg(totalAttacks, len(all)), avg(totalHits, len(all)), avg(totalSkills, len(all)), avg(totalMoves, len(all)))
	fmt.Printf("phase_marker_avg_rounds: first_hit=%s first_defeat=%s\n",
		avgRoundString(hitRounds), avgRoundString(defeatRounds))
	fmt.Printf("stalemates=%d\n", stalemates)
	fmt.Printf("unique_defeated_labels=%d [%s]\n", len(defeatedGlobal), joinSet(defeatedGlobal))

	fmt.Println("\n=== Aggregate Combatant Performance ===")
	ids := make([]string, 0, len(aggs))
	for id := range aggs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	dealt := map[string]int{}
	for _, id := range ids {
		ag := aggs[id]
		dealt[id] = ag.dealt
		fmt.Printf("  %-10s dealt=%.1f taken=%.1f survival=%.0f%%\n",
			id, avg(ag.dealt, ag.count), avg(ag.taken, ag.count), avg(ag.survived*100, ag.count))
	}
	if top := topDealer(dealt); top != "" {
		fmt.Printf("top_damage=%s\n", top)
	}
	return sum.Failed
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgRoundString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// topDealer names the highest total, ties broken by id.
func topDealer(counts map[string]int) string {
	best := ""
	bestN := 0
	for k, v := range counts {
		if v > bestN || (v == bestN && v > 0 && k < best) {
			best = k
			bestN = v
		}
	}
	if bestN == 0 {
		return ""
	}
	return fmt.Sprintf("%s(%d)", best, bestN)
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
