package scenario

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
)

// DefaultMaxActions bounds a run so a policy that never finishes cannot
// spin forever.
const DefaultMaxActions = 2000

// Runner plays a Document through the engine.
type Runner struct {
	// Logger receives engine diagnostics. Nil means no logging.
	Logger *zap.Logger
	// Policy drives the encounter once the script runs out. Nil stops the
	// run at the end of the script.
	Policy Policy
	// MaxActions caps the number of actions per run; 0 means
	// DefaultMaxActions.
	MaxActions int
	// Clock stamps log entries. Nil uses the wall clock; set it to make
	// whole logs comparable across runs.
	Clock func() time.Time
}

// Run plays d once with the given seed. The outcome is checked after every
// action and the encounter is ended as soon as one side is wiped out.
func (r *Runner) Run(ctx context.Context, d *Document, seed int64) (*Report, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := r.MaxActions
	if limit <= 0 {
		limit = DefaultMaxActions
	}
	m, err := d.BattleMap()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", d.Name, err)
	}
	opts := []combat.Option{combat.WithLogger(logger.With(zap.String("scenario", d.Name), zap.Int64("seed", seed)))}
	if r.Clock != nil {
		opts = append(opts, combat.WithClock(r.Clock))
	}
	e := d.NewEngine(seed, opts...)
	st, err := e.StartCombat(d.Combatants, m)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: start: %w", d.Name, err)
	}

	rep := newReport(d.Name, seed, st)
	step := 0
	play := func(actor string, a combat.Action) bool {
		step++
		before := e.State()
		if actor != "" {
			if cur, ok := before.Current(); ok && cur.ID != actor {
				rep.Mismatches = append(rep.Mismatches, Mismatch{Step: step, Expected: actor, Actual: cur.ID})
			}
		}
		res := e.ExecuteAction(a)
		if !res.Success {
			rep.reject(step, before, a, res)
			return false
		}
		rep.record(before, res.NewState)
		return true
	}

	ended := false
	for _, s := range d.Script {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if step >= limit {
			break
		}
		play(s.Actor, s.Action())
		if e.CheckCombatEnd().Ended {
			ended = true
			break
		}
	}
	if r.Policy != nil && !ended {
		for step < limit {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !play("", r.Policy.Next(e)) {
				// A rejected policy move must not stall the encounter.
				play("", combat.Action{Type: combat.ActionEndTurn})
			}
			if e.CheckCombatEnd().Ended {
				break
			}
		}
	}

	rep.finish(e.CheckCombatEnd(), e.EndCombat())
	rep.check(d.Expect)
	logger.Debug("scenario run finished",
		zap.String("scenario", d.Name),
		zap.Int64("seed", seed),
		zap.String("outcome", rep.Outcome.String()),
		zap.Int("rounds", rep.Rounds),
		zap.Int("actions", rep.Actions))
	return rep, nil
}

// RunSeeds plays d once per seed, starting at first.
func (r *Runner) RunSeeds(ctx context.Context, d *Document, first int64, runs int) ([]*Report, error) {
	reports := make([]*Report, 0, runs)
	for i := 0; i < runs; i++ {
		rep, err := r.Run(ctx, d, first+int64(i))
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
