package combat

import (
	"errors"
	"math/rand"
)

// ErrScriptExhausted is reported by a ScriptedRoller once its values run
// out and it has no fallback.
var ErrScriptExhausted = errors.New("scripted roller has no values left")

// Roller produces die results in 1..sides. The engine rolls every d20 and
// damage die through it so encounters are reproducible.
type Roller interface {
	Roll(sides int) int
}

// RollerFunc adapts a function to the Roller interface.
type RollerFunc func(sides int) int

// Roll implements Roller.
func (f RollerFunc) Roll(sides int) int {
	return f(sides)
}

// SeededRoller is a deterministic Roller backed by math/rand.
//
// Two SeededRollers built from the same seed yield the same sequence for the
// same sequence of die sizes.
type SeededRoller struct {
	rng *rand.Rand
}

// NewSeededRoller builds a roller from seed.
func NewSeededRoller(seed int64) *SeededRoller {
	return &SeededRoller{rng: rand.New(rand.NewSource(seed))} // #nosec G404 -- game dice, not security
}

// Roll implements Roller.
func (r *SeededRoller) Roll(sides int) int {
	if sides <= 1 {
		return 1
	}
	return r.rng.Intn(sides) + 1
}

// ScriptedRoller returns pinned values in order, then defers to Fallback.
// Values are clamped into 1..sides so a script written for a d20 stays legal
// if it is consumed by a d6.
type ScriptedRoller struct {
	values   []int
	Fallback Roller
	err      error
}

// NewScriptedRoller pins the given values.
func NewScriptedRoller(values ...int) *ScriptedRoller {
	return &ScriptedRoller{values: append([]int(nil), values...)}
}

// Roll implements Roller.
func (r *ScriptedRoller) Roll(sides int) int {
	if len(r.values) == 0 {
		if r.Fallback != nil {
			return r.Fallback.Roll(sides)
		}
		r.err = ErrScriptExhausted
		return 1
	}
	v := r.values[0]
	r.values = r.values[1:]
	return clampDie(v, sides)
}

// Remaining returns how many pinned values are left.
func (r *ScriptedRoller) Remaining() int {
	return len(r.values)
}

// Err reports ErrScriptExhausted if a roll was requested after the script
// ran out with no fallback.
func (r *ScriptedRoller) Err() error {
	return r.err
}

func clampDie(v, sides int) int {
	if sides < 1 {
		sides = 1
	}
	if v < 1 {
		return 1
	}
	if v > sides {
		return sides
	}
	return v
}
