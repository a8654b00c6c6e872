package combat

// Winner names the side that won an encounter.
type Winner string

const (
	WinnerNone    Winner = ""
	WinnerPlayers Winner = "players"
	WinnerEnemies Winner = "enemies"
)

// Outcome is the answer to "is this encounter over?".
type Outcome struct {
	Ended  bool   `json:"ended"`
	Winner Winner `json:"winner,omitempty"`
}

func (o Outcome) String() string {
	if !o.Ended {
		return "ongoing"
	}
	return string(o.Winner) + "_victory"
}

// CheckCombatEnd reports whether one side has been wiped out. It is a pure
// query; the engine never ends itself, the caller decides when to call
// EndCombat.
func (e *Engine) CheckCombatEnd() Outcome {
	return DetermineOutcome(e.combatants)
}

// DetermineOutcome applies the victory rule to a roster. Players win when
// every enemy is at 0 health; otherwise enemies win when every player is.
// NPCs never decide the outcome. A side with no members counts as wiped
// out; an empty roster is never over.
func DetermineOutcome(combatants []*Combatant) Outcome {
	if len(combatants) == 0 {
		return Outcome{}
	}
	playersLeft, enemiesLeft := 0, 0
	for _, c := range combatants {
		if c.IsDefeated() {
			continue
		}
		switch c.Type {
		case TypePlayer:
			playersLeft++
		case TypeEnemy:
			enemiesLeft++
		}
	}
	switch {
	case enemiesLeft == 0:
		return Outcome{Ended: true, Winner: WinnerPlayers}
	case playersLeft == 0:
		return Outcome{Ended: true, Winner: WinnerEnemies}
	default:
		return Outcome{}
	}
}
