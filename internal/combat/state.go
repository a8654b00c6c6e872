package combat

// Phase is the turn controller's state.
type Phase string

const (
	PhaseSetup         Phase = "setup"
	PhaseRoundActive   Phase = "round-active"
	PhaseRoundComplete Phase = "round-complete"
	PhaseEnded         Phase = "ended"
)

// CombatState is a snapshot of an encounter. Every snapshot handed out by
// the engine is a deep copy; mutating it has no effect on the engine.
type CombatState struct {
	EncounterID           string         `json:"encounterId"`
	Phase                 Phase          `json:"phase"`
	IsActive              bool           `json:"isActive"`
	Round                 int            `json:"round"`
	Turn                  int            `json:"turn"`
	TurnOrder             []string       `json:"turnOrder"`
	Initiative            map[string]int `json:"initiative"`
	CurrentCombatantIndex int            `json:"currentCombatantIndex"`
	Combatants            []*Combatant   `json:"combatants"`
	BattleMap             *BattleMap     `json:"battleMap"`
	CombatLog             []LogEntry     `json:"combatLog"`
}

// Combatant returns the snapshot's combatant with the given id.
func (s *CombatState) Combatant(id string) (*Combatant, bool) {
	for _, c := range s.Combatants {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Current returns the combatant whose turn it is, if any.
func (s *CombatState) Current() (*Combatant, bool) {
	if s.CurrentCombatantIndex < 0 || s.CurrentCombatantIndex >= len(s.TurnOrder) {
		return nil, false
	}
	return s.Combatant(s.TurnOrder[s.CurrentCombatantIndex])
}

// Clone returns a deep copy.
func (s *CombatState) Clone() *CombatState {
	out := *s
	out.TurnOrder = append([]string(nil), s.TurnOrder...)
	if s.Initiative != nil {
		out.Initiative = make(map[string]int, len(s.Initiative))
		for k, v := range s.Initiative {
			out.Initiative[k] = v
		}
	}
	out.Combatants = make([]*Combatant, len(s.Combatants))
	for i, c := range s.Combatants {
		out.Combatants[i] = c.Clone()
	}
	out.BattleMap = s.BattleMap.Clone()
	out.CombatLog = append([]LogEntry(nil), s.CombatLog...)
	return &out
}
