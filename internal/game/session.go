package game

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
	"github.com/repairman29/MythSeeker-sub003/internal/scenario"
)

// Session is the hot-seat turn controller behind the viewer. Both sides are
// played from the same mouse and keyboard; whoever the engine says is active
// receives the input. It holds no ebiten state so it can be driven in tests.
type Session struct {
	engine *combat.Engine
	logger *zap.Logger
	doc    *scenario.Document

	state   *combat.CombatState
	moves   map[combat.Position]combat.Reachable
	targets map[string]combat.Target

	armed    string // skill id waiting for a target
	selected string // combatant shown in the inspector
	status   string
	outcome  combat.Outcome
}

// NewSession starts the document's encounter with the given seed.
func NewSession(doc *scenario.Document, seed int64, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := doc.BattleMap()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", doc.Name, err)
	}
	e := doc.NewEngine(seed, combat.WithLogger(logger))
	if _, err := e.StartCombat(doc.Combatants, m); err != nil {
		return nil, fmt.Errorf("scenario %s: start: %w", doc.Name, err)
	}
	s := &Session{engine: e, logger: logger, doc: doc}
	s.refresh()
	if cur, ok := s.state.Current(); ok {
		s.selected = cur.ID
		s.status = cur.Name + " to act"
	}
	return s, nil
}

// refresh re-reads the snapshot and the active combatant's options.
func (s *Session) refresh() {
	s.state = s.engine.State()
	s.moves = map[combat.Position]combat.Reachable{}
	s.targets = map[string]combat.Target{}
	cur, ok := s.engine.Active()
	if !ok {
		return
	}
	if moves, err := s.engine.ValidMoves(cur.ID); err == nil {
		for _, r := range moves {
			s.moves[r.Position] = r
		}
	}
	if targets, err := s.engine.ValidTargets(cur.ID); err == nil {
		for _, t := range targets {
			s.targets[t.CombatantID] = t
		}
	}
}

// State returns the latest snapshot.
func (s *Session) State() *combat.CombatState { return s.state }

// Status is the one-line message shown under the board.
func (s *Session) Status() string { return s.status }

// Outcome is set once the encounter has been ended.
func (s *Session) Outcome() combat.Outcome { return s.outcome }

// Armed returns the skill waiting for a target, if any.
func (s *Session) Armed() string { return s.armed }

// Selected returns the inspected combatant.
func (s *Session) Selected() (*combat.Combatant, bool) {
	if s.selected == "" {
		return nil, false
	}
	return s.state.Combatant(s.selected)
}

// CanMoveTo reports whether p is highlighted as a destination.
func (s *Session) CanMoveTo(p combat.Position) (combat.Reachable, bool) {
	r, ok := s.moves[p]
	return r, ok
}

// IsTarget reports whether the combatant is attackable by the active one.
func (s *Session) IsTarget(id string) bool {
	_, ok := s.targets[id]
	return ok
}

// SkillIDs lists the active combatant's skills in key order. Keys 1-9 arm
// them by position in this list.
func (s *Session) SkillIDs() []string {
	cur, ok := s.state.Current()
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(cur.Skills))
	for id := range cur.Skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ArmSkill readies the n-th skill (1-based). Arming the same skill twice
// disarms it.
func (s *Session) ArmSkill(n int) {
	ids := s.SkillIDs()
	if n < 1 || n > len(ids) {
		s.status = fmt.Sprintf("no skill in slot %d", n)
		return
	}
	id := ids[n-1]
	if s.armed == id {
		s.Disarm()
		return
	}
	s.armed = id
	s.status = fmt.Sprintf("%s armed: click a target", id)
}

// Disarm drops a readied skill.
func (s *Session) Disarm() {
	if s.armed == "" {
		return
	}
	s.armed = ""
	s.status = "skill cancelled"
}

// Click resolves a click on a board tile: cast the armed skill, attack an
// opposing target, move to a highlighted tile, or inspect a combatant.
func (s *Session) Click(p combat.Position) {
	if s.outcome.Ended {
		s.status = "combat is over"
		return
	}
	occupant := s.livingAt(p)
	if s.armed != "" {
		a := combat.Action{Type: combat.ActionSkill, SkillID: s.armed}
		if occupant != nil {
			a.TargetID = occupant.ID
		} else {
			tile := p
			a.Target = &tile
		}
		s.armed = ""
		s.act(a)
		return
	}
	cur, _ := s.state.Current()
	if occupant != nil {
		if cur != nil && occupant.ID != cur.ID && s.IsTarget(occupant.ID) && scenario.Opposed(cur.Type, occupant.Type) {
			s.act(combat.Action{Type: combat.ActionAttack, TargetID: occupant.ID})
			return
		}
		s.selected = occupant.ID
		s.status = "inspecting " + occupant.Name
		return
	}
	if r, ok := s.moves[p]; ok {
		dest := r.Position
		s.act(combat.Action{Type: combat.ActionMove, Target: &dest, Path: r.Path})
		return
	}
	s.status = fmt.Sprintf("nothing to do at %s", p)
}

// EndTurn passes to the next combatant.
func (s *Session) EndTurn() {
	if s.outcome.Ended {
		return
	}
	s.armed = ""
	s.act(combat.Action{Type: combat.ActionEndTurn})
}

// Auto lets the greedy policy take one action for whoever is active.
func (s *Session) Auto() {
	if s.outcome.Ended {
		return
	}
	s.armed = ""
	a := scenario.Greedy.Next(s.engine)
	s.act(a)
}

func (s *Session) act(a combat.Action) {
	res := s.engine.ExecuteAction(a)
	s.status = res.Message
	if !res.Success {
		s.logger.Debug("action rejected", zap.String("type", string(a.Type)), zap.Error(res.Err))
		return
	}
	if out := s.engine.CheckCombatEnd(); out.Ended {
		s.outcome = out
		s.engine.EndCombat()
		s.status = fmt.Sprintf("%s (%s)", res.Message, out)
		s.logger.Info("hot-seat encounter finished", zap.String("outcome", out.String()))
	}
	s.refresh()
	if a.Type == combat.ActionEndTurn {
		if cur, ok := s.state.Current(); ok {
			s.selected = cur.ID
		}
	}
}

// LogText renders the full combat log for copying.
func (s *Session) LogText() string {
	return combat.FormatEntries(s.engine.Log())
}

// Restart replays the document from scratch with a new seed.
func (s *Session) Restart(seed int64) error {
	next, err := NewSession(s.doc, seed, s.logger)
	if err != nil {
		return err
	}
	*s = *next
	return nil
}

func (s *Session) livingAt(p combat.Position) *combat.Combatant {
	for _, c := range s.state.Combatants {
		if c.Position == p && !c.IsDefeated() {
			return c
		}
	}
	return nil
}
