package combat

import (
	"fmt"

	"go.uber.org/zap"
)

// ActionType selects the resolver branch.
type ActionType string

const (
	ActionMove    ActionType = "move"
	ActionAttack  ActionType = "attack"
	ActionSkill   ActionType = "skill"
	ActionEndTurn ActionType = "end-turn"
)

// Action is one command for the active combatant. Target addresses a tile,
// TargetID a combatant; attacks and skills accept either. Path is advisory
// for renderers and never used for cost.
type Action struct {
	Type     ActionType `json:"type" yaml:"type"`
	Target   *Position  `json:"target,omitempty" yaml:"target,omitempty"`
	TargetID string     `json:"targetId,omitempty" yaml:"target_id,omitempty"`
	SkillID  string     `json:"skillId,omitempty" yaml:"skill,omitempty"`
	Path     []Position `json:"path,omitempty" yaml:"path,omitempty"`
}

// Result reports how an action resolved. Message is always set. NewState is
// only set on success; Err carries the *Error on failure.
type Result struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	NewState *CombatState `json:"newState,omitempty"`
	Err      error        `json:"-"`
}

// ExecuteAction validates and resolves one action for the active combatant.
// A rejected action leaves the encounter untouched.
func (e *Engine) ExecuteAction(a Action) Result {
	if e.phase != PhaseRoundActive {
		return e.reject(nil, a, newError(CodeInactive, "combat is not active"))
	}
	actor := e.current()

	var (
		msg string
		err *Error
	)
	switch a.Type {
	case ActionMove:
		msg, err = e.move(actor, a)
	case ActionAttack:
		msg, err = e.attack(actor, a)
	case ActionSkill:
		msg, err = e.useSkill(actor, a)
	case ActionEndTurn:
		msg = e.endTurn(actor)
	default:
		err = newError(CodeInvalidAction, fmt.Sprintf("unknown action type %q", a.Type))
	}
	if err != nil {
		return e.reject(actor, a, err)
	}

	e.refreshOccupancy()
	e.logger.Debug("action resolved",
		zap.String("actor", actor.ID),
		zap.String("type", string(a.Type)),
		zap.Int("round", e.round),
		zap.String("result", msg))
	return Result{Success: true, Message: msg, NewState: e.snapshot()}
}

func (e *Engine) reject(actor *Combatant, a Action, err *Error) Result {
	actorID := globalActor
	if actor != nil {
		actorID = actor.ID
	}
	e.logger.Debug("action rejected",
		zap.String("actor", actorID),
		zap.String("type", string(a.Type)),
		zap.String("code", string(err.Code)),
		zap.String("reason", err.Message))
	return Result{Success: false, Message: err.Message, Err: err}
}

func (e *Engine) move(actor *Combatant, a Action) (string, *Error) {
	if actor.IsDefeated() {
		return "", newError(CodeInvalidAction, actor.Name+" is defeated and can only end the turn")
	}
	if a.Target == nil {
		return "", newError(CodeInvalidAction, "move needs a target tile")
	}
	if actor.CurrentActionPoints.Move <= 0 {
		return "", newError(CodeInsufficientResource, actor.Name+" has no movement points")
	}
	dest := *a.Target
	switch {
	case !e.bmap.InBounds(dest):
		return "", newError(CodeInvalidTarget, fmt.Sprintf("target %s is out of bounds", dest))
	case e.bmap.At(dest).Type == TileWall:
		return "", newError(CodeInvalidTarget, fmt.Sprintf("target %s is a wall", dest))
	case dest == actor.Position:
		return "", newError(CodeInvalidTarget, fmt.Sprintf("%s is already at %s", actor.Name, dest))
	}
	if other := e.livingAt(dest, actor); other != nil {
		return "", newError(CodeInvalidTarget, fmt.Sprintf("target %s is occupied by %s", dest, other.Name))
	}

	budget := actor.CurrentActionPoints.Move
	settled := searchReachable(e.bmap, actor.Position, budget, e.moveBlocker(actor))
	v, ok := settled[dest]
	if !ok {
		unbounded := searchReachable(e.bmap, actor.Position, e.bmap.Width*e.bmap.Height*3, e.moveBlocker(actor))
		if full, reachable := unbounded[dest]; reachable {
			return "", newError(CodeInsufficientResource,
				fmt.Sprintf("%s needs %d movement points to reach %s but has %d", actor.Name, full.cost, dest, budget))
		}
		return "", newError(CodeInvalidTarget, fmt.Sprintf("no path to %s", dest))
	}

	from := actor.Position
	actor.Position = dest
	actor.CurrentActionPoints.Move -= v.cost
	result := fmt.Sprintf("moved %s -> %s for %d (%d left)", from, dest, v.cost, actor.CurrentActionPoints.Move)
	e.addLog(actor.ID, LogMove, dest.String(), result)
	return fmt.Sprintf("%s %s", actor.Name, result), nil
}

// resolveTarget finds the combatant an attack or skill is aimed at.
func (e *Engine) resolveTarget(actor *Combatant, a Action) (*Combatant, *Error) {
	if a.TargetID != "" {
		t, ok := e.byID[a.TargetID]
		if !ok {
			return nil, newError(CodeInvalidTarget, fmt.Sprintf("unknown combatant %q", a.TargetID))
		}
		return t, nil
	}
	if a.Target == nil {
		return nil, newError(CodeInvalidAction, "no target given")
	}
	if !e.bmap.InBounds(*a.Target) {
		return nil, newError(CodeInvalidTarget, fmt.Sprintf("target %s is out of bounds", *a.Target))
	}
	if *a.Target == actor.Position {
		return actor, nil
	}
	t := e.anyAt(*a.Target, actor)
	if t == nil {
		return nil, newError(CodeInvalidTarget, fmt.Sprintf("no combatant at %s", *a.Target))
	}
	return t, nil
}

func (e *Engine) attack(actor *Combatant, a Action) (string, *Error) {
	if actor.IsDefeated() {
		return "", newError(CodeInvalidAction, actor.Name+" is defeated and can only end the turn")
	}
	if actor.CurrentActionPoints.Action <= 0 {
		return "", newError(CodeInsufficientResource, actor.Name+" has no action points")
	}
	target, verr := e.resolveTarget(actor, a)
	if verr != nil {
		return "", verr
	}
	if target == actor {
		return "", newError(CodeInvalidTarget, actor.Name+" cannot attack itself")
	}
	dist := Manhattan(actor.Position, target.Position)
	if dist > actor.Reach {
		return "", newError(CodeInvalidTarget,
			fmt.Sprintf("%s is out of reach (distance %d, reach %d)", target.Name, dist, actor.Reach))
	}
	if !HasLineOfSight(actor.Position, target.Position, e.bmap) {
		return "", newError(CodeInvalidTarget, fmt.Sprintf("no line of sight to %s", target.Name))
	}

	mod := AbilityModifier(actor.Stats.Strength)
	die := e.roller.Roll(20)
	total := die + mod
	ac := target.Stats.ArmorClass
	actor.CurrentActionPoints.Action--

	var result string
	if total >= ac {
		dmg := e.roller.Roll(6) + mod
		if dmg < 1 {
			dmg = 1
		}
		dealt := target.ApplyDamage(dmg)
		result = fmt.Sprintf("hit for %d (roll %d%+d=%d vs AC %d)", dealt, die, mod, total, ac)
		if target.IsDefeated() {
			result += "; " + target.Name + " is defeated"
		}
	} else {
		result = fmt.Sprintf("miss (roll %d%+d=%d vs AC %d)", die, mod, total, ac)
	}
	e.addLog(actor.ID, LogAttack, target.ID, result)
	return fmt.Sprintf("%s attacks %s: %s", actor.Name, target.Name, result), nil
}

func (e *Engine) endTurn(actor *Combatant) string {
	actor.HasActed = true
	e.addLog(actor.ID, LogEndTurn, "", actor.Name+" ends the turn")
	e.advance()
	next := e.current()
	return fmt.Sprintf("%s ends the turn; %s is up (round %d)", actor.Name, next.Name, e.round)
}
