package combat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SkillContext is what a SkillEffect sees. User and Target are working
// copies: the engine commits them only if Resolve succeeds, so an effect
// that fails half-way cannot leave partial damage behind.
type SkillContext struct {
	Skill     Skill
	User      *Combatant
	Target    *Combatant // nil when the skill is aimed at an empty tile
	TargetPos Position
	Map       *BattleMap
	Roller    Roller
}

// SkillEffect resolves what a skill does. Returning an error rejects the
// skill; the returned string is appended to the log entry on success.
type SkillEffect interface {
	Resolve(ctx SkillContext) (string, error)
}

// SkillEffectFunc adapts a function to the SkillEffect interface.
type SkillEffectFunc func(ctx SkillContext) (string, error)

// Resolve implements SkillEffect.
func (f SkillEffectFunc) Resolve(ctx SkillContext) (string, error) {
	return f(ctx)
}

// BasicSkillEffect handles the stock skill fields: Damage rolls dN plus the
// user's Intelligence modifier (minimum 1) against the target, Heal rolls dN
// on the target, and Effect["status"] applies a status effect for
// Effect["duration"] rounds (default 1).
var BasicSkillEffect = SkillEffectFunc(resolveBasicSkill)

// statusDuration reads Effect["duration"], defaulting to one round.
func statusDuration(sk Skill) (int, error) {
	raw := sk.Effect["duration"]
	if raw == "" {
		return 1, nil
	}
	d, err := strconv.Atoi(raw)
	if err != nil || d < 1 {
		return 0, fmt.Errorf("skill %s has an invalid duration %q", sk.Name, raw)
	}
	return d, nil
}

func resolveBasicSkill(ctx SkillContext) (string, error) {
	sk := ctx.Skill
	subject := ctx.Target
	if subject == nil && sk.Range == 0 {
		subject = ctx.User
	}
	// Metadata is checked before any die is rolled so a rejection leaves the
	// dice stream untouched.
	duration, err := statusDuration(sk)
	if err != nil {
		return "", newError(CodeInvalidAction, err.Error())
	}

	var parts []string
	if sk.Damage > 0 {
		if subject == nil {
			return "", newError(CodeInvalidTarget, fmt.Sprintf("%s needs a combatant target", sk.Name))
		}
		dmg := ctx.Roller.Roll(sk.Damage) + AbilityModifier(ctx.User.Stats.Intelligence)
		if dmg < 1 {
			dmg = 1
		}
		dealt := subject.ApplyDamage(dmg)
		part := fmt.Sprintf("%d damage to %s", dealt, subject.Name)
		if subject.IsDefeated() {
			part += " (defeated)"
		}
		parts = append(parts, part)
	}
	if sk.Heal > 0 {
		if subject == nil {
			return "", newError(CodeInvalidTarget, fmt.Sprintf("%s needs a combatant target", sk.Name))
		}
		healed := subject.Heal(ctx.Roller.Roll(sk.Heal))
		parts = append(parts, fmt.Sprintf("healed %s for %d", subject.Name, healed))
	}
	if name := sk.Effect["status"]; name != "" {
		if subject == nil {
			return "", newError(CodeInvalidTarget, fmt.Sprintf("%s needs a combatant target", sk.Name))
		}
		subject.AddStatus(StatusEffect{Name: name, Duration: duration, Effect: sk.Effect["description"]})
		parts = append(parts, fmt.Sprintf("%s is %s for %d round(s)", subject.Name, name, duration))
	}
	if len(parts) == 0 {
		return "no effect", nil
	}
	return strings.Join(parts, ", "), nil
}

func (e *Engine) effectFor(sk Skill) SkillEffect {
	if kind := sk.Effect["kind"]; kind != "" {
		if eff, ok := e.effects[kind]; ok {
			return eff
		}
	}
	return BasicSkillEffect
}

func (e *Engine) useSkill(actor *Combatant, a Action) (string, *Error) {
	if actor.IsDefeated() {
		return "", newError(CodeInvalidAction, actor.Name+" is defeated and can only end the turn")
	}
	if a.SkillID == "" {
		return "", newError(CodeUnknownSkill, "no skill selected")
	}
	sk, ok := actor.Skills[a.SkillID]
	if !ok {
		return "", newError(CodeUnknownSkill, fmt.Sprintf("%s does not know skill %q", actor.Name, a.SkillID))
	}
	if sk.Name == "" {
		sk.Name = a.SkillID
	}
	if actor.CurrentActionPoints.Action <= 0 {
		return "", newError(CodeInsufficientResource, actor.Name+" has no action points")
	}
	if sk.Cost > 0 && actor.Mana < sk.Cost {
		return "", newError(CodeInsufficientResource,
			fmt.Sprintf("%s needs %d mana for %s but has %d", actor.Name, sk.Cost, sk.Name, actor.Mana))
	}

	targetPos := actor.Position
	var target *Combatant
	if sk.Range > 0 {
		switch {
		case a.TargetID != "":
			t, verr := e.resolveTarget(actor, a)
			if verr != nil {
				return "", verr
			}
			target, targetPos = t, t.Position
		case a.Target != nil:
			if !e.bmap.InBounds(*a.Target) {
				return "", newError(CodeInvalidTarget, fmt.Sprintf("target %s is out of bounds", *a.Target))
			}
			targetPos = *a.Target
			if targetPos == actor.Position {
				target = actor
			} else {
				target = e.anyAt(targetPos, actor)
			}
		default:
			return "", newError(CodeInvalidAction, sk.Name+" needs a target")
		}
		if dist := Manhattan(actor.Position, targetPos); dist > sk.Range {
			return "", newError(CodeInvalidTarget,
				fmt.Sprintf("%s is out of range for %s (distance %d, range %d)", targetPos, sk.Name, dist, sk.Range))
		}
		if !HasLineOfSight(actor.Position, targetPos, e.bmap) {
			return "", newError(CodeInvalidTarget, fmt.Sprintf("no line of sight to %s", targetPos))
		}
	} else {
		target = actor
	}

	// Resolve against copies and commit only on success.
	user := actor.Clone()
	var targetCopy *Combatant
	switch {
	case target == actor:
		targetCopy = user
	case target != nil:
		targetCopy = target.Clone()
	}
	detail, err := e.effectFor(sk).Resolve(SkillContext{
		Skill:     sk,
		User:      user,
		Target:    targetCopy,
		TargetPos: targetPos,
		Map:       e.bmap.Clone(),
		Roller:    e.roller,
	})
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			return "", ce
		}
		return "", newError(CodeInvalidAction, fmt.Sprintf("%s failed: %v", sk.Name, err))
	}

	user.CurrentActionPoints.Action--
	if sk.Cost > 0 {
		user.Mana -= sk.Cost
	}
	*actor = *user
	if targetCopy != nil && target != actor {
		*target = *targetCopy
	}

	targetLabel := targetPos.String()
	if target != nil {
		targetLabel = target.ID
	}
	result := fmt.Sprintf("%s: %s", sk.Name, detail)
	e.addLog(actor.ID, LogSkill, targetLabel, result)
	return fmt.Sprintf("%s uses %s", actor.Name, result), nil
}
