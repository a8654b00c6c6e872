package combat

import "fmt"

// CombatantType is the side a combatant fights for.
type CombatantType string

const (
	TypePlayer CombatantType = "player"
	TypeEnemy  CombatantType = "enemy"
	TypeNPC    CombatantType = "npc"
)

// Valid reports whether t is one of the known combatant types.
func (t CombatantType) Valid() bool {
	switch t {
	case TypePlayer, TypeEnemy, TypeNPC:
		return true
	default:
		return false
	}
}

// Stats is a combatant's ability block.
type Stats struct {
	Strength     int `json:"strength" yaml:"strength"`
	Dexterity    int `json:"dexterity" yaml:"dexterity"`
	Intelligence int `json:"intelligence" yaml:"intelligence"`
	Charisma     int `json:"charisma" yaml:"charisma"`
	ArmorClass   int `json:"armorClass" yaml:"armor_class"`
}

// ActionPoints is one action-economy pool.
type ActionPoints struct {
	Move     int `json:"move" yaml:"move"`
	Action   int `json:"action" yaml:"action"`
	Bonus    int `json:"bonus" yaml:"bonus"`
	Reaction int `json:"reaction" yaml:"reaction"`
}

// DefaultActionPoints is the per-round pool used when a combatant is
// supplied without one.
var DefaultActionPoints = ActionPoints{Move: 6, Action: 1, Bonus: 1, Reaction: 1}

// IsZero reports whether every pool is empty.
func (ap ActionPoints) IsZero() bool {
	return ap == ActionPoints{}
}

// Skill is an ability a combatant can use with its action.
type Skill struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// Range of 0 means the skill targets its user.
	Range int `json:"range" yaml:"range"`
	// Cost is paid in mana.
	Cost int `json:"cost" yaml:"cost"`
	// Damage and Heal are die sides; 0 disables the effect.
	Damage int `json:"damage,omitempty" yaml:"damage,omitempty"`
	Heal   int `json:"heal,omitempty" yaml:"heal,omitempty"`
	// Effect carries free-form metadata for pluggable skill handlers.
	Effect map[string]string `json:"effect,omitempty" yaml:"effect,omitempty"`
}

// StatusEffect is a timed condition on a combatant. Duration counts rounds.
type StatusEffect struct {
	Name     string `json:"name" yaml:"name"`
	Duration int    `json:"duration" yaml:"duration"`
	Effect   string `json:"effect" yaml:"effect"`
}

// Combatant is one participant of an encounter.
type Combatant struct {
	ID                  string           `json:"id" yaml:"id"`
	Name                string           `json:"name" yaml:"name"`
	Type                CombatantType    `json:"type" yaml:"type"`
	Position            Position         `json:"position" yaml:"position"`
	Health              int              `json:"health" yaml:"health"`
	MaxHealth           int              `json:"maxHealth" yaml:"max_health"`
	Mana                int              `json:"mana,omitempty" yaml:"mana,omitempty"`
	MaxMana             int              `json:"maxMana,omitempty" yaml:"max_mana,omitempty"`
	Stats               Stats            `json:"stats" yaml:"stats"`
	Reach               int              `json:"reach" yaml:"reach"`
	Skills              map[string]Skill `json:"skills,omitempty" yaml:"skills,omitempty"`
	ActionPoints        ActionPoints     `json:"actionPoints" yaml:"action_points"`
	CurrentActionPoints ActionPoints     `json:"currentActionPoints" yaml:"-"`
	StatusEffects       []StatusEffect   `json:"statusEffects,omitempty" yaml:"status_effects,omitempty"`
	IsActive            bool             `json:"isActive" yaml:"-"`
	HasActed            bool             `json:"hasActed" yaml:"-"`
}

// IsDefeated reports whether the combatant has no health left.
func (c *Combatant) IsDefeated() bool {
	return c.Health <= 0
}

// ApplyDamage reduces health by amount, flooring at zero, and returns the
// damage actually taken.
func (c *Combatant) ApplyDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	if amount > c.Health {
		amount = c.Health
	}
	c.Health -= amount
	return amount
}

// Heal restores health up to MaxHealth and returns the amount restored.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 || c.Health >= c.MaxHealth {
		return 0
	}
	if c.Health+amount > c.MaxHealth {
		amount = c.MaxHealth - c.Health
	}
	c.Health += amount
	return amount
}

// ResetActionPoints refills the current pool from the per-round maximum.
func (c *Combatant) ResetActionPoints() {
	c.CurrentActionPoints = c.ActionPoints
}

// HasStatus reports whether a named status effect is present.
func (c *Combatant) HasStatus(name string) bool {
	for _, se := range c.StatusEffects {
		if se.Name == name {
			return true
		}
	}
	return false
}

// AddStatus applies a status effect, refreshing the duration if one with the
// same name is already present.
func (c *Combatant) AddStatus(se StatusEffect) {
	for i := range c.StatusEffects {
		if c.StatusEffects[i].Name == se.Name {
			if se.Duration > c.StatusEffects[i].Duration {
				c.StatusEffects[i].Duration = se.Duration
			}
			c.StatusEffects[i].Effect = se.Effect
			return
		}
	}
	c.StatusEffects = append(c.StatusEffects, se)
}

// tickStatusEffects decrements every duration and returns the names of the
// effects that expired.
func (c *Combatant) tickStatusEffects() []string {
	if len(c.StatusEffects) == 0 {
		return nil
	}
	var expired []string
	kept := c.StatusEffects[:0]
	for _, se := range c.StatusEffects {
		se.Duration--
		if se.Duration <= 0 {
			expired = append(expired, se.Name)
			continue
		}
		kept = append(kept, se)
	}
	c.StatusEffects = kept
	return expired
}

// Clone returns a deep copy.
func (c *Combatant) Clone() *Combatant {
	out := *c
	if c.Skills != nil {
		out.Skills = make(map[string]Skill, len(c.Skills))
		for id, sk := range c.Skills {
			if sk.Effect != nil {
				eff := make(map[string]string, len(sk.Effect))
				for k, v := range sk.Effect {
					eff[k] = v
				}
				sk.Effect = eff
			}
			out.Skills[id] = sk
		}
	}
	if c.StatusEffects != nil {
		out.StatusEffects = append([]StatusEffect(nil), c.StatusEffects...)
	}
	return &out
}

func (c *Combatant) String() string {
	return fmt.Sprintf("%s[%s] hp=%d/%d at %s", c.Name, c.ID, c.Health, c.MaxHealth, c.Position)
}

// AbilityModifier converts an ability score to its modifier,
// floor((score-10)/2).
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// validate checks a caller-supplied combatant before an encounter starts.
func (c *Combatant) validate() error {
	if c.ID == "" {
		return fmt.Errorf("combatant %q: %w", c.Name, ErrMissingID)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("combatant %s type %q: %w", c.ID, c.Type, ErrInvalidCombatant)
	}
	if c.MaxHealth <= 0 {
		return fmt.Errorf("combatant %s max health %d: %w", c.ID, c.MaxHealth, ErrInvalidCombatant)
	}
	if c.Health < 0 || c.Health > c.MaxHealth {
		return fmt.Errorf("combatant %s health %d outside 0..%d: %w", c.ID, c.Health, c.MaxHealth, ErrInvalidCombatant)
	}
	if c.Reach < 0 {
		return fmt.Errorf("combatant %s negative reach: %w", c.ID, ErrInvalidCombatant)
	}
	for id, sk := range c.Skills {
		if sk.Effect["kind"] != "" {
			continue
		}
		if sk.Name == "" {
			sk.Name = id
		}
		if _, err := statusDuration(sk); err != nil {
			return fmt.Errorf("combatant %s: %v: %w", c.ID, err, ErrInvalidCombatant)
		}
	}
	return nil
}
