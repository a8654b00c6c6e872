// Package scenario loads YAML encounter documents and drives the combat
// engine through them, either from a fixed script or with an automatic
// policy, producing a Report per run.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/repairman29/MythSeeker-sub003/internal/combat"
)

// Placement names accepted by Document.Placement.
const (
	PlacementLine = "line"
	PlacementKeep = "keep"
)

// ErrInvalidDocument is wrapped by every validation failure.
var ErrInvalidDocument = errors.New("invalid scenario document")

// Document is one encounter file.
type Document struct {
	Name        string `yaml:"name" jsonschema:"required,description=Scenario name used in reports"`
	Description string `yaml:"description,omitempty"`
	// Seed is used when the runner is not given one.
	Seed int64 `yaml:"seed,omitempty"`
	// Map rows use the ASCII battle map glyphs. An empty map selects the
	// default 12x8 field.
	Map MapSpec `yaml:"map,omitempty"`
	// Placement is "line" (default) or "keep".
	Placement  string              `yaml:"placement,omitempty" jsonschema:"enum=line,enum=keep"`
	Combatants []*combat.Combatant `yaml:"combatants" jsonschema:"required,minItems=1"`
	// Dice are consumed in order before the seeded roller takes over.
	Dice   []int        `yaml:"dice,omitempty"`
	Script []Step       `yaml:"script,omitempty"`
	Expect *Expectation `yaml:"expect,omitempty"`
}

// MapSpec is an ASCII map with optional elevation digits.
type MapSpec struct {
	Rows      []string `yaml:"rows,omitempty"`
	Elevation []string `yaml:"elevation,omitempty"`
}

// Step is one scripted action. Actor is advisory: the action always
// applies to whoever is active, and a differing Actor is reported as a
// turn mismatch.
type Step struct {
	Actor    string            `yaml:"actor,omitempty"`
	Type     combat.ActionType `yaml:"type" jsonschema:"required,enum=move,enum=attack,enum=skill,enum=end-turn"`
	Target   *combat.Position  `yaml:"target,omitempty"`
	TargetID string            `yaml:"target_id,omitempty"`
	Skill    string            `yaml:"skill,omitempty"`
}

// Action converts the step into an engine action.
func (s Step) Action() combat.Action {
	a := combat.Action{Type: s.Type, TargetID: s.TargetID, SkillID: s.Skill}
	if s.Target != nil {
		p := *s.Target
		a.Target = &p
	}
	return a
}

// Expectation is checked against the report after a run.
type Expectation struct {
	Winner combat.Winner `yaml:"winner,omitempty" jsonschema:"enum=players,enum=enemies"`
	// MaxRounds fails the run if the encounter lasted longer.
	MaxRounds int `yaml:"max_rounds,omitempty"`
	// Rejections is the exact number of rejected actions, when set.
	Rejections *int `yaml:"rejections,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a scenario held in memory.
func Parse(b []byte) (*Document, error) {
	return Decode(bytes.NewReader(b))
}

// Decode reads one YAML document from r. Unknown keys are rejected so
// typos do not silently fall back to defaults.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty document: %w", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the parts of a document the engine would only reject
// once the run has started.
func (d *Document) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required: %w", ErrInvalidDocument)
	}
	if len(d.Combatants) == 0 {
		return fmt.Errorf("%s: at least one combatant is required: %w", d.Name, ErrInvalidDocument)
	}
	switch d.Placement {
	case "", PlacementLine, PlacementKeep:
	default:
		return fmt.Errorf("%s: unknown placement %q: %w", d.Name, d.Placement, ErrInvalidDocument)
	}
	if _, err := d.BattleMap(); err != nil {
		return fmt.Errorf("%s: %w", d.Name, err)
	}
	for i, s := range d.Script {
		switch s.Type {
		case combat.ActionMove, combat.ActionAttack, combat.ActionSkill, combat.ActionEndTurn:
		default:
			return fmt.Errorf("%s: step %d has unknown type %q: %w", d.Name, i+1, s.Type, ErrInvalidDocument)
		}
	}
	return nil
}

// BattleMap builds the document's map, or returns nil for the default.
func (d *Document) BattleMap() (*combat.BattleMap, error) {
	if len(d.Map.Rows) == 0 {
		return nil, nil
	}
	return combat.ParseBattleMap(d.Map.Rows, d.Map.Elevation)
}

// Roller returns the dice for one run: the pinned values first, then a
// roller seeded with seed.
func (d *Document) Roller(seed int64) combat.Roller {
	r := combat.NewScriptedRoller(d.Dice...)
	r.Fallback = combat.NewSeededRoller(seed)
	return r
}

// EncounterID derives a stable encounter id from the scenario name and
// seed, so repeated runs produce identical log entry ids. Timestamps still
// follow the engine clock; see Runner.Clock.
func (d *Document) EncounterID(seed int64) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s#%d", d.Name, seed)))
}

// NewEngine builds an engine configured for one run of the document. Extra
// options are applied last.
func (d *Document) NewEngine(seed int64, opts ...combat.Option) *combat.Engine {
	base := []combat.Option{
		combat.WithRoller(d.Roller(seed)),
		combat.WithEncounterID(d.EncounterID(seed)),
	}
	if d.Placement == PlacementKeep {
		base = append(base, combat.WithPlacement(combat.KeepPositions))
	}
	return combat.New(append(base, opts...)...)
}
