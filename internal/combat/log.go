package combat

import (
	"fmt"
	"strings"
	"time"
)

// Log action names.
const (
	LogStart       = "start"
	LogRound       = "round"
	LogMove        = "move"
	LogAttack      = "attack"
	LogSkill       = "skill"
	LogEndTurn     = "end-turn"
	LogStatus      = "status"
	LogCombatEnded = "end"
)

// globalActor labels entries that are not tied to a combatant.
const globalActor = "--"

// LogEntry is one resolved action in the combat log.
type LogEntry struct {
	ID          string    `json:"id" yaml:"id"`
	Turn        int       `json:"turn" yaml:"turn"`
	Round       int       `json:"round" yaml:"round"`
	CombatantID string    `json:"combatantId" yaml:"combatant_id"`
	Action      string    `json:"action" yaml:"action"`
	Target      string    `json:"target,omitempty" yaml:"target,omitempty"`
	Result      string    `json:"result" yaml:"result"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// String formats the entry as a fixed-width log line.
//
//	[R02 T007] hero     attack   goblin   hit for 6 (roll 17 vs AC 16)
func (e LogEntry) String() string {
	return fmt.Sprintf("[R%02d T%03d] %-8s %-8s %-8s %s",
		e.Round, e.Turn, e.CombatantID, e.Action, e.Target, e.Result)
}

// CombatLog is the append-only audit trail of an encounter. Entries are kept
// in resolution order and never rewritten.
type CombatLog struct {
	entries []LogEntry
}

// Add appends an entry.
func (cl *CombatLog) Add(e LogEntry) {
	cl.entries = append(cl.entries, e)
}

// Len returns the number of entries.
func (cl *CombatLog) Len() int {
	return len(cl.entries)
}

// Entries returns a copy of all entries.
func (cl *CombatLog) Entries() []LogEntry {
	return append([]LogEntry(nil), cl.entries...)
}

// Since returns a copy of the entries after the first n.
func (cl *CombatLog) Since(n int) []LogEntry {
	if n < 0 {
		n = 0
	}
	if n >= len(cl.entries) {
		return nil
	}
	return append([]LogEntry(nil), cl.entries[n:]...)
}

// Filter returns entries matching the given action and/or combatant.
// Pass empty string to match any value for that field.
func (cl *CombatLog) Filter(action, combatantID string) []LogEntry {
	return FilterEntries(cl.entries, action, combatantID)
}

// LastOf returns the most recent entry for action, or false if none.
func (cl *CombatLog) LastOf(action string) (LogEntry, bool) {
	for i := len(cl.entries) - 1; i >= 0; i-- {
		if cl.entries[i].Action == action {
			return cl.entries[i], true
		}
	}
	return LogEntry{}, false
}

// FilterEntries filters a slice of entries the same way CombatLog.Filter does.
func FilterEntries(entries []LogEntry, action, combatantID string) []LogEntry {
	var out []LogEntry
	for _, e := range entries {
		if action != "" && e.Action != action {
			continue
		}
		if combatantID != "" && e.CombatantID != combatantID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FormatEntries renders entries one per line.
func FormatEntries(entries []LogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Format returns the full log as a single string.
func (cl *CombatLog) Format() string {
	return FormatEntries(cl.entries)
}
