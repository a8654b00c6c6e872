package combat

import "fmt"

// Placement assigns starting positions to a roster on a map.
type Placement interface {
	Place(combatants []*Combatant, m *BattleMap) error
}

// PlacementFunc adapts a function to the Placement interface.
type PlacementFunc func(combatants []*Combatant, m *BattleMap) error

// Place implements Placement.
func (f PlacementFunc) Place(combatants []*Combatant, m *BattleMap) error {
	return f(combatants, m)
}

// LinePlacement puts players and npcs left of centre and enemies right of
// centre along the middle row, every other column, spilling into the odd
// columns and then neighbouring rows when a side runs out of room. Walls
// and taken tiles are skipped. Placement depends only on roster order and
// the map, so it is deterministic.
var LinePlacement = PlacementFunc(placeInLines)

// KeepPositions leaves caller-supplied positions alone and only checks they
// are legal: in bounds, not a wall, and not shared.
var KeepPositions = PlacementFunc(keepPositions)

func placeInLines(combatants []*Combatant, m *BattleMap) error {
	left := sideColumns(m.Width, true)
	right := sideColumns(m.Width, false)
	rows := rowsOutward(m.Height)
	taken := make(map[Position]bool, len(combatants))

	for _, c := range combatants {
		cols := left
		if c.Type == TypeEnemy {
			cols = right
		}
		p, ok := firstFree(m, rows, cols, taken)
		if !ok {
			return fmt.Errorf("combatant %s: %w", c.ID, ErrNoRoomToPlace)
		}
		c.Position = p
		taken[p] = true
	}
	return nil
}

// sideColumns lists one half's columns: even offsets from the centre first,
// then odd offsets, each ordered nearest the centre first.
func sideColumns(width int, leftSide bool) []int {
	centre := width / 2
	var primary, secondary []int
	if leftSide {
		for x := centre - 2; x >= 0; x -= 2 {
			primary = append(primary, x)
		}
		for x := centre - 1; x >= 0; x -= 2 {
			secondary = append(secondary, x)
		}
	} else {
		for x := centre + 1; x < width; x += 2 {
			primary = append(primary, x)
		}
		for x := centre; x < width; x += 2 {
			secondary = append(secondary, x)
		}
	}
	return append(primary, secondary...)
}

// rowsOutward lists rows starting at the middle and alternating below and
// above it.
func rowsOutward(height int) []int {
	mid := height / 2
	rows := []int{mid}
	for d := 1; len(rows) < height; d++ {
		if mid+d < height {
			rows = append(rows, mid+d)
		}
		if mid-d >= 0 {
			rows = append(rows, mid-d)
		}
	}
	return rows
}

func firstFree(m *BattleMap, rows, cols []int, taken map[Position]bool) (Position, bool) {
	for _, y := range rows {
		for _, x := range cols {
			p := Position{X: x, Y: y}
			if m.IsWalkable(p) && !taken[p] {
				return p, true
			}
		}
	}
	return Position{}, false
}

func keepPositions(combatants []*Combatant, m *BattleMap) error {
	taken := make(map[Position]string, len(combatants))
	for _, c := range combatants {
		if !m.IsWalkable(c.Position) {
			return fmt.Errorf("combatant %s at %s: %w", c.ID, c.Position, ErrIllegalPosition)
		}
		if other, ok := taken[c.Position]; ok {
			return fmt.Errorf("combatants %s and %s at %s: %w", other, c.ID, c.Position, ErrIllegalPosition)
		}
		taken[c.Position] = c.ID
	}
	return nil
}
