package combat

// Grid geometry helpers. Everything here is a pure function of its
// arguments and never touches combatant state.

// Manhattan returns the 4-connected grid distance between a and b.
func Manhattan(a, b Position) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// BresenhamLine returns every cell on the integer line from `from` to `to`,
// endpoints included, in walk order.
func BresenhamLine(from, to Position) []Position {
	dx := absInt(to.X - from.X)
	dy := absInt(to.Y - from.Y)
	steps := dx
	if dy > steps {
		steps = dy
	}
	out := make([]Position, 0, steps+1)

	xStep := 1
	if to.X < from.X {
		xStep = -1
	}
	yStep := 1
	if to.Y < from.Y {
		yStep = -1
	}
	err := dx - dy
	x, y := from.X, from.Y
	for {
		out = append(out, Position{X: x, Y: y})
		if x == to.X && y == to.Y {
			break
		}
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x += xStep
		}
		if e2 < dx {
			err += dx
			y += yStep
		}
	}
	return out
}

// HasLineOfSight traces a Bresenham line between two cells. Sight is blocked
// by any intermediate wall or full-cover tile; the endpoints themselves never
// block. Out-of-bounds endpoints have no sight. The line is always walked
// from the lower endpoint so A→B and B→A visit the same cells.
func HasLineOfSight(from, to Position, m *BattleMap) bool {
	if m == nil || !m.InBounds(from) || !m.InBounds(to) {
		return false
	}
	if to.X < from.X || (to.X == from.X && to.Y < from.Y) {
		from, to = to, from
	}
	line := BresenhamLine(from, to)
	if len(line) <= 2 {
		return true
	}
	for _, p := range line[1 : len(line)-1] {
		if blocksSight(m.At(p)) {
			return false
		}
	}
	return true
}

func blocksSight(t Tile) bool {
	return t.Type == TileWall || t.Cover >= CoverFull
}

// CoverLevel returns the cover the defending tile offers against an
// attacker. Cover is non-directional, so only the tile's stored value
// matters.
func CoverLevel(tile Tile, _ Position, _ *BattleMap) int {
	switch {
	case tile.Cover <= CoverNone:
		return CoverNone
	case tile.Cover >= CoverFull:
		return CoverFull
	default:
		return tile.Cover
	}
}

// IsHighGround reports whether tile stands higher than the tile at
// referencePos.
func IsHighGround(tile Tile, referencePos Position, m *BattleMap) bool {
	if m == nil {
		return tile.Elevation > 0
	}
	return tile.Elevation > m.At(referencePos).Elevation
}

// MovementCost returns the cost of entering tile. Walls are never entered;
// callers must check walkability first.
func MovementCost(tile Tile, _ *BattleMap) int {
	switch tile.Type {
	case TileDifficult:
		return 2
	case TileHazard:
		return 3
	default:
		return 1
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
