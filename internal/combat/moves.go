package combat

import (
	"container/heap"
	"fmt"
	"sort"
)

// Movement cost rule: a move is charged the cheapest 4-connected path sum,
// where entering a tile costs MovementCost(tile). The same search powers
// ValidMoves and move execution, so anything ValidMoves lists can be
// executed for exactly the listed cost.

// Reachable is a destination the active combatant can move to this turn.
type Reachable struct {
	Position Position   `json:"position"`
	Cost     int        `json:"cost"`
	Path     []Position `json:"path"`
}

// Target is an attackable combatant as seen from an attacker.
type Target struct {
	CombatantID string   `json:"combatantId"`
	Position    Position `json:"position"`
	Distance    int      `json:"distance"`
	Cover       int      `json:"cover"`
	// HighGround is true when the attacker stands above the target.
	HighGround bool `json:"highGround"`
	Defeated   bool `json:"defeated"`
}

// --- uniform-cost search ---

type searchNode struct {
	pos   Position
	cost  int
	index int // heap index
}

type frontier []*searchNode

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	if f[i].pos.Y != f[j].pos.Y {
		return f[i].pos.Y < f[j].pos.Y
	}
	return f[i].pos.X < f[j].pos.X
}
func (f frontier) Swap(i, j int)        { f[i], f[j] = f[j], f[i]; f[i].index = i; f[j].index = j }
func (f *frontier) Push(x interface{}) { n := x.(*searchNode); n.index = len(*f); *f = append(*f, n) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*f = old[:len(old)-1]
	return n
}

var neighbours = [4]Position{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

type visit struct {
	cost    int
	prev    Position
	hasPrev bool
}

// searchReachable expands from start over the 4-connected grid, never
// settling a tile twice and pruning any branch whose accumulated cost
// exceeds budget. blocked reports tiles that cannot be entered. The result
// maps every settled tile (start included) to its cheapest cost.
func searchReachable(m *BattleMap, start Position, budget int, blocked func(Position) bool) map[Position]visit {
	settled := make(map[Position]visit)
	best := map[Position]visit{start: {}}
	open := &frontier{{pos: start}}
	heap.Init(open)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*searchNode)
		if _, done := settled[cur.pos]; done {
			continue
		}
		settled[cur.pos] = best[cur.pos]

		for _, d := range neighbours {
			next := Position{X: cur.pos.X + d.X, Y: cur.pos.Y + d.Y}
			if _, done := settled[next]; done {
				continue
			}
			if !m.IsWalkable(next) || (blocked != nil && blocked(next)) {
				continue
			}
			cost := cur.cost + MovementCost(m.At(next), m)
			if cost > budget {
				continue
			}
			if prev, ok := best[next]; ok && cost >= prev.cost {
				continue
			}
			best[next] = visit{cost: cost, prev: cur.pos, hasPrev: true}
			heap.Push(open, &searchNode{pos: next, cost: cost})
		}
	}
	return settled
}

func buildPath(settled map[Position]visit, end Position) []Position {
	var path []Position
	for p := end; ; {
		path = append(path, p)
		v := settled[p]
		if !v.hasPrev {
			break
		}
		p = v.prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// moveBlocker reports tiles held by a living combatant other than mover.
func (e *Engine) moveBlocker(mover *Combatant) func(Position) bool {
	return func(p Position) bool {
		return e.livingAt(p, mover) != nil
	}
}

// ValidMoves lists every tile the combatant can reach with its remaining
// move points, cheapest first. The starting tile is not included.
func (e *Engine) ValidMoves(id string) ([]Reachable, error) {
	c, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("combatant %q: %w", id, ErrInvalidTarget)
	}
	if c.IsDefeated() || c.CurrentActionPoints.Move <= 0 {
		return nil, nil
	}
	settled := searchReachable(e.bmap, c.Position, c.CurrentActionPoints.Move, e.moveBlocker(c))
	out := make([]Reachable, 0, len(settled))
	for p, v := range settled {
		if p == c.Position {
			continue
		}
		out = append(out, Reachable{Position: p, Cost: v.cost, Path: buildPath(settled, p)})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		if a.Position.Y != b.Position.Y {
			return a.Position.Y < b.Position.Y
		}
		return a.Position.X < b.Position.X
	})
	return out, nil
}

// ValidTargets lists every other combatant within the attacker's reach and
// line of sight, with the cover each one enjoys. Defeated combatants are
// included and flagged; attacking them is legal but pointless.
func (e *Engine) ValidTargets(id string) ([]Target, error) {
	c, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("combatant %q: %w", id, ErrInvalidTarget)
	}
	var out []Target
	for _, other := range e.combatants {
		if other == c {
			continue
		}
		dist := Manhattan(c.Position, other.Position)
		if dist > c.Reach || !HasLineOfSight(c.Position, other.Position, e.bmap) {
			continue
		}
		tile := e.bmap.At(other.Position)
		out = append(out, Target{
			CombatantID: other.ID,
			Position:    other.Position,
			Distance:    dist,
			Cover:       CoverLevel(tile, c.Position, e.bmap),
			HighGround:  IsHighGround(e.bmap.At(c.Position), other.Position, e.bmap),
			Defeated:    other.IsDefeated(),
		})
	}
	return out, nil
}
