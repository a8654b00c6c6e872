package combat

import "testing"

// wallColumnMap is the 12x8 map with a wall down column 6 that leaves the
// bottom rows open.
func wallColumnMap(t *testing.T) *BattleMap {
	t.Helper()
	m, err := ParseBattleMap([]string{
		"......#.....",
		"......#.....",
		"......#.....",
		"......#.....",
		"......#.....",
		"............",
		"............",
		"............",
	}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return m
}

func TestLOS_ClearLine(t *testing.T) {
	m := NewBattleMap(12, 8)
	if !HasLineOfSight(Position{X: 0, Y: 0}, Position{X: 11, Y: 7}, m) {
		t.Fatal("expected clear LOS on an empty map")
	}
}

func TestLOS_BlockedByWallColumn(t *testing.T) {
	m := wallColumnMap(t)
	if HasLineOfSight(Position{X: 2, Y: 4}, Position{X: 9, Y: 4}, m) {
		t.Fatal("expected the wall at x=6 to block (2,4)->(9,4)")
	}
}

func TestLOS_AroundWallOpenEnd(t *testing.T) {
	m := wallColumnMap(t)
	if !HasLineOfSight(Position{X: 2, Y: 4}, Position{X: 9, Y: 5}, m) {
		t.Fatal("line to (9,5) crosses column 6 at the open row and should be clear")
	}
	if !HasLineOfSight(Position{X: 2, Y: 5}, Position{X: 9, Y: 5}, m) {
		t.Fatal("unobstructed row 5 should have LOS")
	}
}

func TestLOS_FullCoverBlocksPartialDoesNot(t *testing.T) {
	m, err := ParseBattleMap([]string{
		"..+..",
		"..H..",
	}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !HasLineOfSight(Position{X: 0, Y: 0}, Position{X: 4, Y: 0}, m) {
		t.Fatal("partial cover should not block sight")
	}
	if HasLineOfSight(Position{X: 0, Y: 1}, Position{X: 4, Y: 1}, m) {
		t.Fatal("full cover should block sight")
	}
}

func TestLOS_EndpointsNeverBlock(t *testing.T) {
	m, err := ParseBattleMap([]string{"H.H"}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !HasLineOfSight(Position{X: 0, Y: 0}, Position{X: 2, Y: 0}, m) {
		t.Fatal("cover on the endpoints should not block")
	}
}

func TestLOS_AdjacentAndSameTile(t *testing.T) {
	m := wallColumnMap(t)
	if !HasLineOfSight(Position{X: 5, Y: 0}, Position{X: 5, Y: 1}, m) {
		t.Fatal("adjacent tiles always see each other")
	}
	if !HasLineOfSight(Position{X: 3, Y: 3}, Position{X: 3, Y: 3}, m) {
		t.Fatal("a tile sees itself")
	}
}

func TestLOS_OutOfBounds(t *testing.T) {
	m := NewBattleMap(4, 4)
	if HasLineOfSight(Position{X: -1, Y: 0}, Position{X: 2, Y: 2}, m) {
		t.Fatal("out-of-bounds endpoint should have no LOS")
	}
}

func TestLOS_Symmetric(t *testing.T) {
	m, err := ParseBattleMap([]string{
		"..........",
		"...#......",
		"......H...",
		"..#.......",
		".....#....",
		"........H.",
	}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for ay := 0; ay < m.Height; ay++ {
		for ax := 0; ax < m.Width; ax++ {
			for by := 0; by < m.Height; by++ {
				for bx := 0; bx < m.Width; bx++ {
					a := Position{X: ax, Y: ay}
					b := Position{X: bx, Y: by}
					if HasLineOfSight(a, b, m) != HasLineOfSight(b, a, m) {
						t.Fatalf("LOS %s->%s differs from %s->%s", a, b, b, a)
					}
				}
			}
		}
	}
}

func TestBresenhamLine_Endpoints(t *testing.T) {
	line := BresenhamLine(Position{X: 0, Y: 0}, Position{X: 7, Y: 3})
	if line[0] != (Position{X: 0, Y: 0}) || line[len(line)-1] != (Position{X: 7, Y: 3}) {
		t.Fatalf("line endpoints wrong: %v", line)
	}
	if len(line) != 8 {
		t.Fatalf("expected max(dx,dy)+1 = 8 cells, got %d", len(line))
	}
	for i := 1; i < len(line); i++ {
		if absInt(line[i].X-line[i-1].X) > 1 || absInt(line[i].Y-line[i-1].Y) > 1 {
			t.Fatalf("line jumps between %s and %s", line[i-1], line[i])
		}
	}
}

func TestCoverLevel(t *testing.T) {
	m := NewBattleMap(3, 1)
	cases := []struct {
		cover int
		want  int
	}{
		{0, CoverNone},
		{1, CoverPartial},
		{2, CoverFull},
		{5, CoverFull},
		{-1, CoverNone},
	}
	for _, tc := range cases {
		if got := CoverLevel(Tile{Cover: tc.cover}, Position{}, m); got != tc.want {
			t.Fatalf("CoverLevel(cover=%d) = %d, want %d", tc.cover, got, tc.want)
		}
	}
}

func TestIsHighGround(t *testing.T) {
	m, err := ParseBattleMap([]string{"..."}, []string{"012"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	high := m.At(Position{X: 2})
	if !IsHighGround(high, Position{X: 0}, m) {
		t.Fatal("elevation 2 should be high ground over elevation 0")
	}
	if IsHighGround(m.At(Position{X: 1}), Position{X: 1}, m) {
		t.Fatal("equal elevation is not high ground")
	}
	if IsHighGround(m.At(Position{X: 0}), Position{X: 2}, m) {
		t.Fatal("lower tile is not high ground")
	}
}

func TestMovementCost(t *testing.T) {
	m := NewBattleMap(1, 1)
	cases := map[TileType]int{
		TileFloor:     1,
		TileDifficult: 2,
		TileHazard:    3,
	}
	for tt, want := range cases {
		if got := MovementCost(Tile{Type: tt}, m); got != want {
			t.Fatalf("MovementCost(%s) = %d, want %d", tt, got, want)
		}
	}
}

func TestManhattan(t *testing.T) {
	if d := Manhattan(Position{X: 1, Y: 1}, Position{X: 4, Y: -1}); d != 5 {
		t.Fatalf("Manhattan = %d, want 5", d)
	}
}
