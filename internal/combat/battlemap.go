package combat

import (
	"errors"
	"fmt"
	"strings"
)

// TileType identifies the terrain of a tile.
type TileType uint8

const (
	TileFloor     TileType = iota // Open ground
	TileWall                      // Impassable, blocks sight
	TileDifficult                 // Rubble, mud: double movement cost
	TileHazard                    // Fire, spikes: triple movement cost
	tileTypeCount                 // sentinel
)

// Cover levels stored on a tile.
const (
	CoverNone    = 0
	CoverPartial = 1
	CoverFull    = 2
)

// Default encounter map dimensions.
const (
	DefaultMapWidth  = 12
	DefaultMapHeight = 8
)

var (
	// ErrInvalidMap indicates a map has non-positive dimensions or ragged rows.
	ErrInvalidMap = errors.New("battle map must be a non-empty rectangle")
	// ErrUnknownTerrain indicates an ASCII map used an unsupported glyph.
	ErrUnknownTerrain = errors.New("unknown terrain glyph")
)

func (t TileType) String() string {
	switch t {
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	case TileDifficult:
		return "difficult"
	case TileHazard:
		return "hazard"
	default:
		return "unknown"
	}
}

// MarshalText encodes the tile type by name so maps serialise readably.
func (t TileType) MarshalText() ([]byte, error) {
	if t >= tileTypeCount {
		return nil, fmt.Errorf("tile type %d: %w", t, ErrUnknownTerrain)
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tile type name.
func (t *TileType) UnmarshalText(b []byte) error {
	for tt := TileFloor; tt < tileTypeCount; tt++ {
		if tt.String() == string(b) {
			*t = tt
			return nil
		}
	}
	return fmt.Errorf("tile type %q: %w", string(b), ErrUnknownTerrain)
}

// Position is a grid cell coordinate.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Tile represents one cell of the battlefield. Everything but Occupied is
// fixed once the map is built.
type Tile struct {
	Type      TileType `json:"type" yaml:"type"`
	Elevation int      `json:"elevation" yaml:"elevation"`
	Cover     int      `json:"cover" yaml:"cover"`
	Occupied  bool     `json:"occupied" yaml:"occupied"`
}

// BattleMap is the encounter grid. Tiles are indexed [row][col].
type BattleMap struct {
	Width  int      `json:"width" yaml:"width"`
	Height int      `json:"height" yaml:"height"`
	Tiles  [][]Tile `json:"tiles" yaml:"tiles"`
}

// NewBattleMap creates a map of open floor.
func NewBattleMap(width, height int) *BattleMap {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
	}
	return &BattleMap{Width: width, Height: height, Tiles: tiles}
}

// defaultLayout is used when an encounter starts without a custom map.
var defaultLayout = []string{
	"............",
	"...+....+...",
	"..~~....~~..",
	"............",
	"............",
	"..~~....~~..",
	"...+....+...",
	"............",
}

// DefaultBattleMap returns the stock 12x8 skirmish map.
func DefaultBattleMap() *BattleMap {
	m, err := ParseBattleMap(defaultLayout, nil)
	if err != nil {
		// defaultLayout is a package constant; a parse error is a programming bug.
		panic(err)
	}
	return m
}

// ParseBattleMap builds a map from ASCII rows:
//
//	.  floor          #  wall
//	~  difficult      ^  hazard
//	+  partial cover  H  full cover
//
// elevation is optional; when given it must match the terrain rows and
// holds one digit (0-9) per tile.
func ParseBattleMap(rows []string, elevation []string) (*BattleMap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidMap
	}
	width := len(rows[0])
	if elevation != nil && len(elevation) != len(rows) {
		return nil, fmt.Errorf("elevation has %d rows, terrain has %d: %w", len(elevation), len(rows), ErrInvalidMap)
	}
	m := NewBattleMap(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d: %w", y, len(row), width, ErrInvalidMap)
		}
		for x := 0; x < width; x++ {
			t, err := tileFromGlyph(row[x])
			if err != nil {
				return nil, fmt.Errorf("tile (%d,%d): %w", x, y, err)
			}
			m.Tiles[y][x] = t
		}
		if elevation == nil {
			continue
		}
		if len(elevation[y]) != width {
			return nil, fmt.Errorf("elevation row %d has width %d, want %d: %w", y, len(elevation[y]), width, ErrInvalidMap)
		}
		for x := 0; x < width; x++ {
			c := elevation[y][x]
			if c < '0' || c > '9' {
				return nil, fmt.Errorf("elevation (%d,%d) %q is not a digit: %w", x, y, c, ErrInvalidMap)
			}
			m.Tiles[y][x].Elevation = int(c - '0')
		}
	}
	return m, nil
}

func tileFromGlyph(c byte) (Tile, error) {
	switch c {
	case '.':
		return Tile{Type: TileFloor}, nil
	case '#':
		return Tile{Type: TileWall}, nil
	case '~':
		return Tile{Type: TileDifficult}, nil
	case '^':
		return Tile{Type: TileHazard}, nil
	case '+':
		return Tile{Type: TileFloor, Cover: CoverPartial}, nil
	case 'H':
		return Tile{Type: TileFloor, Cover: CoverFull}, nil
	default:
		return Tile{}, fmt.Errorf("%q: %w", c, ErrUnknownTerrain)
	}
}

func glyphForTile(t Tile) byte {
	switch t.Type {
	case TileWall:
		return '#'
	case TileDifficult:
		return '~'
	case TileHazard:
		return '^'
	}
	switch t.Cover {
	case CoverPartial:
		return '+'
	case CoverFull:
		return 'H'
	}
	return '.'
}

// String renders the terrain back into the ASCII format ParseBattleMap reads.
func (m *BattleMap) String() string {
	var sb strings.Builder
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			sb.WriteByte(glyphForTile(m.Tiles[y][x]))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Validate checks the map is a well-formed rectangle with legal cover and
// elevation values.
func (m *BattleMap) Validate() error {
	if m == nil || m.Width <= 0 || m.Height <= 0 || len(m.Tiles) != m.Height {
		return ErrInvalidMap
	}
	for y, row := range m.Tiles {
		if len(row) != m.Width {
			return fmt.Errorf("row %d has width %d, want %d: %w", y, len(row), m.Width, ErrInvalidMap)
		}
		for x, t := range row {
			if t.Type >= tileTypeCount {
				return fmt.Errorf("tile (%d,%d): %w", x, y, ErrUnknownTerrain)
			}
			if t.Cover < CoverNone || t.Cover > CoverFull {
				return fmt.Errorf("tile (%d,%d) cover %d out of range: %w", x, y, t.Cover, ErrInvalidMap)
			}
			if t.Elevation < 0 {
				return fmt.Errorf("tile (%d,%d) negative elevation: %w", x, y, ErrInvalidMap)
			}
		}
	}
	return nil
}

// InBounds reports whether p lies on the map.
func (m *BattleMap) InBounds(p Position) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// At returns the tile at p. Out-of-bounds positions read as walls so callers
// never walk or see off the edge.
func (m *BattleMap) At(p Position) Tile {
	if !m.InBounds(p) {
		return Tile{Type: TileWall}
	}
	return m.Tiles[p.Y][p.X]
}

// IsWalkable reports whether p is on the map and not a wall. Occupancy is
// not considered.
func (m *BattleMap) IsWalkable(p Position) bool {
	return m.InBounds(p) && m.Tiles[p.Y][p.X].Type != TileWall
}

// Clone returns a deep copy of the map.
func (m *BattleMap) Clone() *BattleMap {
	if m == nil {
		return nil
	}
	out := &BattleMap{Width: m.Width, Height: m.Height, Tiles: make([][]Tile, len(m.Tiles))}
	for y, row := range m.Tiles {
		out.Tiles[y] = append([]Tile(nil), row...)
	}
	return out
}

// setOccupancy clears every Occupied flag then marks the given positions.
func (m *BattleMap) setOccupancy(occupied []Position) {
	for y := range m.Tiles {
		for x := range m.Tiles[y] {
			m.Tiles[y][x].Occupied = false
		}
	}
	for _, p := range occupied {
		if m.InBounds(p) {
			m.Tiles[p.Y][p.X].Occupied = true
		}
	}
}
