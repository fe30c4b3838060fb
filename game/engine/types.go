package engine

import (
	"fmt"
	"strings"
)

const (
	// DefaultMaxResolutionRounds caps how many times the collision policy is
	// invoked in a single tick.
	DefaultMaxResolutionRounds = 100

	// DefaultSquareKind is the kind given to squares created without traits.
	DefaultSquareKind = "floor"

	// EmptyGlyph is drawn for squares that define no glyph of their own.
	EmptyGlyph = '.'
)

// Position represents x,y coordinates on the grid
type Position struct {
	X int `json:"x" mapstructure:"x"`
	Y int `json:"y" mapstructure:"y"`
}

// Add returns the position offset by dx, dy
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step returns the neighbouring position in direction d
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return p.Add(dx, dy)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a single grid step used by behaviors and steering input
type Direction string

const (
	None  Direction = ""
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists the four movement directions in a fixed order
var Directions = []Direction{Up, Right, Down, Left}

// ParseDirection converts user input into a Direction
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down, Left, Right, None:
		return d, nil
	case "stay", "wait":
		return None, nil
	default:
		return None, fmt.Errorf("%w %q", ErrInvalidDirection, s)
	}
}

// Delta returns the coordinate change for one step in d
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the reverse direction
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return None
}

// Appearance is the visual token an entity hands to renderers
type Appearance struct {
	Glyph rune   `json:"glyph"`
	Color string `json:"color,omitempty"`
}

// Occupant describes the entity drawn on a cell
type Occupant struct {
	ID    EntityID `json:"id"`
	Kind  string   `json:"kind"`
	Glyph string   `json:"glyph"`
	Color string   `json:"color,omitempty"`
}

// Cell is the render-facing view of a square
type Cell struct {
	Position Position  `json:"position"`
	Kind     string    `json:"kind"`
	Blocking bool      `json:"blocking,omitempty"`
	Glyph    string    `json:"glyph"`
	Color    string    `json:"color,omitempty"`
	Occupant *Occupant `json:"occupant,omitempty"`
}

// Frame is a batch of cells drawn for one tick
type Frame struct {
	Tick   uint64 `json:"tick"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"`
}

// TickReport summarises one run of the tick pipeline
type TickReport struct {
	Tick      uint64 `json:"tick"`
	Intents   int    `json:"intents"`
	Rounds    int    `json:"rounds"`
	Converged bool   `json:"converged"`
	Moves     int    `json:"moves"`
	Rendered  int    `json:"rendered"`
}
