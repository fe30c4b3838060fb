package engine

// EntryHook is invoked with the entity that entered, or tried to enter, a square
type EntryHook func(e *Entity)

// SquareTraits describes what a square type can do. Catalog factories
// produce traits; the world turns them into squares.
type SquareTraits struct {
	Kind     string
	Blocking bool
	Glyph    rune
	Color    string

	// OnEntered fires after an entity moves onto the square.
	OnEntered EntryHook
	// OnBlockedEntry fires when an entity decides to move onto a blocking square.
	OnBlockedEntry EntryHook
}

// Square is a single grid cell. Squares never own their occupant.
type Square struct {
	pos      Position
	traits   SquareTraits
	occupant *Entity
	dirty    bool
}

func newSquare(pos Position, traits SquareTraits) *Square {
	if traits.Kind == "" {
		traits.Kind = DefaultSquareKind
	}
	if traits.Glyph == 0 {
		traits.Glyph = EmptyGlyph
	}
	return &Square{pos: pos, traits: traits, dirty: true}
}

// Position returns the square's grid position
func (s *Square) Position() Position {
	return s.pos
}

// Kind returns the square type name
func (s *Square) Kind() string {
	return s.traits.Kind
}

// Blocking reports whether entities are kept off this square
func (s *Square) Blocking() bool {
	return s.traits.Blocking
}

// Occupant returns the entity on the square, or nil
func (s *Square) Occupant() *Entity {
	return s.occupant
}

// Dirty reports whether the square changed since the last render pass
func (s *Square) Dirty() bool {
	return s.dirty
}

func (s *Square) cell() Cell {
	c := Cell{
		Position: s.pos,
		Kind:     s.traits.Kind,
		Blocking: s.traits.Blocking,
		Glyph:    string(s.traits.Glyph),
		Color:    s.traits.Color,
	}
	if e := s.occupant; e != nil {
		c.Occupant = e.occupant()
	}
	return c
}
