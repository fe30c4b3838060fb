package engine

import "fmt"

// EntityID identifies an entity for the lifetime of its world. IDs grow
// monotonically and are never reused.
type EntityID int64

// Behavior decides where an entity wants to go this tick. Returning false
// means the entity has no usable target; the engine reports it and keeps the
// entity in place.
type Behavior interface {
	Decide(self *Entity, view View) (Position, bool)
}

// BehaviorFunc adapts a plain function to Behavior
type BehaviorFunc func(self *Entity, view View) (Position, bool)

// Decide calls f
func (f BehaviorFunc) Decide(self *Entity, view View) (Position, bool) {
	return f(self, view)
}

// EntitySpec is everything the world needs to admit a new entity
type EntitySpec struct {
	Kind       string
	Behavior   Behavior
	Appearance Appearance
}

// Entity is an actor living on the grid
type Entity struct {
	id         EntityID
	kind       string
	behavior   Behavior
	appearance Appearance

	lastPosition Position
	hasLast      bool
}

// ID returns the entity's world-unique identifier
func (e *Entity) ID() EntityID {
	return e.id
}

// Kind returns the entity type name
func (e *Entity) Kind() string {
	return e.kind
}

// Appearance returns the entity's visual token
func (e *Entity) Appearance() Appearance {
	return e.appearance
}

// LastPosition returns the position held before the most recent move.
// The boolean is false until the entity has been moved at least once.
func (e *Entity) LastPosition() (Position, bool) {
	return e.lastPosition, e.hasLast
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s#%d", e.kind, e.id)
}

func (e *Entity) decide(view View) (Position, bool) {
	if e.behavior == nil {
		return Position{}, false
	}
	return e.behavior.Decide(e, view)
}

func (e *Entity) occupant() *Occupant {
	glyph := e.appearance.Glyph
	if glyph == 0 {
		glyph = '?'
	}
	return &Occupant{
		ID:    e.id,
		Kind:  e.kind,
		Glyph: string(glyph),
		Color: e.appearance.Color,
	}
}

// View is the read-only window behaviors and collision policies get onto
// the world. It carries no way to mutate the grid.
type View interface {
	Size() (width, height int)
	InBounds(p Position) bool
	Square(p Position) *Square
	PositionOf(e *Entity) (Position, bool)
	Player() *Entity
	Tick() uint64
}
