package engine

import "fmt"

// SquarePlacement overrides the default square at Position
type SquarePlacement struct {
	Position Position
	Traits   SquareTraits
}

// EntityPlacement admits an entity at Position during genesis
type EntityPlacement struct {
	Position Position
	Spec     EntitySpec
}

// Genesis is the initial data a world is built from. Width and Height may
// be left zero when the world was already sized by NewWorld.
type Genesis struct {
	Width    int
	Height   int
	Squares  []SquarePlacement
	Entities []EntityPlacement
	Player   *EntityPlacement
}

// Option configures a World
type Option func(*World)

// WithCollisionPolicy sets the policy used to split collision groups
func WithCollisionPolicy(policy CollisionPolicy) Option {
	return func(w *World) {
		w.policy = policy
	}
}

// WithReporter sets where diagnostics go
func WithReporter(r Reporter) Option {
	return func(w *World) {
		if r != nil {
			w.reporter = r
		}
	}
}

// WithRenderer sets the render collaborator
func WithRenderer(r Renderer) Option {
	return func(w *World) {
		w.renderer = r
	}
}

// WithMaxResolutionRounds overrides the per-tick cap on policy invocations
func WithMaxResolutionRounds(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.maxRounds = n
		}
	}
}

// World owns the grid and every entity standing on it
type World struct {
	sizeX, sizeY int
	squares      []*Square
	positions    map[EntityID]Position
	player       *Entity

	policy    CollisionPolicy
	reporter  Reporter
	renderer  Renderer
	maxRounds int

	nextID EntityID
	tick   uint64
}

// NewWorld creates a world of sizeX by sizeY default squares
func NewWorld(sizeX, sizeY int, opts ...Option) (*World, error) {
	if sizeX <= 0 || sizeY <= 0 {
		return nil, fmt.Errorf("new world %dx%d: %w", sizeX, sizeY, ErrInvalidSize)
	}

	w := &World{
		sizeX:     sizeX,
		sizeY:     sizeY,
		reporter:  discardReporter{},
		maxRounds: DefaultMaxResolutionRounds,
		nextID:    1,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.resetGrid()
	return w, nil
}

func (w *World) resetGrid() {
	w.squares = make([]*Square, w.sizeX*w.sizeY)
	for y := 0; y < w.sizeY; y++ {
		for x := 0; x < w.sizeX; x++ {
			p := Position{X: x, Y: y}
			w.squares[w.index(p)] = newSquare(p, SquareTraits{})
		}
	}
	w.positions = make(map[EntityID]Position)
	w.player = nil
}

// Genesis builds the grid and admits the initial entities. Square overrides
// outside the grid fail genesis; entities that cannot be admitted are
// reported and skipped. Any previous state is discarded, but entity IDs keep
// counting so they are never reused.
func (w *World) Genesis(g Genesis) error {
	if (g.Width != 0 && g.Width != w.sizeX) || (g.Height != 0 && g.Height != w.sizeY) {
		return fmt.Errorf("genesis: data is %dx%d but world is %dx%d: %w",
			g.Width, g.Height, w.sizeX, w.sizeY, ErrInvalidSize)
	}

	w.resetGrid()

	for _, sp := range g.Squares {
		if !w.InBounds(sp.Position) {
			return fmt.Errorf("genesis: square %s: %w", sp.Position, ErrOutOfBounds)
		}
		w.squares[w.index(sp.Position)] = newSquare(sp.Position, sp.Traits)
	}

	for _, ep := range g.Entities {
		if _, err := w.Spawn(ep.Position, ep.Spec); err != nil {
			w.report(Diagnostic{Kind: KindConfiguration, Position: ep.Position, Err: fmt.Errorf("genesis: %w", err)})
		}
	}

	if g.Player != nil {
		player, err := w.Spawn(g.Player.Position, g.Player.Spec)
		if err != nil {
			w.report(Diagnostic{Kind: KindConfiguration, Position: g.Player.Position, Err: fmt.Errorf("genesis player: %w", err)})
		}
		w.player = player
	}

	return nil
}

// SetCollisionPolicy replaces the collision policy
func (w *World) SetCollisionPolicy(policy CollisionPolicy) {
	w.policy = policy
}

// HasCollisionPolicy reports whether a policy is configured
func (w *World) HasCollisionPolicy() bool {
	return w.policy != nil
}

// SetRenderer replaces the render collaborator
func (w *World) SetRenderer(r Renderer) {
	w.renderer = r
}

// Size returns the grid dimensions
func (w *World) Size() (int, int) {
	return w.sizeX, w.sizeY
}

// InBounds reports whether p lies on the grid
func (w *World) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w.sizeX && p.Y < w.sizeY
}

func (w *World) index(p Position) int {
	return p.Y*w.sizeX + p.X
}

// Square returns the square at p, or nil when p is off the grid
func (w *World) Square(p Position) *Square {
	if !w.InBounds(p) {
		return nil
	}
	return w.squares[w.index(p)]
}

// Squares returns every square in grid order
func (w *World) Squares() []*Square {
	out := make([]*Square, len(w.squares))
	copy(out, w.squares)
	return out
}

// PositionOf returns where e stands
func (w *World) PositionOf(e *Entity) (Position, bool) {
	if e == nil {
		return Position{}, false
	}
	p, ok := w.positions[e.id]
	if !ok || w.squares[w.index(p)].occupant != e {
		return Position{}, false
	}
	return p, true
}

// SquareOf returns the square e stands on, or nil
func (w *World) SquareOf(e *Entity) *Square {
	p, ok := w.PositionOf(e)
	if !ok {
		return nil
	}
	return w.squares[w.index(p)]
}

// Entities returns every entity in grid order
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.positions))
	for _, sq := range w.squares {
		if sq.occupant != nil {
			out = append(out, sq.occupant)
		}
	}
	return out
}

// EntityCount returns how many entities are on the grid
func (w *World) EntityCount() int {
	return len(w.positions)
}

// Entity looks an entity up by ID
func (w *World) Entity(id EntityID) *Entity {
	p, ok := w.positions[id]
	if !ok {
		return nil
	}
	return w.squares[w.index(p)].occupant
}

// Player returns the player entity, or nil
func (w *World) Player() *Entity {
	return w.player
}

// Tick returns how many ticks have run
func (w *World) Tick() uint64 {
	return w.tick
}

// Spawn admits a new entity on a free, walkable square
func (w *World) Spawn(p Position, spec EntitySpec) (*Entity, error) {
	sq := w.Square(p)
	if sq == nil {
		return nil, fmt.Errorf("spawn %s at %s: %w", spec.Kind, p, ErrOutOfBounds)
	}
	if sq.occupant != nil {
		return nil, fmt.Errorf("spawn %s at %s: %w", spec.Kind, p, ErrOccupied)
	}
	if sq.traits.Blocking {
		return nil, fmt.Errorf("spawn %s at %s: %w", spec.Kind, p, ErrBlocked)
	}

	e := &Entity{
		id:         w.nextID,
		kind:       spec.Kind,
		behavior:   spec.Behavior,
		appearance: spec.Appearance,
	}
	w.nextID++

	sq.occupant = e
	sq.dirty = true
	w.positions[e.id] = p
	return e, nil
}

// Remove takes e off the grid. It returns false if e was not on it.
func (w *World) Remove(e *Entity) bool {
	p, ok := w.PositionOf(e)
	if !ok {
		return false
	}
	sq := w.squares[w.index(p)]
	sq.occupant = nil
	sq.dirty = true
	delete(w.positions, e.id)
	if w.player == e {
		w.player = nil
	}
	return true
}

// Move puts e on target. Out-of-bounds targets are reported and rejected;
// moving onto the square e already holds changes nothing but LastPosition.
// Targets held by another entity are rejected so occupancy stays one-to-one.
func (w *World) Move(e *Entity, target Position) error {
	from, ok := w.PositionOf(e)
	if !ok {
		return fmt.Errorf("move %v: %w", e, ErrUnknownEntity)
	}
	if !w.InBounds(target) {
		err := fmt.Errorf("move %s to %s: %w", e, target, ErrOutOfBounds)
		w.report(Diagnostic{Kind: KindInvalidMove, Entity: e, Position: target, Err: err})
		return err
	}

	e.lastPosition, e.hasLast = from, true
	if target == from {
		return nil
	}

	if occ := w.squares[w.index(target)].occupant; occ != nil {
		err := fmt.Errorf("move %s to %s held by %s: %w", e, target, occ, ErrOccupied)
		w.report(Diagnostic{Kind: KindInvalidMove, Entity: e, Position: target, Err: err})
		return err
	}

	w.vacate(e, from)
	w.occupy(e, target)
	return nil
}

func (w *World) vacate(e *Entity, from Position) {
	sq := w.squares[w.index(from)]
	if sq.occupant == e {
		sq.occupant = nil
		sq.dirty = true
	}
	delete(w.positions, e.id)
}

func (w *World) occupy(e *Entity, to Position) {
	sq := w.squares[w.index(to)]
	sq.occupant = e
	sq.dirty = true
	w.positions[e.id] = to
	if sq.traits.OnEntered != nil {
		sq.traits.OnEntered(e)
	}
}

func (w *World) report(d Diagnostic) {
	if d.Tick == 0 {
		d.Tick = w.tick
	}
	w.reporter.Report(d)
}
