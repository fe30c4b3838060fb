package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
)

var (
	ErrDuplicateType = errors.New("type already registered")
	ErrUnknownType   = errors.New("unknown type")
)

// SquareFactory builds the traits for one square of its type
type SquareFactory func(params config.Params, env *Env) (engine.SquareTraits, error)

// EntityFactory builds the spec for one entity of its type. Each call must
// return a fresh behavior; behaviors may keep per-entity state.
type EntityFactory func(params config.Params, env *Env) (engine.EntitySpec, error)

// Registry maps type names to factories
type Registry struct {
	mu       sync.RWMutex
	squares  map[string]SquareFactory
	entities map[string]EntityFactory
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		squares:  make(map[string]SquareFactory),
		entities: make(map[string]EntityFactory),
	}
}

// Default returns a registry holding the built-in types
func Default() *Registry {
	r := NewRegistry()
	for name, f := range builtinSquares {
		r.squares[name] = f
	}
	for name, f := range builtinEntities {
		r.entities[name] = f
	}
	return r
}

// RegisterSquare adds a square type
func (r *Registry) RegisterSquare(name string, f SquareFactory) error {
	if name == "" || f == nil {
		return fmt.Errorf("square type needs a name and a factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.squares[name]; exists {
		return fmt.Errorf("square %q: %w", name, ErrDuplicateType)
	}
	r.squares[name] = f
	return nil
}

// RegisterEntity adds an entity type
func (r *Registry) RegisterEntity(name string, f EntityFactory) error {
	if name == "" || f == nil {
		return fmt.Errorf("entity type needs a name and a factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entities[name]; exists {
		return fmt.Errorf("entity %q: %w", name, ErrDuplicateType)
	}
	r.entities[name] = f
	return nil
}

// SquareTypes returns the registered square type names, sorted
func (r *Registry) SquareTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.squares)
}

// EntityTypes returns the registered entity type names, sorted
func (r *Registry) EntityTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.entities)
}

// Check reports the first type name in data that has no factory
func (r *Registry) Check(data *config.GameData) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sq := range data.SquareList() {
		if _, ok := r.squares[sq.Type]; !ok {
			return fmt.Errorf("square %q at (%d,%d): %w", sq.Type, sq.X, sq.Y, ErrUnknownType)
		}
	}
	for _, e := range entityList(data) {
		if _, ok := r.entities[e.Type]; !ok {
			return fmt.Errorf("entity %q at (%d,%d): %w", e.Type, e.X, e.Y, ErrUnknownType)
		}
	}
	return nil
}

// Resolve turns genesis data into engine values. All factories run here,
// once, so the world never looks a type name up while ticking.
func (r *Registry) Resolve(data *config.GameData, env Env) (engine.Genesis, error) {
	if err := r.Check(data); err != nil {
		return engine.Genesis{}, err
	}
	env.withDefaults(data.Seed)

	r.mu.RLock()
	defer r.mu.RUnlock()

	gen := engine.Genesis{Width: data.Width, Height: data.Height}

	for _, sq := range data.SquareList() {
		traits, err := r.squares[sq.Type](sq.Params, &env)
		if err != nil {
			return engine.Genesis{}, fmt.Errorf("square %q at (%d,%d): %w", sq.Type, sq.X, sq.Y, err)
		}
		if traits.Kind == "" {
			traits.Kind = sq.Type
		}
		a := appearance(sq.Params, engine.Appearance{Glyph: traits.Glyph, Color: traits.Color})
		traits.Glyph, traits.Color = a.Glyph, a.Color
		gen.Squares = append(gen.Squares, engine.SquarePlacement{
			Position: engine.Position{X: sq.X, Y: sq.Y},
			Traits:   traits,
		})
	}

	for _, e := range data.Entities {
		placement, err := r.entity(e, &env)
		if err != nil {
			return engine.Genesis{}, err
		}
		gen.Entities = append(gen.Entities, placement)
	}

	if data.Player != nil {
		placement, err := r.entity(*data.Player, &env)
		if err != nil {
			return engine.Genesis{}, err
		}
		gen.Player = &placement
	}

	return gen, nil
}

func (r *Registry) entity(e config.EntityData, env *Env) (engine.EntityPlacement, error) {
	spec, err := r.entities[e.Type](e.Params, env)
	if err != nil {
		return engine.EntityPlacement{}, fmt.Errorf("entity %q at (%d,%d): %w", e.Type, e.X, e.Y, err)
	}
	if spec.Kind == "" {
		spec.Kind = e.Type
	}
	spec.Appearance = appearance(e.Params, spec.Appearance)
	return engine.EntityPlacement{
		Position: engine.Position{X: e.X, Y: e.Y},
		Spec:     spec,
	}, nil
}

func entityList(data *config.GameData) []config.EntityData {
	if data.Player == nil {
		return data.Entities
	}
	return append(append([]config.EntityData(nil), data.Entities...), *data.Player)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
