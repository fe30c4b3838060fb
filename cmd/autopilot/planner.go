package main

import (
	"errors"
	"fmt"

	"github.com/wricardo/wandrian/game/catalog"
	"github.com/wricardo/wandrian/game/engine"
)

var (
	ErrNoPlayerOnGrid = errors.New("no player on the grid")
	ErrNoRoute        = errors.New("no route to a target square")
)

// Planner picks the player's next direction from a rendered frame
type Planner struct {
	// Target is the square kind the player heads for.
	Target string
	// Avoid lists square kinds treated as walls.
	Avoid map[string]bool
}

func NewPlanner(target string, avoid ...string) *Planner {
	p := &Planner{Target: target, Avoid: make(map[string]bool)}
	for _, kind := range avoid {
		p.Avoid[kind] = true
	}
	return p
}

// rebuild turns a frame back into a world so the engine's path helpers can
// walk it. Occupants are left out.
func (p *Planner) rebuild(frame *engine.Frame) (*engine.World, engine.Position, error) {
	world, err := engine.NewWorld(frame.Width, frame.Height)
	if err != nil {
		return nil, engine.Position{}, err
	}

	var (
		player engine.Position
		found  bool
	)
	squares := make([]engine.SquarePlacement, 0, len(frame.Cells))
	for _, c := range frame.Cells {
		squares = append(squares, engine.SquarePlacement{
			Position: c.Position,
			Traits:   engine.SquareTraits{Kind: c.Kind, Blocking: c.Blocking || p.Avoid[c.Kind]},
		})
		if c.Occupant != nil && c.Occupant.Kind == catalog.KindPlayer {
			player, found = c.Position, true
		}
	}
	if !found {
		return nil, engine.Position{}, ErrNoPlayerOnGrid
	}
	if err := world.Genesis(engine.Genesis{Squares: squares}); err != nil {
		return nil, engine.Position{}, fmt.Errorf("rebuild frame: %w", err)
	}
	return world, player, nil
}

// Next returns the direction of the first step on the shortest route to a
// target square and the number of steps left on that route.
func (p *Planner) Next(frame *engine.Frame) (engine.Direction, int, error) {
	world, from, err := p.rebuild(frame)
	if err != nil {
		return engine.None, 0, err
	}

	path := engine.ShortestPath(world, from, func(sq *engine.Square) bool {
		return sq.Kind() == p.Target
	})
	if len(path) == 0 {
		return engine.None, 0, ErrNoRoute
	}
	for _, d := range engine.Directions {
		if from.Step(d) == path[0] {
			return d, len(path), nil
		}
	}
	return engine.None, 0, fmt.Errorf("route starts off the grid at %s", path[0])
}
