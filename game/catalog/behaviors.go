package catalog

import (
	"fmt"
	"math/rand"

	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
)

// wanderer steps to a random walkable neighbour with probability chance
type wanderer struct {
	rng    *rand.Rand
	chance float64
}

func wandererEntity(p config.Params, env *Env) (engine.EntitySpec, error) {
	chance, err := paramFloat(p, "chance", 0.75)
	if err != nil {
		return engine.EntitySpec{}, err
	}
	if chance < 0 || chance > 1 {
		return engine.EntitySpec{}, fmt.Errorf("param chance must be between 0 and 1, got %v", chance)
	}
	return engine.EntitySpec{
		Kind:       "wanderer",
		Behavior:   &wanderer{rng: env.Rand, chance: chance},
		Appearance: engine.Appearance{Glyph: 'w', Color: "green"},
	}, nil
}

func (w *wanderer) Decide(self *engine.Entity, view engine.View) (engine.Position, bool) {
	pos, ok := view.PositionOf(self)
	if !ok {
		return pos, false
	}
	if w.rng.Float64() >= w.chance {
		return pos, true
	}
	options := engine.Neighbors(view, pos)
	if len(options) == 0 {
		return pos, true
	}
	return options[w.rng.Intn(len(options))], true
}

// patroller walks one direction and turns around at edges and blocking squares
type patroller struct {
	dir engine.Direction
}

func patrollerEntity(p config.Params, _ *Env) (engine.EntitySpec, error) {
	s, err := paramString(p, "direction", string(engine.Right))
	if err != nil {
		return engine.EntitySpec{}, err
	}
	dir, err := engine.ParseDirection(s)
	if err != nil {
		return engine.EntitySpec{}, err
	}
	if dir == engine.None {
		return engine.EntitySpec{}, fmt.Errorf("patroller needs a direction")
	}
	return engine.EntitySpec{
		Kind:       "patroller",
		Behavior:   &patroller{dir: dir},
		Appearance: engine.Appearance{Glyph: 'p', Color: "magenta"},
	}, nil
}

func (p *patroller) Decide(self *engine.Entity, view engine.View) (engine.Position, bool) {
	pos, ok := view.PositionOf(self)
	if !ok {
		return pos, false
	}
	if next := pos.Step(p.dir); engine.Walkable(view, next) {
		return next, true
	}
	p.dir = p.dir.Opposite()
	if next := pos.Step(p.dir); engine.Walkable(view, next) {
		return next, true
	}
	return pos, true
}

// chaser takes the neighbouring step that brings it closest to the player.
// A positive sight limits the distance at which it notices the player.
type chaser struct {
	sight int
}

func chaserEntity(p config.Params, _ *Env) (engine.EntitySpec, error) {
	sight, err := paramInt(p, "sight", 0)
	if err != nil {
		return engine.EntitySpec{}, err
	}
	return engine.EntitySpec{
		Kind:       "chaser",
		Behavior:   &chaser{sight: sight},
		Appearance: engine.Appearance{Glyph: 'c', Color: "red"},
	}, nil
}

func (c *chaser) Decide(self *engine.Entity, view engine.View) (engine.Position, bool) {
	pos, ok := view.PositionOf(self)
	if !ok {
		return pos, false
	}
	player := view.Player()
	if player == nil || player == self {
		return pos, true
	}
	target, ok := view.PositionOf(player)
	if !ok {
		return pos, true
	}

	best := engine.ManhattanDistance(pos, target)
	if c.sight > 0 && best > c.sight {
		return pos, true
	}
	next := pos
	for _, n := range engine.Neighbors(view, pos) {
		if d := engine.ManhattanDistance(n, target); d < best {
			best, next = d, n
		}
	}
	return next, true
}

// seeker walks the shortest walkable route to the nearest square of the
// target kind and stays once it stands on one
type seeker struct {
	target string
}

func seekerEntity(p config.Params, _ *Env) (engine.EntitySpec, error) {
	target, err := paramString(p, "target", "goal")
	if err != nil {
		return engine.EntitySpec{}, err
	}
	return engine.EntitySpec{
		Kind:       "seeker",
		Behavior:   &seeker{target: target},
		Appearance: engine.Appearance{Glyph: 's', Color: "cyan"},
	}, nil
}

func (s *seeker) Decide(self *engine.Entity, view engine.View) (engine.Position, bool) {
	pos, ok := view.PositionOf(self)
	if !ok {
		return pos, false
	}
	if sq := view.Square(pos); sq != nil && sq.Kind() == s.target {
		return pos, true
	}
	path := engine.ShortestPath(view, pos, func(sq *engine.Square) bool {
		return sq.Kind() == s.target
	})
	if len(path) == 0 {
		return pos, true
	}
	return path[0], true
}

// player follows the steering input
type player struct {
	steering *Steering
}

func playerEntity(_ config.Params, env *Env) (engine.EntitySpec, error) {
	return engine.EntitySpec{
		Kind:       KindPlayer,
		Behavior:   &player{steering: env.Steering},
		Appearance: engine.Appearance{Glyph: '@', Color: "white"},
	}, nil
}

func (p *player) Decide(self *engine.Entity, view engine.View) (engine.Position, bool) {
	pos, ok := view.PositionOf(self)
	if !ok {
		return pos, false
	}
	next := pos.Step(p.steering.Take())
	if !view.InBounds(next) {
		return pos, true
	}
	return next, true
}
