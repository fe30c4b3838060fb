// Package policy provides ready-made collision policies for the engine.
//
// Every policy here converges: losers are always sent back to the square
// they currently stand on, and a square that already holds an entity is
// always won by that entity, so bounced entities can only displace
// newcomers, never each other.
package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wricardo/wandrian/game/engine"
)

// Stay sends every entity in the group back to where it stands. Nobody
// enters a contested square.
func Stay(view engine.View, at engine.Position, entities []*engine.Entity) []engine.Assignment {
	return award(view, at, entities, -1)
}

// FirstWins lets the entity already on the contested square keep it;
// otherwise the first entity in grid order takes it. Everybody else stays.
func FirstWins(view engine.View, at engine.Position, entities []*engine.Entity) []engine.Assignment {
	winner := incumbent(view, at, entities)
	if winner < 0 && enterable(view, at) {
		winner = 0
	}
	return award(view, at, entities, winner)
}

// Priority lets the highest ranked entity take a free contested square.
// Ties go to the earlier entity. An incumbent always keeps its square.
func Priority(rank func(*engine.Entity) int) engine.CollisionPolicy {
	return func(view engine.View, at engine.Position, entities []*engine.Entity) []engine.Assignment {
		winner := incumbent(view, at, entities)
		if winner < 0 && enterable(view, at) {
			winner = 0
			for i := 1; i < len(entities); i++ {
				if rank(entities[i]) > rank(entities[winner]) {
					winner = i
				}
			}
		}
		return award(view, at, entities, winner)
	}
}

// PlayerFirst is Priority ranking the player above everything else
func PlayerFirst(view engine.View, at engine.Position, entities []*engine.Entity) []engine.Assignment {
	player := view.Player()
	return Priority(func(e *engine.Entity) int {
		if e == player {
			return 1
		}
		return 0
	})(view, at, entities)
}

var named = map[string]engine.CollisionPolicy{
	"stay":         Stay,
	"first-wins":   FirstWins,
	"player-first": PlayerFirst,
}

// Named looks up a policy by its configuration name
func Named(name string) (engine.CollisionPolicy, error) {
	p, ok := named[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown collision policy %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names lists the configuration names of the built-in policies
func Names() []string {
	out := make([]string, 0, len(named))
	for name := range named {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// incumbent returns the index of the entity already standing on at, or -1
func incumbent(view engine.View, at engine.Position, entities []*engine.Entity) int {
	for i, e := range entities {
		if p, ok := view.PositionOf(e); ok && p == at {
			return i
		}
	}
	return -1
}

func enterable(view engine.View, at engine.Position) bool {
	return engine.Walkable(view, at)
}

// award gives at to entities[winner] and sends everybody else home. A
// negative winner sends everybody home.
func award(view engine.View, at engine.Position, entities []*engine.Entity, winner int) []engine.Assignment {
	out := make([]engine.Assignment, 0, len(entities))
	for i, e := range entities {
		target := at
		if i != winner {
			if p, ok := view.PositionOf(e); ok {
				target = p
			}
		}
		out = append(out, engine.Assignment{Position: target, Entity: e})
	}
	return out
}
