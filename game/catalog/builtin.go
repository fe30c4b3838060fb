package catalog

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
)

const (
	KindPlayer = "player"

	// GoalAnyone lets every entity kind finish the game on a goal square
	GoalAnyone = "any"
)

var builtinSquares = map[string]SquareFactory{
	"floor": floorSquare,
	"wall":  wallSquare,
	"water": waterSquare,
	"goal":  goalSquare,
}

var builtinEntities = map[string]EntityFactory{
	"stone":     stoneEntity,
	"wanderer":  wandererEntity,
	"patroller": patrollerEntity,
	"chaser":    chaserEntity,
	"seeker":    seekerEntity,
	KindPlayer:  playerEntity,
}

func floorSquare(config.Params, *Env) (engine.SquareTraits, error) {
	return engine.SquareTraits{Kind: "floor", Glyph: '.'}, nil
}

func wallSquare(config.Params, *Env) (engine.SquareTraits, error) {
	return engine.SquareTraits{Kind: "wall", Blocking: true, Glyph: '#', Color: "gray"}, nil
}

func waterSquare(_ config.Params, env *Env) (engine.SquareTraits, error) {
	log := env.Log.WithField("square", "water")
	return engine.SquareTraits{
		Kind:     "water",
		Blocking: true,
		Glyph:    '~',
		Color:    "blue",
		OnBlockedEntry: func(e *engine.Entity) {
			log.WithFields(logrus.Fields{
				"entity_id": e.ID(),
				"kind":      e.Kind(),
			}).Debug("Splash, turned back at the water")
		},
	}, nil
}

// goalSquare ends the game when an entity of kind "by" (default player)
// steps onto it.
func goalSquare(p config.Params, env *Env) (engine.SquareTraits, error) {
	by, err := paramString(p, "by", KindPlayer)
	if err != nil {
		return engine.SquareTraits{}, err
	}
	reason, err := paramString(p, "reason", "goal reached")
	if err != nil {
		return engine.SquareTraits{}, err
	}

	return engine.SquareTraits{
		Kind:  "goal",
		Glyph: '*',
		Color: "yellow",
		OnEntered: func(e *engine.Entity) {
			if by != GoalAnyone && e.Kind() != by {
				return
			}
			env.Log.WithField("entity_id", e.ID()).Info("Goal reached")
			env.EndGame(fmt.Sprintf("%s: %s", reason, e))
		},
	}, nil
}

func stoneEntity(config.Params, *Env) (engine.EntitySpec, error) {
	return engine.EntitySpec{
		Kind:       "stone",
		Behavior:   engine.BehaviorFunc(stayPut),
		Appearance: engine.Appearance{Glyph: 'o', Color: "gray"},
	}, nil
}

func stayPut(self *engine.Entity, view engine.View) (engine.Position, bool) {
	return view.PositionOf(self)
}
