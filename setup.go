package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/wandrian/game/catalog"
	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/policy"
	"github.com/wricardo/wandrian/game/service"
	"github.com/wricardo/wandrian/game/session"
	"github.com/wricardo/wandrian/logger"
	"github.com/wricardo/wandrian/transport/websocket"
)

// setup selects the genesis data and the run settings of one game
type setup struct {
	ConfigDir  string
	Game       string
	File       string
	Policy     string
	LoopPeriod time.Duration
	Sticky     bool

	// Scheduler overrides the ticker built from the loop period.
	Scheduler session.Scheduler
	Hooks     session.Hooks
	Log       *logrus.Entry
}

// app is a game ready to start
type app struct {
	Data     *config.GameData
	World    *engine.World
	Game     *session.Game
	Steering *catalog.Steering
	Genesis  engine.Genesis
	Service  service.GameService
}

// loadData reads a single file when one is given, otherwise a named game
// (or the default one) from the config directory. The manager is nil in
// single file mode.
func loadData(s setup) (*config.GameData, *config.Manager, error) {
	if s.File != "" {
		data, err := config.LoadFile(s.File)
		return data, nil, err
	}

	manager, err := config.NewManager(s.ConfigDir)
	if err != nil {
		return nil, nil, err
	}
	if s.Game == "" {
		return manager.GetDefault(), manager, nil
	}
	data, err := manager.Load(s.Game)
	return data, manager, err
}

// initializeGame wires genesis data, catalog, world and session together.
// The world has no renderer yet; callers attach theirs before Start.
func initializeGame(s setup) (*app, error) {
	log := s.Log
	if log == nil {
		log = logger.Component("main")
	}

	data, manager, err := loadData(s)
	if err != nil {
		return nil, fmt.Errorf("failed to load game data: %w", err)
	}

	policyName := firstNonEmpty(s.Policy, data.Policy, config.DefaultPolicy)
	collide, err := policy.Named(policyName)
	if err != nil {
		return nil, err
	}

	a := &app{Data: data, Steering: catalog.NewSteering(s.Sticky)}

	gen, err := catalog.Default().Resolve(data, catalog.Env{
		EndGame: func(reason string) {
			if a.Game != nil {
				a.Game.EndGame(reason)
			}
		},
		Steering: a.Steering,
		Log:      log.WithField("game", data.Name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve game data: %w", err)
	}
	a.Genesis = gen

	a.World, err = engine.NewWorld(data.Width, data.Height,
		engine.WithCollisionPolicy(collide),
		engine.WithMaxResolutionRounds(data.MaxRounds),
		engine.WithReporter(logger.NewReporter(log.WithField("game", data.Name))),
	)
	if err != nil {
		return nil, err
	}

	sched := s.Scheduler
	if sched == nil {
		period := data.LoopPeriod
		if s.LoopPeriod > 0 {
			period = s.LoopPeriod
		}
		if period <= 0 {
			period = config.DefaultLoopPeriod
		}
		sched = session.NewTicker(period)
	}

	a.Game, err = session.New(session.Options{
		Name:      data.Name,
		World:     a.World,
		Scheduler: sched,
		Hooks:     s.Hooks,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}

	var configs service.ConfigManager
	if manager != nil {
		configs = manager
	}
	a.Service = service.NewGameService(a.Game, a.Steering, configs)

	log.WithFields(logrus.Fields{
		"game":     data.Name,
		"size":     fmt.Sprintf("%dx%d", data.Width, data.Height),
		"policy":   policyName,
		"entities": len(gen.Entities),
		"player":   gen.Player != nil,
	}).Info("Game initialized")

	return a, nil
}

var errUnknownCommand = errors.New("unknown command")

// command applies a control command received from a websocket client
func (a *app) command(cmd websocket.Command) error {
	ctx := context.Background()
	switch strings.ToLower(cmd.Command) {
	case "steer":
		_, err := a.Service.Steer(ctx, cmd.Direction)
		return err
	case "pause", "toggle_pause":
		_, err := a.Service.TogglePause(ctx)
		return err
	case "step":
		_, err := a.Service.Step(ctx)
		return err
	case "end", "end_game":
		a.Service.EndGame(ctx, "ended by client")
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, cmd.Command)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
