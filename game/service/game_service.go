package service

import (
	"context"
	"errors"

	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/session"
)

var (
	// ErrNoPlayer is returned when steering a world without a steerable player
	ErrNoPlayer = errors.New("this world has no player to steer")
	// ErrNoConfigs is returned when no genesis directory is available
	ErrNoConfigs = errors.New("no genesis directory configured")
)

// GameService defines all control operations on the running game
type GameService interface {
	// Game State
	Status(ctx context.Context) session.Status
	World(ctx context.Context) engine.Frame
	ASCII(ctx context.Context) string
	Cell(ctx context.Context, x, y int) (*engine.Cell, error)

	// Game Operations
	Steer(ctx context.Context, direction string) (engine.Direction, error)
	TogglePause(ctx context.Context) (session.State, error)
	Step(ctx context.Context) (*StepResult, error)
	EndGame(ctx context.Context, reason string) session.Status

	// Configuration
	ListConfigs(ctx context.Context) ([]*config.Info, error)
	LoadConfig(ctx context.Context, name string) (*config.GameData, error)
}

// Game is the session a service controls
type Game interface {
	Status() session.Status
	Snapshot() engine.Frame
	ASCII() string
	TogglePause() (session.State, error)
	Step() (engine.TickReport, error)
	EndGame(reason string)
}

// Steerer receives player directions
type Steerer interface {
	Set(d engine.Direction)
}

// ConfigManager lists and loads genesis data
type ConfigManager interface {
	List() ([]*config.Info, error)
	Load(name string) (*config.GameData, error)
}

// StepResult is the outcome of a single manual tick
type StepResult struct {
	Report engine.TickReport `json:"report"`
	Status session.Status    `json:"status"`
}
