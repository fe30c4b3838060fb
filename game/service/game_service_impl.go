package service

import (
	"context"
	"fmt"

	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/session"
)

// DefaultEndReason is used when EndGame is called without a reason
const DefaultEndReason = "ended by request"

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	game     Game
	steering Steerer
	configs  ConfigManager
}

// NewGameService creates a new game service instance. steering and configs
// may be nil; the operations that need them then fail.
func NewGameService(game Game, steering Steerer, configs ConfigManager) GameService {
	return &gameServiceImpl{
		game:     game,
		steering: steering,
		configs:  configs,
	}
}

// Status returns the game summary
func (s *gameServiceImpl) Status(ctx context.Context) session.Status {
	return s.game.Status()
}

// World returns every cell of the world
func (s *gameServiceImpl) World(ctx context.Context) engine.Frame {
	return s.game.Snapshot()
}

// ASCII returns the world drawn as text
func (s *gameServiceImpl) ASCII(ctx context.Context) string {
	return s.game.ASCII()
}

// Cell returns the cell at (x, y)
func (s *gameServiceImpl) Cell(ctx context.Context, x, y int) (*engine.Cell, error) {
	frame := s.game.Snapshot()
	if x < 0 || x >= frame.Width || y < 0 || y >= frame.Height {
		return nil, fmt.Errorf("coordinates (%d, %d) outside the %dx%d grid: %w",
			x, y, frame.Width, frame.Height, engine.ErrOutOfBounds)
	}
	cell := frame.Cells[y*frame.Width+x]
	return &cell, nil
}

// Steer sets the direction the player takes on the next tick
func (s *gameServiceImpl) Steer(ctx context.Context, direction string) (engine.Direction, error) {
	if s.steering == nil {
		return engine.None, ErrNoPlayer
	}
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return engine.None, err
	}
	s.steering.Set(dir)
	return dir, nil
}

// TogglePause switches between running and paused
func (s *gameServiceImpl) TogglePause(ctx context.Context) (session.State, error) {
	return s.game.TogglePause()
}

// Step runs one tick of a paused game
func (s *gameServiceImpl) Step(ctx context.Context) (*StepResult, error) {
	report, err := s.game.Step()
	if err != nil {
		return nil, err
	}
	return &StepResult{Report: report, Status: s.game.Status()}, nil
}

// EndGame asks the game to end and returns the resulting status
func (s *gameServiceImpl) EndGame(ctx context.Context, reason string) session.Status {
	if reason == "" {
		reason = DefaultEndReason
	}
	s.game.EndGame(reason)
	return s.game.Status()
}

// ListConfigs returns the genesis files available to load
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*config.Info, error) {
	if s.configs == nil {
		return nil, ErrNoConfigs
	}
	return s.configs.List()
}

// LoadConfig returns the genesis data stored under name
func (s *gameServiceImpl) LoadConfig(ctx context.Context, name string) (*config.GameData, error) {
	if s.configs == nil {
		return nil, ErrNoConfigs
	}
	data, err := s.configs.Load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", name, err)
	}
	return data, nil
}
