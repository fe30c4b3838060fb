package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/session"
	"github.com/wricardo/wandrian/transport/websocket"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "wandrian" {
		t.Errorf("Expected app name wandrian, got %s", AppName)
	}
}

func TestNewCommand(t *testing.T) {
	cmd := newCommand()

	for _, name := range []string{"run", "serve", "mcp", "list"} {
		if cmd.Command(name) == nil {
			t.Errorf("missing %q command", name)
		}
	}
	if cmd.Action == nil {
		t.Error("root command should default to a mode")
	}
}

func startManual(t *testing.T, s setup) (*app, *session.Manual) {
	t.Helper()
	manual := &session.Manual{}
	s.Scheduler = manual

	a, err := initializeGame(s)
	if err != nil {
		t.Fatalf("initializeGame failed: %v", err)
	}
	if err := a.Game.Start(context.Background(), a.Genesis); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { a.Game.GameOver("test done") })
	return a, manual
}

func TestInitializeGame_Default(t *testing.T) {
	a, manual := startManual(t, setup{ConfigDir: "configs"})

	if a.Data.Name != "meadow" {
		t.Errorf("expected the default game, got %q", a.Data.Name)
	}
	if a.World.Player() == nil {
		t.Fatal("expected a player")
	}
	if got := a.World.EntityCount(); got != 6 {
		t.Errorf("expected 6 entities, got %d", got)
	}

	for i := 0; i < 3; i++ {
		if !manual.Fire() {
			t.Fatal("tick not delivered")
		}
	}
	if st := a.Game.Status(); st.Tick != 3 || st.State != session.Running {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestInitializeGame_Files(t *testing.T) {
	tests := []struct {
		file     string
		name     string
		width    int
		entities int
	}{
		{"default.yaml", "meadow", 16, 6},
		{"corridor.json", "corridor", 12, 2},
		{"maze.toml", "maze", 11, 3},
	}

	for _, test := range tests {
		t.Run(test.file, func(t *testing.T) {
			a, manual := startManual(t, setup{File: filepath.Join("configs", test.file)})

			if a.Data.Name != test.name {
				t.Errorf("expected %q, got %q", test.name, a.Data.Name)
			}
			if w, _ := a.World.Size(); w != test.width {
				t.Errorf("expected width %d, got %d", test.width, w)
			}
			if got := a.World.EntityCount(); got != test.entities {
				t.Errorf("expected %d entities, got %d", test.entities, got)
			}
			manual.Fire()
			if a.Game.Status().LastReport.Tick != 1 {
				t.Errorf("expected one tick, got %+v", a.Game.Status().LastReport)
			}
		})
	}
}

func TestInitializeGame_Errors(t *testing.T) {
	tests := []struct {
		name string
		s    setup
	}{
		{"missing directory", setup{ConfigDir: "/non/existent/path"}},
		{"missing game", setup{ConfigDir: "configs", Game: "nope"}},
		{"missing file", setup{File: "configs/nope.yaml"}},
		{"unknown policy", setup{ConfigDir: "configs", Policy: "coin-toss"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := initializeGame(test.s); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestInitializeGame_GoalEndsGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.yaml")
	data := `name: dash
width: 3
height: 1
layout: ["..*"]
player: {x: 1, y: 0, type: player}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	a, manual := startManual(t, setup{File: path})
	a.Steering.Set(engine.Right)
	manual.Fire()

	select {
	case <-a.Game.Done():
	default:
		t.Fatal("game should be over after reaching the goal")
	}
	if st := a.Game.Status(); !strings.HasPrefix(st.Reason, "goal reached") {
		t.Errorf("unexpected reason %q", st.Reason)
	}
}

func TestAppCommand(t *testing.T) {
	a, _ := startManual(t, setup{ConfigDir: "configs"})

	if err := a.command(websocket.Command{Command: "steer", Direction: "left"}); err != nil {
		t.Fatalf("steer failed: %v", err)
	}
	if d := a.Steering.Peek(); d != engine.Left {
		t.Errorf("expected left, got %s", d)
	}
	if err := a.command(websocket.Command{Command: "steer", Direction: "sideways"}); err == nil {
		t.Error("expected an error for a bad direction")
	}

	if err := a.command(websocket.Command{Command: "step"}); !errors.Is(err, session.ErrNotPaused) {
		t.Errorf("expected ErrNotPaused, got %v", err)
	}
	if err := a.command(websocket.Command{Command: "pause"}); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if err := a.command(websocket.Command{Command: "step"}); err != nil {
		t.Errorf("step failed: %v", err)
	}
	if a.Game.Status().Tick != 1 {
		t.Errorf("expected tick 1, got %d", a.Game.Status().Tick)
	}

	if err := a.command(websocket.Command{Command: "dance"}); !errors.Is(err, errUnknownCommand) {
		t.Errorf("expected errUnknownCommand, got %v", err)
	}

	if err := a.command(websocket.Command{Command: "end_game"}); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if a.Game.State() != session.Over {
		t.Errorf("expected game over, got %s", a.Game.State())
	}
}
