package catalog

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/wricardo/wandrian/game/config"
	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/policy"
)

func buildWorld(t *testing.T, data *config.GameData, env Env) *engine.World {
	t.Helper()
	gen, err := Default().Resolve(data, env)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	w, err := engine.NewWorld(data.Width, data.Height, engine.WithCollisionPolicy(policy.PlayerFirst))
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	if err := w.Genesis(gen); err != nil {
		t.Fatalf("Genesis failed: %v", err)
	}
	return w
}

func positionOfKind(t *testing.T, w *engine.World, kind string) engine.Position {
	t.Helper()
	for _, e := range w.Entities() {
		if e.Kind() == kind {
			p, _ := w.PositionOf(e)
			return p
		}
	}
	t.Fatalf("no %s on the grid", kind)
	return engine.Position{}
}

func TestStone(t *testing.T) {
	w := buildWorld(t, &config.GameData{
		Width: 3, Height: 1,
		Entities: []config.EntityData{{X: 1, Y: 0, Type: "stone"}},
	}, Env{})

	for i := 0; i < 3; i++ {
		w.Step()
	}
	if got := positionOfKind(t, w, "stone"); got != (engine.Position{X: 1, Y: 0}) {
		t.Errorf("stone moved to %s", got)
	}
}

func TestPlayerFollowsSteering(t *testing.T) {
	steer := NewSteering(false)
	w := buildWorld(t, &config.GameData{
		Width: 3, Height: 2,
		Player: &config.EntityData{X: 0, Y: 0, Type: "player"},
	}, Env{Steering: steer})

	steer.Set(engine.Right)
	w.Step()
	if got := positionOfKind(t, w, KindPlayer); got != (engine.Position{X: 1, Y: 0}) {
		t.Fatalf("expected (1,0), got %s", got)
	}

	w.Step()
	if got := positionOfKind(t, w, KindPlayer); got != (engine.Position{X: 1, Y: 0}) {
		t.Errorf("player should wait without input, got %s", got)
	}

	steer.Set(engine.Up)
	w.Step()
	if got := positionOfKind(t, w, KindPlayer); got != (engine.Position{X: 1, Y: 0}) {
		t.Errorf("player should stay at the edge, got %s", got)
	}
}

func TestGoalEndsGame(t *testing.T) {
	tests := []struct {
		name    string
		params  config.Params
		kind    string
		wantEnd bool
	}{
		{"player reaches goal", nil, "player", true},
		{"patroller ignored", nil, "patroller", false},
		{"anyone may finish", config.Params{"by": GoalAnyone, "reason": "escaped"}, "patroller", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reasons []string
			steer := NewSteering(true)
			steer.Set(engine.Right)

			data := &config.GameData{
				Width: 3, Height: 1,
				Squares: []config.SquareData{{X: 2, Y: 0, Type: "goal", Params: tt.params}},
			}
			placement := config.EntityData{X: 1, Y: 0, Type: tt.kind, Params: config.Params{"direction": "right"}}
			if tt.kind == KindPlayer {
				data.Player = &placement
			} else {
				data.Entities = []config.EntityData{placement}
			}

			w := buildWorld(t, data, Env{
				Steering: steer,
				EndGame:  func(reason string) { reasons = append(reasons, reason) },
			})
			w.Step()

			if got := positionOfKind(t, w, tt.kind); got != (engine.Position{X: 2, Y: 0}) {
				t.Fatalf("expected %s on the goal, got %s", tt.kind, got)
			}
			if ended := len(reasons) == 1; ended != tt.wantEnd {
				t.Fatalf("EndGame calls = %v, want end %v", reasons, tt.wantEnd)
			}
			if tt.params != nil && len(reasons) == 1 && !strings.HasPrefix(reasons[0], "escaped") {
				t.Errorf("unexpected reason %q", reasons[0])
			}
		})
	}
}

func TestWaterSplash(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	steer := NewSteering(false)

	w := buildWorld(t, &config.GameData{
		Width: 2, Height: 1,
		Layout: []string{".~"},
		Player: &config.EntityData{X: 0, Y: 0, Type: "player"},
	}, Env{Steering: steer, Log: logrus.NewEntry(logger)})

	steer.Set(engine.Right)
	w.Step()

	if got := positionOfKind(t, w, KindPlayer); got != (engine.Position{X: 0, Y: 0}) {
		t.Errorf("player walked into water at %s", got)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Data["square"] != "water" || entry.Data["kind"] != KindPlayer {
		t.Fatalf("expected a splash log entry, got %+v", entry)
	}
}

func TestPatrollerTurnsAround(t *testing.T) {
	w := buildWorld(t, &config.GameData{
		Width: 4, Height: 1,
		Layout:   []string{"...#"},
		Entities: []config.EntityData{{X: 0, Y: 0, Type: "patroller"}},
	}, Env{})

	want := []int{1, 2, 1, 0, 1}
	for i, x := range want {
		w.Step()
		if got := positionOfKind(t, w, "patroller"); got.X != x {
			t.Fatalf("step %d: expected x=%d, got %s", i+1, x, got)
		}
	}
}

func TestPatroller_BadDirection(t *testing.T) {
	for _, dir := range []string{"sideways", "stay"} {
		_, err := patrollerEntity(config.Params{"direction": dir}, &Env{})
		if err == nil {
			t.Errorf("direction %q: expected an error", dir)
		}
	}
}

func TestChaser(t *testing.T) {
	t.Run("closes in and yields to the player", func(t *testing.T) {
		w := buildWorld(t, &config.GameData{
			Width: 5, Height: 1,
			Entities: []config.EntityData{{X: 0, Y: 0, Type: "chaser"}},
			Player:   &config.EntityData{X: 4, Y: 0, Type: "player"},
		}, Env{})

		for i := 0; i < 5; i++ {
			w.Step()
		}
		if got := positionOfKind(t, w, "chaser"); got != (engine.Position{X: 3, Y: 0}) {
			t.Errorf("expected chaser at (3,0), got %s", got)
		}
		if got := positionOfKind(t, w, KindPlayer); got != (engine.Position{X: 4, Y: 0}) {
			t.Errorf("player displaced to %s", got)
		}
	})

	t.Run("out of sight", func(t *testing.T) {
		w := buildWorld(t, &config.GameData{
			Width: 5, Height: 1,
			Entities: []config.EntityData{{X: 0, Y: 0, Type: "chaser", Params: config.Params{"sight": 2}}},
			Player:   &config.EntityData{X: 4, Y: 0, Type: "player"},
		}, Env{})

		w.Step()
		if got := positionOfKind(t, w, "chaser"); got.X != 0 {
			t.Errorf("chaser should not see the player, moved to %s", got)
		}
	})

	t.Run("no player", func(t *testing.T) {
		w := buildWorld(t, &config.GameData{
			Width: 3, Height: 1,
			Entities: []config.EntityData{{X: 1, Y: 0, Type: "chaser"}},
		}, Env{})

		w.Step()
		if got := positionOfKind(t, w, "chaser"); got.X != 1 {
			t.Errorf("chaser moved to %s without a player", got)
		}
	})
}

func TestSeeker(t *testing.T) {
	maze := func(params config.Params) *config.GameData {
		return &config.GameData{
			Width: 3, Height: 3,
			Squares: []config.SquareData{
				{X: 1, Y: 0, Type: "wall"},
				{X: 1, Y: 1, Type: "wall"},
				{X: 2, Y: 0, Type: "goal"},
			},
			Entities: []config.EntityData{{X: 0, Y: 0, Type: "seeker", Params: params}},
		}
	}

	tests := []struct {
		name   string
		params config.Params
		steps  int
		want   engine.Position
	}{
		{"halfway round the wall", nil, 3, engine.Position{X: 1, Y: 2}},
		{"reaches the goal", nil, 6, engine.Position{X: 2, Y: 0}},
		{"stays on the goal", nil, 9, engine.Position{X: 2, Y: 0}},
		{"no target on the grid", config.Params{"target": "water"}, 4, engine.Position{X: 0, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := buildWorld(t, maze(tt.params), Env{})
			for i := 0; i < tt.steps; i++ {
				w.Step()
			}
			if got := positionOfKind(t, w, "seeker"); got != tt.want {
				t.Errorf("expected seeker at %s, got %s", tt.want, got)
			}
		})
	}
}

func TestWanderer(t *testing.T) {
	data := &config.GameData{
		Width: 5, Height: 5, Seed: 7,
		Entities: []config.EntityData{{X: 2, Y: 2, Type: "wanderer", Params: config.Params{"chance": 1}}},
	}

	a := buildWorld(t, data, Env{})
	b := buildWorld(t, data, Env{})

	for i := 0; i < 10; i++ {
		before := positionOfKind(t, a, "wanderer")
		a.Step()
		b.Step()
		pa, pb := positionOfKind(t, a, "wanderer"), positionOfKind(t, b, "wanderer")
		if pa != pb {
			t.Fatalf("step %d: same seed diverged, %s vs %s", i+1, pa, pb)
		}
		if engine.ManhattanDistance(before, pa) != 1 {
			t.Fatalf("step %d: expected a single step from %s, got %s", i+1, before, pa)
		}
	}

	still := buildWorld(t, &config.GameData{
		Width: 3, Height: 3,
		Entities: []config.EntityData{{X: 1, Y: 1, Type: "wanderer", Params: config.Params{"chance": 0}}},
	}, Env{})
	for i := 0; i < 5; i++ {
		still.Step()
	}
	if got := positionOfKind(t, still, "wanderer"); got != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("wanderer with chance 0 moved to %s", got)
	}
}
