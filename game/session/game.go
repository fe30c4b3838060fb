package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/wandrian/game/engine"
)

var (
	ErrMissingPolicy  = engine.ErrNoPolicy
	ErrAlreadyStarted = errors.New("game already started")
	ErrNotStarted     = errors.New("game not started")
	ErrGameOver       = errors.New("game is over")
	ErrNotPaused      = errors.New("game is not paused")
	ErrNoWorld        = errors.New("no world given")
)

// State is a point in the game lifecycle
type State int

const (
	Uninitialized State = iota
	Running
	Paused
	Over
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Over:
		return "over"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{Uninitialized, Running, Paused, Over} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown game state %q", text)
}

// Hooks are optional callbacks around the lifecycle
type Hooks struct {
	Init          func(w *engine.World)
	BeforeTick    func(w *engine.World)
	AfterTick     func(w *engine.World, report engine.TickReport)
	AfterGameOver func(reason string)
}

// Options configure a Game
type Options struct {
	Name      string
	World     *engine.World
	Scheduler Scheduler
	Hooks     Hooks
	Log       *logrus.Entry
}

// Status is a point-in-time summary of a game
type Status struct {
	RunID      string            `json:"run_id"`
	Name       string            `json:"name,omitempty"`
	State      State             `json:"state"`
	Tick       uint64            `json:"tick"`
	Entities   int               `json:"entities"`
	Reason     string            `json:"reason,omitempty"`
	StartedAt  time.Time         `json:"started_at,omitempty"`
	LastReport engine.TickReport `json:"last_report"`
}

// Game drives one world
type Game struct {
	id    string
	name  string
	world *engine.World
	sched Scheduler
	hooks Hooks
	log   *logrus.Entry

	// tickMu serialises everything that touches the world
	tickMu sync.Mutex

	mu         sync.Mutex
	state      State
	ticking    bool
	pendingEnd *string
	reason     string
	startedAt  time.Time
	tick       uint64
	entities   int
	last       engine.TickReport
	done       chan struct{}
}

// New creates a game around an existing world. Without a scheduler the game
// only advances through Step.
func New(opts Options) (*Game, error) {
	if opts.World == nil {
		return nil, ErrNoWorld
	}

	sched := opts.Scheduler
	if sched == nil {
		sched = &Manual{}
	}

	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}

	id := uuid.NewString()
	return &Game{
		id:    id,
		name:  opts.Name,
		world: opts.World,
		sched: sched,
		hooks: opts.Hooks,
		log:   log.WithFields(logrus.Fields{"component": "session", "run_id": id}),
		done:  make(chan struct{}),
	}, nil
}

// ID returns the run identifier
func (g *Game) ID() string {
	return g.id
}

// Start builds the world from gen and starts ticking. Cancelling ctx ends
// the game.
func (g *Game) Start(ctx context.Context, gen engine.Genesis) error {
	g.tickMu.Lock()

	g.mu.Lock()
	if g.state != Uninitialized {
		g.mu.Unlock()
		g.tickMu.Unlock()
		return ErrAlreadyStarted
	}
	if !g.world.HasCollisionPolicy() {
		g.mu.Unlock()
		g.tickMu.Unlock()
		g.log.WithField("kind", engine.KindConfiguration.String()).WithError(ErrMissingPolicy).Error("Cannot start game")
		return ErrMissingPolicy
	}
	g.ticking = true
	g.mu.Unlock()

	if err := g.world.Genesis(gen); err != nil {
		g.mu.Lock()
		g.ticking = false
		g.pendingEnd = nil
		g.mu.Unlock()
		g.tickMu.Unlock()
		return fmt.Errorf("genesis failed: %w", err)
	}

	if g.hooks.Init != nil {
		g.hooks.Init(g.world)
	}
	g.world.Render()

	g.mu.Lock()
	g.state = Running
	g.startedAt = time.Now()
	g.tick = g.world.Tick()
	g.entities = g.world.EntityCount()
	g.mu.Unlock()

	g.log.WithFields(logrus.Fields{
		"name":     g.name,
		"entities": g.world.EntityCount(),
	}).Info("Game started")

	reason, ended := g.finishTick(nil)
	g.tickMu.Unlock()
	if ended {
		g.afterOver(reason)
		return nil
	}

	g.sched.Start(func() { g.Tick() })

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				g.GameOver(fmt.Sprintf("stopped: %v", ctx.Err()))
			case <-g.done:
			}
		}()
	}
	return nil
}

// Tick advances a running game by one tick. It is what the scheduler calls;
// paused and finished games ignore it.
func (g *Game) Tick() (engine.TickReport, bool) {
	return g.runTick(Running)
}

// Step advances a paused game by exactly one tick
func (g *Game) Step() (engine.TickReport, error) {
	report, ok := g.runTick(Paused)
	if !ok {
		switch g.State() {
		case Uninitialized:
			return report, ErrNotStarted
		case Over:
			return report, ErrGameOver
		default:
			return report, ErrNotPaused
		}
	}
	return report, nil
}

func (g *Game) runTick(want State) (engine.TickReport, bool) {
	g.tickMu.Lock()

	g.mu.Lock()
	if g.state != want {
		g.mu.Unlock()
		g.tickMu.Unlock()
		return engine.TickReport{}, false
	}
	g.ticking = true
	g.mu.Unlock()

	if g.hooks.BeforeTick != nil {
		g.hooks.BeforeTick(g.world)
	}
	report := g.world.Step()
	if g.hooks.AfterTick != nil {
		g.hooks.AfterTick(g.world, report)
	}

	entry := g.log.WithFields(logrus.Fields{
		"tick":   report.Tick,
		"moves":  report.Moves,
		"rounds": report.Rounds,
	})
	if !report.Converged {
		entry.Warn("Collision resolution hit the round limit")
	} else {
		entry.Debug("Tick complete")
	}

	reason, ended := g.finishTick(&report)
	g.tickMu.Unlock()

	if ended {
		g.afterOver(reason)
	}
	return report, true
}

// finishTick records the tick results and applies a deferred EndGame,
// returning its reason when that ended the game.
func (g *Game) finishTick(report *engine.TickReport) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ticking = false
	if report != nil {
		g.last = *report
		g.tick = report.Tick
		g.entities = g.world.EntityCount()
	}

	pending := g.pendingEnd
	g.pendingEnd = nil
	if pending == nil || g.state == Over {
		return "", false
	}
	g.state = Over
	g.reason = *pending
	return *pending, true
}

// TogglePause switches between running and paused and returns the new state
func (g *Game) TogglePause() (State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case Running:
		g.state = Paused
	case Paused:
		g.state = Running
	case Uninitialized:
		return g.state, ErrNotStarted
	default:
		return g.state, ErrGameOver
	}

	g.log.WithField("state", g.state.String()).Info("Pause toggled")
	return g.state, nil
}

// EndGame asks for the game to end. Inside a tick the request waits until
// the tick has finished; the first request wins.
func (g *Game) EndGame(reason string) {
	g.mu.Lock()
	if g.ticking {
		if g.pendingEnd == nil {
			g.pendingEnd = &reason
		}
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	g.GameOver(reason)
}

// GameOver ends the game now. It returns false if the game was already over.
func (g *Game) GameOver(reason string) bool {
	g.mu.Lock()
	if g.state == Over {
		g.mu.Unlock()
		return false
	}
	g.state = Over
	g.reason = reason
	g.mu.Unlock()

	g.afterOver(reason)
	return true
}

func (g *Game) afterOver(reason string) {
	g.sched.Stop()
	g.log.WithFields(logrus.Fields{
		"reason": reason,
		"tick":   g.Status().Tick,
	}).Info("Game over")

	if g.hooks.AfterGameOver != nil {
		g.hooks.AfterGameOver(reason)
	}
	close(g.done)
}

// Done is closed once the game is over
func (g *Game) Done() <-chan struct{} {
	return g.done
}

// State returns the current lifecycle state
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Status returns a summary without waiting for a running tick
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{
		RunID:      g.id,
		Name:       g.name,
		State:      g.state,
		Tick:       g.tick,
		Entities:   g.entities,
		Reason:     g.reason,
		StartedAt:  g.startedAt,
		LastReport: g.last,
	}
}

// Snapshot returns every cell of the world between ticks
func (g *Game) Snapshot() engine.Frame {
	g.tickMu.Lock()
	defer g.tickMu.Unlock()
	return g.world.Snapshot()
}

// ASCII returns a text drawing of the world between ticks
func (g *Game) ASCII() string {
	g.tickMu.Lock()
	defer g.tickMu.Unlock()
	return g.world.ASCII()
}

// Redraw marks the whole world dirty and renders it, e.g. after a terminal resize
func (g *Game) Redraw() {
	g.tickMu.Lock()
	defer g.tickMu.Unlock()
	g.world.MarkAllDirty()
	g.world.Render()
}
