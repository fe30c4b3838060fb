package catalog

import (
	"io"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/wandrian/game/engine"
)

// Env is what factories get from the host game
type Env struct {
	// EndGame asks the host to finish the game once the current tick is done.
	EndGame func(reason string)
	// Steering feeds direction input to player entities.
	Steering *Steering
	Log      *logrus.Entry
	// Rand drives random behaviors. Resolve seeds one from the data when nil.
	Rand *rand.Rand
}

func (env *Env) withDefaults(seed int64) {
	if env.EndGame == nil {
		env.EndGame = func(string) {}
	}
	if env.Steering == nil {
		env.Steering = &Steering{}
	}
	if env.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		env.Log = logrus.NewEntry(l)
	}
	if env.Rand == nil {
		env.Rand = rand.New(rand.NewSource(seed))
	}
}

// Steering holds the latest direction requested for the player. Input
// transports write to it from their own goroutines; the player reads it
// during the tick.
type Steering struct {
	mu     sync.Mutex
	dir    engine.Direction
	sticky bool
}

// NewSteering returns a steering. A sticky steering keeps its direction
// across ticks; otherwise each direction is consumed by one step.
func NewSteering(sticky bool) *Steering {
	return &Steering{sticky: sticky}
}

// Set records d as the next direction
func (s *Steering) Set(d engine.Direction) {
	s.mu.Lock()
	s.dir = d
	s.mu.Unlock()
}

// Peek returns the pending direction without consuming it
func (s *Steering) Peek() engine.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

// Take returns the pending direction and clears it unless sticky
func (s *Steering) Take() engine.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.dir
	if !s.sticky {
		s.dir = engine.None
	}
	return d
}
