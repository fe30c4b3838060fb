package engine

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInvalidSize      = errors.New("world size must be positive")
	ErrOutOfBounds      = errors.New("position out of bounds")
	ErrOccupied         = errors.New("square already occupied")
	ErrBlocked          = errors.New("square is blocking")
	ErrUnknownEntity    = errors.New("entity is not in this world")
	ErrNoDecision       = errors.New("entity did not return a position")
	ErrNoPolicy         = errors.New("collision policy is not set")
	ErrPolicyNoResult   = errors.New("collision policy returned no assignments")
	ErrPolicyIncomplete = errors.New("collision policy returned an incomplete assignment")
	ErrNotConverged     = errors.New("collision resolution did not converge")
	ErrInvalidDirection = errors.New("unknown direction")
)

// DiagnosticKind classifies a recoverable failure
type DiagnosticKind int

const (
	KindConfiguration DiagnosticKind = iota + 1
	KindDecision
	KindInvalidMove
	KindPolicyContract
	KindNonConvergence
)

func (k DiagnosticKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindDecision:
		return "decision"
	case KindInvalidMove:
		return "invalid_move"
	case KindPolicyContract:
		return "policy_contract"
	case KindNonConvergence:
		return "non_convergence"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Diagnostic is a single reported problem. Entity is nil when the problem
// is not tied to one entity.
type Diagnostic struct {
	Kind     DiagnosticKind
	Tick     uint64
	Entity   *Entity
	Position Position
	Err      error
}

func (d Diagnostic) Error() string {
	if d.Entity != nil {
		return fmt.Sprintf("tick %d: %s: %s at %s: %v", d.Tick, d.Kind, d.Entity, d.Position, d.Err)
	}
	return fmt.Sprintf("tick %d: %s at %s: %v", d.Tick, d.Kind, d.Position, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Reporter receives diagnostics from the world. Implementations decide
// whether to log, count or escalate.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(d Diagnostic)

// Report calls f
func (f ReporterFunc) Report(d Diagnostic) {
	f(d)
}

type discardReporter struct{}

func (discardReporter) Report(Diagnostic) {}

type multiReporter []Reporter

func (m multiReporter) Report(d Diagnostic) {
	for _, r := range m {
		r.Report(d)
	}
}

// MultiReporter fans a diagnostic out to every non-nil reporter
func MultiReporter(reporters ...Reporter) Reporter {
	var out multiReporter
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Recorder keeps the most recent diagnostics in memory
type Recorder struct {
	mu    sync.Mutex
	limit int
	items []Diagnostic
	total int
}

// NewRecorder creates a recorder holding at most limit diagnostics.
// A limit of zero or less keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Report stores d, evicting the oldest entry when full
func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	r.items = append(r.items, d)
	if r.limit > 0 && len(r.items) > r.limit {
		r.items = r.items[len(r.items)-r.limit:]
	}
}

// Diagnostics returns a copy of the retained diagnostics, oldest first
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// Total returns how many diagnostics were ever reported
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Count returns how many retained diagnostics have kind k
func (r *Recorder) Count(k DiagnosticKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.items {
		if d.Kind == k {
			n++
		}
	}
	return n
}
