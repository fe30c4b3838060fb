package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/wricardo/wandrian/game/engine"
)

// Reporter writes engine diagnostics as structured log entries
type Reporter struct {
	entry *logrus.Entry
}

// NewReporter creates a reporter logging through entry
func NewReporter(entry *logrus.Entry) *Reporter {
	return &Reporter{entry: entry.WithField("component", "engine")}
}

// Report logs one diagnostic. Configuration and policy problems point at a
// broken setup and are logged as errors; the rest are expected during play.
func (r *Reporter) Report(d engine.Diagnostic) {
	fields := logrus.Fields{
		"kind": d.Kind.String(),
		"tick": d.Tick,
		"x":    d.Position.X,
		"y":    d.Position.Y,
	}
	if d.Entity != nil {
		fields["entity_id"] = d.Entity.ID()
		fields["entity_kind"] = d.Entity.Kind()
	}
	entry := r.entry.WithFields(fields).WithError(d.Err)

	switch d.Kind {
	case engine.KindConfiguration, engine.KindPolicyContract:
		entry.Error("Diagnostic")
	case engine.KindNonConvergence:
		entry.Warn("Diagnostic")
	default:
		entry.Debug("Diagnostic")
	}
}
