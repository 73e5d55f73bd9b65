// Package report defines the progress/warning sink written to by the cleaning
// and feature steps. The core never depends on a concrete sink being present:
// every consumer accepts a Reporter and falls back to Nop.
package report

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Reporter receives human-readable progress and warning lines. The lines are
// diagnostics only and carry no stable contract.
type Reporter interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nop struct{}

func (nop) Infof(string, ...any) {}
func (nop) Warnf(string, ...any) {}

// Nop returns a Reporter that discards everything.
func Nop() Reporter { return nop{} }

// OrNop returns r, or Nop when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return nop{}
	}
	return r
}

type zapReporter struct{ s *zap.SugaredLogger }

func (z zapReporter) Infof(format string, args ...any) { z.s.Infof(format, args...) }
func (z zapReporter) Warnf(format string, args ...any) { z.s.Warnf(format, args...) }

// NewZap adapts a zap logger. A nil logger yields Nop.
func NewZap(l *zap.Logger) Reporter {
	if l == nil {
		return nop{}
	}
	return zapReporter{s: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// Level tags a recorded line.
type Level string

const (
	LevelInfo Level = "info"
	LevelWarn Level = "warn"
)

// Line is one message captured by a Recorder.
type Line struct {
	Level   Level
	Message string
}

// Recorder keeps every line in memory. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	lines []Line
}

func (r *Recorder) Infof(format string, args ...any) { r.add(LevelInfo, format, args) }
func (r *Recorder) Warnf(format string, args ...any) { r.add(LevelWarn, format, args) }

func (r *Recorder) add(l Level, format string, args []any) {
	r.mu.Lock()
	r.lines = append(r.lines, Line{Level: l, Message: fmt.Sprintf(format, args...)})
	r.mu.Unlock()
}

// Lines returns a copy of everything recorded so far.
func (r *Recorder) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Line(nil), r.lines...)
}

// Warnings returns only the warning messages.
func (r *Recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, l := range r.lines {
		if l.Level == LevelWarn {
			out = append(out, l.Message)
		}
	}
	return out
}

// Tee fans every line out to all reporters.
func Tee(rs ...Reporter) Reporter { return tee(rs) }

type tee []Reporter

func (t tee) Infof(format string, args ...any) {
	for _, r := range t {
		OrNop(r).Infof(format, args...)
	}
}

func (t tee) Warnf(format string, args ...any) {
	for _, r := range t {
		OrNop(r).Warnf(format, args...)
	}
}
