package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Tracer is the contract for emitting trace events.
type Tracer interface {
	// Emit records a trace event if its level is enabled.
	Emit(ev Event)

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// StreamTracer пишет события текстом по одному на строку, сразу.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewStream creates a tracer writing to w at the given level.
func NewStream(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

// Emit writes the event if ev.Level is within the configured level.
func (t *StreamTracer) Emit(ev Event) {
	if t == nil || ev.Level > t.level {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if ev.Library != "" {
		fmt.Fprintf(t.w, "[%s] %-7s %s: %s\n", ev.Time.Format("15:04:05.000"), ev.Phase, ev.Library, ev.Msg)
		return
	}
	fmt.Fprintf(t.w, "[%s] %-7s %s\n", ev.Time.Format("15:04:05.000"), ev.Phase, ev.Msg)
}

// Level returns the configured level.
func (t *StreamTracer) Level() Level { return t.level }

// Enabled reports whether any events will be written.
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

// Phasef emits a LevelPhase event on tr. Nil-safe convenience used by the
// orchestrator and registry.
func Phasef(tr Tracer, phase, format string, args ...any) {
	emitf(tr, LevelPhase, phase, "", format, args...)
}

// Detailf emits a LevelDetail event attributed to a library.
func Detailf(tr Tracer, phase, library, format string, args ...any) {
	emitf(tr, LevelDetail, phase, library, format, args...)
}

// Debugf emits a LevelDebug event attributed to a library.
func Debugf(tr Tracer, phase, library, format string, args ...any) {
	emitf(tr, LevelDebug, phase, library, format, args...)
}

// Warnf emits a LevelError event; warnings never alter control flow.
func Warnf(tr Tracer, phase, format string, args ...any) {
	emitf(tr, LevelError, phase, "", format, args...)
}

func emitf(tr Tracer, level Level, phase, library, format string, args ...any) {
	if tr == nil || !tr.Enabled() || level > tr.Level() {
		return
	}
	tr.Emit(Event{
		Level:   level,
		Phase:   phase,
		Library: library,
		Msg:     fmt.Sprintf(format, args...),
	})
}
