package notify

import (
	"log"
	"sync"
)

// Notifier receives transient user-facing notifications (the toast analog).
// Implementations must be safe for concurrent use.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { log.Printf("notify success: %s", msg) }
func (LogNotifier) Info(msg string)    { log.Printf("notify info: %s", msg) }
func (LogNotifier) Error(msg string)   { log.Printf("notify error: %s", msg) }

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Event struct {
	Level   Level
	Message string
}

// Recorder keeps notifications in memory, used by tests and by the per-request
// flash queue in the HTTP layer.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Success(msg string) { r.record(LevelSuccess, msg) }
func (r *Recorder) Info(msg string)    { r.record(LevelInfo, msg) }
func (r *Recorder) Error(msg string)   { r.record(LevelError, msg) }

func (r *Recorder) record(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Level: level, Message: msg})
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Drain returns recorded events and resets the recorder.
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}
