// Package progress defines the event callback every audiograb component
// reports through.
//
// Components never log on their own. They receive a Func at construction
// and emit Events; the front end decides how to render them (zap in the
// CLI, styled lines in the TUI, a recorder in tests).
package progress

import "fmt"

// Level indicates the severity/type of a progress message.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Event represents a progress update.
type Event struct {
	Message string
	Level   Level

	// JobID and URL identify what the event is about. Either may be empty.
	JobID string
	URL   string

	// Err is the underlying error for warning and error events.
	Err error
}

// Func receives progress events. A nil Func discards them.
type Func func(Event)

// Emit calls f with e unless f is nil.
func (f Func) Emit(e Event) {
	if f != nil {
		f(e)
	}
}

// Recorder collects events in memory. It is meant for tests and for
// front ends that render after the fact.
type Recorder struct {
	Events []Event
}

// Func returns a Func appending to the recorder.
func (r *Recorder) Func() Func {
	return func(e Event) {
		r.Events = append(r.Events, e)
	}
}

// Count returns how many recorded events have the given level.
func (r *Recorder) Count(level Level) int {
	n := 0
	for _, e := range r.Events {
		if e.Level == level {
			n++
		}
	}
	return n
}
