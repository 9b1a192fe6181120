package logging

import (
	"fmt"
	"sync"
	"time"
)

// TimeLayout is the human-readable timestamp shown on every log line.
const TimeLayout = "03:04PM 01/02/2006"

type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Entry is a single status message. Origin is only set for error entries
// and names the function and line that logged it.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Origin  string
}

// String renders the entry the way both the console and the log view show it:
//
//	[ info ][ 03:04PM 01/02/2006 ]: message
//	[ error ][ Fn: pkg.Func::42 ][ 03:04PM 01/02/2006 ]: message
func (e Entry) String() string {
	tag := fmt.Sprintf("[ %s ]", e.Level)
	if e.Level == LevelError && e.Origin != "" {
		tag += fmt.Sprintf("[ Fn: %s ]", e.Origin)
	}
	return fmt.Sprintf("%s[ %s ]: %s", tag, e.Time.Format(TimeLayout), e.Message)
}

// Sink receives log entries. Implementations must not block for long; they
// are called on the goroutine doing the work.
type Sink interface {
	Append(Entry)
}

type SinkFunc func(Entry)

func (f SinkFunc) Append(e Entry) { f(e) }

// MultiSink forwards every entry to each of its sinks in order.
type MultiSink []Sink

func (m MultiSink) Append(e Entry) {
	for _, s := range m {
		if s != nil {
			s.Append(e)
		}
	}
}

// Discard drops everything.
var Discard Sink = SinkFunc(func(Entry) {})

// ChannelSink hands entries to a reader on another goroutine, such as the
// interactive log view. Entries are dropped when the buffer is full.
type ChannelSink struct {
	ch chan Entry
}

func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{ch: make(chan Entry, size)}
}

func (c *ChannelSink) Append(e Entry) {
	select {
	case c.ch <- e:
	default:
	}
}

func (c *ChannelSink) Entries() <-chan Entry {
	return c.ch
}

// Recorder keeps every entry in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Append(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many recorded entries have the given level.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}
