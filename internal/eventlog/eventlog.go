// Package eventlog keeps a bounded in-memory history of editor events
// for display in the UI's log pane.
package eventlog

import (
	"fmt"
	"sync"
	"time"
)

// Log is a fixed-capacity ring of timestamped lines. The oldest lines
// fall off once the capacity is reached.
type Log struct {
	mu    sync.Mutex
	ring  []string
	idx   int
	count int
	now   func() time.Time
}

// New returns a log holding at most capacity lines.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = 1
	}
	return &Log{ring: make([]string, capacity), now: time.Now}
}

// Appendf formats and records one line, prefixed with the wall clock.
func (l *Log) Appendf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	stamp := l.now().Format("15:04:05")
	l.ring[l.idx] = stamp + " " + line
	l.idx = (l.idx + 1) % len(l.ring)
	if l.count < len(l.ring) {
		l.count++
	}
}

// Lines returns the recorded lines, oldest first.
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, l.count)
	if l.count == len(l.ring) {
		for i := 0; i < l.count; i++ {
			out[i] = l.ring[(l.idx+i)%len(l.ring)]
		}
		return out
	}
	copy(out, l.ring[:l.count])
	return out
}

// Len returns how many lines are held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
