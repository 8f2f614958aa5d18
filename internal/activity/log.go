// Package activity records a subject's discrete trading and research events
// and the session they occur in. It is the raw material the pattern detectors
// evaluate; it holds no policy itself.
//
// Log and Session are not internally locked: the guardrail engine serializes
// all access under a per-subject mutex.
package activity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxEvents caps the retained event history per subject.
const DefaultMaxEvents = 100

// Event is one recorded action: a trade (PnL set) or a research query
// (PnL nil). Immutable once appended.
type Event struct {
	ID      string
	At      time.Time
	Subject string
	PnL     *float64 // signed profit/loss; nil for non-trade events
	Size    float64
}

// Streak describes the trailing run of same-direction trade outcomes.
// Zero PnL counts as a win.
type Streak struct {
	Length int
	Type   string // "win", "loss", or "none" when no trades recorded
}

// Log is an append-only, capped, chronologically ordered event sequence.
// At capacity the oldest event is evicted.
type Log struct {
	max    int
	events []Event
}

// NewLog creates a Log retaining at most max events (DefaultMaxEvents if
// max <= 0).
func NewLog(max int) *Log {
	if max <= 0 {
		max = DefaultMaxEvents
	}
	return &Log{max: max}
}

// Append records an event, evicting the oldest entry at capacity.
func (l *Log) Append(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if len(l.events) >= l.max {
		copy(l.events, l.events[1:])
		l.events = l.events[:len(l.events)-1]
	}
	l.events = append(l.events, e)
}

// Len returns the number of retained events.
func (l *Log) Len() int { return len(l.events) }

// Events returns the retained events, oldest first.
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Last returns the most recent event, if any.
func (l *Log) Last() (Event, bool) {
	if len(l.events) == 0 {
		return Event{}, false
	}
	return l.events[len(l.events)-1], true
}

// LastTrade returns the most recent event carrying an outcome.
func (l *Log) LastTrade() (Event, bool) {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].PnL != nil {
			return l.events[i], true
		}
	}
	return Event{}, false
}

// CountSince counts events with timestamp >= cutoff. An event exactly at the
// cutoff is inside the window; anything strictly older falls out.
func (l *Log) CountSince(cutoff time.Time) int {
	n := 0
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].At.Before(cutoff) {
			break
		}
		n++
	}
	return n
}

// Streak derives the trailing run of same-direction trade outcomes. Events
// without an outcome are skipped.
func (l *Log) Streak() Streak {
	st := Streak{Type: "none"}
	for i := len(l.events) - 1; i >= 0; i-- {
		pnl := l.events[i].PnL
		if pnl == nil {
			continue
		}
		dir := "win"
		if *pnl < 0 {
			dir = "loss"
		}
		if st.Length == 0 {
			st.Type = dir
		} else if dir != st.Type {
			break
		}
		st.Length++
	}
	return st
}

// Reset drops all retained events.
func (l *Log) Reset() { l.events = l.events[:0] }
