package activity

import (
	"time"

	"github.com/eddiebelaval/deepstack-guardrail/internal/clock"
)

// Session tracks the current continuous activity period and a per-day
// counter of session starts. The day counter resets lazily: any read first
// reconciles the stored day marker against the current local date in the
// reference timezone.
type Session struct {
	startedAt    *time.Time
	events       int
	startedToday int
	day          string // local calendar date of the last counter update
}

// rollDay resets the today-counter when the local date has changed since the
// marker was written. Called on every read and mutation that touches the
// counter so the reset needs no housekeeping pass.
func (s *Session) rollDay(now time.Time, loc *time.Location) {
	key := clock.DayKey(now, loc)
	if s.day != key {
		s.day = key
		s.startedToday = 0
	}
}

// Start opens a session if none is open and counts it toward today's total.
// Starting while a session is already open is a no-op and does not
// double-count. Reports whether a new session was opened.
func (s *Session) Start(now time.Time, loc *time.Location) bool {
	s.rollDay(now, loc)
	if s.startedAt != nil {
		return false
	}
	t := now
	s.startedAt = &t
	s.events = 0
	s.startedToday++
	return true
}

// End closes the open session, clearing its start time and event count.
// No-op when no session is open. The today-counter is untouched.
func (s *Session) End() {
	s.startedAt = nil
	s.events = 0
}

// Open reports whether a session is in progress.
func (s *Session) Open() bool { return s.startedAt != nil }

// StartedAt returns the open session's start time, or nil.
func (s *Session) StartedAt() *time.Time { return s.startedAt }

// CountEvent attributes one event to the open session.
func (s *Session) CountEvent() {
	if s.startedAt != nil {
		s.events++
	}
}

// Events returns the event count within the open session.
func (s *Session) Events() int { return s.events }

// StartedToday returns the number of sessions started on the current local
// day, reconciling the day marker first.
func (s *Session) StartedToday(now time.Time, loc *time.Location) int {
	s.rollDay(now, loc)
	return s.startedToday
}

// Duration returns how long the session has been open. A clock regression
// never yields a negative duration; it clamps to zero.
func (s *Session) Duration(now time.Time) time.Duration {
	if s.startedAt == nil {
		return 0
	}
	d := now.Sub(*s.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Reset returns the session to its zero state, including the day counter.
func (s *Session) Reset() {
	s.startedAt = nil
	s.events = 0
	s.startedToday = 0
	s.day = ""
}
