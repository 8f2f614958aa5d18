// Package guardrail implements the behavioral guardrail state machine: it
// owns per-subject activity state, runs the pattern detectors on every read,
// aggregates their output into a block decision, and manages cooldown expiry.
//
// The state machine per subject is: Clear → (pattern with cooldown fires) →
// Cooldown-Active → (now >= expiry, or explicit clear/dismiss) → Clear.
// Weekend and late-night hard blocks are derived from the clock on each
// evaluation and are never stored. Expiry is lazy: there are no timers, every
// read self-heals an elapsed cooldown.
package guardrail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eddiebelaval/deepstack-guardrail/internal/activity"
	"github.com/eddiebelaval/deepstack-guardrail/internal/clock"
	"github.com/eddiebelaval/deepstack-guardrail/internal/metrics"
	"github.com/eddiebelaval/deepstack-guardrail/internal/patterns"
)

// Profile selects the active rule table.
type Profile string

const (
	// ProfileTrade is the canonical "emotional firewall" rule set over trades.
	ProfileTrade Profile = "trade"
	// ProfileSession is the "decision fitness" rule set over research sessions.
	ProfileSession Profile = "session"
)

// Level is the aggregate decision severity, independent of the profile's
// display vocabulary.
type Level int

const (
	LevelSafe Level = iota
	LevelWarning
	LevelBlocked
)

// statusLabels maps levels to the wire vocabulary per profile.
var statusLabels = map[Profile][3]string{
	ProfileTrade:   {"safe", "warning", "blocked"},
	ProfileSession: {"focused", "caution", "compromised"},
}

// Config parameterizes an Engine.
type Config struct {
	Profile   Profile
	Limits    patterns.Limits
	Loc       *time.Location // reference timezone for wall-clock rules
	MaxEvents int            // activity log cap per subject
}

// Notifier receives guardrail transitions. Implementations must be safe for
// concurrent use; calls are made off the request path.
type Notifier interface {
	NotifyBlocked(ctx context.Context, subject string, tags []string, reasons []string) error
	NotifyCooldown(ctx context.Context, subject string, tag string, until time.Time) error
}

// Stats is the trade-oriented read model.
type Stats struct {
	TradesToday    int      `json:"trades_today"`
	TradesThisHour int      `json:"trades_this_hour"`
	CurrentStreak  int      `json:"current_streak"`
	StreakType     string   `json:"streak_type"`
	LastTradePnL   *float64 `json:"last_trade_pnl"`
}

// SessionInfo is the session-oriented read model.
type SessionInfo struct {
	DurationMinutes    int        `json:"duration_minutes"`
	StartedAt          *time.Time `json:"started_at"`
	QueriesThisSession int        `json:"queries_this_session"`
	SessionsToday      int        `json:"sessions_today"`
}

// Assessment is the aggregate decision returned by every command and read.
type Assessment struct {
	Subject         string      `json:"subject"`
	Blocked         bool        `json:"blocked"`
	Status          string      `json:"status"`
	Reasons         []string    `json:"reasons"`
	Patterns        []string    `json:"patterns_detected"`
	CooldownExpires *time.Time  `json:"cooldown_expires"`
	BreakDismissed  bool        `json:"break_dismissed"`
	Stats           Stats       `json:"stats"`
	Session         SessionInfo `json:"session"`
}

// subjectState is all mutable state for one subject. Guarded by its own
// mutex so concurrent requests for the same subject serialize while distinct
// subjects proceed in parallel.
type subjectState struct {
	mu              sync.Mutex
	log             *activity.Log
	session         *activity.Session
	cooldownUntil   *time.Time
	cooldownTag     patterns.Tag
	dismissed       bool
	notifiedBlocked bool
}

// Engine is the guardrail orchestrator. Subject states are created lazily on
// first interaction and live until process exit; eviction is a deployment
// concern.
type Engine struct {
	cfg       Config
	clk       clock.Clock
	detectors []patterns.Detector

	mu       sync.Mutex
	subjects map[string]*subjectState

	notifier Notifier
}

// New creates an Engine. A nil clock defaults to the system clock and a nil
// location to UTC.
func New(cfg Config, clk clock.Clock) *Engine {
	if clk == nil {
		clk = clock.System{}
	}
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	if cfg.Profile != ProfileSession {
		cfg.Profile = ProfileTrade
	}
	dets := patterns.TradeProfile()
	if cfg.Profile == ProfileSession {
		dets = patterns.SessionProfile()
	}
	return &Engine{
		cfg:       cfg,
		clk:       clk,
		detectors: dets,
		subjects:  make(map[string]*subjectState),
	}
}

// SetNotifier attaches an optional transition notifier.
func (e *Engine) SetNotifier(n Notifier) { e.notifier = n }

// Profile returns the active rule profile.
func (e *Engine) Profile() Profile { return e.cfg.Profile }

// Subjects returns the number of tracked subjects.
func (e *Engine) Subjects() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subjects)
}

// state returns the subject's state, creating it on first interaction.
func (e *Engine) state(subject string) *subjectState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.subjects[subject]
	if !ok {
		st = &subjectState{
			log:     activity.NewLog(e.cfg.MaxEvents),
			session: &activity.Session{},
		}
		e.subjects[subject] = st
	}
	return st
}

// Check evaluates a subject without recording anything. Evaluation still
// persists any newly earned cooldown, exactly as a check_trade command does.
func (e *Engine) Check(subject string) Assessment {
	st := e.state(subject)
	st.mu.Lock()
	defer st.mu.Unlock()
	return e.evaluate(subject, st, e.clk.Now())
}

// evaluate runs all detectors and resolves the aggregate decision. Caller
// holds st.mu.
func (e *Engine) evaluate(subject string, st *subjectState, now time.Time) Assessment {
	// Self-healing expiry: an elapsed cooldown clears on any read.
	if st.cooldownUntil != nil && !now.Before(*st.cooldownUntil) {
		st.cooldownUntil = nil
		st.cooldownTag = ""
	}

	in := patterns.Inputs{Log: st.log, Session: st.session, Now: now, Loc: e.cfg.Loc}
	var fired []patterns.Detection
	for _, det := range e.detectors {
		if d := det(in, e.cfg.Limits); d != nil {
			fired = append(fired, *d)
			metrics.Patterns.WithLabelValues(string(d.Tag)).Inc()
		}
	}

	var (
		severe, advisory int
		tags             []string
		reasons          []string
		candidate        *time.Time
		candidateTag     patterns.Tag
	)
	for _, d := range fired {
		tags = append(tags, string(d.Tag))
		reasons = append(reasons, d.Reason)
		if d.Severe {
			severe++
		} else {
			advisory++
		}
		if d.Cooldown > 0 {
			exp := now.Add(d.Cooldown)
			if candidate == nil || exp.After(*candidate) {
				t := exp
				candidate = &t
				candidateTag = d.Tag
			}
		}
	}

	// Longest cooldown wins, and an active cooldown is never shortened.
	if candidate != nil && (st.cooldownUntil == nil || candidate.After(*st.cooldownUntil)) {
		st.cooldownUntil = candidate
		st.cooldownTag = candidateTag
		metrics.Cooldowns.WithLabelValues(string(candidateTag)).Inc()
		if e.notifier != nil {
			go func(sub string, tag string, until time.Time) {
				_ = e.notifier.NotifyCooldown(context.Background(), sub, tag, until)
			}(subject, string(candidateTag), *candidate)
		}
	}

	level := LevelSafe
	switch {
	case severe > 0:
		level = LevelBlocked
	case advisory >= 2:
		// Co-occurring advisories are themselves evidence of impairment.
		level = LevelBlocked
	case advisory == 1:
		level = LevelWarning
	}

	// An active cooldown blocks regardless of whether its trigger still fires.
	if st.cooldownUntil != nil && now.Before(*st.cooldownUntil) {
		level = LevelBlocked
		reasons = append(reasons, fmt.Sprintf("cooldown active until %s (triggered by %s)",
			st.cooldownUntil.In(e.cfg.Loc).Format("15:04"), st.cooldownTag))
	}

	labels := statusLabels[e.cfg.Profile]
	blocked := level == LevelBlocked
	if blocked && !st.notifiedBlocked {
		st.notifiedBlocked = true
		if e.notifier != nil {
			go func(sub string, tags, reasons []string) {
				_ = e.notifier.NotifyBlocked(context.Background(), sub, tags, reasons)
			}(subject, append([]string(nil), tags...), append([]string(nil), reasons...))
		}
	} else if !blocked {
		st.notifiedBlocked = false
	}
	metrics.Evaluations.WithLabelValues(labels[level]).Inc()

	var expires *time.Time
	if st.cooldownUntil != nil {
		t := *st.cooldownUntil
		expires = &t
	}

	return Assessment{
		Subject:         subject,
		Blocked:         blocked,
		Status:          labels[level],
		Reasons:         reasons,
		Patterns:        tags,
		CooldownExpires: expires,
		BreakDismissed:  st.dismissed,
		Stats:           e.stats(st, now),
		Session:         e.sessionInfo(st, now),
	}
}

func (e *Engine) stats(st *subjectState, now time.Time) Stats {
	s := Stats{
		TradesToday:    st.log.CountSince(now.Add(-24 * time.Hour)),
		TradesThisHour: st.log.CountSince(now.Add(-time.Hour)),
	}
	streak := st.log.Streak()
	s.CurrentStreak = streak.Length
	s.StreakType = streak.Type
	if last, ok := st.log.LastTrade(); ok {
		v := *last.PnL
		s.LastTradePnL = &v
	}
	return s
}

func (e *Engine) sessionInfo(st *subjectState, now time.Time) SessionInfo {
	return SessionInfo{
		DurationMinutes:    int(st.session.Duration(now).Minutes()),
		StartedAt:          st.session.StartedAt(),
		QueriesThisSession: st.session.Events(),
		SessionsToday:      st.session.StartedToday(now, e.cfg.Loc),
	}
}
