// Package patterns holds the behavioral rule set: independent, pure
// evaluators that inspect a subject's activity log and session against the
// current instant and report at most one detection each. Detectors never
// mutate state and never fail; aggregation and cooldown bookkeeping belong
// to the guardrail engine.
package patterns

import (
	"time"

	"github.com/eddiebelaval/deepstack-guardrail/internal/activity"
)

// Tag identifies a detected behavioral pattern.
type Tag string

const (
	Overtrading      Tag = "overtrading"
	RevengeTrading   Tag = "revenge_trading"
	LossStreak       Tag = "loss_streak"
	WinStreak        Tag = "win_streak"
	WeekendTrading   Tag = "weekend_trading"
	LateNightTrading Tag = "late_night_trading"
	LateNight        Tag = "late_night"
	SessionFatigue   Tag = "session_fatigue"
	ExtendedSession  Tag = "extended_session"
	RapidQueries     Tag = "rapid_queries"
	SessionOverload  Tag = "session_overload"
)

// Detection is one fired rule: what triggered, why, how long the suggested
// cooldown is (zero for advisories and clock-derived hard blocks), and
// whether it alone forces a blocked status.
type Detection struct {
	Tag      Tag
	Reason   string
	Cooldown time.Duration
	Severe   bool
}

// Limits are the rule thresholds. Zero values disable nothing; callers load
// them from config where every field has a default.
type Limits struct {
	HourlyTradeLimit  int
	DailyTradeLimit   int
	RevengeWindow     time.Duration
	StreakLength      int
	RapidQueryCount   int
	RapidQueryWindow  time.Duration
	MaxSessionsPerDay int
	FatigueAfter      time.Duration
	ExtendedAfter     time.Duration

	OvertradeCooldown  time.Duration
	RevengeCooldown    time.Duration
	LossStreakCooldown time.Duration
	NightCooldown      time.Duration
}

// Inputs is the read view a detector evaluates. Loc is the reference
// timezone for wall-clock rules (weekend, late night, day counters).
type Inputs struct {
	Log     *activity.Log
	Session *activity.Session
	Now     time.Time
	Loc     *time.Location
}

// Detector evaluates one rule. A nil result means the rule did not fire.
type Detector func(in Inputs, lim Limits) *Detection

// TradeProfile is the canonical "emotional firewall" rule set applied to
// trade activity.
func TradeProfile() []Detector {
	return []Detector{
		DetectOvertrading,
		DetectRevengeTrading,
		DetectLossStreak,
		DetectWinStreak,
		DetectWeekend,
		DetectLateNightTrading,
	}
}

// SessionProfile is the "decision fitness" rule set applied to research
// sessions and queries.
func SessionProfile() []Detector {
	return []Detector{
		DetectLateNightSession,
		DetectSessionFatigue,
		DetectExtendedSession,
		DetectRapidQueries,
		DetectSessionOverload,
	}
}
