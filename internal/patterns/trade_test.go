package patterns

import (
	"strings"
	"testing"
	"time"

	"github.com/eddiebelaval/deepstack-guardrail/internal/activity"
)

var limits = Limits{
	HourlyTradeLimit:   3,
	DailyTradeLimit:    10,
	RevengeWindow:      30 * time.Minute,
	StreakLength:       5,
	RapidQueryCount:    10,
	RapidQueryWindow:   5 * time.Minute,
	MaxSessionsPerDay:  6,
	FatigueAfter:       120 * time.Minute,
	ExtendedAfter:      180 * time.Minute,
	OvertradeCooldown:  240 * time.Minute,
	RevengeCooldown:    60 * time.Minute,
	LossStreakCooldown: 180 * time.Minute,
	NightCooldown:      60 * time.Minute,
}

// Wednesday, mid-afternoon UTC: no weekend or late-night interference.
var midweek = time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

func pnl(v float64) *float64 { return &v }

func inputs(now time.Time) Inputs {
	return Inputs{Log: activity.NewLog(0), Session: &activity.Session{}, Now: now, Loc: time.UTC}
}

func TestOvertradingHourlyBoundary(t *testing.T) {
	in := inputs(midweek)
	in.Log.Append(activity.Event{At: midweek.Add(-3 * time.Minute), PnL: pnl(100)})
	in.Log.Append(activity.Event{At: midweek.Add(-2 * time.Minute), PnL: pnl(50)})

	if d := DetectOvertrading(in, limits); d != nil {
		t.Fatalf("expected no detection at 2 trades, got %q", d.Reason)
	}

	in.Log.Append(activity.Event{At: midweek.Add(-time.Minute), PnL: pnl(75)})
	d := DetectOvertrading(in, limits)
	if d == nil {
		t.Fatal("expected overtrading at 3 trades in the trailing hour")
	}
	if d.Tag != Overtrading || !d.Severe {
		t.Fatalf("expected severe overtrading, got %+v", d)
	}
	if d.Cooldown != 240*time.Minute {
		t.Fatalf("expected 240m cooldown, got %v", d.Cooldown)
	}
}

func TestOvertradingOldEventsFallOut(t *testing.T) {
	in := inputs(midweek)
	for i := 0; i < 3; i++ {
		in.Log.Append(activity.Event{At: midweek.Add(-61 * time.Minute), PnL: pnl(10)})
	}
	if d := DetectOvertrading(in, limits); d != nil {
		t.Fatalf("expected 61-minute-old trades outside the hourly window, got %q", d.Reason)
	}
}

func TestOvertradingDailyLimit(t *testing.T) {
	in := inputs(midweek)
	// Spread 10 trades over the day, never 3 within one hour.
	for i := 0; i < 10; i++ {
		in.Log.Append(activity.Event{At: midweek.Add(-time.Duration(10-i) * time.Hour), PnL: pnl(10)})
	}
	d := DetectOvertrading(in, limits)
	if d == nil || d.Tag != Overtrading {
		t.Fatal("expected daily-limit overtrading")
	}
	if !strings.Contains(d.Reason, "24h") {
		t.Fatalf("expected daily reason, got %q", d.Reason)
	}
}

func TestRevengeTradingWithinWindow(t *testing.T) {
	in := inputs(midweek)
	in.Log.Append(activity.Event{At: midweek.Add(-15 * time.Minute), PnL: pnl(-100)})

	d := DetectRevengeTrading(in, limits)
	if d == nil || d.Tag != RevengeTrading || !d.Severe {
		t.Fatalf("expected revenge trading 15 min after a loss, got %+v", d)
	}
	if !strings.Contains(d.Reason, "30 min") {
		t.Fatalf("expected reason to mention the 30 min window, got %q", d.Reason)
	}
	if d.Cooldown != 60*time.Minute {
		t.Fatalf("expected 60m cooldown, got %v", d.Cooldown)
	}
}

func TestRevengeTradingExpires(t *testing.T) {
	in := inputs(midweek)
	in.Log.Append(activity.Event{At: midweek.Add(-30 * time.Minute), PnL: pnl(-100)})
	if d := DetectRevengeTrading(in, limits); d != nil {
		t.Fatalf("expected no revenge detection at exactly 30 min, got %q", d.Reason)
	}
}

func TestRevengeTradingIgnoresWins(t *testing.T) {
	in := inputs(midweek)
	in.Log.Append(activity.Event{At: midweek.Add(-5 * time.Minute), PnL: pnl(40)})
	if d := DetectRevengeTrading(in, limits); d != nil {
		t.Fatalf("expected no revenge detection after a win, got %q", d.Reason)
	}
}

func TestLossStreak(t *testing.T) {
	in := inputs(midweek)
	for i := 0; i < 5; i++ {
		in.Log.Append(activity.Event{At: midweek.Add(time.Duration(i-30) * time.Hour), PnL: pnl(-10)})
	}
	d := DetectLossStreak(in, limits)
	if d == nil || d.Tag != LossStreak || !d.Severe || d.Cooldown != 180*time.Minute {
		t.Fatalf("expected severe loss streak with 180m cooldown, got %+v", d)
	}
}

func TestLossStreakBelowThreshold(t *testing.T) {
	in := inputs(midweek)
	for i := 0; i < 4; i++ {
		in.Log.Append(activity.Event{At: midweek, PnL: pnl(-10)})
	}
	if d := DetectLossStreak(in, limits); d != nil {
		t.Fatalf("expected no detection at 4 losses, got %q", d.Reason)
	}
}

func TestWinStreakIsAdvisory(t *testing.T) {
	in := inputs(midweek)
	for i := 0; i < 5; i++ {
		in.Log.Append(activity.Event{At: midweek, PnL: pnl(10)})
	}
	d := DetectWinStreak(in, limits)
	if d == nil || d.Tag != WinStreak {
		t.Fatal("expected win streak detection")
	}
	if d.Severe || d.Cooldown != 0 {
		t.Fatalf("win streak must be advisory only, got %+v", d)
	}
}

func TestWeekendBlocks(t *testing.T) {
	saturday := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	d := DetectWeekend(inputs(saturday), limits)
	if d == nil || d.Tag != WeekendTrading || !d.Severe {
		t.Fatalf("expected weekend block on Saturday noon, got %+v", d)
	}
	if d.Cooldown != 0 {
		t.Fatalf("hard blocks store no cooldown, got %v", d.Cooldown)
	}
	if DetectWeekend(inputs(midweek), limits) != nil {
		t.Fatal("expected no weekend detection on a Wednesday")
	}
}

func TestLateNightBoundaries(t *testing.T) {
	cases := []struct {
		hour  int
		fires bool
	}{
		{5, true},
		{6, false}, // exactly 06:00 is allowed
		{12, false},
		{19, false},
		{20, true},
		{23, true},
	}
	for _, tc := range cases {
		now := time.Date(2025, 3, 12, tc.hour, 0, 0, 0, time.UTC)
		d := DetectLateNightTrading(inputs(now), limits)
		if (d != nil) != tc.fires {
			t.Errorf("hour %02d: expected fires=%t, got %+v", tc.hour, tc.fires, d)
		}
	}
}
