package patterns

import (
	"testing"
	"time"

	"github.com/eddiebelaval/deepstack-guardrail/internal/activity"
)

func openSession(in *Inputs, startedAgo time.Duration) {
	in.Session.Start(in.Now.Add(-startedAgo), in.Loc)
}

func TestLateNightSessionWindow(t *testing.T) {
	cases := []struct {
		hour  int
		fires bool
	}{
		{4, true},
		{5, false},
		{22, false},
		{23, true},
	}
	for _, tc := range cases {
		now := time.Date(2025, 3, 12, tc.hour, 0, 0, 0, time.UTC)
		d := DetectLateNightSession(inputs(now), limits)
		if (d != nil) != tc.fires {
			t.Errorf("hour %02d: expected fires=%t, got %+v", tc.hour, tc.fires, d)
		}
		if d != nil && (d.Cooldown != 60*time.Minute || !d.Severe) {
			t.Errorf("hour %02d: expected severe with 60m cooldown, got %+v", tc.hour, d)
		}
	}
}

func TestSessionFatigueAfterTwoHours(t *testing.T) {
	in := inputs(midweek)
	openSession(&in, 121*time.Minute)

	d := DetectSessionFatigue(in, limits)
	if d == nil || d.Tag != SessionFatigue {
		t.Fatal("expected fatigue past 120 min")
	}
	if d.Severe || d.Cooldown != 0 {
		t.Fatalf("fatigue is advisory, got %+v", d)
	}
}

func TestSessionFatigueRequiresOpenSession(t *testing.T) {
	in := inputs(midweek)
	if d := DetectSessionFatigue(in, limits); d != nil {
		t.Fatalf("expected no fatigue without a session, got %q", d.Reason)
	}
	openSession(&in, 120*time.Minute)
	if d := DetectSessionFatigue(in, limits); d != nil {
		t.Fatalf("expected no fatigue at exactly 120 min, got %q", d.Reason)
	}
}

func TestExtendedSessionEscalates(t *testing.T) {
	in := inputs(midweek)
	openSession(&in, 181*time.Minute)

	d := DetectExtendedSession(in, limits)
	if d == nil || d.Tag != ExtendedSession || !d.Severe {
		t.Fatalf("expected severe extended session, got %+v", d)
	}
	if d.Cooldown != 60*time.Minute {
		t.Fatalf("expected 60m cooldown, got %v", d.Cooldown)
	}
}

func TestRapidQueriesBurst(t *testing.T) {
	in := inputs(midweek)
	for i := 0; i < 9; i++ {
		in.Log.Append(activity.Event{At: midweek.Add(-time.Duration(9-i) * time.Second)})
	}
	if d := DetectRapidQueries(in, limits); d != nil {
		t.Fatalf("expected no detection at 9 queries, got %q", d.Reason)
	}
	in.Log.Append(activity.Event{At: midweek})
	d := DetectRapidQueries(in, limits)
	if d == nil || d.Tag != RapidQueries || d.Severe {
		t.Fatalf("expected advisory rapid queries at 10, got %+v", d)
	}
}

func TestSessionOverload(t *testing.T) {
	in := inputs(midweek)
	for i := 0; i < 6; i++ {
		in.Session.Start(midweek, in.Loc)
		in.Session.End()
	}
	d := DetectSessionOverload(in, limits)
	if d == nil || d.Tag != SessionOverload || d.Severe {
		t.Fatalf("expected advisory session overload at 6 starts, got %+v", d)
	}
}
