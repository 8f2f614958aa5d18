package clock

import (
	"testing"
	"time"
)

func TestFakeAdvance(t *testing.T) {
	base := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	f := NewFake(base)
	if !f.Now().Equal(base) {
		t.Fatalf("expected %v, got %v", base, f.Now())
	}
	f.Advance(61 * time.Minute)
	if got := f.Now(); !got.Equal(base.Add(61 * time.Minute)) {
		t.Fatalf("expected advance by 61m, got %v", got)
	}
}

func TestLoadLocationFallback(t *testing.T) {
	if loc := LoadLocation(""); loc != time.UTC {
		t.Fatalf("expected UTC for empty tz, got %v", loc)
	}
	if loc := LoadLocation("Not/AZone"); loc != time.UTC {
		t.Fatalf("expected UTC fallback for bad tz, got %v", loc)
	}
}

func TestDayKey(t *testing.T) {
	// 01:00 UTC on March 13 is still March 12 in New York.
	ts := time.Date(2025, 3, 13, 1, 0, 0, 0, time.UTC)
	ny := LoadLocation("America/New_York")
	if got := DayKey(ts, ny); got != "2025-03-12" {
		t.Fatalf("expected 2025-03-12 in New York, got %s", got)
	}
	if got := DayKey(ts, time.UTC); got != "2025-03-13" {
		t.Fatalf("expected 2025-03-13 in UTC, got %s", got)
	}
}
