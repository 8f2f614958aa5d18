package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks high-impact runtime configuration constraints.
func (c Config) Validate() error {
	profile := strings.ToLower(strings.TrimSpace(c.Profile))
	if profile != "" && profile != "trade" && profile != "session" {
		return fmt.Errorf("profile must be 'trade' or 'session', got %q", c.Profile)
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("timezone %q: %w", c.Timezone, err)
		}
	}

	g := c.Guardrail
	if g.HourlyTradeLimit < 0 || g.DailyTradeLimit < 0 {
		return fmt.Errorf("trade limits must be >= 0, got hourly=%d daily=%d", g.HourlyTradeLimit, g.DailyTradeLimit)
	}
	if g.HourlyTradeLimit > 0 && g.DailyTradeLimit > 0 && g.DailyTradeLimit < g.HourlyTradeLimit {
		return fmt.Errorf("daily_trade_limit (%d) must not be below hourly_trade_limit (%d)", g.DailyTradeLimit, g.HourlyTradeLimit)
	}
	if g.RevengeWindow < 0 {
		return fmt.Errorf("revenge_window must be >= 0, got %v", g.RevengeWindow)
	}
	if g.FatigueAfter > 0 && g.ExtendedAfter > 0 && g.ExtendedAfter < g.FatigueAfter {
		return fmt.Errorf("extended_after (%v) must not be below fatigue_after (%v)", g.ExtendedAfter, g.FatigueAfter)
	}
	if g.MaxEvents < 0 {
		return fmt.Errorf("max_events must be >= 0, got %d", g.MaxEvents)
	}

	return nil
}
