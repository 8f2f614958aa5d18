package config

import (
	"fmt"
	"strings"
	"time"
)

// ApplyPreset applies a named strictness preset to the guardrail limits.
// Supported presets:
// - strict:   tighter limits and longer cooldowns for struggling accounts
// - standard: configured values as-is
// - lenient:  looser limits for experienced discretionary traders
func ApplyPreset(cfg *Config, preset string) error {
	p := strings.ToLower(strings.TrimSpace(preset))
	if p == "" {
		return nil
	}

	switch p {
	case "strict":
		clampMaxInt(&cfg.Guardrail.HourlyTradeLimit, 2)
		clampMaxInt(&cfg.Guardrail.DailyTradeLimit, 6)
		clampMaxInt(&cfg.Guardrail.StreakLength, 3)
		clampMaxInt(&cfg.Guardrail.MaxSessionsPerDay, 4)
		cfg.Guardrail.OvertradeCooldown = maxDuration(cfg.Guardrail.OvertradeCooldown, Default().Guardrail.OvertradeCooldown*2)
		cfg.Guardrail.RevengeWindow = maxDuration(cfg.Guardrail.RevengeWindow, Default().Guardrail.RevengeWindow*2)
	case "standard":
		// Configured values apply unchanged.
	case "lenient":
		raiseMinInt(&cfg.Guardrail.HourlyTradeLimit, 5)
		raiseMinInt(&cfg.Guardrail.DailyTradeLimit, 15)
		raiseMinInt(&cfg.Guardrail.MaxSessionsPerDay, 10)
	default:
		return fmt.Errorf("unknown preset %q (supported: strict|standard|lenient)", preset)
	}

	return nil
}

func clampMaxInt(v *int, max int) {
	if max <= 0 {
		return
	}
	if *v <= 0 || *v > max {
		*v = max
	}
}

func raiseMinInt(v *int, min int) {
	if *v < min {
		*v = min
	}
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
