package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Timezone is the reference timezone for weekend, late-night and
	// day-boundary rules. Explicit so behavior never depends on the host
	// locale.
	Timezone string `yaml:"timezone"`
	// Profile selects the rule table: "trade" (emotional firewall) or
	// "session" (decision fitness).
	Profile string `yaml:"profile"`

	Guardrail GuardrailConfig `yaml:"guardrail"`
	API       APIConfig       `yaml:"api"`
	Telegram  TelegramConfig  `yaml:"telegram"`
}

type APIConfig struct {
	Addr string `yaml:"addr"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

type GuardrailConfig struct {
	MaxEvents int `yaml:"max_events"`

	HourlyTradeLimit  int           `yaml:"hourly_trade_limit"`
	DailyTradeLimit   int           `yaml:"daily_trade_limit"`
	RevengeWindow     time.Duration `yaml:"revenge_window"`
	StreakLength      int           `yaml:"streak_length"`
	RapidQueryCount   int           `yaml:"rapid_query_count"`
	RapidQueryWindow  time.Duration `yaml:"rapid_query_window"`
	MaxSessionsPerDay int           `yaml:"max_sessions_per_day"`
	FatigueAfter      time.Duration `yaml:"fatigue_after"`
	ExtendedAfter     time.Duration `yaml:"extended_after"`

	OvertradeCooldown  time.Duration `yaml:"overtrade_cooldown"`
	RevengeCooldown    time.Duration `yaml:"revenge_cooldown"`
	LossStreakCooldown time.Duration `yaml:"loss_streak_cooldown"`
	NightCooldown      time.Duration `yaml:"night_cooldown"`
}

func Default() Config {
	return Config{
		Timezone: "America/New_York",
		Profile:  "trade",
		Guardrail: GuardrailConfig{
			MaxEvents:          100,
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
		},
		API: APIConfig{
			Addr: ":8080",
		},
	}
}

func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("GUARDRAIL_TIMEZONE")); v != "" {
		c.Timezone = v
	}
	if v := strings.TrimSpace(os.Getenv("GUARDRAIL_PROFILE")); v != "" {
		c.Profile = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("GUARDRAIL_API_ADDR")); v != "" {
		c.API.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
		c.Telegram.Enabled = true
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
}
