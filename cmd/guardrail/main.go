package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/eddiebelaval/deepstack-guardrail/internal/api"
	"github.com/eddiebelaval/deepstack-guardrail/internal/clock"
	"github.com/eddiebelaval/deepstack-guardrail/internal/config"
	"github.com/eddiebelaval/deepstack-guardrail/internal/guardrail"
	"github.com/eddiebelaval/deepstack-guardrail/internal/notify"
	"github.com/eddiebelaval/deepstack-guardrail/internal/patterns"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	preset := flag.String("preset", "", "strictness preset: strict|standard|lenient")
	profileOverride := flag.String("profile", "", "override rule profile: trade|session")
	flag.Parse()

	// Optional .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	cfg, err := config.LoadFile(*cfgPath)
	if err != nil {
		log.Printf("warning: config file: %v, using defaults", err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if v := strings.ToLower(strings.TrimSpace(*profileOverride)); v != "" {
		cfg.Profile = v
	}
	if err := config.ApplyPreset(&cfg, *preset); err != nil {
		log.Fatalf("invalid -preset: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	loc := clock.LoadLocation(cfg.Timezone)
	log.Printf(
		"guardrail starting (profile=%s tz=%s preset=%s hourly_limit=%d daily_limit=%d streak=%d)",
		cfg.Profile,
		loc,
		strings.TrimSpace(*preset),
		cfg.Guardrail.HourlyTradeLimit,
		cfg.Guardrail.DailyTradeLimit,
		cfg.Guardrail.StreakLength,
	)

	engine := guardrail.New(guardrail.Config{
		Profile: guardrail.Profile(cfg.Profile),
		Limits: patterns.Limits{
			HourlyTradeLimit:   cfg.Guardrail.HourlyTradeLimit,
			DailyTradeLimit:    cfg.Guardrail.DailyTradeLimit,
			RevengeWindow:      cfg.Guardrail.RevengeWindow,
			StreakLength:       cfg.Guardrail.StreakLength,
			RapidQueryCount:    cfg.Guardrail.RapidQueryCount,
			RapidQueryWindow:   cfg.Guardrail.RapidQueryWindow,
			MaxSessionsPerDay:  cfg.Guardrail.MaxSessionsPerDay,
			FatigueAfter:       cfg.Guardrail.FatigueAfter,
			ExtendedAfter:      cfg.Guardrail.ExtendedAfter,
			OvertradeCooldown:  cfg.Guardrail.OvertradeCooldown,
			RevengeCooldown:    cfg.Guardrail.RevengeCooldown,
			LossStreakCooldown: cfg.Guardrail.LossStreakCooldown,
			NightCooldown:      cfg.Guardrail.NightCooldown,
		},
		Loc:       loc,
		MaxEvents: cfg.Guardrail.MaxEvents,
	}, clock.System{})

	if cfg.Telegram.Enabled {
		notifier := notify.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if notifier.Enabled() {
			engine.SetNotifier(notifier)
			log.Println("telegram alerts enabled")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := api.NewServer(cfg.API.Addr, engine)
	if err := server.Start(ctx); err != nil {
		log.Fatalf("api server: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("shutdown signal received")

	if err := server.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
