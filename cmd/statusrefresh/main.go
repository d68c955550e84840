package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/democrasee/internal/adapters/repository/kv"
	"github.com/vncsmyrnk/democrasee/internal/adapters/store"
	"github.com/vncsmyrnk/democrasee/internal/config"
	"github.com/vncsmyrnk/democrasee/internal/core/services"
	"github.com/vncsmyrnk/democrasee/internal/logger"
)

// statusrefresh periodically recomputes the cached active flag of every poll
// so reads that trust the flag stay close to the clock-derived truth.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var (
		interval time.Duration
		once     bool
	)
	flag.DurationVar(&interval, "interval", time.Minute, "Time between refresh runs")
	flag.BoolVar(&once, "once", false, "Run a single refresh and exit")
	flag.Parse()

	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Init(conf.Environment); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := store.Open(ctx, conf.Storage)
	if err != nil {
		zap.L().Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	userRepo := kv.NewUserRepository(st)
	sessionRepo := kv.NewSessionRepository(st)
	pollRepo := kv.NewPollRepository(st)
	candidateRepo := kv.NewCandidateRepository(st)

	identityService := services.NewIdentityService(userRepo, sessionRepo, services.IdentityConfig{
		JWTSigningKey: conf.Auth.JWTSigningKey,
		SessionTTL:    conf.Auth.SessionTTL,
		AdminUsername: conf.Admin.Username,
		AdminPassword: conf.Admin.Password,
	})
	pollService := services.NewPollService(identityService, pollRepo, candidateRepo)

	refresh := func() {
		if err := pollService.RefreshActiveFlags(ctx); err != nil {
			zap.L().Error("failed to refresh active flags", zap.Error(err))
			return
		}
		zap.L().Info("active flags refreshed")
	}

	refresh()
	if once {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("shutting down")
			return
		case <-ticker.C:
			refresh()
		}
	}
}
