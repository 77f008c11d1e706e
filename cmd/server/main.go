package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tazhibayda/hop-service/internal/config"
	"github.com/tazhibayda/hop-service/internal/domain"
	"github.com/tazhibayda/hop-service/internal/hop"
	api "github.com/tazhibayda/hop-service/internal/http"
	"github.com/tazhibayda/hop-service/internal/log"
	"github.com/tazhibayda/hop-service/internal/metrics"
	"github.com/tazhibayda/hop-service/internal/queue"
	"github.com/tazhibayda/hop-service/internal/repo"
	"github.com/tazhibayda/hop-service/internal/strava"
)

func main() {
	cfg := config.Load()

	logger, err := log.Init(os.Getenv("APP_ENV") == "prod")
	if err != nil {
		stdlog.Fatalf("log init: %v", err)
	}
	defer log.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// store is optional: without it the service still answers degraded reads
	var store *repo.Store
	if s, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
		logger.Warn("mongo connect failed, running without store", zap.Error(err))
	} else {
		store = s
		defer store.Close(context.Background())
		if err := store.EnsureUserIndexes(ctx); err != nil {
			logger.Fatal("ensure indexes", zap.Error(err))
		}
	}

	var rds *repo.Redis
	if cfg.RedisAddr != "" {
		rds = repo.NewRedis(cfg.RedisAddr)
		if err := rds.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, cache and rate limit disabled", zap.Error(err))
			rds = nil
		} else {
			defer rds.Close()
		}
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		if p, err := queue.NewRabbit(cfg.RabbitURL, queue.Exchange); err != nil {
			logger.Warn("rabbit connect failed, events disabled", zap.Error(err))
		} else {
			pub = p
			defer pub.Close()
		}
	}

	sc := strava.NewClient(cfg.StravaClientID, cfg.StravaClientSecret)
	activities := hop.NewActivityService(sc, cfg.SegmentID)

	var board api.Leaderboard
	var userStore api.UserStore
	if store != nil {
		userStore = store
		board = hop.NewAggregator(store, activities, cfg.FetchParallel, cfg.FetchTimeout)
	} else {
		board = emptyBoard{}
	}

	h := api.NewHandler(cfg, userStore, sc, board, rds, pub)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("hop-service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("signal received, shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}

// emptyBoard serves an empty leaderboard when the store is unconfigured.
type emptyBoard struct{}

func (emptyBoard) Leaders(ctx context.Context, day *time.Time) ([]domain.LeaderboardEntry, error) {
	return []domain.LeaderboardEntry{}, nil
}
