package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/database"
	"jobmatch/internal/database/migration"
	dbpostgres "jobmatch/internal/database/postgres"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/infrastructure/cache"
	"jobmatch/internal/notification"
	"jobmatch/internal/repository"
	"jobmatch/internal/usecase"
	"jobmatch/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of one process.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Redis *cache.Redis
	Hub   *ws.Hub
	Relay *notification.Relay

	Scoring   *usecase.Scoring
	Ranking   *usecase.Ranking
	Lifecycle *usecase.MatchLifecycle
	Rescore   *usecase.Rescore
}

func NewContainer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	scorer, err := matching.NewScorer(cfg.Matching.Weights)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("scorer: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  cache.NewRedis(connectCtx, cfg.Redis, logger),
		Hub:    ws.NewHub(logger),
	}

	requests := repository.NewPostgresCandidateRequestRepository(db)
	postings := repository.NewPostgresJobPostingRepository(db)
	matches := repository.NewPostgresMatchRepository(db)
	accounts := repository.NewPostgresAccountRepository(db)

	// a nil interface keeps the ranking path away from a dead Redis entirely
	var rankingCache usecase.RankingCache
	if c.Redis.Available() {
		rankingCache = c.Redis
	}

	c.Scoring = usecase.NewScoringUsecase(requests, postings, scorer)
	c.Ranking = usecase.NewRankingUsecase(
		requests,
		postings,
		matching.NewRanker(scorer, cfg.Matching.Workers, cfg.Matching.MaxScannedPairs),
		rankingCache,
		usecase.RankingOptions{PageSize: cfg.Matching.PageSize, CacheTTL: cfg.Redis.CacheTTL},
		logger,
	)
	c.Lifecycle = usecase.NewMatchLifecycleUsecase(usecase.MatchLifecycleDeps{
		Matches:       matches,
		Requests:      requests,
		Postings:      postings,
		Accounts:      accounts,
		Scorer:        scorer,
		Sink:          c.notificationSink(),
		Logger:        logger,
		NotifyTimeout: cfg.Matching.NotifyTimeout,
	})
	c.Rescore = usecase.NewRescoreUsecase(matches, requests, postings, scorer, cfg.Matching.RescoreWorkers, 0, logger)
	c.Rescore.SetRateLimit(cfg.Matching.RescoreRateLimit)

	return c, nil
}

// notificationSink publishes through Redis when it is reachable so every instance's relay
// delivers to its own sockets; otherwise events go straight to the local hub.
func (c *Container) notificationSink() notification.Sink {
	sinks := notification.Multi{notification.NewLogSink(c.Logger)}
	if c.Redis.Available() && c.Config.Redis.Channel != "" {
		c.Relay = notification.NewRelay(c.Redis, c.Config.Redis.Channel, c.Hub, c.Logger)
		return append(sinks, notification.NewPublishSink(c.Redis, c.Config.Redis.Channel))
	}
	return append(sinks, notification.NewHubSink(c.Hub))
}

func (c *Container) Migrate(ctx context.Context) error {
	r := migration.Runner{Logger: c.Logger.Named("migration")}
	if err := r.Run(ctx, c.DB.SQLDB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InvalidateRankings drops cached ranking pages, e.g. after a rescore changed the scores.
func (c *Container) InvalidateRankings(ctx context.Context) error {
	return c.Redis.DeleteByPattern(ctx, usecase.RankingCachePattern)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if err := c.Redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}
