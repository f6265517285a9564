package app

import (
	"context"
	"errors"
	"fmt"

	"engsite/internal/apiclient"
	"engsite/internal/config"
	"engsite/internal/database"
	handlers "engsite/internal/handler"
	"engsite/internal/metrics"
	"engsite/internal/middleware"
	"engsite/internal/repository"
	"engsite/internal/scheduler"
	"engsite/internal/service"
	"engsite/internal/storage"

	"github.com/sirupsen/logrus"
)

// Application holds everything main needs to serve and shut down.
type Application struct {
	Config    *config.Config
	Handlers  *handlers.Handlers
	Services  *service.Service
	Metrics   *metrics.Metrics
	Limiter   *middleware.RateLimiter
	Scheduler *scheduler.Scheduler

	closers []func() error
}

// App builds the dependency graph. The data source is fixed here from
// cfg.UseMock and never changes while the process runs.
func App(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Application, error) {
	a := &Application{Config: cfg}

	kv, err := a.openLocalStore(ctx, log)
	if err != nil {
		return nil, err
	}

	var (
		repo          *repository.Repository
		authenticator service.Authenticator
	)

	if cfg.UseMock {
		repo = repository.NewLocalRepository(kv)
		authenticator, err = service.NewLocalAuthenticator(cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
	} else {
		api := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, log)
		repo = repository.NewRemoteRepository(api)
		authenticator = service.NewRemoteAuthenticator(api)
	}
	log.WithField("mode", cfg.Mode()).Info("data source selected")

	// a nil *MinIOClient must not become a non-nil ImageStorage
	var images storage.ImageStorage
	if cfg.MinIO.Enabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("error initializing MinIO: %w", err)
		}
		images = minioClient
		log.WithField("bucket", cfg.MinIO.BucketName).Info("image storage ready")
	} else {
		log.Warn("MINIO_ENDPOINT is empty, image uploads are disabled")
	}

	a.Services = service.NewService(repo, authenticator, kv, images, cfg, log)
	a.Metrics = metrics.New()
	a.Handlers = handlers.NewHandlers(a.Services, a.Metrics, cfg, log)
	a.Limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log)
	a.Scheduler = scheduler.New(cfg.PageLog.PruneSchedule, a.Services.Log, a.Limiter, a.Metrics, log)

	return a, nil
}

func (a *Application) openLocalStore(ctx context.Context, log logrus.FieldLogger) (storage.KeyValue, error) {
	switch a.Config.LocalStore.Driver {
	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.ConnectDB(ctx, a.Config, log)
		if err != nil {
			return nil, fmt.Errorf("error connecting to local store: %w", err)
		}
		a.closers = append(a.closers, db.CloseDB)
		return storage.NewSQLStore(db.DB), nil
	case config.DriverRedis:
		store, err := storage.NewRedisStore(ctx, a.Config.LocalStore.RedisURL, a.Config.LocalStore.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("error connecting to local store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		log.Info("local store backed by Redis")
		return store, nil
	default:
		log.Warn("local store is in memory, data is lost on restart")
		return storage.NewMemoryStore(), nil
	}
}

// Close releases the local store connections.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
