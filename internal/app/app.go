package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	server "github.com/AmitAMahadik/ExAstra/internal/adapters/primary/http"
	chatController "github.com/AmitAMahadik/ExAstra/internal/adapters/primary/http/controllers/chat"
	focusController "github.com/AmitAMahadik/ExAstra/internal/adapters/primary/http/controllers/focus"
	healthcheckController "github.com/AmitAMahadik/ExAstra/internal/adapters/primary/http/controllers/healthcheck"
	profileController "github.com/AmitAMahadik/ExAstra/internal/adapters/primary/http/controllers/profile"
	ephemerisAdapter "github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/ephemeris"
	geocodingAdapter "github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/geocoding"
	openaiAdapter "github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/openai"
	"github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/storage/inmemory"
	"github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/storage/redis"
	"github.com/AmitAMahadik/ExAstra/internal/pkg/logger"
	profileRepo "github.com/AmitAMahadik/ExAstra/internal/repository/profile"
	aiService "github.com/AmitAMahadik/ExAstra/internal/services/ai"
	ephemerisService "github.com/AmitAMahadik/ExAstra/internal/services/ephemeris"
	geocodingService "github.com/AmitAMahadik/ExAstra/internal/services/geocoding"
	"github.com/AmitAMahadik/ExAstra/internal/usecases/astrology"
)

type App struct {
	Name string
	Cfg  *Config
	Log  *slog.Logger
}

func New(name string, cfg *Config) *App {
	return &App{
		Name: name,
		Cfg:  cfg,
		Log:  logger.New(name, cfg.Log),
	}
}

func (a *App) Run(ctx context.Context) error {
	a.Log.Info("running exastra")

	db, err := a.initPostgres()
	if err != nil {
		return fmt.Errorf("failed to init postgres: %w", err)
	}

	redisClient, err := a.Cfg.Redis.NewConnection()
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	signsCache := redisAdapter.NewClient(redisClient)

	persistenceLayer := pg.NewDB(db)
	profiles := profileRepo.New(persistenceLayer, a.Log)

	geocoder := geocodingService.New(geocodingAdapter.NewClient(a.Cfg.Geocoding, a.Log))
	ephemeris := ephemerisService.New(ephemerisAdapter.NewClient(a.Cfg.Ephemeris, a.Log))
	ai := aiService.New(openaiAdapter.NewClient(a.Cfg.OpenAI, a.Log), a.Log)

	astro := astrology.New(
		profiles,
		geocoder,
		ephemeris,
		ai,
		signsCache,
		inmemory.NewSummaryCache(),
		a.Cfg.Astrology,
		a.Log,
	)

	httpServer := server.NewHTTPServer(a.Cfg.Server, a.Log,
		healthcheckController.New(db, a.Log),
		profileController.New(astro, a.Log),
		focusController.New(astro, a.Log),
		chatController.New(astro, a.Log),
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("starting http server",
			"host", a.Cfg.Server.Host,
			"port", a.Cfg.Server.Port)

		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.Log.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			a.Log.Error("failed to shutdown http server", "error", err)
		}

		if err := signsCache.Close(); err != nil {
			a.Log.Error("failed to close cache", "error", err)
		}

		if err := db.Close(); err != nil {
			a.Log.Error("failed to close database", "error", err)
		}

		a.Log.Info("application shutdown completed")
		return nil
	})

	if err := g.Wait(); err != nil {
		a.Log.Error("application error", "error", err)
		return err
	}

	return nil
}

func (a *App) initPostgres() (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(db, a.Log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
