package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"

	"github.com/davitran/stories-engine/internal/aggregator"
	"github.com/davitran/stories-engine/internal/aggregator/aggregatorimpl"
	"github.com/davitran/stories-engine/internal/composer"
	"github.com/davitran/stories-engine/internal/composer/composerimpl"
	"github.com/davitran/stories-engine/internal/engine"
	"github.com/davitran/stories-engine/internal/engine/engineimpl"
	_ "github.com/davitran/stories-engine/internal/migrations"
	repositories "github.com/davitran/stories-engine/internal/repositories/fx"
	"github.com/davitran/stories-engine/internal/retention"
	"github.com/davitran/stories-engine/internal/retention/retentionimpl"
	"github.com/davitran/stories-engine/internal/store"
	"github.com/davitran/stories-engine/internal/store/storeimpl"
	"github.com/davitran/stories-engine/internal/tracker"
	"github.com/davitran/stories-engine/internal/tracker/trackerimpl"
	"github.com/davitran/stories-engine/pkg/config"
	"github.com/davitran/stories-engine/pkg/logger"
	"github.com/davitran/stories-engine/pkg/pgx"
	"github.com/jonboulle/clockwork"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		func() clockwork.Clock { return clockwork.NewRealClock() },
	),
	fx.Provide(
		fx.Annotate(
			storeimpl.New,
			fx.As(new(store.Client)),
		), fx.Annotate(
			aggregatorimpl.New,
			fx.As(new(aggregator.Client)),
		), fx.Annotate(
			trackerimpl.New,
			fx.As(new(tracker.Client)),
		), fx.Annotate(
			composerimpl.New,
			fx.As(new(composer.Client)),
		), fx.Annotate(
			engineimpl.New,
			fx.As(new(engine.Client)),
		), fx.Annotate(
			retentionimpl.New,
			fx.As(new(retention.Client)),
		),
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func migrate(c *config.Config) error {
	if c.Storage.Driver == "memory" {
		return nil
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", c.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Migrations are registered by the internal/migrations import; "." means
	// no SQL files on disk are expected.
	return goose.Up(db, ".")
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, retClient retention.Client) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg)

			if err := retClient.ScheduleArchival(ctx); err != nil {
				log.Error("Failed to schedule archival", "error", err)
				return err
			}

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Info("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
