package retentionimpl

import (
	"context"
	"fmt"
	"time"

	storyRepo "github.com/davitran/stories-engine/internal/repositories/story"
	"github.com/davitran/stories-engine/internal/retention"
	"github.com/davitran/stories-engine/pkg/config"
	"github.com/davitran/stories-engine/pkg/logger"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	StoryRepo storyRepo.Repository
	Logger    logger.Logger
	Config    *config.Config
	Clock     clockwork.Clock
}

type Impl struct {
	StoryRepo storyRepo.Repository
	Logger    logger.Logger
	Config    *config.Config
	Clock     clockwork.Clock
}

func New(opts Opts) *Impl {
	return &Impl{
		StoryRepo: opts.StoryRepo,
		Logger:    opts.Logger,
		Config:    opts.Config,
		Clock:     opts.Clock,
	}
}

var _ retention.Client = (*Impl)(nil)

// ScheduleArchival sets up a daily job that removes non-highlight stories
// expired longer ago than the configured retention age.
func (r *Impl) ScheduleArchival(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create archival scheduler: %w", err)
	}

	// At 3:00 AM every day, off the hot path.
	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				r.Logger.Info("Context cancelled, stopping archival job")
				return
			}

			sweepCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			r.Sweep(sweepCtx)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule archival: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		r.Logger.Info("Stopping archival scheduler")
		if err := scheduler.Shutdown(); err != nil {
			r.Logger.Error("Failed to shut down archival scheduler", "error", err)
		}
	}()

	return nil
}

// Sweep runs one archival pass immediately.
func (r *Impl) Sweep(ctx context.Context) {
	cutoff := r.Clock.Now().Add(-r.Config.Engine.RetentionAge)

	removed, err := r.StoryRepo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		r.Logger.Error("Archival sweep failed", "error", err)
		return
	}

	r.Logger.Info("Archival sweep completed", "stories_removed", removed, "cutoff", cutoff)
}
