package engineimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/davitran/stories-engine/internal/aggregator"
	"github.com/davitran/stories-engine/internal/composer"
	"github.com/davitran/stories-engine/internal/domain"
	"github.com/davitran/stories-engine/internal/engine"
	"github.com/davitran/stories-engine/internal/playback"
	"github.com/davitran/stories-engine/internal/ratelimit"
	"github.com/davitran/stories-engine/internal/store"
	"github.com/davitran/stories-engine/internal/tracker"
	"github.com/davitran/stories-engine/pkg/config"
	pkgerrors "github.com/davitran/stories-engine/pkg/errors"
	"github.com/davitran/stories-engine/pkg/logger"
	"github.com/davitran/stories-engine/pkg/retry"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

const (
	asyncPoolSize = 16
	asyncTimeout  = 5 * time.Second

	// Interaction budget per viewer: sustained rate and burst.
	limitPer   = time.Second
	limitRate  = 5
	limitBurst = 10
)

type Opts struct {
	fx.In

	LC         fx.Lifecycle `optional:"true"`
	Store      store.Client
	Aggregator aggregator.Client
	Tracker    tracker.Client
	Composer   composer.Client
	Logger     logger.Logger
	Config     *config.Config
}

type Impl struct {
	Store      store.Client
	Aggregator aggregator.Client
	Tracker    tracker.Client
	Composer   composer.Client
	Logger     logger.Logger
	Config     *config.Config

	limiter ratelimit.Limiter
	pool    *ants.Pool
}

func New(opts Opts) (*Impl, error) {
	pool, err := ants.NewPool(asyncPoolSize, ants.WithPreAlloc(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	e := &Impl{
		Store:      opts.Store,
		Aggregator: opts.Aggregator,
		Tracker:    opts.Tracker,
		Composer:   opts.Composer,
		Logger:     opts.Logger,
		Config:     opts.Config,
		limiter:    ratelimit.NewInMemoryLimiter(limitRate, limitPer, limitBurst),
		pool:       pool,
	}

	if opts.LC != nil {
		opts.LC.Append(fx.Hook{
			OnStop: func(context.Context) error {
				e.pool.Release()
				return nil
			},
		})
	}

	return e, nil
}

var _ engine.Client = (*Impl)(nil)

func (e *Impl) CreateStory(ctx context.Context, draft domain.StoryDraft) (*domain.Story, error) {
	validated, err := e.Composer.Validate(draft)
	if err != nil {
		return nil, err
	}

	var story *domain.Story
	err = retry.Do(ctx, e.Logger, "engine.CreateStory", func() error {
		var err error
		story, err = e.Composer.Publish(ctx, validated)
		return err
	}, retry.DefaultConfig())
	if err != nil {
		return nil, pkgerrors.WrapWithCode(err, pkgerrors.CodeTransient, "failed to publish story")
	}

	return story, nil
}

func (e *Impl) Vote(ctx context.Context, storyID, pollID, voterID, option string) (*aggregator.Tally, error) {
	if !e.limiter.Allow(voterID) {
		return nil, pkgerrors.WrapWithCode(engine.ErrRateLimited, pkgerrors.CodeRateLimit, "vote rejected")
	}
	return e.Aggregator.Vote(ctx, storyID, pollID, voterID, option)
}

func (e *Impl) Respond(ctx context.Context, storyID, questionID, responderID, text string) (*domain.Response, error) {
	if !e.limiter.Allow(responderID) {
		return nil, pkgerrors.WrapWithCode(engine.ErrRateLimited, pkgerrors.CodeRateLimit, "response rejected")
	}
	return e.Aggregator.Respond(ctx, storyID, questionID, responderID, text)
}

func (e *Impl) MarkViewed(ctx context.Context, viewerID, storyID string) error {
	return e.Tracker.MarkViewed(ctx, viewerID, storyID)
}

func (e *Impl) ListActiveFeed(ctx context.Context, viewerID string) ([]*domain.Story, error) {
	stories, err := e.Store.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.WrapWithCode(err, pkgerrors.CodeTransient, "failed to load feed")
	}
	return e.Tracker.OrderForViewer(ctx, viewerID, stories)
}

func (e *Impl) NewSession(ctx context.Context, viewerID string, opts ...playback.Option) (*playback.Controller, error) {
	feed, err := e.ListActiveFeed(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	controller := playback.NewController(e.sinkFor(viewerID), opts...)
	controller.Load(feed)
	return controller, nil
}

// submit queues a fire-and-forget persistence job on the worker pool.
// Failures are logged, never propagated to playback.
func (e *Impl) submit(name string, fn func(ctx context.Context) error) {
	err := e.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			e.Logger.Error("Async job failed", "job", name, "error", err)
		}
	})
	if err != nil {
		e.Logger.Error("Failed to submit async job", "job", name, "error", err)
	}
}
