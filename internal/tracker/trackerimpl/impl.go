package trackerimpl

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/davitran/stories-engine/internal/domain"
	viewstateRepo "github.com/davitran/stories-engine/internal/repositories/viewstate"
	"github.com/davitran/stories-engine/internal/tracker"
	"github.com/davitran/stories-engine/pkg/logger"
	"github.com/davitran/stories-engine/pkg/retry"
	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	ViewStateRepo viewstateRepo.Repository
	Logger        logger.Logger
	Clock         clockwork.Clock
}

type Impl struct {
	ViewStateRepo viewstateRepo.Repository
	Logger        logger.Logger
	Clock         clockwork.Clock
}

func New(opts Opts) *Impl {
	return &Impl{
		ViewStateRepo: opts.ViewStateRepo,
		Logger:        opts.Logger,
		Clock:         opts.Clock,
	}
}

var _ tracker.Client = (*Impl)(nil)

func (t *Impl) MarkViewed(ctx context.Context, viewerID, storyID string) error {
	vs := domain.ViewState{
		ViewerID:      viewerID,
		StoryID:       storyID,
		FirstViewedAt: t.Clock.Now(),
	}

	err := retry.Do(ctx, t.Logger, "tracker.MarkViewed", func() error {
		return t.ViewStateRepo.Create(ctx, vs)
	}, retry.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to mark story %s viewed: %w", storyID, err)
	}

	return nil
}

func (t *Impl) HasViewed(ctx context.Context, viewerID, storyID string) (bool, error) {
	_, err := t.ViewStateRepo.Get(ctx, viewerID, storyID)
	if err != nil {
		if errors.Is(err, viewstateRepo.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check view state: %w", err)
	}
	return true, nil
}

func (t *Impl) OrderForViewer(ctx context.Context, viewerID string, stories []*domain.Story) ([]*domain.Story, error) {
	ids := make([]string, len(stories))
	for i, s := range stories {
		ids[i] = s.ID
	}

	viewed, err := t.ViewStateRepo.ViewedSet(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewed set for %s: %w", viewerID, err)
	}

	ordered := make([]*domain.Story, len(stories))
	copy(ordered, stories)

	sort.SliceStable(ordered, func(i, j int) bool {
		vi, vj := viewed[ordered[i].ID], viewed[ordered[j].ID]
		if vi != vj {
			return !vi
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	return ordered, nil
}
