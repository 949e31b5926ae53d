package storeimpl

import (
	"context"
	"errors"
	"fmt"

	"github.com/davitran/stories-engine/internal/domain"
	storyRepo "github.com/davitran/stories-engine/internal/repositories/story"
	"github.com/davitran/stories-engine/internal/store"
	"github.com/davitran/stories-engine/pkg/config"
	"github.com/davitran/stories-engine/pkg/logger"
	"github.com/google/uuid"
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

var _ store.Client = (*Impl)(nil)

func (s *Impl) Create(ctx context.Context, validated domain.ValidatedDraft) (*domain.Story, error) {
	draft := validated.Draft()
	now := s.Clock.Now()

	story := domain.Story{
		ID:              uuid.NewString(),
		AuthorID:        draft.AuthorID,
		Kind:            draft.Kind,
		MediaRef:        draft.MediaRef,
		ThumbnailRef:    draft.ThumbnailRef,
		TextContent:     draft.TextContent,
		BackgroundStyle: draft.BackgroundStyle,
		TextStyle:       draft.TextStyle,
		FontFamily:      draft.FontFamily,
		DurationHint:    draft.DurationHint,
		Music:           draft.Music,
		Visibility:      draft.Visibility,
		AllowReplies:    draft.AllowReplies,
		AllowSharing:    draft.AllowSharing,
		Overlays:        draft.Overlays,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.Config.Engine.StoryTTL),
		IsHighlight:     draft.IsHighlight,
	}

	// Photos and text stories play for a fixed default; only videos carry
	// their own duration.
	if story.Kind != domain.StoryKindVideo {
		story.DurationHint = int(s.Config.Engine.DefaultStoryDuration.Seconds())
	}

	if err := s.StoryRepo.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	s.Logger.Info("Story created", "story_id", story.ID, "author_id", story.AuthorID, "kind", story.Kind, "expires_at", story.ExpiresAt)
	return &story, nil
}

func (s *Impl) Get(ctx context.Context, id string) (*domain.Story, error) {
	return s.StoryRepo.GetByID(ctx, id)
}

func (s *Impl) ListActiveByAuthor(ctx context.Context, authorID string) ([]*domain.Story, error) {
	stories, err := s.StoryRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories for author %s: %w", authorID, err)
	}

	now := s.Clock.Now()
	var out []*domain.Story
	for _, st := range stories {
		if st.Active(now) || st.IsHighlight {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Impl) ListActive(ctx context.Context) ([]*domain.Story, error) {
	stories, err := s.StoryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}

	now := s.Clock.Now()
	var out []*domain.Story
	for _, st := range stories {
		if st.Active(now) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Impl) IsActive(ctx context.Context, id string) (bool, error) {
	st, err := s.StoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storyRepo.ErrNotFound) {
			return false, err
		}
		return false, fmt.Errorf("failed to check story %s: %w", id, err)
	}
	return st.Active(s.Clock.Now()), nil
}
