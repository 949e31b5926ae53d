package composerimpl

import (
	"context"
	"strings"

	"github.com/davitran/stories-engine/internal/composer"
	"github.com/davitran/stories-engine/internal/domain"
	"github.com/davitran/stories-engine/internal/store"
	"github.com/davitran/stories-engine/pkg/config"
	"github.com/davitran/stories-engine/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	minPollOptions = 2
	maxPollOptions = 4
)

type Opts struct {
	fx.In

	Store  store.Client
	Logger logger.Logger
	Config *config.Config
}

type Impl struct {
	Store  store.Client
	Logger logger.Logger
	Config *config.Config
}

func New(opts Opts) *Impl {
	return &Impl{
		Store:  opts.Store,
		Logger: opts.Logger,
		Config: opts.Config,
	}
}

var _ composer.Client = (*Impl)(nil)

func (c *Impl) Validate(draft domain.StoryDraft) (domain.ValidatedDraft, error) {
	var zero domain.ValidatedDraft

	if draft.AuthorID == "" {
		return zero, domain.NewValidationError("author id is required")
	}

	switch draft.Kind {
	case domain.StoryKindPhoto, domain.StoryKindVideo:
		if draft.MediaRef == "" {
			return zero, domain.NewValidationError("%s story requires a media reference", draft.Kind)
		}
		if strings.TrimSpace(draft.TextContent) != "" {
			return zero, domain.NewValidationError("%s story cannot carry text content", draft.Kind)
		}
		if draft.Kind == domain.StoryKindVideo && draft.DurationHint <= 0 {
			return zero, domain.NewValidationError("video story requires a positive duration")
		}
	case domain.StoryKindText:
		if strings.TrimSpace(draft.TextContent) == "" {
			return zero, domain.NewValidationError("text story requires text content")
		}
		if draft.MediaRef != "" {
			return zero, domain.NewValidationError("text story cannot carry a media reference")
		}
	default:
		return zero, domain.NewValidationError("unknown story kind %q", draft.Kind)
	}

	if len(draft.Overlays) > c.Config.Engine.MaxOverlays {
		return zero, domain.NewValidationError("too many overlays: %d (max %d)", len(draft.Overlays), c.Config.Engine.MaxOverlays)
	}

	for _, o := range draft.Overlays {
		x, y := o.Pos()
		if x < 0 || x > 100 || y < 0 || y > 100 {
			return zero, domain.NewValidationError("overlay position (%g, %g) outside [0,100]", x, y)
		}

		switch v := o.(type) {
		case *domain.Poll:
			if err := validatePoll(v); err != nil {
				return zero, err
			}
			if v.ID == "" {
				v.ID = uuid.NewString()
			}
		case *domain.Question:
			if strings.TrimSpace(v.Prompt) == "" {
				return zero, domain.NewValidationError("question overlay requires a prompt")
			}
			if v.ID == "" {
				v.ID = uuid.NewString()
			}
		}
	}

	if draft.Visibility == "" {
		draft.Visibility = domain.VisibilityFollowers
	}

	return domain.NewValidatedDraft(draft), nil
}

func validatePoll(p *domain.Poll) error {
	if strings.TrimSpace(p.Question) == "" {
		return domain.NewValidationError("poll overlay requires a question")
	}
	if len(p.Options) < minPollOptions || len(p.Options) > maxPollOptions {
		return domain.NewValidationError("poll requires between %d and %d options, got %d", minPollOptions, maxPollOptions, len(p.Options))
	}

	seen := make(map[string]bool, len(p.Options))
	for _, opt := range p.Options {
		if strings.TrimSpace(opt) == "" {
			return domain.NewValidationError("poll option cannot be empty")
		}
		if seen[opt] {
			return domain.NewValidationError("poll option %q appears twice", opt)
		}
		seen[opt] = true
	}
	return nil
}

func (c *Impl) Publish(ctx context.Context, validated domain.ValidatedDraft) (*domain.Story, error) {
	story, err := c.Store.Create(ctx, validated)
	if err != nil {
		return nil, err
	}

	c.Logger.Info("Story published", "story_id", story.ID, "author_id", story.AuthorID)
	return story, nil
}
