package aggregatorimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/davitran/stories-engine/internal/aggregator"
	"github.com/davitran/stories-engine/internal/domain"
	"github.com/davitran/stories-engine/pkg/retry"
	"github.com/google/uuid"
)

func (a *Impl) Respond(ctx context.Context, storyID, questionID, responderID, text string) (*domain.Response, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, domain.ErrEmptyText
	}

	story, err := a.Store.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if !story.Active(a.Clock.Now()) {
		return nil, domain.ErrAlreadyExpired
	}

	if _, ok := story.QuestionByID(questionID); !ok {
		return nil, aggregator.ErrQuestionNotFound
	}

	resp := domain.Response{
		ID:          uuid.NewString(),
		ResponderID: responderID,
		Text:        trimmed,
		CreatedAt:   a.Clock.Now(),
	}

	// Appends only; the same responder may answer any number of times.
	lock := a.locks.get(questionID)
	lock.Lock()
	defer lock.Unlock()

	err = retry.Do(ctx, a.Logger, "aggregator.AddResponse", func() error {
		return a.InteractionRepo.AddResponse(ctx, storyID, questionID, resp)
	}, retry.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to record response on question %s: %w", questionID, err)
	}

	a.Logger.Info("Response recorded", "story_id", storyID, "question_id", questionID, "response_id", resp.ID)
	return &resp, nil
}

func (a *Impl) Responses(ctx context.Context, storyID, questionID string, limit, offset int) ([]*domain.Response, error) {
	story, err := a.Store.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if _, ok := story.QuestionByID(questionID); !ok {
		return nil, aggregator.ErrQuestionNotFound
	}

	max := a.Config.Engine.ResponsePageMax
	if limit <= 0 || limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}

	return a.InteractionRepo.ListResponses(ctx, questionID, limit, offset)
}
