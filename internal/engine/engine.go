package engine

import (
	"context"
	"errors"

	"github.com/davitran/stories-engine/internal/aggregator"
	"github.com/davitran/stories-engine/internal/domain"
	"github.com/davitran/stories-engine/internal/playback"
)

// ErrRateLimited is returned when a viewer exceeds the interaction budget.
var ErrRateLimited = errors.New("too many interactions, slow down")

// Client is the engine's inbound boundary. Transport (HTTP, grpc, realtime
// push) is a collaborator's concern; these are the shapes it calls.
type Client interface {
	// CreateStory validates and publishes a draft.
	CreateStory(ctx context.Context, draft domain.StoryDraft) (*domain.Story, error)

	Vote(ctx context.Context, storyID, pollID, voterID, option string) (*aggregator.Tally, error)

	Respond(ctx context.Context, storyID, questionID, responderID, text string) (*domain.Response, error)

	MarkViewed(ctx context.Context, viewerID, storyID string) error

	// ListActiveFeed returns all active stories ordered for the viewer:
	// unviewed first, creation order within each group.
	ListActiveFeed(ctx context.Context, viewerID string) ([]*domain.Story, error)

	// NewSession builds a playback controller over the viewer's current feed.
	// The controller's side effects (view marks, votes, responses) flow back
	// into the engine fire-and-forget.
	NewSession(ctx context.Context, viewerID string, opts ...playback.Option) (*playback.Controller, error)
}
