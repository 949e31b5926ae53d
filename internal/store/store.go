package store

import (
	"context"

	"github.com/davitran/stories-engine/internal/domain"
)

// Client is the story store: the durable home for stories and their TTL.
// Expiry is evaluated lazily against the injected clock; nothing here depends
// on a background sweep.
type Client interface {
	// Create assigns id and timestamps and persists the draft as a story.
	Create(ctx context.Context, draft domain.ValidatedDraft) (*domain.Story, error)

	// Get returns a story by id, expired ones included. Expired stories are
	// read-only for analytics and highlight purposes.
	Get(ctx context.Context, id string) (*domain.Story, error)

	// ListActiveByAuthor returns the author's stories in creation order,
	// excluding expired ones unless they are highlights.
	ListActiveByAuthor(ctx context.Context, authorID string) ([]*domain.Story, error)

	// ListActive returns every currently active story in creation order.
	// Highlights get no exemption here: an expired highlight never re-enters
	// the ephemeral playback queue.
	ListActive(ctx context.Context) ([]*domain.Story, error)

	// IsActive reports whether the story exists and is inside its window.
	IsActive(ctx context.Context, id string) (bool, error)
}
