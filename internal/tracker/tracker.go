package tracker

import (
	"context"

	"github.com/davitran/stories-engine/internal/domain"
)

// Client tracks per-viewer consumption state and orders feeds so unviewed
// stories come first.
type Client interface {
	// MarkViewed records the first view of a story. Idempotent: repeat calls
	// for the same pair are no-ops and never bump the timestamp.
	MarkViewed(ctx context.Context, viewerID, storyID string) error

	HasViewed(ctx context.Context, viewerID, storyID string) (bool, error)

	// OrderForViewer stable-sorts stories by (hasViewed asc, createdAt asc):
	// unviewed in creation order, then viewed in creation order.
	OrderForViewer(ctx context.Context, viewerID string, stories []*domain.Story) ([]*domain.Story, error)
}
