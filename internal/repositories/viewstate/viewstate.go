package viewstate

import (
	"context"
	"errors"

	"github.com/davitran/stories-engine/internal/domain"
)

var ErrNotFound = errors.New("view state not found")

//go:generate go run go.uber.org/mock/mockgen -source=viewstate.go -destination=mocks/mock.go

type Repository interface {
	// Create records a first view. Idempotent: a second create for the same
	// (viewer, story) pair is a no-op and keeps the original timestamp.
	Create(ctx context.Context, vs domain.ViewState) error

	Get(ctx context.Context, viewerID, storyID string) (*domain.ViewState, error)

	// ViewedSet reports which of the given story ids the viewer has seen.
	// Absent ids are simply missing from the result map.
	ViewedSet(ctx context.Context, viewerID string, storyIDs []string) (map[string]bool, error)
}
