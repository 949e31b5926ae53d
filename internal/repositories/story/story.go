package story

import (
	"context"
	"errors"
	"time"

	"github.com/davitran/stories-engine/internal/domain"
)

var ErrNotFound = errors.New("story not found")
var ErrCannotCreate = errors.New("error create story")

//go:generate go run go.uber.org/mock/mockgen -source=story.go -destination=mocks/mock.go

type Repository interface {
	Create(ctx context.Context, story domain.Story) error
	GetByID(ctx context.Context, id string) (*domain.Story, error)

	// ListByAuthor returns the author's stories in creation order, expired
	// ones included. Expiry filtering belongs to the store service.
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Story, error)

	// ListAll returns every stored story in creation order.
	ListAll(ctx context.Context) ([]*domain.Story, error)

	// DeleteExpiredBefore removes non-highlight stories whose expiry is older
	// than the cutoff and returns the number of rows removed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
