package interaction

import (
	"context"
	"errors"

	"github.com/davitran/stories-engine/internal/domain"
)

var ErrNotFound = errors.New("interaction not found")
var ErrCannotCreate = errors.New("error create interaction")

// PollState is the aggregate vote state of one poll. The invariant
// sum(Counts) == Voters holds at all times.
type PollState struct {
	Counts map[string]int
	Voters int
}

//go:generate go run go.uber.org/mock/mockgen -source=interaction.go -destination=mocks/mock.go

type Repository interface {
	// AddVote records voterID's vote for option. Returns applied=false when
	// the voter has already voted; in that case no count changes. The insert
	// and the count change are one atomic operation per poll.
	AddVote(ctx context.Context, storyID, pollID, voterID, option string) (applied bool, err error)

	PollState(ctx context.Context, pollID string) (*PollState, error)

	// AddResponse appends a response to a question. Responses keep insertion
	// order and are never mutated afterwards.
	AddResponse(ctx context.Context, storyID, questionID string, resp domain.Response) error

	// ListResponses returns responses in insertion order. limit <= 0 means
	// no limit; offset skips from the start.
	ListResponses(ctx context.Context, questionID string, limit, offset int) ([]*domain.Response, error)
}
