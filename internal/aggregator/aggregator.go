package aggregator

import (
	"context"
	"errors"

	"github.com/davitran/stories-engine/internal/domain"
)

var ErrPollNotFound = errors.New("poll not found on story")
var ErrQuestionNotFound = errors.New("question not found on story")

// Tally is the aggregated vote state of a poll. Percentages are count/total,
// zero when nobody voted yet. Duplicate is set when the tally was returned to
// a voter whose repeat vote was ignored.
type Tally struct {
	Counts      map[string]int
	Total       int
	Percentages map[string]float64
	Duplicate   bool
}

// Client applies votes and responses to overlays of active stories.
// Vote application is serialized per poll, never globally.
type Client interface {
	// Vote casts voterID's one-shot vote. Repeat votes by the same voter do
	// not change counts; the current tally comes back with Duplicate set.
	Vote(ctx context.Context, storyID, pollID, voterID, option string) (*Tally, error)

	// Respond appends a free-text answer to a question overlay. Responders
	// may answer the same question more than once.
	Respond(ctx context.Context, storyID, questionID, responderID, text string) (*domain.Response, error)

	Tally(ctx context.Context, storyID, pollID string) (*Tally, error)

	// Responses returns a page of answers in insertion order. The page size
	// is capped by configuration.
	Responses(ctx context.Context, storyID, questionID string, limit, offset int) ([]*domain.Response, error)
}
