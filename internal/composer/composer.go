package composer

import (
	"context"

	"github.com/davitran/stories-engine/internal/domain"
)

// Client turns a raw draft into a publishable story.
type Client interface {
	// Validate applies the composition rules and returns the draft wrapped
	// as validated, or a domain.ValidationError naming the first violation.
	Validate(draft domain.StoryDraft) (domain.ValidatedDraft, error)

	// Publish hands a validated draft to the store.
	Publish(ctx context.Context, validated domain.ValidatedDraft) (*domain.Story, error)
}
