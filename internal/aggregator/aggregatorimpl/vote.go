package aggregatorimpl

import (
	"context"
	"fmt"

	"github.com/davitran/stories-engine/internal/aggregator"
	"github.com/davitran/stories-engine/internal/domain"
	"github.com/davitran/stories-engine/pkg/retry"
)

func (a *Impl) Vote(ctx context.Context, storyID, pollID, voterID, option string) (*aggregator.Tally, error) {
	story, err := a.Store.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if !story.Active(a.Clock.Now()) {
		return nil, domain.ErrAlreadyExpired
	}

	poll, ok := story.PollByID(pollID)
	if !ok {
		return nil, aggregator.ErrPollNotFound
	}

	if !poll.HasOption(option) {
		return nil, domain.ErrUnknownOption
	}

	// Serialize per poll: the duplicate check, the insert, and the tally read
	// below see a consistent vote set even under concurrent voters.
	lock := a.locks.get(pollID)
	lock.Lock()
	defer lock.Unlock()

	var applied bool
	err = retry.Do(ctx, a.Logger, "aggregator.AddVote", func() error {
		var err error
		applied, err = a.InteractionRepo.AddVote(ctx, storyID, pollID, voterID, option)
		return err
	}, retry.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to record vote on poll %s: %w", pollID, err)
	}

	state, err := a.InteractionRepo.PollState(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to read poll state %s: %w", pollID, err)
	}

	tally := tallyFromState(state, poll.Options)
	if !applied {
		// A repeat vote is benign: the caller wants the tally either way.
		tally.Duplicate = true
		a.Logger.Debug("Duplicate vote ignored", "poll_id", pollID, "voter_id", voterID)
		return tally, nil
	}

	a.Logger.Info("Vote recorded", "story_id", storyID, "poll_id", pollID, "option", option, "total", tally.Total)
	return tally, nil
}

func (a *Impl) Tally(ctx context.Context, storyID, pollID string) (*aggregator.Tally, error) {
	story, err := a.Store.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}

	poll, ok := story.PollByID(pollID)
	if !ok {
		return nil, aggregator.ErrPollNotFound
	}

	state, err := a.InteractionRepo.PollState(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to read poll state %s: %w", pollID, err)
	}

	return tallyFromState(state, poll.Options), nil
}
