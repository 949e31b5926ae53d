package aggregatorimpl

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/davitran/stories-engine/internal/aggregator"
	"github.com/davitran/stories-engine/internal/domain"
	interactionRepo "github.com/davitran/stories-engine/internal/repositories/interaction"
	storyRepo "github.com/davitran/stories-engine/internal/repositories/story"
	"github.com/davitran/stories-engine/internal/store/storeimpl"
	"github.com/davitran/stories-engine/pkg/config"
	"github.com/davitran/stories-engine/pkg/logger"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	agg   *Impl
	story *domain.Story
	clock *clockwork.FakeClock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Engine.StoryTTL = 24 * time.Hour
	cfg.Engine.DefaultStoryDuration = 5 * time.Second
	cfg.Engine.MaxOverlays = 10
	cfg.Engine.ResponsePageMax = 100
	return cfg
}

// newFixture builds an aggregator over a memory-backed store holding one
// story with one poll ("A or B?") and one question.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := clockwork.NewFakeClock()
	cfg := testConfig()
	log := logger.New(logger.Opts{Env: "test"})

	st := storeimpl.New(storeimpl.Opts{
		StoryRepo: storyRepo.NewMemory(),
		Logger:    log,
		Config:    cfg,
		Clock:     clock,
	})

	story, err := st.Create(context.Background(), domain.NewValidatedDraft(domain.StoryDraft{
		AuthorID:    "author-1",
		Kind:        domain.StoryKindText,
		TextContent: "vote now",
		Overlays: []domain.Overlay{
			&domain.Poll{ID: "poll-1", Question: "A or B?", Options: []string{"A", "B"}, X: 50, Y: 40},
			&domain.Question{ID: "question-1", Prompt: "Ask me anything", X: 50, Y: 70},
		},
	}))
	require.NoError(t, err)

	agg := New(Opts{
		Store:           st,
		InteractionRepo: interactionRepo.NewMemory(),
		Logger:          log,
		Config:          cfg,
		Clock:           clock,
	})

	return &fixture{agg: agg, story: story, clock: clock}
}

func TestVote_RecordsAndComputesPercentages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tally, err := f.agg.Vote(ctx, f.story.ID, "poll-1", "voter-1", "A")
	require.NoError(t, err)

	assert.Equal(t, 1, tally.Total)
	assert.Equal(t, 1, tally.Counts["A"])
	assert.Equal(t, 0, tally.Counts["B"])
	assert.Equal(t, 1.0, tally.Percentages["A"])
	assert.Equal(t, 0.0, tally.Percentages["B"])
	assert.False(t, tally.Duplicate)
}

func TestVote_UnknownOption(t *testing.T) {
	f := newFixture(t)

	_, err := f.agg.Vote(context.Background(), f.story.ID, "poll-1", "voter-1", "C")
	assert.ErrorIs(t, err, domain.ErrUnknownOption)
}

func TestVote_UnknownPoll(t *testing.T) {
	f := newFixture(t)

	_, err := f.agg.Vote(context.Background(), f.story.ID, "poll-9", "voter-1", "A")
	assert.ErrorIs(t, err, aggregator.ErrPollNotFound)
}

func TestVote_ExpiredStory(t *testing.T) {
	f := newFixture(t)
	f.clock.Advance(25 * time.Hour)

	_, err := f.agg.Vote(context.Background(), f.story.ID, "poll-1", "voter-1", "A")
	assert.ErrorIs(t, err, domain.ErrAlreadyExpired)
}

// One-shot voting: voter1 votes A, voter2 votes B, voter1 votes A again.
// Final tally stays {A:1, B:1} with two voters.
func TestVote_RepeatVoteIsBenign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.agg.Vote(ctx, f.story.ID, "poll-1", "voter-1", "A")
	require.NoError(t, err)
	_, err = f.agg.Vote(ctx, f.story.ID, "poll-1", "voter-2", "B")
	require.NoError(t, err)

	tally, err := f.agg.Vote(ctx, f.story.ID, "poll-1", "voter-1", "A")
	require.NoError(t, err)

	assert.True(t, tally.Duplicate)
	assert.Equal(t, 2, tally.Total)
	assert.Equal(t, 1, tally.Counts["A"])
	assert.Equal(t, 1, tally.Counts["B"])

	// Even a vote for the other option changes nothing once cast.
	tally, err = f.agg.Vote(ctx, f.story.ID, "poll-1", "voter-1", "B")
	require.NoError(t, err)
	assert.True(t, tally.Duplicate)
	assert.Equal(t, 2, tally.Total)
	assert.Equal(t, 1, tally.Counts["B"])
}

// The core consistency invariant: under concurrent voters the vote sum always
// equals the voter count, with no lost increments.
func TestVote_ConcurrentVotersLoseNoIncrements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const voters = 100
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			option := "A"
			if n%2 == 1 {
				option = "B"
			}
			_, err := f.agg.Vote(ctx, f.story.ID, "poll-1", fmt.Sprintf("voter-%d", n), option)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	tally, err := f.agg.Tally(ctx, f.story.ID, "poll-1")
	require.NoError(t, err)
	assert.Equal(t, voters, tally.Total)
	assert.Equal(t, voters, tally.Counts["A"]+tally.Counts["B"])
	assert.Equal(t, voters/2, tally.Counts["A"])
	assert.Equal(t, voters/2, tally.Counts["B"])
}

func TestTally_EmptyPoll(t *testing.T) {
	f := newFixture(t)

	tally, err := f.agg.Tally(context.Background(), f.story.ID, "poll-1")
	require.NoError(t, err)
	assert.Equal(t, 0, tally.Total)
	assert.Equal(t, 0.0, tally.Percentages["A"])
	assert.Equal(t, 0.0, tally.Percentages["B"])
}

func TestRespond_AppendsInOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.agg.Respond(ctx, f.story.ID, "question-1", "viewer-1", "  first  ")
	require.NoError(t, err)
	assert.Equal(t, "first", first.Text)

	// The same responder may answer again.
	_, err = f.agg.Respond(ctx, f.story.ID, "question-1", "viewer-1", "second")
	require.NoError(t, err)
	_, err = f.agg.Respond(ctx, f.story.ID, "question-1", "viewer-2", "third")
	require.NoError(t, err)

	responses, err := f.agg.Responses(ctx, f.story.ID, "question-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	assert.Equal(t, "first", responses[0].Text)
	assert.Equal(t, "second", responses[1].Text)
	assert.Equal(t, "third", responses[2].Text)
}

func TestRespond_EmptyTextRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.agg.Respond(context.Background(), f.story.ID, "question-1", "viewer-1", "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyText)
}

func TestRespond_ExpiredStory(t *testing.T) {
	f := newFixture(t)
	f.clock.Advance(25 * time.Hour)

	_, err := f.agg.Respond(context.Background(), f.story.ID, "question-1", "viewer-1", "too late")
	assert.ErrorIs(t, err, domain.ErrAlreadyExpired)
}

func TestResponses_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.agg.Respond(ctx, f.story.ID, "question-1", "viewer-1", fmt.Sprintf("answer %d", i))
		require.NoError(t, err)
	}

	page, err := f.agg.Responses(ctx, f.story.ID, "question-1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "answer 2", page[0].Text)
	assert.Equal(t, "answer 3", page[1].Text)

	// Limits above the configured cap are clamped.
	f.agg.Config.Engine.ResponsePageMax = 3
	page, err = f.agg.Responses(ctx, f.story.ID, "question-1", 50, 0)
	require.NoError(t, err)
	assert.Len(t, page, 3)
}

func TestResponses_UnknownQuestion(t *testing.T) {
	f := newFixture(t)

	_, err := f.agg.Responses(context.Background(), f.story.ID, "question-9", 0, 0)
	assert.ErrorIs(t, err, aggregator.ErrQuestionNotFound)
}
