package playback

import (
	"testing"
	"time"

	"github.com/davitran/stories-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures side effects synchronously for assertions.
type recordingSink struct {
	viewed    []string
	votes     [][3]string
	responses [][3]string
}

func (r *recordingSink) MarkViewed(storyID string) {
	r.viewed = append(r.viewed, storyID)
}

func (r *recordingSink) Vote(storyID, pollID, option string) {
	r.votes = append(r.votes, [3]string{storyID, pollID, option})
}

func (r *recordingSink) Respond(storyID, questionID, text string) {
	r.responses = append(r.responses, [3]string{storyID, questionID, text})
}

func queue(durations ...int) []*domain.Story {
	stories := make([]*domain.Story, len(durations))
	for i, d := range durations {
		stories[i] = &domain.Story{
			ID:           string(rune('a' + i)),
			Kind:         domain.StoryKindText,
			DurationHint: d,
		}
	}
	return stories
}

func TestLoad_EmptyQueueStaysIdle(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)

	c.Load(nil)

	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, sink.viewed)

	// Navigation on an idle controller is a no-op, not an error.
	c.Advance()
	c.Previous()
	c.Tick(time.Second)
	assert.Equal(t, StateIdle, c.State())
}

func TestLoad_StartsPlayingAndMarksFirstStory(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)

	c.Load(queue(5, 5, 5))

	assert.Equal(t, StatePlaying, c.State())
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, time.Duration(0), c.Elapsed())
	assert.Equal(t, []string{"a"}, sink.viewed)
}

func TestTick_WalksQueueAndWrapsToStart(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)
	c.Load(queue(5, 5, 5))

	// Cumulative ticks below the duration do not advance.
	c.Tick(2 * time.Second)
	c.Tick(2 * time.Second)
	assert.Equal(t, 0, c.Index())

	c.Tick(time.Second)
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, time.Duration(0), c.Elapsed())

	c.Tick(5 * time.Second)
	assert.Equal(t, 2, c.Index())

	// Past the last story the default policy wraps to the start.
	c.Tick(5 * time.Second)
	assert.Equal(t, StatePlaying, c.State())
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, []string{"a", "b", "c", "a"}, sink.viewed)
}

func TestAdvance_TerminalWhenLoopDisabled(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink, WithLoop(false))
	c.Load(queue(5, 5))

	c.Advance()
	assert.Equal(t, 1, c.Index())

	c.Advance()
	assert.Equal(t, StateFinished, c.State())

	// Finished is terminal for navigation and ticks.
	c.Advance()
	c.Previous()
	c.Tick(10 * time.Second)
	assert.Equal(t, StateFinished, c.State())
	assert.Equal(t, []string{"a", "b"}, sink.viewed)
}

func TestPrevious_FloorsAtZero(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)
	c.Load(queue(5, 5, 5))

	c.Advance()
	c.Advance()
	require.Equal(t, 2, c.Index())

	c.Previous()
	assert.Equal(t, 1, c.Index())
	c.Previous()
	assert.Equal(t, 0, c.Index())

	// At the first story, previous restarts it instead of wrapping back.
	c.Previous()
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, StatePlaying, c.State())
}

func TestPause_FreezesElapsedWithoutCatchUp(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)
	c.Load(queue(5))

	c.Tick(2 * time.Second)
	c.Pause()
	assert.Equal(t, StatePaused, c.State())

	// Ticks during the pause are stale timer callbacks; nothing accrues.
	c.Tick(10 * time.Second)
	c.Tick(10 * time.Second)
	assert.Equal(t, 2*time.Second, c.Elapsed())
	assert.Equal(t, 0, c.Index())

	c.Resume()
	assert.Equal(t, StatePlaying, c.State())
	assert.Equal(t, 2*time.Second, c.Elapsed())

	// Exactly the remaining time triggers the advance.
	c.Tick(3 * time.Second)
	assert.Equal(t, []string{"a", "a"}, sink.viewed) // single story, wrapped
}

func TestPauseResume_OnlyFromAdjacentStates(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)

	// Neither does anything while idle.
	c.Pause()
	c.Resume()
	assert.Equal(t, StateIdle, c.State())

	c.Load(queue(5))
	c.Resume() // not paused; no-op
	assert.Equal(t, StatePlaying, c.State())
}

func TestJumpTo_RestartsTimerAndMarksViewed(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)
	c.Load(queue(5, 5, 5))

	c.Tick(3 * time.Second)
	c.JumpTo(2)

	assert.Equal(t, 2, c.Index())
	assert.Equal(t, time.Duration(0), c.Elapsed())
	assert.Equal(t, []string{"a", "c"}, sink.viewed)

	// Jumping to the current index re-enters it and re-fires the mark.
	c.JumpTo(2)
	assert.Equal(t, []string{"a", "c", "c"}, sink.viewed)

	// Out-of-range jumps are ignored.
	c.JumpTo(7)
	c.JumpTo(-1)
	assert.Equal(t, 2, c.Index())
}

func TestJumpTo_ResumesFromPaused(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)
	c.Load(queue(5, 5))

	c.Pause()
	c.JumpTo(1)

	assert.Equal(t, StatePlaying, c.State())
	assert.Equal(t, 1, c.Index())
}

func TestClose_DiscardsQueueAndStopsStaleTicks(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)
	c.Load(queue(5, 5))
	c.Tick(2 * time.Second)

	c.Close()

	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Current())

	// A timer callback that fires after Close must not advance anything.
	c.Tick(10 * time.Second)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, []string{"a"}, sink.viewed)

	// The controller is reusable after Close.
	c.Load(queue(5))
	assert.Equal(t, StatePlaying, c.State())
}

func TestVideoDurationComesFromStory(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)
	c.Load([]*domain.Story{
		{ID: "v", Kind: domain.StoryKindVideo, DurationHint: 12},
		{ID: "p", Kind: domain.StoryKindPhoto, DurationHint: 5},
	})

	c.Tick(11 * time.Second)
	assert.Equal(t, 0, c.Index())
	c.Tick(time.Second)
	assert.Equal(t, 1, c.Index())
}

func TestDefaultDurationFallback(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink, WithDefaultDuration(2*time.Second))
	c.Load([]*domain.Story{{ID: "x", Kind: domain.StoryKindText}})

	c.Tick(2 * time.Second)
	assert.Equal(t, []string{"x", "x"}, sink.viewed) // wrapped after 2s
}

func TestVoteAndRespondForwardCurrentStory(t *testing.T) {
	sink := &recordingSink{}
	c := NewController(sink)
	c.Load(queue(5, 5))
	c.Advance()

	c.Vote("poll-1", "A")
	c.Respond("question-1", "hello")

	require.Len(t, sink.votes, 1)
	assert.Equal(t, [3]string{"b", "poll-1", "A"}, sink.votes[0])
	require.Len(t, sink.responses, 1)
	assert.Equal(t, [3]string{"b", "question-1", "hello"}, sink.responses[0])

	// No current story, no event.
	c.Close()
	c.Vote("poll-1", "A")
	assert.Len(t, sink.votes, 1)
}
