package playback

import (
	"time"

	"github.com/davitran/stories-engine/internal/domain"
)

// Controller drives one viewer's auto-advancing pass through an ordered story
// queue. It is session-local by design: one instance per viewer and device,
// driven by a single goroutine, so it takes no locks. Ticks come from an
// external timer; the controller itself never blocks or does I/O.
type Controller struct {
	sink            Sink
	loop            bool
	defaultDuration time.Duration

	state   State
	queue   []*domain.Story
	index   int
	elapsed time.Duration
}

func NewController(sink Sink, opts ...Option) *Controller {
	c := &Controller{
		sink:            sink,
		loop:            true,
		defaultDuration: DefaultStoryDuration,
		state:           StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Index() int { return c.index }

func (c *Controller) Elapsed() time.Duration { return c.elapsed }

// Current returns the story under the cursor, nil when idle or the queue is
// gone.
func (c *Controller) Current() *domain.Story {
	if c.state == StateIdle || c.index >= len(c.queue) {
		return nil
	}
	return c.queue[c.index]
}

// Load starts playback at the first story. An empty queue is not an error:
// the controller simply stays idle.
func (c *Controller) Load(stories []*domain.Story) {
	if len(stories) == 0 {
		c.reset()
		return
	}
	c.queue = stories
	c.state = StatePlaying
	c.enterIndex(0)
}

// Tick advances the playback clock. Called only while playing; ticks that
// arrive after Pause or Close find the state changed and do nothing, which is
// what guards against a stale timer callback.
func (c *Controller) Tick(delta time.Duration) {
	if c.state != StatePlaying {
		return
	}

	c.elapsed += delta
	if c.elapsed >= c.durationFor(c.queue[c.index]) {
		c.Advance()
	}
}

// Advance moves to the next story, wrapping to the start or finishing
// depending on the loop policy. No-op when idle or finished.
func (c *Controller) Advance() {
	if c.state != StatePlaying && c.state != StatePaused {
		return
	}

	if c.index+1 < len(c.queue) {
		c.state = StatePlaying
		c.enterIndex(c.index + 1)
		return
	}

	if c.loop {
		c.state = StatePlaying
		c.enterIndex(0)
		return
	}

	c.state = StateFinished
	c.elapsed = 0
}

// Previous steps back one story, never below index 0. No-op when idle or
// finished.
func (c *Controller) Previous() {
	if c.state != StatePlaying && c.state != StatePaused {
		return
	}

	c.state = StatePlaying
	if c.index == 0 {
		// Restart the first story rather than wrapping backwards.
		c.enterIndex(0)
		return
	}
	c.enterIndex(c.index - 1)
}

// Pause freezes the advance timer. Elapsed time stops accruing; it is not
// reset.
func (c *Controller) Pause() {
	if c.state != StatePlaying {
		return
	}
	c.state = StatePaused
}

// Resume continues from the frozen elapsed time. There is no catch-up for
// the paused interval.
func (c *Controller) Resume() {
	if c.state != StatePaused {
		return
	}
	c.state = StatePlaying
}

// JumpTo moves the cursor to index i and restarts its timer. Valid in any
// state with a loaded queue; out-of-range indexes are ignored.
func (c *Controller) JumpTo(i int) {
	if c.state == StateIdle || i < 0 || i >= len(c.queue) {
		return
	}
	c.state = StatePlaying
	c.enterIndex(i)
}

// Close discards the queue and returns to idle. Safe to call at any time;
// ticks from a timer that has not been stopped yet become no-ops.
func (c *Controller) Close() {
	c.reset()
}

// Vote forwards a poll vote on the current story to the sink.
func (c *Controller) Vote(pollID, option string) {
	s := c.Current()
	if s == nil {
		return
	}
	c.sink.Vote(s.ID, pollID, option)
}

// Respond forwards a question response on the current story to the sink.
func (c *Controller) Respond(questionID, text string) {
	s := c.Current()
	if s == nil {
		return
	}
	c.sink.Respond(s.ID, questionID, text)
}

// enterIndex moves the cursor and fires the view mark. Exactly one mark per
// index entry, including re-entries via JumpTo or loop wrap; idempotence of
// repeat marks is the tracker's concern.
func (c *Controller) enterIndex(i int) {
	c.index = i
	c.elapsed = 0
	c.sink.MarkViewed(c.queue[i].ID)
}

func (c *Controller) durationFor(s *domain.Story) time.Duration {
	if s.DurationHint > 0 {
		return time.Duration(s.DurationHint) * time.Second
	}
	return c.defaultDuration
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.queue = nil
	c.index = 0
	c.elapsed = 0
}
