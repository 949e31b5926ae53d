package playback

import "time"

// State of a viewing session.
type State int

const (
	// StateIdle means no queue is loaded.
	StateIdle State = iota
	StatePlaying
	StatePaused
	// StateFinished is reached past the last story only when looping is
	// disabled. The default policy wraps back to the first story instead.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Sink receives the controller's side effects. Implementations must not
// block: view marks and interactions are fire-and-forget from the
// controller's point of view, with failures surfaced asynchronously.
type Sink interface {
	MarkViewed(storyID string)
	Vote(storyID, pollID, option string)
	Respond(storyID, questionID, text string)
}

// DefaultStoryDuration is the playback time for photo and text stories that
// carry no duration of their own.
const DefaultStoryDuration = 5 * time.Second

type Option func(*Controller)

// WithLoop controls what happens past the last story: wrap to the first
// (true, the default) or finish the session (false).
func WithLoop(loop bool) Option {
	return func(c *Controller) {
		c.loop = loop
	}
}

// WithDefaultDuration overrides DefaultStoryDuration.
func WithDefaultDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.defaultDuration = d
		}
	}
}
