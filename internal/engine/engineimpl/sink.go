package engineimpl

import (
	"context"

	"github.com/davitran/stories-engine/internal/playback"
)

// sessionSink routes a playback controller's side effects back into the
// engine for one viewer. Every call is fire-and-forget: the controller never
// waits on persistence.
type sessionSink struct {
	engine   *Impl
	viewerID string
}

var _ playback.Sink = (*sessionSink)(nil)

func (s *sessionSink) MarkViewed(storyID string) {
	s.engine.submit("session.MarkViewed", func(ctx context.Context) error {
		return s.engine.Tracker.MarkViewed(ctx, s.viewerID, storyID)
	})
}

func (s *sessionSink) Vote(storyID, pollID, option string) {
	s.engine.submit("session.Vote", func(ctx context.Context) error {
		_, err := s.engine.Vote(ctx, storyID, pollID, s.viewerID, option)
		return err
	})
}

func (s *sessionSink) Respond(storyID, questionID, text string) {
	s.engine.submit("session.Respond", func(ctx context.Context) error {
		_, err := s.engine.Respond(ctx, storyID, questionID, s.viewerID, text)
		return err
	})
}

func (e *Impl) sinkFor(viewerID string) playback.Sink {
	return &sessionSink{engine: e, viewerID: viewerID}
}
