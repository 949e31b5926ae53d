package domain

import "time"

type StoryKind string

const (
	StoryKindPhoto StoryKind = "photo"
	StoryKindVideo StoryKind = "video"
	StoryKindText  StoryKind = "text"
)

type Visibility string

const (
	VisibilityPublic       Visibility = "public"
	VisibilityFollowers    Visibility = "followers"
	VisibilityCloseFriends Visibility = "close_friends"
)

// Music is background-audio metadata carried verbatim on a story. The engine
// never resolves Ref; playing the audio is a client concern.
type Music struct {
	Title  string
	Artist string
	Ref    string
}

type Story struct {
	ID           string
	AuthorID     string
	Kind         StoryKind
	MediaRef     string
	ThumbnailRef string

	TextContent     string
	BackgroundStyle string
	TextStyle       string
	FontFamily      string

	// DurationHint is the playback duration in whole seconds. Videos carry
	// their own; photo and text stories fall back to the configured default.
	DurationHint int

	Music      *Music
	Visibility Visibility

	AllowReplies bool
	AllowSharing bool

	Overlays []Overlay

	CreatedAt   time.Time
	ExpiresAt   time.Time
	IsHighlight bool
}

// Active reports whether the story is still inside its visible window.
// Expiry is computed lazily from the clock, never from a background sweep.
func (s *Story) Active(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// PollByID finds a poll overlay by id.
func (s *Story) PollByID(id string) (*Poll, bool) {
	for _, o := range s.Overlays {
		if p, ok := o.(*Poll); ok && p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// QuestionByID finds a question overlay by id.
func (s *Story) QuestionByID(id string) (*Question, bool) {
	for _, o := range s.Overlays {
		if q, ok := o.(*Question); ok && q.ID == id {
			return q, true
		}
	}
	return nil, false
}
