package domain

// StoryDraft is the unvalidated input to the composition builder. It mirrors
// Story minus the fields the engine assigns on publish (id, timestamps).
//
// The store only accepts a ValidatedDraft, so a raw draft cannot reach
// persistence without passing through the composer.
type StoryDraft struct {
	AuthorID     string
	Kind         StoryKind
	MediaRef     string
	ThumbnailRef string

	TextContent     string
	BackgroundStyle string
	TextStyle       string
	FontFamily      string

	DurationHint int

	Music      *Music
	Visibility Visibility

	AllowReplies bool
	AllowSharing bool

	Overlays []Overlay

	IsHighlight bool
}

// ValidatedDraft is a draft that has passed the composer's rules. Only the
// composer should construct one; the wrapper type is what keeps re-validation
// out of the store.
type ValidatedDraft struct {
	draft StoryDraft
}

// NewValidatedDraft wraps a rule-checked draft. Called by the composer after
// validation; calling it with an unchecked draft puts unchecked overlay
// positions into the store.
func NewValidatedDraft(d StoryDraft) ValidatedDraft {
	return ValidatedDraft{draft: d}
}

func (v ValidatedDraft) Draft() StoryDraft {
	return v.draft
}
