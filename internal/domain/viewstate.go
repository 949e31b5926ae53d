package domain

import "time"

// ViewState records that a viewer has seen a story. Presence-only: repeat
// views neither update the timestamp nor keep a count.
type ViewState struct {
	ViewerID      string
	StoryID       string
	FirstViewedAt time.Time
}
