package retention

import "context"

// Client runs the periodic archival pass over long-expired stories. Reads
// never depend on it: expiry is evaluated lazily by the store. This is
// storage hygiene only.
type Client interface {
	ScheduleArchival(ctx context.Context) error
}
