package domain

import "time"

// Overlay is an element positioned on a story. Positions are percentages of
// the frame, [0,100] on both axes.
type Overlay interface {
	Pos() (x, y float64)
}

// Sticker is decorative only and carries no aggregation state.
type Sticker struct {
	Content  string
	X        float64
	Y        float64
	Rotation float64
	Scale    float64
}

func (s *Sticker) Pos() (float64, float64) { return s.X, s.Y }

// Poll is a single-choice poll. Vote state (tallies, voter set) is owned by
// the interaction repositories, not by the overlay definition.
type Poll struct {
	ID       string
	Question string
	Options  []string
	X        float64
	Y        float64
}

func (p *Poll) Pos() (float64, float64) { return p.X, p.Y }

// HasOption reports whether opt is one of the poll's options.
func (p *Poll) HasOption(opt string) bool {
	for _, o := range p.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// Question is an open-ended prompt collecting free-text responses.
type Question struct {
	ID     string
	Prompt string
	X      float64
	Y      float64
}

func (q *Question) Pos() (float64, float64) { return q.X, q.Y }

// Response is one answer to a question overlay. Responses are append-only
// and never mutated after insertion.
type Response struct {
	ID          string
	ResponderID string
	Text        string
	CreatedAt   time.Time
}
