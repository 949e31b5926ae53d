package story

import (
	"encoding/json"
	"fmt"

	"github.com/davitran/stories-engine/internal/domain"
)

// overlayRecord is the persisted envelope for the overlay union. One row
// shape covers all three kinds; unused fields stay at their zero value.
type overlayRecord struct {
	Kind     string   `json:"kind"`
	ID       string   `json:"id,omitempty"`
	Content  string   `json:"content,omitempty"`
	Question string   `json:"question,omitempty"`
	Prompt   string   `json:"prompt,omitempty"`
	Options  []string `json:"options,omitempty"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Rotation float64  `json:"rotation,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
}

const (
	overlayKindSticker  = "sticker"
	overlayKindPoll     = "poll"
	overlayKindQuestion = "question"
)

func encodeOverlays(overlays []domain.Overlay) ([]byte, error) {
	records := make([]overlayRecord, 0, len(overlays))
	for _, o := range overlays {
		switch v := o.(type) {
		case *domain.Sticker:
			records = append(records, overlayRecord{
				Kind: overlayKindSticker, Content: v.Content,
				X: v.X, Y: v.Y, Rotation: v.Rotation, Scale: v.Scale,
			})
		case *domain.Poll:
			records = append(records, overlayRecord{
				Kind: overlayKindPoll, ID: v.ID, Question: v.Question,
				Options: v.Options, X: v.X, Y: v.Y,
			})
		case *domain.Question:
			records = append(records, overlayRecord{
				Kind: overlayKindQuestion, ID: v.ID, Prompt: v.Prompt,
				X: v.X, Y: v.Y,
			})
		default:
			return nil, fmt.Errorf("unknown overlay type %T", o)
		}
	}
	return json.Marshal(records)
}

func decodeOverlays(data []byte) ([]domain.Overlay, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var records []overlayRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	overlays := make([]domain.Overlay, 0, len(records))
	for _, r := range records {
		switch r.Kind {
		case overlayKindSticker:
			overlays = append(overlays, &domain.Sticker{
				Content: r.Content, X: r.X, Y: r.Y, Rotation: r.Rotation, Scale: r.Scale,
			})
		case overlayKindPoll:
			overlays = append(overlays, &domain.Poll{
				ID: r.ID, Question: r.Question, Options: r.Options, X: r.X, Y: r.Y,
			})
		case overlayKindQuestion:
			overlays = append(overlays, &domain.Question{
				ID: r.ID, Prompt: r.Prompt, X: r.X, Y: r.Y,
			})
		default:
			return nil, fmt.Errorf("unknown overlay kind %q", r.Kind)
		}
	}
	return overlays, nil
}
