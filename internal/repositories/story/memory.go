package story

import (
	"context"
	"sync"
	"time"

	"github.com/davitran/stories-engine/internal/domain"
)

// Memory is an in-process Repository used for tests and single-node
// deployments (STORAGE_DRIVER=memory). Insertion order is creation order.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Story
	ordered []string
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		byID: make(map[string]*domain.Story),
	}
}

func (m *Memory) Create(_ context.Context, story domain.Story) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[story.ID]; exists {
		return ErrCannotCreate
	}

	stored := cloneStory(&story)
	m.byID[story.ID] = stored
	m.ordered = append(m.ordered, story.ID)
	return nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneStory(s), nil
}

func (m *Memory) ListByAuthor(_ context.Context, authorID string) ([]*domain.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stories []*domain.Story
	for _, id := range m.ordered {
		if s, ok := m.byID[id]; ok && s.AuthorID == authorID {
			stories = append(stories, cloneStory(s))
		}
	}
	return stories, nil
}

func (m *Memory) ListAll(_ context.Context) ([]*domain.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stories []*domain.Story
	for _, id := range m.ordered {
		if s, ok := m.byID[id]; ok {
			stories = append(stories, cloneStory(s))
		}
	}
	return stories, nil
}

func (m *Memory) DeleteExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	kept := m.ordered[:0]
	for _, id := range m.ordered {
		s := m.byID[id]
		if s != nil && !s.IsHighlight && s.ExpiresAt.Before(cutoff) {
			delete(m.byID, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	m.ordered = kept
	return removed, nil
}

// cloneStory copies the story and its overlays so callers never share
// mutable state with the repository.
func cloneStory(s *domain.Story) *domain.Story {
	c := *s
	if s.Music != nil {
		music := *s.Music
		c.Music = &music
	}
	if s.Overlays != nil {
		c.Overlays = make([]domain.Overlay, len(s.Overlays))
		for i, o := range s.Overlays {
			switch v := o.(type) {
			case *domain.Sticker:
				sticker := *v
				c.Overlays[i] = &sticker
			case *domain.Poll:
				poll := *v
				poll.Options = append([]string(nil), v.Options...)
				c.Overlays[i] = &poll
			case *domain.Question:
				question := *v
				c.Overlays[i] = &question
			}
		}
	}
	return &c
}
