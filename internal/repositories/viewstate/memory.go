package viewstate

import (
	"context"
	"sync"

	"github.com/davitran/stories-engine/internal/domain"
)

type key struct {
	viewerID string
	storyID  string
}

// Memory is the in-process Repository used for tests and single-node
// deployments.
type Memory struct {
	mu     sync.RWMutex
	states map[key]domain.ViewState
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		states: make(map[key]domain.ViewState),
	}
}

func (m *Memory) Create(_ context.Context, vs domain.ViewState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{viewerID: vs.ViewerID, storyID: vs.StoryID}
	if _, exists := m.states[k]; exists {
		return nil
	}
	m.states[k] = vs
	return nil
}

func (m *Memory) Get(_ context.Context, viewerID, storyID string) (*domain.ViewState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vs, ok := m.states[key{viewerID: viewerID, storyID: storyID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &vs, nil
}

func (m *Memory) ViewedSet(_ context.Context, viewerID string, storyIDs []string) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	viewed := make(map[string]bool, len(storyIDs))
	for _, id := range storyIDs {
		if _, ok := m.states[key{viewerID: viewerID, storyID: id}]; ok {
			viewed[id] = true
		}
	}
	return viewed, nil
}
