package interaction

import (
	"context"
	"sync"

	"github.com/davitran/stories-engine/internal/domain"
)

type pollVotes struct {
	counts map[string]int
	voters map[string]string // voterID -> option
}

// Memory is the in-process Repository used for tests and single-node
// deployments.
type Memory struct {
	mu        sync.RWMutex
	polls     map[string]*pollVotes
	responses map[string][]*domain.Response
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		polls:     make(map[string]*pollVotes),
		responses: make(map[string][]*domain.Response),
	}
}

func (m *Memory) AddVote(_ context.Context, _, pollID, voterID, option string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pv, ok := m.polls[pollID]
	if !ok {
		pv = &pollVotes{
			counts: make(map[string]int),
			voters: make(map[string]string),
		}
		m.polls[pollID] = pv
	}

	if _, voted := pv.voters[voterID]; voted {
		return false, nil
	}

	pv.voters[voterID] = option
	pv.counts[option]++
	return true, nil
}

func (m *Memory) PollState(_ context.Context, pollID string) (*PollState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := &PollState{Counts: make(map[string]int)}
	pv, ok := m.polls[pollID]
	if !ok {
		return state, nil
	}

	for option, count := range pv.counts {
		state.Counts[option] = count
	}
	state.Voters = len(pv.voters)
	return state, nil
}

func (m *Memory) AddResponse(_ context.Context, _, questionID string, resp domain.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := resp
	m.responses[questionID] = append(m.responses[questionID], &r)
	return nil
}

func (m *Memory) ListResponses(_ context.Context, questionID string, limit, offset int) ([]*domain.Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.responses[questionID]
	if offset >= len(all) {
		return nil, nil
	}
	page := all[offset:]
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}

	out := make([]*domain.Response, len(page))
	for i, r := range page {
		c := *r
		out[i] = &c
	}
	return out, nil
}
