package aggregatorimpl

import (
	"sync"

	"github.com/davitran/stories-engine/internal/aggregator"
	interactionRepo "github.com/davitran/stories-engine/internal/repositories/interaction"
	"github.com/davitran/stories-engine/internal/store"
	"github.com/davitran/stories-engine/pkg/config"
	"github.com/davitran/stories-engine/pkg/logger"
	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Store           store.Client
	InteractionRepo interactionRepo.Repository
	Logger          logger.Logger
	Config          *config.Config
	Clock           clockwork.Clock
}

type Impl struct {
	Store           store.Client
	InteractionRepo interactionRepo.Repository
	Logger          logger.Logger
	Config          *config.Config
	Clock           clockwork.Clock

	locks keyedLocks
}

func New(opts Opts) *Impl {
	return &Impl{
		Store:           opts.Store,
		InteractionRepo: opts.InteractionRepo,
		Logger:          opts.Logger,
		Config:          opts.Config,
		Clock:           opts.Clock,
	}
}

var _ aggregator.Client = (*Impl)(nil)

// keyedLocks hands out one mutex per entity id, so votes on the same poll
// serialize while unrelated polls proceed in parallel.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedLocks) get(id string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &sync.Mutex{}
		k.locks[id] = l
	}
	return l
}

func tallyFromState(state *interactionRepo.PollState, options []string) *aggregator.Tally {
	t := &aggregator.Tally{
		Counts:      make(map[string]int, len(options)),
		Percentages: make(map[string]float64, len(options)),
		Total:       state.Voters,
	}
	for _, opt := range options {
		t.Counts[opt] = state.Counts[opt]
	}
	for _, opt := range options {
		if t.Total == 0 {
			t.Percentages[opt] = 0
			continue
		}
		t.Percentages[opt] = float64(t.Counts[opt]) / float64(t.Total)
	}
	return t
}
