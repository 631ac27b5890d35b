package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/factbase/pkg/domain/model"
)

type factRepository struct {
	mu     sync.RWMutex
	facts  map[model.FactID]*model.Fact
	nextID model.FactID
}

func newFactRepository() *factRepository {
	return &factRepository{
		facts:  make(map[model.FactID]*model.Fact),
		nextID: 1,
	}
}

func (r *factRepository) Create(ctx context.Context, fact *model.Fact) (*model.Fact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := &model.Fact{
		ID:        r.nextID,
		Text:      fact.Text,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++

	r.facts[created.ID] = created
	return created.Copy(), nil
}

func (r *factRepository) Get(ctx context.Context, id model.FactID) (*model.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fact, exists := r.facts[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "fact not found", goerr.V(model.FactIDKey, id))
	}

	// Return a copy to prevent external modification
	return fact.Copy(), nil
}

func (r *factRepository) GetMany(ctx context.Context, ids []model.FactID) ([]*model.Fact, error) {
	if len(ids) == 0 {
		return r.List(ctx)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[model.FactID]struct{}, len(ids))
	facts := make([]*model.Fact, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if fact, exists := r.facts[id]; exists {
			facts = append(facts, fact.Copy())
		}
	}

	sortByID(facts)
	return facts, nil
}

func (r *factRepository) List(ctx context.Context) ([]*model.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	facts := make([]*model.Fact, 0, len(r.facts))
	for _, fact := range r.facts {
		facts = append(facts, fact.Copy())
	}

	sortByID(facts)
	return facts, nil
}

func (r *factRepository) Delete(ctx context.Context, id model.FactID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.facts[id]; !exists {
		return goerr.Wrap(ErrNotFound, "fact not found", goerr.V(model.FactIDKey, id))
	}

	delete(r.facts, id)
	return nil
}

func sortByID(facts []*model.Fact) {
	sort.Slice(facts, func(i, j int) bool {
		return facts[i].ID < facts[j].ID
	})
}
