package visit

import (
	"context"
	"sync"
)

// MemoryRepository is the in-memory visit store.
type MemoryRepository struct {
	mu     sync.RWMutex
	visits map[int64]*Visit
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		visits: make(map[int64]*Visit),
		nextID: 1,
	}
}

func (r *MemoryRepository) Save(ctx context.Context, v *Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == 0 {
		v.ID = r.nextID
		r.nextID++
	} else if v.ID >= r.nextID {
		r.nextID = v.ID + 1
	}
	r.visits[v.ID] = v
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.visits[id]
	if !ok {
		return nil, ErrVisitNotFound
	}
	return v, nil
}
