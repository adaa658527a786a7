package scheduling

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is a mutex-guarded in-memory store. It backs tests and
// single-process deployments that run without Postgres.
type MemoryRepository struct {
	mu     sync.RWMutex
	pets   map[int64]*Pet
	vets   map[int64]*Veterinarian
	appts  map[int64]*Appointment
	order  []int64
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		pets:   make(map[int64]*Pet),
		vets:   make(map[int64]*Veterinarian),
		appts:  make(map[int64]*Appointment),
		nextID: 1,
	}
}

func (r *MemoryRepository) AddPet(p *Pet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pets[p.ID] = p
}

func (r *MemoryRepository) AddVet(v *Veterinarian) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vets[v.ID] = v
}

func (r *MemoryRepository) GetPetByID(ctx context.Context, id int64) (*Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pets[id]
	if !ok {
		return nil, ErrPetNotFound
	}
	return p, nil
}

func (r *MemoryRepository) GetVetByID(ctx context.Context, id int64) (*Veterinarian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vets[id]
	if !ok {
		return nil, ErrVetNotFound
	}
	return v, nil
}

func (r *MemoryRepository) Save(ctx context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if appt.ID == 0 {
		appt.ID = r.nextID
		r.nextID++
	}
	if _, ok := r.appts[appt.ID]; !ok {
		r.order = append(r.order, appt.ID)
		if appt.ID >= r.nextID {
			r.nextID = appt.ID + 1
		}
	}
	r.appts[appt.ID] = appt
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

func (r *MemoryRepository) ListAll(ctx context.Context) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.appts[id])
	}
	return out, nil
}

func (r *MemoryRepository) FindByVet(ctx context.Context, vetID int64) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Appointment
	for _, id := range r.order {
		if a := r.appts[id]; a.Vet != nil && a.Vet.ID == vetID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *MemoryRepository) FindByDate(ctx context.Context, day time.Time) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Appointment
	for _, id := range r.order {
		if a := r.appts[id]; SameDay(a.Date, day) {
			out = append(out, a)
		}
	}
	return out, nil
}
