package supplier

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound    = errors.New("supplier not found")
	ErrEmailExists = errors.New("supplier email already exists")
)

type Repository interface {
	List() []Supplier
	GetByID(id int) (Supplier, error)
	GetByEmail(email string) (Supplier, error)
	Create(s Supplier) (Supplier, error)
	Update(id int, s Supplier) (Supplier, error)
	Delete(id int) error
}

type InMemoryRepository struct {
	mu        sync.RWMutex
	suppliers map[int]Supplier
	nextID    int
}

func NewInMemoryRepository(seed []Supplier) *InMemoryRepository {
	repo := &InMemoryRepository{suppliers: map[int]Supplier{}, nextID: 1}
	for _, s := range seed {
		repo.suppliers[s.ID] = s
		if s.ID >= repo.nextID {
			repo.nextID = s.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) List() []Supplier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *InMemoryRepository) GetByID(id int) (Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.suppliers[id]
	if !ok {
		return Supplier{}, ErrNotFound
	}
	return s, nil
}

func (r *InMemoryRepository) GetByEmail(email string) (Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.suppliers {
		if s.Email == email {
			return s, nil
		}
	}
	return Supplier{}, ErrNotFound
}

func (r *InMemoryRepository) Create(s Supplier) (Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == 0 {
		s.ID = r.nextID
	}
	if s.ID >= r.nextID {
		r.nextID = s.ID + 1
	}
	r.suppliers[s.ID] = s
	return s, nil
}

func (r *InMemoryRepository) Update(id int, s Supplier) (Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.suppliers[id]; !ok {
		return Supplier{}, ErrNotFound
	}
	s.ID = id
	r.suppliers[id] = s
	return s, nil
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.suppliers[id]; !ok {
		return ErrNotFound
	}
	delete(r.suppliers, id)
	return nil
}
