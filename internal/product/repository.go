package product

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned by AdjustStock when a decrement would
	// drive stock below zero. Callers that need the remaining quantity should
	// re-read the product.
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	List(f Filter) []Product
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
	Categories() []string
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error

	// AdjustStock adds delta to the product's stock. A negative delta is
	// applied conditionally: the write succeeds only if the resulting stock
	// stays non-negative, otherwise ErrInsufficientStock is returned and
	// nothing changes.
	AdjustStock(id int, delta int) (Product, error)
}

// InMemoryRepository is the test/development stand-in for the Postgres
// repository. The mutex makes concurrent AdjustStock calls behave like the
// conditional UPDATE does in SQL.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products map[int]Product
	nextID   int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	repo := &InMemoryRepository{products: make(map[int]Product, len(seed)), nextID: 1}
	for _, p := range seed {
		repo.products[p.ID] = p
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
	}
	return repo
}

func matches(p Product, f Filter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.ProductType != "" && p.ProductType != f.ProductType {
		return false
	}
	if f.OnlyAvailable && !p.IsAvailable {
		return false
	}
	if f.OnlyBestseller && !p.IsBestseller {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

func (r *InMemoryRepository) List(f Filter) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, p := range r.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
	}
	if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *InMemoryRepository) Update(id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return Product{}, ErrNotFound
	}
	p.ID = id
	r.products[id] = p
	return p, nil
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *InMemoryRepository) AdjustStock(id int, delta int) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	if p.Stock+delta < 0 {
		return Product{}, ErrInsufficientStock
	}
	p.Stock += delta
	r.products[id] = p
	return p, nil
}
