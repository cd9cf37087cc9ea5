package order

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dinujaya/flower-shop-backend/internal/product"
)

// ErrDuplicateOrderNumber signals that the generated display number already
// exists. The service regenerates and retries; it never reaches clients.
var ErrDuplicateOrderNumber = errors.New("order number already exists")

type Repository interface {
	// CreateCustomBox persists the order and decrements stock for every box
	// item in one atomic step: either the order lands and all decrements
	// apply, or nothing changes. A shortage surfaces as
	// *InsufficientStockError.
	CreateCustomBox(ord Order) (Order, error)

	GetByID(id int) (Order, error)
	GetByNumber(orderNumber string) (Order, error)
	ListByUser(userID int, orderType string) ([]Order, error)
	List() ([]Order, error)
	UpdateStatus(id int, status, paymentStatus string) (Order, error)
	UpdatePaymentByNumber(orderNumber, paymentStatus, status string) (Order, error)
}

// InMemoryRepository backs tests. It shares the product in-memory repository
// so stock deduction behaves like the SQL transaction, including rollback of
// earlier decrements when a later item comes up short.
type InMemoryRepository struct {
	mu       sync.Mutex
	orders   map[int]Order
	numbers  map[string]bool
	nextID   int
	products *product.InMemoryRepository
}

func NewInMemoryRepository(products *product.InMemoryRepository) *InMemoryRepository {
	return &InMemoryRepository{
		orders:   map[int]Order{},
		numbers:  map[string]bool{},
		nextID:   1,
		products: products,
	}
}

func (r *InMemoryRepository) CreateCustomBox(ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.numbers[ord.OrderNumber] {
		return Order{}, ErrDuplicateOrderNumber
	}

	applied := []BoxItem{}
	rollback := func() {
		for _, it := range applied {
			r.products.AdjustStock(it.FlowerID, it.Quantity)
		}
	}

	for _, it := range ord.BoxItems {
		if _, err := r.products.AdjustStock(it.FlowerID, -it.Quantity); err != nil {
			rollback()
			if err == product.ErrInsufficientStock {
				p, perr := r.products.GetByID(it.FlowerID)
				available := 0
				if perr == nil {
					available = p.Stock
				}
				return Order{}, &InsufficientStockError{FlowerID: it.FlowerID, Name: it.Name, Requested: it.Quantity, Available: available}
			}
			return Order{}, err
		}
		applied = append(applied, it)
	}

	ord.ID = r.nextID
	r.nextID++
	r.orders[ord.ID] = ord
	r.numbers[ord.OrderNumber] = true
	return ord, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (r *InMemoryRepository) GetByNumber(orderNumber string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ord := range r.orders {
		if ord.OrderNumber == orderNumber {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int, orderType string) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Order{}
	for _, ord := range r.orders {
		if ord.UserID == userID && (orderType == "" || ord.OrderType == orderType) {
			out = append(out, ord)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) List() ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Order, 0, len(r.orders))
	for _, ord := range r.orders {
		out = append(out, ord)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id int, status, paymentStatus string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	if status != "" {
		ord.Status = status
	}
	if paymentStatus != "" {
		ord.PaymentStatus = paymentStatus
	}
	ord.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	r.orders[id] = ord
	return ord, nil
}

func (r *InMemoryRepository) UpdatePaymentByNumber(orderNumber, paymentStatus, status string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, ord := range r.orders {
		if ord.OrderNumber == orderNumber {
			if paymentStatus != "" {
				ord.PaymentStatus = paymentStatus
			}
			if status != "" {
				ord.Status = status
			}
			ord.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			r.orders[id] = ord
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}
