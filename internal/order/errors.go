package order

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBox        = errors.New("box items are required")
	ErrMissingDelivery = errors.New("delivery information is incomplete")
	ErrNotFound        = errors.New("order not found")
)

// FlowerNotFoundError reports a box item referencing an unknown product id.
type FlowerNotFoundError struct {
	FlowerID int
}

func (e *FlowerNotFoundError) Error() string {
	return fmt.Sprintf("flower not found: %d", e.FlowerID)
}

// InvalidItemError covers box items that reference a real product which
// cannot go into a custom box: wrong type, unavailable, or bad quantity.
type InvalidItemError struct {
	FlowerID int
	Name     string
	Reason   string
}

func (e *InvalidItemError) Error() string {
	return e.Reason
}

// InsufficientStockError carries the quantity still available so clients can
// show it next to the rejected item.
type InsufficientStockError struct {
	FlowerID  int
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d", e.Name, e.Available)
}
