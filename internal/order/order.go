package order

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dinujaya/flower-shop-backend/internal/product"
)

// Order status progression. Cancelled can follow any non-delivered status.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusProcessing     = "processing"
	StatusOutForDelivery = "out-for-delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

const (
	TypeCustomBox = "custom_box"
	TypeNormal    = "normal"
)

// Address is the delivery destination embedded on an order. Street and city
// are required; the rest is optional.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// BoxItem is one line of a custom flower box. Name and Price are snapshots
// taken at order creation; later catalog edits never change them.
type BoxItem struct {
	FlowerID int     `json:"flowerId"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`

	// Flower carries catalog details (name/image/category) for display and
	// is populated on reads, never persisted.
	Flower *product.Product `json:"flower,omitempty"`
}

type Order struct {
	ID                  int       `json:"orderId"`
	OrderNumber         string    `json:"orderNumber"`
	UserID              int       `json:"userId"`
	OrderType           string    `json:"orderType"`
	BoxItems            []BoxItem `json:"boxItems"`
	TotalAmount         float64   `json:"totalAmount"`
	DeliveryAddress     Address   `json:"deliveryAddress"`
	RecipientName       string    `json:"recipientName"`
	RecipientPhone      string    `json:"recipientPhone"`
	DeliveryDate        string    `json:"deliveryDate"`
	DeliveryTime        string    `json:"deliveryTime,omitempty"`
	Status              string    `json:"status"`
	PaymentStatus       string    `json:"paymentStatus"`
	PaymentMethod       string    `json:"paymentMethod"`
	SpecialInstructions string    `json:"specialInstructions,omitempty"`
	CreatedAt           string    `json:"createdAt,omitempty"`
	UpdatedAt           string    `json:"updatedAt,omitempty"`
}

// NewOrderNumber builds the display order number: DF + yyyymmdd + 4 random
// digits. Collisions within a day are possible; the unique index on the
// column is the real guard and callers retry on a violation.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("DF%s%04d", now.Format("20060102"), rand.Intn(10000))
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func validStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func validPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}
