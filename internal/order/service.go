package order

import (
	"fmt"
	"time"

	"github.com/dinujaya/flower-shop-backend/internal/product"
)

// ServiceInterface is consumed by the payment package (notification handling)
// and by handler tests.
type ServiceInterface interface {
	CreateCustomBox(userID int, input CustomBoxInput) (Order, error)
	GetForUser(id, userID int) (Order, error)
	ListCustomBoxForUser(userID int) ([]Order, error)
	ListAll() ([]Order, error)
	UpdateStatus(id int, status, paymentStatus string) (Order, error)
	GetByNumber(orderNumber string) (Order, error)
	MarkPaid(orderNumber string) (Order, error)
	MarkPaymentFailed(orderNumber string) (Order, error)
}

// BoxItemInput is one requested (flower, quantity) pair before validation.
type BoxItemInput struct {
	FlowerID int `json:"flowerId"`
	Quantity int `json:"quantity"`
}

// CustomBoxInput is the validated-at-the-boundary request body for a custom
// flower box order.
type CustomBoxInput struct {
	BoxItems            []BoxItemInput `json:"boxItems"`
	DeliveryAddress     Address        `json:"deliveryAddress"`
	RecipientName       string         `json:"recipientName"`
	RecipientPhone      string         `json:"recipientPhone"`
	DeliveryDate        string         `json:"deliveryDate"`
	DeliveryTime        string         `json:"deliveryTime"`
	PaymentMethod       string         `json:"paymentMethod"`
	SpecialInstructions string         `json:"specialInstructions"`
}

type Service struct {
	repo     Repository
	products product.ServiceInterface
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

var _ ServiceInterface = (*Service)(nil)

// orderNumberRetries bounds regeneration after a duplicate display number.
// A same-second collision is rare; three fresh draws make it negligible.
const orderNumberRetries = 3

// CreateCustomBox validates every requested item against the catalog, builds
// price-snapshot line items, and only then commits the order together with
// the stock decrements. Validation failures leave the store untouched.
func (s *Service) CreateCustomBox(userID int, input CustomBoxInput) (Order, error) {
	if len(input.BoxItems) == 0 {
		return Order{}, ErrEmptyBox
	}
	if input.DeliveryAddress.Street == "" || input.DeliveryAddress.City == "" ||
		input.RecipientName == "" || input.RecipientPhone == "" || input.DeliveryDate == "" {
		return Order{}, ErrMissingDelivery
	}

	totalAmount := 0.0
	items := make([]BoxItem, 0, len(input.BoxItems))
	for _, it := range input.BoxItems {
		if it.Quantity < 1 {
			return Order{}, &InvalidItemError{FlowerID: it.FlowerID, Reason: fmt.Sprintf("quantity must be at least 1 for flower %d", it.FlowerID)}
		}

		flower, err := s.products.GetByID(it.FlowerID)
		if err != nil {
			if err == product.ErrNotFound {
				return Order{}, &FlowerNotFoundError{FlowerID: it.FlowerID}
			}
			return Order{}, err
		}
		if flower.ProductType != product.TypeIndividualFlower {
			return Order{}, &InvalidItemError{FlowerID: flower.ID, Name: flower.Name, Reason: fmt.Sprintf("product %s is not an individual flower", flower.Name)}
		}
		if !flower.IsAvailable {
			return Order{}, &InvalidItemError{FlowerID: flower.ID, Name: flower.Name, Reason: fmt.Sprintf("%s is not available", flower.Name)}
		}
		if flower.Stock < it.Quantity {
			return Order{}, &InsufficientStockError{FlowerID: flower.ID, Name: flower.Name, Requested: it.Quantity, Available: flower.Stock}
		}

		items = append(items, BoxItem{
			FlowerID: flower.ID,
			Name:     flower.Name,
			Quantity: it.Quantity,
			Price:    flower.Price,
		})
		totalAmount += flower.Price * float64(it.Quantity)
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	now := time.Now().UTC()
	ord := Order{
		UserID:              userID,
		OrderType:           TypeCustomBox,
		BoxItems:            items,
		TotalAmount:         totalAmount,
		DeliveryAddress:     input.DeliveryAddress,
		RecipientName:       input.RecipientName,
		RecipientPhone:      input.RecipientPhone,
		DeliveryDate:        input.DeliveryDate,
		DeliveryTime:        input.DeliveryTime,
		Status:              StatusPending,
		PaymentStatus:       PaymentPending,
		PaymentMethod:       paymentMethod,
		SpecialInstructions: input.SpecialInstructions,
		CreatedAt:           now.Format(time.RFC3339),
		UpdatedAt:           now.Format(time.RFC3339),
	}

	var created Order
	var err error
	for attempt := 0; attempt <= orderNumberRetries; attempt++ {
		ord.OrderNumber = NewOrderNumber(now)
		created, err = s.repo.CreateCustomBox(ord)
		if err != ErrDuplicateOrderNumber {
			break
		}
	}
	if err != nil {
		return Order{}, err
	}
	return s.populateFlowers(created), nil
}

func (s *Service) GetForUser(id, userID int) (Order, error) {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != userID {
		return Order{}, ErrNotFound
	}
	return s.populateFlowers(ord), nil
}

func (s *Service) ListCustomBoxForUser(userID int) ([]Order, error) {
	orders, err := s.repo.ListByUser(userID, TypeCustomBox)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i] = s.populateFlowers(orders[i])
	}
	return orders, nil
}

func (s *Service) ListAll() ([]Order, error) {
	return s.repo.List()
}

func (s *Service) UpdateStatus(id int, status, paymentStatus string) (Order, error) {
	if status != "" && !validStatus(status) {
		return Order{}, fmt.Errorf("invalid status %q", status)
	}
	if paymentStatus != "" && !validPaymentStatus(paymentStatus) {
		return Order{}, fmt.Errorf("invalid payment status %q", paymentStatus)
	}
	return s.repo.UpdateStatus(id, status, paymentStatus)
}

func (s *Service) GetByNumber(orderNumber string) (Order, error) {
	return s.repo.GetByNumber(orderNumber)
}

// MarkPaid records a verified successful gateway notification: payment goes
// to paid and the order advances to confirmed.
func (s *Service) MarkPaid(orderNumber string) (Order, error) {
	return s.repo.UpdatePaymentByNumber(orderNumber, PaymentPaid, StatusConfirmed)
}

func (s *Service) MarkPaymentFailed(orderNumber string) (Order, error) {
	return s.repo.UpdatePaymentByNumber(orderNumber, PaymentFailed, "")
}

// populateFlowers resolves product references on box items for display.
// A catalog read failure degrades to the snapshot data already on the order.
func (s *Service) populateFlowers(ord Order) Order {
	if len(ord.BoxItems) == 0 {
		return ord
	}
	ids := make([]int, 0, len(ord.BoxItems))
	for _, it := range ord.BoxItems {
		ids = append(ids, it.FlowerID)
	}
	flowers, err := s.products.ListByIDs(ids)
	if err != nil {
		return ord
	}
	byID := make(map[int]product.Product, len(flowers))
	for _, f := range flowers {
		byID[f.ID] = f
	}
	for i, it := range ord.BoxItems {
		if f, ok := byID[it.FlowerID]; ok {
			ord.BoxItems[i].Flower = &f
		}
	}
	return ord
}
