package order

import (
	"errors"
	"strconv"

	"github.com/dinujaya/flower-shop-backend/internal/user"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders/custom-box", h.createCustomBox)
	app.Get("/api/v1/orders/custom-box", h.listCustomBox)
	app.Get("/api/v1/orders/custom-box/:id", h.getCustomBox)
	// admin back-office
	app.Get("/api/v1/orders", h.listAll)
	app.Patch("/api/v1/order/:id/status", h.updateStatus)
}

func (h *Handler) createCustomBox(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	input := new(CustomBoxInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.CreateCustomBox(userID, *input)
	if err != nil {
		return writeCreateError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Custom flower box order created successfully",
		"order":   created,
	})
}

// writeCreateError maps the reservation error taxonomy onto HTTP statuses:
// 404 for unknown flowers, 400 for anything the client can fix, 500 for
// store failures.
func writeCreateError(c *fiber.Ctx, err error) error {
	var notFound *FlowerNotFoundError
	var invalid *InvalidItemError
	var shortage *InsufficientStockError

	switch {
	case errors.Is(err, ErrEmptyBox):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Box items are required"})
	case errors.Is(err, ErrMissingDelivery):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Delivery information is incomplete"})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Flower not found: " + strconv.Itoa(notFound.FlowerID)})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": invalid.Reason})
	case errors.As(err, &shortage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":   shortage.Error(),
			"available": shortage.Available,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}
}

func (h *Handler) listCustomBox(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListCustomBoxForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) getCustomBox(c *fiber.Ctx) error {
	userID, err := user.UserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	ord, err := h.service.GetForUser(id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(ord)
}

func (h *Handler) listAll(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	orders, err := h.service.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "count": len(orders), "data": orders})
}

type statusUpdateRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	payload := new(statusUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Status == "" && payload.PaymentStatus == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "status or paymentStatus is required"})
	}

	updated, err := h.service.UpdateStatus(id, payload.Status, payload.PaymentStatus)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}
