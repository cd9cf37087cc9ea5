package supplier

import (
	"strconv"
	"strings"
	"time"

	"github.com/dinujaya/flower-shop-backend/internal/user"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// All supplier routes are admin-only back-office endpoints.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/suppliers", h.getSuppliers)
	app.Post("/api/v1/suppliers", h.createSupplier)
	app.Get("/api/v1/supplier/:id", h.getSupplier)
	app.Put("/api/v1/supplier/:id", h.updateSupplier)
	app.Delete("/api/v1/supplier/:id", h.deleteSupplier)
}

type supplierPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	CompanyName string `json:"companyName"`
	Notes       string `json:"notes"`
	IsActive    *bool  `json:"isActive"`
}

func validateSupplierPayload(p *supplierPayload) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "Supplier name is required"
	}
	if !strings.Contains(p.Email, "@") {
		errs["email"] = "Please provide a valid email"
	}
	if strings.TrimSpace(p.Phone) == "" {
		errs["phone"] = "Phone number is required"
	}
	if strings.TrimSpace(p.Address) == "" {
		errs["address"] = "Address is required"
	}
	return errs
}

func (p *supplierPayload) toSupplier() Supplier {
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return Supplier{
		Name:        strings.TrimSpace(p.Name),
		Email:       strings.ToLower(strings.TrimSpace(p.Email)),
		Phone:       strings.TrimSpace(p.Phone),
		Address:     strings.TrimSpace(p.Address),
		CompanyName: strings.TrimSpace(p.CompanyName),
		Notes:       strings.TrimSpace(p.Notes),
		IsActive:    active,
	}
}

func (h *Handler) getSuppliers(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}
	suppliers := h.service.List()
	return c.JSON(fiber.Map{"success": true, "count": len(suppliers), "data": suppliers})
}

func (h *Handler) getSupplier(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	s, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Supplier not found"})
	}
	return c.JSON(fiber.Map{"success": true, "data": s})
}

func (h *Handler) createSupplier(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	payload := new(supplierPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if ves := validateSupplierPayload(payload); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errors": ves})
	}

	s := payload.toSupplier()
	now := time.Now().UTC().Format(time.RFC3339)
	s.CreatedAt = now
	s.UpdatedAt = now

	created, err := h.service.Create(s)
	if err != nil {
		if err == ErrEmailExists {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Supplier with this email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func (h *Handler) updateSupplier(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	payload := new(supplierPayload)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if ves := validateSupplierPayload(payload); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errors": ves})
	}

	s := payload.toSupplier()
	s.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	updated, err := h.service.Update(id, s)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Supplier not found"})
		case ErrEmailExists:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Supplier with this email already exists"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"success": true, "data": updated})
}

func (h *Handler) deleteSupplier(c *fiber.Ctx) error {
	if !user.IsAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin only"})
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Supplier not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Supplier deleted"})
}
