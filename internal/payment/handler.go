package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dinujaya/flower-shop-backend/internal/config"
	"github.com/dinujaya/flower-shop-backend/internal/order"
	"github.com/gofiber/fiber/v2"
)

// PayHere status codes delivered on the notify callback.
const (
	statusCodeSuccess = "2"
	statusCodePending = "0"
)

type Handler struct {
	cfg    config.PayHereConfig
	orders order.ServiceInterface
}

func NewHandler(cfg config.PayHereConfig, orders order.ServiceInterface) *Handler {
	return &Handler{cfg: cfg, orders: orders}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	// gateway server-to-server callback, authenticated by md5sig instead of JWT
	app.Post("/api/v1/payment/notify", h.notify)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/payment/generate-hash", h.generateHash)
	app.Get("/api/v1/payment/status/:orderNumber", h.status)
}

// flexAmount accepts both JSON numbers and numeric strings, the way the
// gateway's own SDKs do. Either spelling of 1000 hashes as "1000.00".
type flexAmount float64

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return errors.New("amount is required")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*a = flexAmount(v)
	return nil
}

type generateHashRequest struct {
	OrderID  string      `json:"orderId"`
	Amount   *flexAmount `json:"amount"`
	Currency string      `json:"currency"`
}

func (h *Handler) generateHash(c *fiber.Ctx) error {
	payload := new(generateHashRequest)
	if err := json.Unmarshal(c.Body(), payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.OrderID == "" || payload.Amount == nil || payload.Currency == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Order ID, amount, and currency are required",
		})
	}
	if h.cfg.MerchantID == "" || h.cfg.MerchantSecret == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Error generating payment hash",
		})
	}

	hash := GenerateHash(h.cfg.MerchantID, payload.OrderID, float64(*payload.Amount), payload.Currency, h.cfg.MerchantSecret)

	return c.JSON(fiber.Map{
		"success":    true,
		"hash":       hash,
		"merchantId": h.cfg.MerchantID,
	})
}

// notify handles the asynchronous gateway callback. The response is plain
// text because the caller is PayHere, not a browser: 400 "Invalid signature"
// on a bad md5sig, otherwise 200 "OK" no matter what the status code says.
func (h *Handler) notify(c *fiber.Ctx) error {
	merchantID := c.FormValue("merchant_id")
	orderNumber := c.FormValue("order_id")
	amount := c.FormValue("payhere_amount")
	currency := c.FormValue("payhere_currency")
	statusCode := c.FormValue("status_code")
	md5sig := c.FormValue("md5sig")

	if !VerifyNotification(merchantID, orderNumber, amount, currency, statusCode, md5sig, h.cfg.MerchantSecret) {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid signature")
	}

	switch statusCode {
	case statusCodeSuccess:
		if _, err := h.orders.MarkPaid(orderNumber); err != nil {
			fmt.Printf("payment notify: could not mark order %s paid: %v\n", orderNumber, err)
		}
	case statusCodePending:
		// leave the order pending; the gateway will call again
	default:
		// failed, cancelled, or charged back
		if _, err := h.orders.MarkPaymentFailed(orderNumber); err != nil {
			fmt.Printf("payment notify: could not mark order %s failed: %v\n", orderNumber, err)
		}
	}

	return c.SendString("OK")
}

func (h *Handler) status(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	ord, err := h.orders.GetByNumber(orderNumber)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error fetching payment status"})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"orderNumber":   ord.OrderNumber,
		"status":        ord.Status,
		"paymentStatus": ord.PaymentStatus,
	})
}
