package supplier

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func setupSupplierApp(repo Repository, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"user_id": float64(1),
			"role":    role,
		}})
		return c.Next()
	})
	NewHandler(NewService(repo)).RegisterProtectedRoutes(app)
	return app
}

func TestSuppliers_AdminOnly(t *testing.T) {
	app := setupSupplierApp(NewInMemoryRepository(nil), "user")

	req := httptest.NewRequest("GET", "/api/v1/suppliers", nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", res.StatusCode)
	}
}

func TestCreateSupplier(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	app := setupSupplierApp(repo, "admin")

	body := `{"name": "Bloom Farms", "email": "Sales@BloomFarms.lk", "phone": "0112223344", "address": "Nuwara Eliya"}`
	req := httptest.NewRequest("POST", "/api/v1/suppliers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", res.StatusCode)
	}
	var out struct {
		Success bool     `json:"success"`
		Data    Supplier `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.Data.ID == 0 {
		t.Fatalf("unexpected response %+v", out)
	}
	if out.Data.Email != "sales@bloomfarms.lk" {
		t.Errorf("email not normalized: %q", out.Data.Email)
	}
	if !out.Data.IsActive {
		t.Error("new supplier should default to active")
	}
}

func TestCreateSupplier_DuplicateEmail(t *testing.T) {
	repo := NewInMemoryRepository([]Supplier{
		{ID: 1, Name: "Bloom Farms", Email: "sales@bloomfarms.lk", Phone: "0112223344", Address: "Nuwara Eliya", IsActive: true},
	})
	app := setupSupplierApp(repo, "admin")

	body := `{"name": "Other Farm", "email": "sales@bloomfarms.lk", "phone": "0110000000", "address": "Kandy"}`
	req := httptest.NewRequest("POST", "/api/v1/suppliers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}

func TestCreateSupplier_Validation(t *testing.T) {
	app := setupSupplierApp(NewInMemoryRepository(nil), "admin")

	req := httptest.NewRequest("POST", "/api/v1/suppliers", strings.NewReader(`{"name": "", "email": "not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
	var out struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"name", "email", "phone", "address"} {
		if out.Errors[field] == "" {
			t.Errorf("expected a validation error for %s", field)
		}
	}
}

func TestUpdateAndDeleteSupplier(t *testing.T) {
	repo := NewInMemoryRepository([]Supplier{
		{ID: 1, Name: "Bloom Farms", Email: "sales@bloomfarms.lk", Phone: "0112223344", Address: "Nuwara Eliya", IsActive: true},
	})
	app := setupSupplierApp(repo, "admin")

	body := `{"name": "Bloom Farms Ltd", "email": "sales@bloomfarms.lk", "phone": "0112223344", "address": "Nuwara Eliya", "isActive": false}`
	req := httptest.NewRequest("PUT", "/api/v1/supplier/1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("update status = %d, want 200", res.StatusCode)
	}
	updated, err := repo.GetByID(1)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Bloom Farms Ltd" || updated.IsActive {
		t.Errorf("update not applied: %+v", updated)
	}

	req = httptest.NewRequest("DELETE", "/api/v1/supplier/1", nil)
	res, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("delete status = %d, want 200", res.StatusCode)
	}
	if _, err := repo.GetByID(1); err != ErrNotFound {
		t.Fatalf("supplier should be gone, got %v", err)
	}

	req = httptest.NewRequest("DELETE", "/api/v1/supplier/1", nil)
	res, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", res.StatusCode)
	}
}
