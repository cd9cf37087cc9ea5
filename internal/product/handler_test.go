package product

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func seedProducts() *InMemoryRepository {
	return NewInMemoryRepository([]Product{
		{ID: 1, Name: "Red Rose", Category: "roses", Price: 100, Stock: 5, ProductType: TypeIndividualFlower, IsAvailable: true, IsBestseller: true},
		{ID: 2, Name: "White Lily", Category: "lilies", Price: 50, Stock: 2, ProductType: TypeIndividualFlower, IsAvailable: true},
		{ID: 3, Name: "Spring Bouquet", Category: "bouquets", Price: 900, Stock: 10, ProductType: TypeBouquet, IsAvailable: true, IsBestseller: true},
		{ID: 4, Name: "Hidden Orchid", Category: "orchids", Price: 300, Stock: 1, ProductType: TypeIndividualFlower, IsAvailable: false},
	})
}

func adminCtx(c *fiber.Ctx) error {
	c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": float64(1), "role": "admin"}})
	return c.Next()
}

func userCtx(c *fiber.Ctx) error {
	c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": float64(7), "role": "user"}})
	return c.Next()
}

func setupCatalogApp(auth fiber.Handler) *fiber.App {
	app := fiber.New()
	h := NewHandler(NewService(seedProducts()))
	h.RegisterPublicRoutes(app)
	if auth != nil {
		app.Use(auth)
	}
	h.RegisterProtectedRoutes(app)
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string) map[string]any {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("GET %s status = %d", path, res.StatusCode)
	}
	out := map[string]any{}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestGetProducts_Filters(t *testing.T) {
	app := setupCatalogApp(nil)

	all := getJSON(t, app, "/api/v1/products")
	if all["count"] != float64(4) {
		t.Errorf("count = %v, want 4", all["count"])
	}

	flowers := getJSON(t, app, "/api/v1/products?productType=individual-flower&isAvailable=true")
	if flowers["count"] != float64(2) {
		t.Errorf("available individual flowers = %v, want 2", flowers["count"])
	}

	cheap := getJSON(t, app, "/api/v1/products?maxPrice=100")
	if cheap["count"] != float64(2) {
		t.Errorf("products up to 100 = %v, want 2", cheap["count"])
	}
}

func TestGetBestsellers_OnlyAvailable(t *testing.T) {
	app := setupCatalogApp(nil)

	out := getJSON(t, app, "/api/v1/products/bestsellers")
	if out["count"] != float64(2) {
		t.Errorf("bestsellers = %v, want 2", out["count"])
	}
}

func TestGetCategories(t *testing.T) {
	app := setupCatalogApp(nil)

	out := getJSON(t, app, "/api/v1/products/categories")
	if out["count"] != float64(4) {
		t.Errorf("categories = %v, want 4", out["count"])
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	app := setupCatalogApp(nil)

	req := httptest.NewRequest("GET", "/api/v1/product/99", nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.StatusCode)
	}
}

func TestCreateProduct_AdminOnly(t *testing.T) {
	body := `{"name": "Sunflower", "price": 60, "stock": 12, "productType": "individual-flower"}`

	app := setupCatalogApp(userCtx)
	req := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", res.StatusCode)
	}

	app = setupCatalogApp(adminCtx)
	req = httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("admin status = %d, want 201", res.StatusCode)
	}
	var created Product
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || created.Name != "Sunflower" {
		t.Errorf("unexpected created product %+v", created)
	}
}

func TestCreateProduct_RejectsBadPayload(t *testing.T) {
	app := setupCatalogApp(adminCtx)

	req := httptest.NewRequest("POST", "/api/v1/products", strings.NewReader(`{"name": "", "price": -1, "productType": "tree"}`))
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
	for _, field := range []string{"name", "price", "productType"} {
		if out.Errors[field] == "" {
			t.Errorf("expected a validation error for %s", field)
		}
	}
}

func TestRestockProduct(t *testing.T) {
	app := setupCatalogApp(adminCtx)

	req := httptest.NewRequest("PATCH", "/api/v1/product/2/restock", strings.NewReader(`{"quantity": 10}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	var updated Product
	if err := json.NewDecoder(res.Body).Decode(&updated); err != nil {
		t.Fatal(err)
	}
	if updated.Stock != 12 {
		t.Errorf("stock = %d, want 12", updated.Stock)
	}

	req = httptest.NewRequest("PATCH", "/api/v1/product/2/restock", strings.NewReader(`{"quantity": 0}`))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("zero quantity status = %d, want 400", res.StatusCode)
	}
}
