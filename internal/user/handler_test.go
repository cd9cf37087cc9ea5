package user

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func setupUserApp(repo Repository) *fiber.App {
	app := fiber.New()
	h := NewHandler(NewService(repo), []byte(testSecret))
	h.RegisterPublicRoutes(app)
	return app
}

func setupProtectedUserApp(repo Repository, userID int, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"user_id": float64(userID),
			"role":    role,
		}})
		return c.Next()
	})
	NewHandler(NewService(repo), []byte(testSecret)).RegisterProtectedRoutes(app)
	return app
}

func TestRegisterThenLogin(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	app := setupUserApp(repo)

	signUp := `{"email": "amara@example.com", "password": "hunter22", "firstName": "Amara", "lastName": "Silva"}`
	req := httptest.NewRequest("POST", "/api/v1/sign-up", strings.NewReader(signUp))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("sign-up status = %d, want 201", res.StatusCode)
	}
	var created User
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Password != "" {
		t.Error("response must not leak the password hash")
	}
	if created.Role != RoleUser {
		t.Errorf("role = %q, want user", created.Role)
	}

	stored, err := repo.GetByEmail("amara@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Password == "hunter22" {
		t.Error("stored password must be hashed")
	}

	signIn := `{"email": "amara@example.com", "password": "hunter22"}`
	req = httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(signIn))
	req.Header.Set("Content-Type", "application/json")
	res, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("sign-in status = %d, want 200", res.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Token == "" {
		t.Fatal("sign-in must return a token")
	}

	tok, err := jwt.Parse(out.Token, func(*jwt.Token) (any, error) { return []byte(testSecret), nil })
	if err != nil || !tok.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["role"] != RoleUser || claims["email"] != "amara@example.com" {
		t.Errorf("unexpected claims %v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	app := setupUserApp(repo)

	signUp := `{"email": "amara@example.com", "password": "hunter22", "firstName": "Amara", "lastName": "Silva"}`
	req := httptest.NewRequest("POST", "/api/v1/sign-up", strings.NewReader(signUp))
	req.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(req, -1); err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(`{"email": "amara@example.com", "password": "wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.StatusCode)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	app := setupUserApp(repo)

	signUp := `{"email": "amara@example.com", "password": "hunter22", "firstName": "Amara", "lastName": "Silva"}`
	for i, want := range []int{fiber.StatusCreated, fiber.StatusConflict} {
		req := httptest.NewRequest("POST", "/api/v1/sign-up", strings.NewReader(signUp))
		req.Header.Set("Content-Type", "application/json")
		res, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		if res.StatusCode != want {
			t.Fatalf("attempt %d status = %d, want %d", i+1, res.StatusCode, want)
		}
	}
}

func TestRegister_MissingFields(t *testing.T) {
	app := setupUserApp(NewInMemoryRepository(nil))

	req := httptest.NewRequest("POST", "/api/v1/sign-up", strings.NewReader(`{"email": "x@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
}

func TestGetProfile(t *testing.T) {
	repo := NewInMemoryRepository([]User{
		{ID: 7, Email: "amara@example.com", FirstName: "Amara", Role: RoleUser},
	})
	app := setupProtectedUserApp(repo, 7, RoleUser)

	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	var u User
	if err := json.NewDecoder(res.Body).Decode(&u); err != nil {
		t.Fatal(err)
	}
	if u.ID != 7 || u.Email != "amara@example.com" {
		t.Errorf("unexpected profile %+v", u)
	}
}

func TestUpdateProfile_PartialPatch(t *testing.T) {
	repo := NewInMemoryRepository([]User{
		{ID: 7, Email: "amara@example.com", FirstName: "Amara", LastName: "Silva", Phone: "0770000000", Role: RoleUser},
	})
	app := setupProtectedUserApp(repo, 7, RoleUser)

	req := httptest.NewRequest("PATCH", "/api/v1/profile", strings.NewReader(`{"phone": "0779999999"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	var u User
	if err := json.NewDecoder(res.Body).Decode(&u); err != nil {
		t.Fatal(err)
	}
	if u.Phone != "0779999999" {
		t.Errorf("phone = %q, want updated value", u.Phone)
	}
	if u.FirstName != "Amara" || u.LastName != "Silva" {
		t.Errorf("untouched fields changed: %+v", u)
	}
}

func TestListUsers_AdminOnly(t *testing.T) {
	repo := NewInMemoryRepository([]User{
		{ID: 1, Email: "admin@example.com", Role: RoleAdmin},
		{ID: 7, Email: "amara@example.com", Role: RoleUser},
	})

	app := setupProtectedUserApp(repo, 7, RoleUser)
	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", res.StatusCode)
	}

	app = setupProtectedUserApp(repo, 1, RoleAdmin)
	req = httptest.NewRequest("GET", "/api/v1/users", nil)
	res, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("admin status = %d, want 200", res.StatusCode)
	}
	var users []User
	if err := json.NewDecoder(res.Body).Decode(&users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	for _, u := range users {
		if u.Password != "" {
			t.Error("listing must not leak password hashes")
		}
	}
}
