package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	appconfig "github.com/dinujaya/flower-shop-backend/internal/config"
	"github.com/dinujaya/flower-shop-backend/internal/order"
	"github.com/dinujaya/flower-shop-backend/internal/payment"
	"github.com/dinujaya/flower-shop-backend/internal/product"
	"github.com/dinujaya/flower-shop-backend/internal/supplier"
	"github.com/dinujaya/flower-shop-backend/internal/user"
)

// main wires dependencies and starts the HTTP server. The database handle is
// the only shared resource; it is opened here, handed to each repository, and
// closed on the way out.
func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	app := fiber.New()
	setupCORS(app)
	app.Use(traceMiddleware)

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, []byte(cfg.JWTSecret))

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	orderService := order.NewService(order.NewPostgresRepository(db), productService)
	orderHandler := order.NewHandler(orderService)

	paymentHandler := payment.NewHandler(cfg.PayHere, orderService)

	supplierHandler := supplier.NewHandler(supplier.NewService(supplier.NewPostgresRepository(db)))

	// routes registered before the JWT middleware stay public: sign-in/up,
	// catalog reads, and the gateway notify callback (verified by md5sig).
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	paymentHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	supplierHandler.RegisterProtectedRoutes(app)

	if err := app.Listen(cfg.Addr); err != nil {
		panic(err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func traceMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	fmt.Printf("%s %s -> %d (%v)\n", c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
	return err
}

func mustOpenDB(databaseURL string) *sql.DB {
	if databaseURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

// ensureSchema creates the tables on first boot. The stock CHECK mirrors the
// conditional decrement in the order flow as a second line of defence.
func ensureSchema(db *sql.DB) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			phone TEXT,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			supplier_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone TEXT NOT NULL,
			address TEXT NOT NULL,
			company_name TEXT,
			notes TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id SERIAL PRIMARY KEY,
			product_name TEXT NOT NULL,
			description TEXT,
			category TEXT,
			price NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
			stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
			image TEXT,
			supplier_id INT REFERENCES suppliers(supplier_id) ON DELETE SET NULL,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			is_bestseller BOOLEAN NOT NULL DEFAULT FALSE,
			product_type TEXT NOT NULL DEFAULT 'individual-flower',
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			order_number TEXT UNIQUE NOT NULL,
			user_id INT NOT NULL,
			order_type TEXT NOT NULL DEFAULT 'normal',
			box_items JSONB NOT NULL DEFAULT '[]',
			total_amount NUMERIC NOT NULL DEFAULT 0 CHECK (total_amount >= 0),
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT,
			zip_code TEXT,
			country TEXT,
			recipient_name TEXT NOT NULL,
			recipient_phone TEXT NOT NULL,
			delivery_date TEXT NOT NULL,
			delivery_time TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			payment_method TEXT NOT NULL DEFAULT 'cash',
			special_instructions TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_type ON products (product_type)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
