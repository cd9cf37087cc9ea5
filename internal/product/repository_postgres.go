package product

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const productColumns = `product_id, product_name, description, category, price, stock, image, supplier_id, is_available, is_bestseller, product_type, created_at, updated_at`

const (
	getProductByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`

	insertProductQuery = `
		INSERT INTO products (product_name, description, category, price, stock, image, supplier_id, is_available, is_bestseller, product_type, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING product_id
	`
	updateProductQuery = `
		UPDATE products
		SET product_name = $1,
			description = $2,
			category = $3,
			price = $4,
			stock = $5,
			image = $6,
			supplier_id = $7,
			is_available = $8,
			is_bestseller = $9,
			product_type = $10,
			updated_at = $11
		WHERE product_id = $12
	`
	deleteProductQuery = `DELETE FROM products WHERE product_id = $1`

	// The stock guard lives in the WHERE clause so two concurrent decrements
	// can never drive stock negative: the second one simply affects zero rows.
	adjustStockQuery = `
		UPDATE products
		SET stock = stock + $2, updated_at = $3
		WHERE product_id = $1 AND stock + $2 >= 0
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanProduct(row interface{ Scan(...any) error }) (Product, error) {
	var p Product
	var description, category, image, createdAt, updatedAt sql.NullString
	var supplierID sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &description, &category, &p.Price, &p.Stock, &image, &supplierID, &p.IsAvailable, &p.IsBestseller, &p.ProductType, &createdAt, &updatedAt)
	if err != nil {
		return Product{}, err
	}
	p.Description = description.String
	p.Category = category.String
	p.Image = image.String
	p.CreatedAt = createdAt.String
	p.UpdatedAt = updatedAt.String
	if supplierID.Valid {
		id := int(supplierID.Int64)
		p.SupplierID = &id
	}
	return p, nil
}

func (r *PostgresRepository) List(f Filter) []Product {
	query := `SELECT ` + productColumns + ` FROM products`
	conds := []string{}
	args := []any{}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.ProductType != "" {
		add("product_type = $%d", f.ProductType)
	}
	if f.OnlyAvailable {
		conds = append(conds, "is_available = TRUE")
	}
	if f.OnlyBestseller {
		conds = append(conds, "is_bestseller = TRUE")
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, product_id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1::int[]) ORDER BY array_position($1::int[], product_id)`
	rows, err := r.db.Query(query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Categories() []string {
	rows, err := r.db.Query(`SELECT DISTINCT category FROM products WHERE category IS NOT NULL AND category <> '' ORDER BY category`)
	if err != nil {
		return []string{}
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	var supplierID any
	if p.SupplierID != nil {
		supplierID = *p.SupplierID
	}
	var id int
	err := r.db.QueryRow(
		insertProductQuery,
		p.Name, p.Description, p.Category, p.Price, p.Stock, p.Image,
		supplierID, p.IsAvailable, p.IsBestseller, p.ProductType,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	var supplierID any
	if p.SupplierID != nil {
		supplierID = *p.SupplierID
	}
	result, err := r.db.Exec(
		updateProductQuery,
		p.Name, p.Description, p.Category, p.Price, p.Stock, p.Image,
		supplierID, p.IsAvailable, p.IsBestseller, p.ProductType,
		p.UpdatedAt, id,
	)
	if err != nil {
		return Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) AdjustStock(id int, delta int) (Product, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	result, err := r.db.Exec(adjustStockQuery, id, delta, now)
	if err != nil {
		return Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		// distinguish a missing product from a shortage
		if _, err := r.GetByID(id); err != nil {
			return Product{}, err
		}
		return Product{}, ErrInsufficientStock
	}
	return r.GetByID(id)
}
