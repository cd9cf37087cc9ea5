package order

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

const orderColumns = `order_id, order_number, user_id, order_type, box_items, total_amount,
	street, city, state, zip_code, country, recipient_name, recipient_phone,
	delivery_date, delivery_time, status, payment_status, payment_method,
	special_instructions, created_at, updated_at`

const (
	// stock guard in the WHERE clause: zero rows affected means a concurrent
	// order got there first, and the surrounding transaction is rolled back.
	deductStockQuery = `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE product_id = $1 AND stock >= $2
	`
	currentStockQuery = `SELECT stock FROM products WHERE product_id = $1`

	insertOrderQuery = `
		INSERT INTO orders (order_number, user_id, order_type, box_items, total_amount,
			street, city, state, zip_code, country, recipient_name, recipient_phone,
			delivery_date, delivery_time, status, payment_status, payment_method,
			special_instructions, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		RETURNING order_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateCustomBox commits the reservation atomically. All conditional stock
// decrements and the order insert share one transaction, so a shortage on the
// last item undoes the decrements already applied for earlier items.
func (r *PostgresRepository) CreateCustomBox(ord Order) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	for _, it := range ord.BoxItems {
		result, err := tx.Exec(deductStockQuery, it.FlowerID, it.Quantity, ord.CreatedAt)
		if err != nil {
			return Order{}, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return Order{}, err
		}
		if affected == 0 {
			available := 0
			// the row may also be gone entirely; a scan error keeps available at 0
			_ = tx.QueryRow(currentStockQuery, it.FlowerID).Scan(&available)
			return Order{}, &InsufficientStockError{FlowerID: it.FlowerID, Name: it.Name, Requested: it.Quantity, Available: available}
		}
	}

	boxJSON, err := json.Marshal(ord.BoxItems)
	if err != nil {
		return Order{}, err
	}

	err = tx.QueryRow(insertOrderQuery,
		ord.OrderNumber, ord.UserID, ord.OrderType, boxJSON, ord.TotalAmount,
		ord.DeliveryAddress.Street, ord.DeliveryAddress.City, ord.DeliveryAddress.State,
		ord.DeliveryAddress.ZipCode, ord.DeliveryAddress.Country,
		ord.RecipientName, ord.RecipientPhone, ord.DeliveryDate, ord.DeliveryTime,
		ord.Status, ord.PaymentStatus, ord.PaymentMethod, ord.SpecialInstructions,
		ord.CreatedAt, ord.UpdatedAt,
	).Scan(&ord.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Order{}, ErrDuplicateOrderNumber
		}
		return Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var ord Order
	var boxJSON []byte
	var state, zipCode, country, deliveryTime, special, createdAt, updatedAt sql.NullString
	err := row.Scan(&ord.ID, &ord.OrderNumber, &ord.UserID, &ord.OrderType, &boxJSON, &ord.TotalAmount,
		&ord.DeliveryAddress.Street, &ord.DeliveryAddress.City, &state, &zipCode, &country,
		&ord.RecipientName, &ord.RecipientPhone, &ord.DeliveryDate, &deliveryTime,
		&ord.Status, &ord.PaymentStatus, &ord.PaymentMethod, &special, &createdAt, &updatedAt)
	if err != nil {
		return Order{}, err
	}
	ord.DeliveryAddress.State = state.String
	ord.DeliveryAddress.ZipCode = zipCode.String
	ord.DeliveryAddress.Country = country.String
	ord.DeliveryTime = deliveryTime.String
	ord.SpecialInstructions = special.String
	ord.CreatedAt = createdAt.String
	ord.UpdatedAt = updatedAt.String
	if len(boxJSON) > 0 {
		json.Unmarshal(boxJSON, &ord.BoxItems)
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) GetByNumber(orderNumber string) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(userID int, orderType string) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1`
	args := []any{userID}
	if orderType != "" {
		query += ` AND order_type = $2`
		args = append(args, orderType)
	}
	query += ` ORDER BY order_id DESC`
	return r.queryOrders(query, args...)
}

func (r *PostgresRepository) List() ([]Order, error) {
	return r.queryOrders(`SELECT ` + orderColumns + ` FROM orders ORDER BY order_id DESC`)
}

func (r *PostgresRepository) queryOrders(query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(id int, status, paymentStatus string) (Order, error) {
	result, err := r.db.Exec(`
		UPDATE orders
		SET status = COALESCE(NULLIF($2, ''), status),
			payment_status = COALESCE(NULLIF($3, ''), payment_status),
			updated_at = $4
		WHERE order_id = $1`,
		id, status, paymentStatus, nowRFC3339())
	if err != nil {
		return Order{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if affected == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) UpdatePaymentByNumber(orderNumber, paymentStatus, status string) (Order, error) {
	result, err := r.db.Exec(`
		UPDATE orders
		SET payment_status = COALESCE(NULLIF($2, ''), payment_status),
			status = COALESCE(NULLIF($3, ''), status),
			updated_at = $4
		WHERE order_number = $1`,
		orderNumber, paymentStatus, status, nowRFC3339())
	if err != nil {
		return Order{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if affected == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByNumber(orderNumber)
}
