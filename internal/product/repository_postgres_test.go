package product

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func productRow(id int, name string, price float64, stock int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"product_id", "product_name", "description", "category", "price", "stock",
		"image", "supplier_id", "is_available", "is_bestseller", "product_type",
		"created_at", "updated_at",
	}).AddRow(id, name, nil, "roses", price, stock, nil, nil, true, false, TypeIndividualFlower, nil, nil)
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}))

	if _, err := repo.GetByID(99); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresAdjustStock_Decrement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE products").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(1).
		WillReturnRows(productRow(1, "Red Rose", 100, 2))

	p, err := repo.AdjustStock(1, -3)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if p.Stock != 2 {
		t.Errorf("stock = %d, want 2", p.Stock)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresAdjustStock_Shortage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// conditional update touches nothing, but the product still exists
	mock.ExpectExec("UPDATE products").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(1).
		WillReturnRows(productRow(1, "Red Rose", 100, 2))

	if _, err := repo.AdjustStock(1, -5); err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresAdjustStock_MissingProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE products").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}))

	if _, err := repo.AdjustStock(42, -1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
