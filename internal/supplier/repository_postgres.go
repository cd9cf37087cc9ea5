package supplier

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const supplierColumns = `supplier_id, name, email, phone, address, company_name, notes, is_active, created_at, updated_at`

const (
	listSuppliersQuery  = `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY created_at DESC, supplier_id DESC`
	getSupplierQuery    = `SELECT ` + supplierColumns + ` FROM suppliers WHERE supplier_id = $1`
	getByEmailQuery     = `SELECT ` + supplierColumns + ` FROM suppliers WHERE email = $1`
	insertSupplierQuery = `
		INSERT INTO suppliers (name, email, phone, address, company_name, notes, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING supplier_id
	`
	updateSupplierQuery = `
		UPDATE suppliers
		SET name = $1, email = $2, phone = $3, address = $4, company_name = $5, notes = $6, is_active = $7, updated_at = $8
		WHERE supplier_id = $9
	`
	deleteSupplierQuery = `DELETE FROM suppliers WHERE supplier_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanSupplier(row interface{ Scan(...any) error }) (Supplier, error) {
	var s Supplier
	var companyName, notes, createdAt, updatedAt sql.NullString
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &companyName, &notes, &s.IsActive, &createdAt, &updatedAt); err != nil {
		return Supplier{}, err
	}
	s.CompanyName = companyName.String
	s.Notes = notes.String
	s.CreatedAt = createdAt.String
	s.UpdatedAt = updatedAt.String
	return s, nil
}

func (r *PostgresRepository) List() []Supplier {
	rows, err := r.db.Query(listSuppliersQuery)
	if err != nil {
		return []Supplier{}
	}
	defer rows.Close()

	out := make([]Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Supplier, error) {
	s, err := scanSupplier(r.db.QueryRow(getSupplierQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Supplier{}, ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *PostgresRepository) GetByEmail(email string) (Supplier, error) {
	s, err := scanSupplier(r.db.QueryRow(getByEmailQuery, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return Supplier{}, ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(s Supplier) (Supplier, error) {
	var id int
	err := r.db.QueryRow(insertSupplierQuery, s.Name, s.Email, s.Phone, s.Address, s.CompanyName, s.Notes, s.IsActive, s.CreatedAt, s.UpdatedAt).Scan(&id)
	if err != nil {
		return Supplier{}, err
	}
	s.ID = id
	return s, nil
}

func (r *PostgresRepository) Update(id int, s Supplier) (Supplier, error) {
	result, err := r.db.Exec(updateSupplierQuery, s.Name, s.Email, s.Phone, s.Address, s.CompanyName, s.Notes, s.IsActive, s.UpdatedAt, id)
	if err != nil {
		return Supplier{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Supplier{}, err
	}
	if affected == 0 {
		return Supplier{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteSupplierQuery, id)
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
