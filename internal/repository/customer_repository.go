package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

// ErrCustomerNotFound is returned when a customer lookup yields no rows.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepo provides CRUD operations for customers.  Customers have
// unique email and phone columns; violations surface as ErrEmailExists
// and ErrPhoneExists.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// Create inserts a new customer and populates its generated ID and
// timestamps on the provided struct.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	const q = `INSERT INTO customers (first_name, last_name, email, phone, address) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.FirstName, c.LastName, c.Email, c.Phone, c.Address)
	if err != nil {
		return duplicateKeyError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	// Query back the DB-assigned timestamps.
	const sel = `SELECT created_at, updated_at FROM customers WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a customer by its ID.  It returns
// ErrCustomerNotFound if no row is found.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT id, first_name, last_name, email, phone, address, created_at, updated_at
	           FROM customers WHERE id = ? LIMIT 1`
	var c model.Customer
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all customers ordered by ID.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	const q = `SELECT id, first_name, last_name, email, phone, address, created_at, updated_at
	           FROM customers ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update overwrites a customer's fields.  Returns ErrCustomerNotFound
// when the row does not exist.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	const q = `UPDATE customers SET first_name = ?, last_name = ?, email = ?, phone = ?, address = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.ID)
	if err != nil {
		return duplicateKeyError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero rows can mean "missing" or "unchanged"; check existence.
		var one int
		if err2 := r.db.QueryRowContext(ctx, `SELECT 1 FROM customers WHERE id = ?`, c.ID).Scan(&one); err2 != nil {
			if errors.Is(err2, sql.ErrNoRows) {
				return ErrCustomerNotFound
			}
			return err2
		}
	}
	return nil
}

// Delete removes a customer.  Customers who still own service tickets
// cannot be deleted; the FK violation is reported as ErrConflict.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		if foreignKeyConflict(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
