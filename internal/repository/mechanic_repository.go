package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

// ErrMechanicNotFound is returned when a mechanic lookup yields no rows.
var ErrMechanicNotFound = errors.New("mechanic not found")

// MechanicRepo provides CRUD operations for mechanics plus the
// mechanic↔ticket association helpers used inside engine transactions.
// Passwords are stored as bcrypt hashes; hashing happens in the handler
// so the repository never sees plain text.
type MechanicRepo struct {
	db *sql.DB
}

// NewMechanicRepo returns a MechanicRepo bound to the given database.
func NewMechanicRepo(db *sql.DB) *MechanicRepo { return &MechanicRepo{db: db} }

// Create inserts a new mechanic and populates its generated ID and
// timestamps.  Duplicate email or phone surfaces as ErrEmailExists or
// ErrPhoneExists.
func (r *MechanicRepo) Create(ctx context.Context, m *model.Mechanic) error {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	const q = `INSERT INTO mechanics (first_name, last_name, specialty, email, phone, password_hash) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.FirstName, m.LastName, m.Specialty, m.Email, m.Phone, m.PasswordHash)
	if err != nil {
		return duplicateKeyError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM mechanics WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID retrieves a mechanic by its ID.  It returns
// ErrMechanicNotFound if no row is found.
func (r *MechanicRepo) GetByID(ctx context.Context, id uint64) (*model.Mechanic, error) {
	const q = `SELECT id, first_name, last_name, specialty, email, phone, password_hash, created_at, updated_at
	           FROM mechanics WHERE id = ? LIMIT 1`
	var m model.Mechanic
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Specialty, &m.Email, &m.Phone, &m.PasswordHash, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMechanicNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetByEmail fetches a mechanic by normalized email, used at login.
// Returns ErrMechanicNotFound when no account matches.
func (r *MechanicRepo) GetByEmail(ctx context.Context, email string) (*model.Mechanic, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT id, first_name, last_name, specialty, email, phone, password_hash, created_at, updated_at
	           FROM mechanics WHERE email = ? LIMIT 1`
	var m model.Mechanic
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Specialty, &m.Email, &m.Phone, &m.PasswordHash, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMechanicNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all mechanics ordered by ID.
func (r *MechanicRepo) List(ctx context.Context) ([]model.Mechanic, error) {
	const q = `SELECT id, first_name, last_name, specialty, email, phone, password_hash, created_at, updated_at
	           FROM mechanics ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Mechanic, 0)
	for rows.Next() {
		var m model.Mechanic
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Specialty, &m.Email, &m.Phone, &m.PasswordHash, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update overwrites a mechanic's fields, including the password hash.
// Returns ErrMechanicNotFound when the row does not exist.
func (r *MechanicRepo) Update(ctx context.Context, m *model.Mechanic) error {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	const q = `UPDATE mechanics SET first_name = ?, last_name = ?, specialty = ?, email = ?, phone = ?, password_hash = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, m.FirstName, m.LastName, m.Specialty, m.Email, m.Phone, m.PasswordHash, m.ID)
	if err != nil {
		return duplicateKeyError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err2 := r.db.QueryRowContext(ctx, `SELECT 1 FROM mechanics WHERE id = ?`, m.ID).Scan(&one); err2 != nil {
			if errors.Is(err2, sql.ErrNoRows) {
				return ErrMechanicNotFound
			}
			return err2
		}
	}
	return nil
}

// Delete removes a mechanic.  Assignments referencing the mechanic keep
// the row alive via FK constraints; that case is reported as ErrConflict.
func (r *MechanicRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mechanics WHERE id = ?`, id)
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
		return ErrMechanicNotFound
	}
	return nil
}

// GetByIDTx is GetByID within an existing transaction.  It returns
// (nil, nil) when the mechanic does not exist so engine code can treat
// absence as a precondition failure rather than a DB error.
func (r *MechanicRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Mechanic, error) {
	const q = `SELECT id, first_name, last_name, specialty, email, phone, password_hash, created_at, updated_at
	           FROM mechanics WHERE id = ? LIMIT 1`
	var m model.Mechanic
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Specialty, &m.Email, &m.Phone, &m.PasswordHash, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// IsAssignedTx reports whether the mechanic is currently assigned to
// the ticket, within the provided transaction.
func (r *MechanicRepo) IsAssignedTx(ctx context.Context, tx *sql.Tx, ticketID, mechanicID uint64) (bool, error) {
	const q = `SELECT 1 FROM mechanic_assignments WHERE service_ticket_id = ? AND mechanic_id = ? LIMIT 1`
	var one int
	err := tx.QueryRowContext(ctx, q, ticketID, mechanicID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddAssignmentTx inserts the mechanic↔ticket association.
func (r *MechanicRepo) AddAssignmentTx(ctx context.Context, tx *sql.Tx, ticketID, mechanicID uint64) error {
	const q = `INSERT INTO mechanic_assignments (service_ticket_id, mechanic_id) VALUES (?, ?)`
	_, err := tx.ExecContext(ctx, q, ticketID, mechanicID)
	return err
}

// RemoveAssignmentTx deletes the mechanic↔ticket association.
func (r *MechanicRepo) RemoveAssignmentTx(ctx context.Context, tx *sql.Tx, ticketID, mechanicID uint64) error {
	const q = `DELETE FROM mechanic_assignments WHERE service_ticket_id = ? AND mechanic_id = ?`
	_, err := tx.ExecContext(ctx, q, ticketID, mechanicID)
	return err
}

// CountAssignmentsTx counts mechanics currently assigned to the ticket.
func (r *MechanicRepo) CountAssignmentsTx(ctx context.Context, tx *sql.Tx, ticketID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM mechanic_assignments WHERE service_ticket_id = ?`
	var n int
	if err := tx.QueryRowContext(ctx, q, ticketID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
