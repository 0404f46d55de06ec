package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

// ErrTicketNotFound is returned when a service ticket lookup yields no rows.
var ErrTicketNotFound = errors.New("service ticket not found")

// TicketRepo provides CRUD operations for service tickets.  The derived
// price and parts_summary columns are written only through
// UpdateReconciledTx; the general Update path deliberately leaves them
// alone so the reconciliation engine stays their single writer.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, customer_id, vehicle_make, vehicle_model, vehicle_year, service_description,
	status, price, parts_summary, date_created, completed_at, created_at, updated_at`

func scanTicket(scan func(dest ...any) error) (*model.ServiceTicket, error) {
	var (
		t       model.ServiceTicket
		price   decimal.NullDecimal
		summary sql.NullString
		done    sql.NullTime
	)
	err := scan(
		&t.ID, &t.CustomerID, &t.VehicleMake, &t.VehicleModel, &t.VehicleYear, &t.ServiceDescription,
		&t.Status, &price, &summary, &t.DateCreated, &done, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		p := price.Decimal
		t.Price = &p
	}
	if summary.Valid {
		s := summary.String
		t.PartsSummary = &s
	}
	if done.Valid {
		d := done.Time
		t.CompletedAt = &d
	}
	return &t, nil
}

// Create inserts a new ticket.  Status defaults to Pending and
// date_created to today when the caller leaves them zero.  The
// generated ID and DB-assigned fields are populated on the struct.
func (r *TicketRepo) Create(ctx context.Context, t *model.ServiceTicket) error {
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if t.DateCreated.IsZero() {
		t.DateCreated = time.Now().UTC()
	}
	const q = `INSERT INTO service_tickets
		(customer_id, vehicle_make, vehicle_model, vehicle_year, service_description, status, date_created)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		t.CustomerID, t.VehicleMake, t.VehicleModel, t.VehicleYear, t.ServiceDescription, t.Status,
		t.DateCreated.Format("2006-01-02"))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM service_tickets WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// GetByID retrieves a ticket by its ID.  It returns ErrTicketNotFound
// if no row is found.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.ServiceTicket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM service_tickets WHERE id = ? LIMIT 1`
	t, err := scanTicket(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns all tickets ordered by ID.
func (r *TicketRepo) List(ctx context.Context) ([]model.ServiceTicket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM service_tickets ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ServiceTicket, 0)
	for rows.Next() {
		t, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// ListByMechanic returns all tickets the mechanic is assigned to,
// ordered by ticket ID.
func (r *TicketRepo) ListByMechanic(ctx context.Context, mechanicID uint64) ([]model.ServiceTicket, error) {
	const q = `SELECT t.id, t.customer_id, t.vehicle_make, t.vehicle_model, t.vehicle_year, t.service_description,
	                  t.status, t.price, t.parts_summary, t.date_created, t.completed_at, t.created_at, t.updated_at
	           FROM service_tickets t
	           JOIN mechanic_assignments ma ON ma.service_ticket_id = t.id
	           WHERE ma.mechanic_id = ?
	           ORDER BY t.id`
	rows, err := r.db.QueryContext(ctx, q, mechanicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ServiceTicket, 0)
	for rows.Next() {
		t, err := scanTicket(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// completionDate decides the completed_at value for an update against
// the currently stored row: the date is stamped once, on the transition
// into Complete, and preserved on every other update.  A repeat update
// that is already Complete keeps the original date; moving the ticket
// back out of Complete keeps it too.
func completionDate(current *model.ServiceTicket, newStatus string) *time.Time {
	if newStatus == model.StatusComplete {
		if current.Status == model.StatusComplete && current.CompletedAt != nil {
			return current.CompletedAt
		}
		now := time.Now().UTC()
		return &now
	}
	return current.CompletedAt
}

// Update overwrites the ticket's direct fields: vehicle attributes,
// description and status.  The completion date follows completionDate:
// stamped on the transition into Complete, carried unchanged otherwise.
// Customer reference, price and parts_summary are not touched here.
func (r *TicketRepo) Update(ctx context.Context, t *model.ServiceTicket) error {
	current, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	t.CompletedAt = completionDate(current, t.Status)

	const q = `UPDATE service_tickets
		SET vehicle_make = ?, vehicle_model = ?, vehicle_year = ?, service_description = ?, status = ?, completed_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q,
		t.VehicleMake, t.VehicleModel, t.VehicleYear, t.ServiceDescription, t.Status, t.CompletedAt, t.ID)
	return err
}

// Delete removes a ticket along with its part lines and mechanic
// assignments (ON DELETE CASCADE on both junction tables).
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM service_tickets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// GetForUpdateTx loads a ticket with a row lock for the duration of the
// transaction.  Returns (nil, nil) when the ticket does not exist.
func (r *TicketRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ServiceTicket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM service_tickets WHERE id = ? FOR UPDATE`
	t, err := scanTicket(tx.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateReconciledTx writes the derived price and parts summary within
// the provided transaction.  A nil summary stores NULL.
func (r *TicketRepo) UpdateReconciledTx(ctx context.Context, tx *sql.Tx, id uint64, price decimal.Decimal, summary *string) error {
	const q = `UPDATE service_tickets SET price = ?, parts_summary = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, price, summary, id)
	return err
}

// UpdateStatusTx sets the ticket's status within the provided
// transaction.
func (r *TicketRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE service_tickets SET status = ? WHERE id = ?`, status, id)
	return err
}
