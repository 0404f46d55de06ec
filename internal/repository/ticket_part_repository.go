package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

// TicketPartRepo persists the ticket↔part lines the reconciliation
// engine operates on.  The table carries a unique key on
// (service_ticket_id, part_id) so the single-line-per-pair rule is
// enforced by the schema as well as by the engine.  All mutation
// methods run inside the engine's transaction.
type TicketPartRepo struct {
	db *sql.DB
}

// NewTicketPartRepo returns a TicketPartRepo bound to the given database.
func NewTicketPartRepo(db *sql.DB) *TicketPartRepo { return &TicketPartRepo{db: db} }

// FindByPairTx locates the single line for a (ticket, part) pair.
// Returns (nil, nil) when no line exists.
func (r *TicketPartRepo) FindByPairTx(ctx context.Context, tx *sql.Tx, ticketID, partID uint64) (*model.TicketPart, error) {
	const q = `SELECT id, service_ticket_id, part_id, quantity
	           FROM ticket_parts WHERE service_ticket_id = ? AND part_id = ? LIMIT 1`
	var tp model.TicketPart
	err := tx.QueryRowContext(ctx, q, ticketID, partID).Scan(&tp.ID, &tp.ServiceTicketID, &tp.PartID, &tp.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

// InsertTx creates a new line and populates its generated ID.
func (r *TicketPartRepo) InsertTx(ctx context.Context, tx *sql.Tx, tp *model.TicketPart) error {
	const q = `INSERT INTO ticket_parts (service_ticket_id, part_id, quantity) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, tp.ServiceTicketID, tp.PartID, tp.Quantity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tp.ID = uint64(id)
	return nil
}

// UpdateQuantityTx sets a line's quantity in place.
func (r *TicketPartRepo) UpdateQuantityTx(ctx context.Context, tx *sql.Tx, id uint64, quantity uint32) error {
	_, err := tx.ExecContext(ctx, `UPDATE ticket_parts SET quantity = ? WHERE id = ?`, quantity, id)
	return err
}

// DeleteTx removes a line entirely.
func (r *TicketPartRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM ticket_parts WHERE id = ?`, id)
	return err
}

// LinesByTicketTx lists a ticket's lines joined with part names,
// ordered by line ID so the rendered summary follows insertion order.
func (r *TicketPartRepo) LinesByTicketTx(ctx context.Context, tx *sql.Tx, ticketID uint64) ([]model.TicketPartLine, error) {
	const q = `SELECT tp.part_id, p.part_name, tp.quantity
	           FROM ticket_parts tp
	           JOIN parts p ON p.id = tp.part_id
	           WHERE tp.service_ticket_id = ?
	           ORDER BY tp.id`
	rows, err := tx.QueryContext(ctx, q, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TicketPartLine, 0)
	for rows.Next() {
		var l model.TicketPartLine
		if err := rows.Scan(&l.PartID, &l.PartName, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
