package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/dcortes/mechanic-shop-api/internal/model"
	"github.com/dcortes/mechanic-shop-api/internal/service"
)

// Store is the MySQL-backed unit of work for the engines.  InTx opens a
// transaction, hands the engine a view that routes every operation
// through that transaction, and commits only when the engine's function
// returns nil.  Ticket and part reads lock their rows (FOR UPDATE), so
// two concurrent operations touching the same part or ticket serialize
// while operations on disjoint rows proceed independently.
type Store struct {
	db          *sql.DB
	tickets     *TicketRepo
	parts       *PartRepo
	ticketParts *TicketPartRepo
	mechanics   *MechanicRepo
}

// NewStore builds a Store from the repositories it delegates to.
func NewStore(db *sql.DB, tickets *TicketRepo, parts *PartRepo, ticketParts *TicketPartRepo, mechanics *MechanicRepo) *Store {
	if db == nil || tickets == nil || parts == nil || ticketParts == nil || mechanics == nil {
		panic("nil dependency passed to NewStore")
	}
	return &Store{db: db, tickets: tickets, parts: parts, ticketParts: ticketParts, mechanics: mechanics}
}

var _ service.Store = (*Store)(nil)

// InTx implements service.Store.
func (s *Store) InTx(ctx context.Context, fn func(tx service.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{store: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// storeTx adapts the repositories' Tx methods to the service.Tx
// interface for one transaction.
type storeTx struct {
	store *Store
	tx    *sql.Tx
}

func (t *storeTx) TicketForUpdate(ctx context.Context, id uint64) (*model.ServiceTicket, error) {
	return t.store.tickets.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) PartForUpdate(ctx context.Context, id uint64) (*model.Part, error) {
	return t.store.parts.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) Mechanic(ctx context.Context, id uint64) (*model.Mechanic, error) {
	return t.store.mechanics.GetByIDTx(ctx, t.tx, id)
}

func (t *storeTx) TicketPart(ctx context.Context, ticketID, partID uint64) (*model.TicketPart, error) {
	return t.store.ticketParts.FindByPairTx(ctx, t.tx, ticketID, partID)
}

func (t *storeTx) InsertTicketPart(ctx context.Context, tp *model.TicketPart) error {
	return t.store.ticketParts.InsertTx(ctx, t.tx, tp)
}

func (t *storeTx) UpdateTicketPartQuantity(ctx context.Context, id uint64, quantity uint32) error {
	return t.store.ticketParts.UpdateQuantityTx(ctx, t.tx, id, quantity)
}

func (t *storeTx) DeleteTicketPart(ctx context.Context, id uint64) error {
	return t.store.ticketParts.DeleteTx(ctx, t.tx, id)
}

func (t *storeTx) TicketPartLines(ctx context.Context, ticketID uint64) ([]model.TicketPartLine, error) {
	return t.store.ticketParts.LinesByTicketTx(ctx, t.tx, ticketID)
}

func (t *storeTx) UpdatePartStock(ctx context.Context, id uint64, stock uint32) error {
	return t.store.parts.UpdateStockTx(ctx, t.tx, id, stock)
}

func (t *storeTx) UpdateTicketReconciled(ctx context.Context, id uint64, price decimal.Decimal, summary *string) error {
	return t.store.tickets.UpdateReconciledTx(ctx, t.tx, id, price, summary)
}

func (t *storeTx) IsMechanicAssigned(ctx context.Context, ticketID, mechanicID uint64) (bool, error) {
	return t.store.mechanics.IsAssignedTx(ctx, t.tx, ticketID, mechanicID)
}

func (t *storeTx) AddMechanicAssignment(ctx context.Context, ticketID, mechanicID uint64) error {
	return t.store.mechanics.AddAssignmentTx(ctx, t.tx, ticketID, mechanicID)
}

func (t *storeTx) RemoveMechanicAssignment(ctx context.Context, ticketID, mechanicID uint64) error {
	return t.store.mechanics.RemoveAssignmentTx(ctx, t.tx, ticketID, mechanicID)
}

func (t *storeTx) CountMechanicAssignments(ctx context.Context, ticketID uint64) (int, error) {
	return t.store.mechanics.CountAssignmentsTx(ctx, t.tx, ticketID)
}

func (t *storeTx) UpdateTicketStatus(ctx context.Context, id uint64, status string) error {
	return t.store.tickets.UpdateStatusTx(ctx, t.tx, id, status)
}
