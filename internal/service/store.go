package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

// Store opens the unit of work the engines run inside.  InTx begins a
// transaction, calls fn, and commits only when fn returns nil; any
// error rolls the whole transaction back so a rejected precondition
// leaves zero state change.  The production implementation lives in the
// repository package and wraps *sql.DB; tests substitute an in-memory
// store.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of persistence operations available inside one unit of
// work.  Lookup methods return (nil, nil) when no row exists — absence
// is a business outcome for the engines, not a database failure.  Rows
// fetched through TicketForUpdate and PartForUpdate must be locked for
// the duration of the transaction so that concurrent stock checks
// against the same part serialize.
type Tx interface {
	// TicketForUpdate loads and row-locks a service ticket.
	TicketForUpdate(ctx context.Context, id uint64) (*model.ServiceTicket, error)
	// PartForUpdate loads and row-locks a part.
	PartForUpdate(ctx context.Context, id uint64) (*model.Part, error)
	// Mechanic loads a mechanic; no lock is needed, only existence.
	Mechanic(ctx context.Context, id uint64) (*model.Mechanic, error)

	// TicketPart finds the single line for a (ticket, part) pair.
	TicketPart(ctx context.Context, ticketID, partID uint64) (*model.TicketPart, error)
	// InsertTicketPart creates a new line and populates its ID.
	InsertTicketPart(ctx context.Context, tp *model.TicketPart) error
	// UpdateTicketPartQuantity sets a line's quantity in place.
	UpdateTicketPartQuantity(ctx context.Context, id uint64, quantity uint32) error
	// DeleteTicketPart removes a line entirely.
	DeleteTicketPart(ctx context.Context, id uint64) error
	// TicketPartLines lists a ticket's lines joined with part names,
	// ordered by line ID (insertion order).
	TicketPartLines(ctx context.Context, ticketID uint64) ([]model.TicketPartLine, error)

	// UpdatePartStock sets a part's stock count.
	UpdatePartStock(ctx context.Context, id uint64, stock uint32) error
	// UpdateTicketReconciled writes the derived price and parts summary.
	UpdateTicketReconciled(ctx context.Context, id uint64, price decimal.Decimal, summary *string) error

	// IsMechanicAssigned reports whether the mechanic is on the ticket.
	IsMechanicAssigned(ctx context.Context, ticketID, mechanicID uint64) (bool, error)
	// AddMechanicAssignment creates the association.
	AddMechanicAssignment(ctx context.Context, ticketID, mechanicID uint64) error
	// RemoveMechanicAssignment deletes the association.
	RemoveMechanicAssignment(ctx context.Context, ticketID, mechanicID uint64) error
	// CountMechanicAssignments counts mechanics currently on the ticket.
	CountMechanicAssignments(ctx context.Context, ticketID uint64) (int, error)
	// UpdateTicketStatus sets the ticket's status.
	UpdateTicketStatus(ctx context.Context, id uint64, status string) error
}
