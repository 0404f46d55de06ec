package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

// ReconciliationEngine applies add-part and remove-part requests
// against a ticket as single all-or-nothing transactions.  Each
// operation validates fully before mutating anything, then updates the
// ticket's part lines, the part's stock and the ticket's derived
// price/summary together.
type ReconciliationEngine struct {
	store Store
}

// NewReconciliationEngine constructs an engine bound to the given store.
func NewReconciliationEngine(store Store) *ReconciliationEngine {
	if store == nil {
		panic("nil store passed to NewReconciliationEngine")
	}
	return &ReconciliationEngine{store: store}
}

// AddPart allocates quantity units of a part to a ticket.  Preconditions
// are checked in order: ticket exists, part exists, quantity is
// positive, stock covers the request.  On success the (ticket, part)
// line is created or its quantity incremented, stock is decremented,
// the ticket price grows by unit price times quantity, and the parts
// summary is re-rendered from the full line set.  The returned ticket
// reflects the committed state.
func (e *ReconciliationEngine) AddPart(ctx context.Context, ticketID, partID uint64, quantity int) (*model.ServiceTicket, string, error) {
	var (
		ticket       *model.ServiceTicket
		confirmation string
	)
	err := e.store.InTx(ctx, func(tx Tx) error {
		t, err := tx.TicketForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if t == nil {
			return ErrTicketNotFound
		}
		p, err := tx.PartForUpdate(ctx, partID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrPartNotFound
		}
		// Quantities are stored as uint32; anything past that range
		// would truncate on conversion, so it is rejected up front.
		if quantity <= 0 || int64(quantity) > math.MaxUint32 {
			return ErrInvalidQuantity
		}
		qty := uint32(quantity)
		if p.Stock < qty {
			return ErrInsufficientStock
		}

		// Accumulate on the existing line when one exists; a second add
		// for the same part must never create a duplicate row.
		line, err := tx.TicketPart(ctx, ticketID, partID)
		if err != nil {
			return err
		}
		if line != nil {
			if err := tx.UpdateTicketPartQuantity(ctx, line.ID, line.Quantity+qty); err != nil {
				return err
			}
		} else {
			if err := tx.InsertTicketPart(ctx, &model.TicketPart{
				ServiceTicketID: ticketID,
				PartID:          partID,
				Quantity:        qty,
			}); err != nil {
				return err
			}
		}

		if err := tx.UpdatePartStock(ctx, p.ID, p.Stock-qty); err != nil {
			return err
		}

		price := decimal.Zero
		if t.Price != nil {
			price = *t.Price
		}
		price = price.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))

		summary, err := e.renderSummary(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if err := tx.UpdateTicketReconciled(ctx, t.ID, price, summary); err != nil {
			return err
		}

		t.Price = &price
		t.PartsSummary = summary
		ticket = t
		confirmation = fmt.Sprintf("Added %d x %s to Service Ticket %d.", quantity, p.PartName, t.ID)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return ticket, confirmation, nil
}

// RemovePart returns quantity units of a part from a ticket back to
// inventory.  Unlike AddPart, a missing (ticket, part) line is a hard
// error, as is removing more than the line holds.  On success the line
// shrinks (or is deleted when it reaches zero), stock is restored, the
// ticket price drops by unit price times quantity — floored at zero —
// and the parts summary is re-rendered.
func (e *ReconciliationEngine) RemovePart(ctx context.Context, ticketID, partID uint64, quantity int) (*model.ServiceTicket, string, error) {
	var (
		ticket       *model.ServiceTicket
		confirmation string
	)
	err := e.store.InTx(ctx, func(tx Tx) error {
		t, err := tx.TicketForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if t == nil {
			return ErrTicketNotFound
		}
		p, err := tx.PartForUpdate(ctx, partID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrPartNotFound
		}
		if quantity <= 0 || int64(quantity) > math.MaxUint32 {
			return ErrInvalidQuantity
		}
		qty := uint32(quantity)

		line, err := tx.TicketPart(ctx, ticketID, partID)
		if err != nil {
			return err
		}
		if line == nil {
			return ErrPartNotOnTicket
		}
		if line.Quantity < qty {
			return ErrExceedsTicketQuantity
		}

		// A line never persists at quantity zero.
		if line.Quantity == qty {
			if err := tx.DeleteTicketPart(ctx, line.ID); err != nil {
				return err
			}
		} else {
			if err := tx.UpdateTicketPartQuantity(ctx, line.ID, line.Quantity-qty); err != nil {
				return err
			}
		}

		if err := tx.UpdatePartStock(ctx, p.ID, p.Stock+qty); err != nil {
			return err
		}

		price := decimal.Zero
		if t.Price != nil {
			price = *t.Price
		}
		price = price.Sub(p.Price.Mul(decimal.NewFromInt(int64(qty))))
		if price.IsNegative() {
			// Guard against drift; a correct add/remove history never
			// takes the price below zero.
			price = decimal.Zero
		}

		summary, err := e.renderSummary(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if err := tx.UpdateTicketReconciled(ctx, t.ID, price, summary); err != nil {
			return err
		}

		t.Price = &price
		t.PartsSummary = summary
		ticket = t
		confirmation = fmt.Sprintf("Removed %d x %s from Service Ticket %d.", quantity, p.PartName, t.ID)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return ticket, confirmation, nil
}

// renderSummary re-renders the parts summary from the ticket's current
// lines.  An empty line set yields a nil summary.
func (e *ReconciliationEngine) renderSummary(ctx context.Context, tx Tx, ticketID uint64) (*string, error) {
	lines, err := tx.TicketPartLines(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s := RenderPartsSummary(lines)
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

// RenderPartsSummary formats ticket part lines as a single
// comma-separated string, one "<name> (x<quantity>)" clause per line.
// The summary is a pure function of the lines; callers pass them in
// insertion order.
func RenderPartsSummary(lines []model.TicketPartLine) string {
	clauses := make([]string, 0, len(lines))
	for _, l := range lines {
		clauses = append(clauses, fmt.Sprintf("%s (x%d)", l.PartName, l.Quantity))
	}
	return strings.Join(clauses, ", ")
}
