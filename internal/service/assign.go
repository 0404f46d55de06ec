package service

import (
	"context"
	"fmt"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

// AssignmentEngine maintains the mechanic↔ticket association and the
// ticket status it drives: assigning a mechanic moves the ticket to
// "In Progress", and removing the last mechanic moves it back to
// "Pending".  A status of "Complete" is only ever written by the direct
// ticket update path and is never reversed here.
type AssignmentEngine struct {
	store Store
}

// NewAssignmentEngine constructs an engine bound to the given store.
func NewAssignmentEngine(store Store) *AssignmentEngine {
	if store == nil {
		panic("nil store passed to NewAssignmentEngine")
	}
	return &AssignmentEngine{store: store}
}

// AssignMechanic adds a mechanic to a ticket.  A mechanic appears at
// most once per ticket; assigning the same mechanic again is rejected
// with ErrAlreadyAssigned.  On success the ticket status becomes
// "In Progress" unconditionally.
func (e *AssignmentEngine) AssignMechanic(ctx context.Context, ticketID, mechanicID uint64) (*model.ServiceTicket, string, error) {
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
		m, err := tx.Mechanic(ctx, mechanicID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMechanicNotFound
		}
		assigned, err := tx.IsMechanicAssigned(ctx, ticketID, mechanicID)
		if err != nil {
			return err
		}
		if assigned {
			return ErrAlreadyAssigned
		}
		if err := tx.AddMechanicAssignment(ctx, ticketID, mechanicID); err != nil {
			return err
		}
		if err := tx.UpdateTicketStatus(ctx, ticketID, model.StatusInProgress); err != nil {
			return err
		}
		t.Status = model.StatusInProgress
		ticket = t
		confirmation = fmt.Sprintf("Assigned %s %s to Service Ticket %d.", m.FirstName, m.LastName, t.ID)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return ticket, confirmation, nil
}

// UnassignMechanic removes a mechanic from a ticket.  Removing a
// mechanic who is not on the ticket is rejected with ErrNotAssigned.
// When the last mechanic leaves, the ticket status returns to
// "Pending"; otherwise the status is left untouched.
func (e *AssignmentEngine) UnassignMechanic(ctx context.Context, ticketID, mechanicID uint64) (*model.ServiceTicket, string, error) {
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
		m, err := tx.Mechanic(ctx, mechanicID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMechanicNotFound
		}
		assigned, err := tx.IsMechanicAssigned(ctx, ticketID, mechanicID)
		if err != nil {
			return err
		}
		if !assigned {
			return ErrNotAssigned
		}
		if err := tx.RemoveMechanicAssignment(ctx, ticketID, mechanicID); err != nil {
			return err
		}
		remaining, err := tx.CountMechanicAssignments(ctx, ticketID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.UpdateTicketStatus(ctx, ticketID, model.StatusPending); err != nil {
				return err
			}
			t.Status = model.StatusPending
		}
		ticket = t
		confirmation = fmt.Sprintf("Removed %s %s from Service Ticket %d.", m.FirstName, m.LastName, t.ID)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return ticket, confirmation, nil
}
