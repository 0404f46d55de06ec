package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

func TestAssignMechanic(t *testing.T) {
	s := seedStore()
	eng := NewAssignmentEngine(s)

	ticket, msg, err := eng.AssignMechanic(context.Background(), 1, 100)
	if err != nil {
		t.Fatalf("AssignMechanic failed: %v", err)
	}
	if msg != "Assigned Dana Reyes to Service Ticket 1." {
		t.Errorf("unexpected confirmation: %q", msg)
	}
	if ticket.Status != model.StatusInProgress {
		t.Errorf("expected status %q, got %q", model.StatusInProgress, ticket.Status)
	}

	// The same mechanic cannot be assigned twice.
	_, _, err = eng.AssignMechanic(context.Background(), 1, 100)
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}

	// A second mechanic is fine.
	if _, _, err := eng.AssignMechanic(context.Background(), 1, 101); err != nil {
		t.Fatalf("second AssignMechanic failed: %v", err)
	}
}

func TestAssignMechanic_Errors(t *testing.T) {
	tests := []struct {
		name       string
		ticketID   uint64
		mechanicID uint64
		want       error
	}{
		{"missing_ticket", 99, 100, ErrTicketNotFound},
		{"missing_mechanic", 1, 999, ErrMechanicNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seedStore()
			eng := NewAssignmentEngine(s)
			_, _, err := eng.AssignMechanic(context.Background(), tt.ticketID, tt.mechanicID)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUnassignMechanic(t *testing.T) {
	s := seedStore()
	eng := NewAssignmentEngine(s)

	if _, _, err := eng.AssignMechanic(context.Background(), 1, 100); err != nil {
		t.Fatalf("AssignMechanic failed: %v", err)
	}
	if _, _, err := eng.AssignMechanic(context.Background(), 1, 101); err != nil {
		t.Fatalf("AssignMechanic failed: %v", err)
	}

	// Removing one of two mechanics leaves the ticket in progress.
	ticket, msg, err := eng.UnassignMechanic(context.Background(), 1, 100)
	if err != nil {
		t.Fatalf("UnassignMechanic failed: %v", err)
	}
	if msg != "Removed Dana Reyes from Service Ticket 1." {
		t.Errorf("unexpected confirmation: %q", msg)
	}
	if ticket.Status != model.StatusInProgress {
		t.Errorf("expected status %q, got %q", model.StatusInProgress, ticket.Status)
	}

	// Removing the last mechanic returns the ticket to pending.
	ticket, _, err = eng.UnassignMechanic(context.Background(), 1, 101)
	if err != nil {
		t.Fatalf("UnassignMechanic failed: %v", err)
	}
	if ticket.Status != model.StatusPending {
		t.Errorf("expected status %q, got %q", model.StatusPending, ticket.Status)
	}

	// Removing a mechanic who is not on the ticket is rejected.
	_, _, err = eng.UnassignMechanic(context.Background(), 1, 100)
	if !errors.Is(err, ErrNotAssigned) {
		t.Fatalf("expected ErrNotAssigned, got %v", err)
	}
}
