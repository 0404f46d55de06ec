package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

func seedStore() *memStore {
	s := newMemStore()
	s.addTicket(model.ServiceTicket{
		ID:                 1,
		CustomerID:         1,
		VehicleMake:        "Honda",
		VehicleModel:       "Civic",
		VehicleYear:        2019,
		ServiceDescription: "Brake job",
		Status:             model.StatusPending,
		DateCreated:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	s.addPart(model.Part{ID: 10, PartName: "Brake Pad", Price: decimal.NewFromFloat(5.00), Stock: 10})
	s.addPart(model.Part{ID: 11, PartName: "Oil Filter", Price: decimal.NewFromFloat(12.50), Stock: 3})
	s.addMechanic(model.Mechanic{ID: 100, FirstName: "Dana", LastName: "Reyes"})
	s.addMechanic(model.Mechanic{ID: 101, FirstName: "Lee", LastName: "Okafor"})
	return s
}

func mustPrice(t *testing.T, ticket *model.ServiceTicket) decimal.Decimal {
	t.Helper()
	if ticket.Price == nil {
		t.Fatal("expected ticket price to be set")
	}
	return *ticket.Price
}

func mustSummary(t *testing.T, ticket *model.ServiceTicket) string {
	t.Helper()
	if ticket.PartsSummary == nil {
		t.Fatal("expected parts summary to be set")
	}
	return *ticket.PartsSummary
}

func TestAddPart_FirstAdd(t *testing.T) {
	s := seedStore()
	eng := NewReconciliationEngine(s)

	ticket, msg, err := eng.AddPart(context.Background(), 1, 10, 4)
	if err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if msg != "Added 4 x Brake Pad to Service Ticket 1." {
		t.Errorf("unexpected confirmation: %q", msg)
	}
	if got := mustPrice(t, ticket); !got.Equal(decimal.NewFromFloat(20.00)) {
		t.Errorf("expected price 20.00, got %s", got)
	}
	if got := mustSummary(t, ticket); got != "Brake Pad (x4)" {
		t.Errorf("unexpected summary: %q", got)
	}
	if s.parts[10].Stock != 6 {
		t.Errorf("expected stock 6, got %d", s.parts[10].Stock)
	}
	if len(s.lines) != 1 {
		t.Fatalf("expected 1 ledger line, got %d", len(s.lines))
	}
}

func TestAddPart_AccumulatesOnExistingLine(t *testing.T) {
	s := seedStore()
	eng := NewReconciliationEngine(s)

	if _, _, err := eng.AddPart(context.Background(), 1, 10, 4); err != nil {
		t.Fatalf("first AddPart failed: %v", err)
	}
	ticket, _, err := eng.AddPart(context.Background(), 1, 10, 2)
	if err != nil {
		t.Fatalf("second AddPart failed: %v", err)
	}

	if len(s.lines) != 1 {
		t.Fatalf("expected a single ledger line after repeat add, got %d", len(s.lines))
	}
	for _, l := range s.lines {
		if l.Quantity != 6 {
			t.Errorf("expected line quantity 6, got %d", l.Quantity)
		}
	}
	if s.parts[10].Stock != 4 {
		t.Errorf("expected stock 4, got %d", s.parts[10].Stock)
	}
	if got := mustPrice(t, ticket); !got.Equal(decimal.NewFromFloat(30.00)) {
		t.Errorf("expected price 30.00, got %s", got)
	}
	if got := mustSummary(t, ticket); got != "Brake Pad (x6)" {
		t.Errorf("unexpected summary: %q", got)
	}
}

func TestAddPart_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ticketID uint64
		partID   uint64
		quantity int
		want     error
	}{
		{"missing_ticket", 99, 10, 1, ErrTicketNotFound},
		{"missing_part", 1, 99, 1, ErrPartNotFound},
		{"zero_quantity", 1, 10, 0, ErrInvalidQuantity},
		{"negative_quantity", 1, 10, -3, ErrInvalidQuantity},
		{"quantity_exceeds_uint32", 1, 10, math.MaxUint32 + 1, ErrInvalidQuantity},
		{"insufficient_stock", 1, 11, 4, ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seedStore()
			eng := NewReconciliationEngine(s)

			_, _, err := eng.AddPart(context.Background(), tt.ticketID, tt.partID, tt.quantity)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			// A rejected request must leave zero state change.
			if s.parts[10].Stock != 10 || s.parts[11].Stock != 3 {
				t.Errorf("stock changed on rejected request")
			}
			if len(s.lines) != 0 {
				t.Errorf("ledger changed on rejected request")
			}
			if s.tickets[1].Price != nil {
				t.Errorf("price changed on rejected request")
			}
		})
	}
}

func TestRemovePart_PartialAndFull(t *testing.T) {
	s := seedStore()
	eng := NewReconciliationEngine(s)

	if _, _, err := eng.AddPart(context.Background(), 1, 10, 4); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if _, _, err := eng.AddPart(context.Background(), 1, 10, 2); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}

	// Removing more than the ledger holds is rejected with no change.
	_, _, err := eng.RemovePart(context.Background(), 1, 10, 10)
	if !errors.Is(err, ErrExceedsTicketQuantity) {
		t.Fatalf("expected ErrExceedsTicketQuantity, got %v", err)
	}
	if s.parts[10].Stock != 4 {
		t.Errorf("stock changed on rejected removal: %d", s.parts[10].Stock)
	}

	// Partial removal shrinks the line and restores stock.
	ticket, msg, err := eng.RemovePart(context.Background(), 1, 10, 2)
	if err != nil {
		t.Fatalf("RemovePart failed: %v", err)
	}
	if msg != "Removed 2 x Brake Pad from Service Ticket 1." {
		t.Errorf("unexpected confirmation: %q", msg)
	}
	if got := mustPrice(t, ticket); !got.Equal(decimal.NewFromFloat(20.00)) {
		t.Errorf("expected price 20.00, got %s", got)
	}
	if got := mustSummary(t, ticket); got != "Brake Pad (x4)" {
		t.Errorf("unexpected summary: %q", got)
	}
	if s.parts[10].Stock != 6 {
		t.Errorf("expected stock 6, got %d", s.parts[10].Stock)
	}

	// Removing the remainder deletes the line and clears the summary.
	ticket, _, err = eng.RemovePart(context.Background(), 1, 10, 4)
	if err != nil {
		t.Fatalf("RemovePart failed: %v", err)
	}
	if len(s.lines) != 0 {
		t.Errorf("expected empty ledger, got %d lines", len(s.lines))
	}
	if s.parts[10].Stock != 10 {
		t.Errorf("expected stock restored to 10, got %d", s.parts[10].Stock)
	}
	if got := mustPrice(t, ticket); !got.Equal(decimal.Zero) {
		t.Errorf("expected price 0, got %s", got)
	}
	if ticket.PartsSummary != nil {
		t.Errorf("expected nil summary, got %q", *ticket.PartsSummary)
	}
}

func TestRemovePart_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ticketID uint64
		partID   uint64
		quantity int
		want     error
	}{
		{"missing_ticket", 99, 10, 1, ErrTicketNotFound},
		{"missing_part", 1, 99, 1, ErrPartNotFound},
		{"zero_quantity", 1, 10, 0, ErrInvalidQuantity},
		{"quantity_exceeds_uint32", 1, 10, math.MaxUint32 + 1, ErrInvalidQuantity},
		{"part_not_on_ticket", 1, 11, 1, ErrPartNotOnTicket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seedStore()
			eng := NewReconciliationEngine(s)
			if _, _, err := eng.AddPart(context.Background(), 1, 10, 2); err != nil {
				t.Fatalf("seed AddPart failed: %v", err)
			}

			_, _, err := eng.RemovePart(context.Background(), tt.ticketID, tt.partID, tt.quantity)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			// A rejected removal leaves the ledger and stock untouched.
			if s.parts[10].Stock != 8 {
				t.Errorf("stock changed on rejected removal: %d", s.parts[10].Stock)
			}
			for _, l := range s.lines {
				if l.Quantity != 2 {
					t.Errorf("ledger quantity changed on rejected removal: %d", l.Quantity)
				}
			}
		})
	}
}

func TestAddRemove_RoundTripRestoresState(t *testing.T) {
	s := seedStore()
	eng := NewReconciliationEngine(s)

	if _, _, err := eng.AddPart(context.Background(), 1, 10, 3); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if _, _, err := eng.AddPart(context.Background(), 1, 11, 2); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if _, _, err := eng.RemovePart(context.Background(), 1, 11, 2); err != nil {
		t.Fatalf("RemovePart failed: %v", err)
	}
	ticket, _, err := eng.RemovePart(context.Background(), 1, 10, 3)
	if err != nil {
		t.Fatalf("RemovePart failed: %v", err)
	}

	if s.parts[10].Stock != 10 || s.parts[11].Stock != 3 {
		t.Errorf("stock not restored: %d, %d", s.parts[10].Stock, s.parts[11].Stock)
	}
	if got := mustPrice(t, ticket); !got.Equal(decimal.Zero) {
		t.Errorf("expected price 0 after round trip, got %s", got)
	}
	if ticket.PartsSummary != nil {
		t.Errorf("expected nil summary after round trip")
	}
}

func TestSummaryOrderFollowsInsertion(t *testing.T) {
	s := seedStore()
	eng := NewReconciliationEngine(s)

	if _, _, err := eng.AddPart(context.Background(), 1, 11, 1); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	ticket, _, err := eng.AddPart(context.Background(), 1, 10, 2)
	if err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}

	if got := mustSummary(t, ticket); got != "Oil Filter (x1), Brake Pad (x2)" {
		t.Errorf("unexpected summary order: %q", got)
	}

	// A repeat add keeps the original position of the line.
	ticket, _, err = eng.AddPart(context.Background(), 1, 11, 1)
	if err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if got := mustSummary(t, ticket); got != "Oil Filter (x2), Brake Pad (x2)" {
		t.Errorf("unexpected summary after repeat add: %q", got)
	}
}

func TestRenderPartsSummary(t *testing.T) {
	tests := []struct {
		name  string
		lines []model.TicketPartLine
		want  string
	}{
		{"empty", nil, ""},
		{
			"single",
			[]model.TicketPartLine{{PartID: 1, PartName: "Brake Pad", Quantity: 4}},
			"Brake Pad (x4)",
		},
		{
			"multiple",
			[]model.TicketPartLine{
				{PartID: 1, PartName: "Brake Pad", Quantity: 4},
				{PartID: 2, PartName: "Oil Filter", Quantity: 1},
			},
			"Brake Pad (x4), Oil Filter (x1)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderPartsSummary(tt.lines); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
