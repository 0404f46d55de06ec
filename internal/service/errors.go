// Package service contains the reconciliation and assignment engines:
// the business rules that keep a service ticket's part lines, its
// accumulated price and the inventory stock mutually consistent, and
// that drive ticket status from mechanic assignment.  Handlers call the
// engines and translate the sentinel errors below into HTTP responses.
package service

import "errors"

// Sentinel errors returned by the engines.  Every rejected precondition
// maps to exactly one of these so callers can tell the failures apart;
// all of them guarantee that no state was changed.
var (
	// ErrTicketNotFound is returned when the target service ticket does not exist.
	ErrTicketNotFound = errors.New("service ticket not found")

	// ErrPartNotFound is returned when the target part does not exist in inventory.
	ErrPartNotFound = errors.New("part not found")

	// ErrMechanicNotFound is returned when the target mechanic does not exist.
	ErrMechanicNotFound = errors.New("mechanic not found")

	// ErrInvalidQuantity rejects a non-positive quantity before any mutation.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrInsufficientStock rejects an add when the part's stock cannot
	// cover the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock for the requested part")

	// ErrPartNotOnTicket rejects a remove when no line exists for the
	// (ticket, part) pair.
	ErrPartNotOnTicket = errors.New("part not found on this service ticket")

	// ErrExceedsTicketQuantity rejects a remove larger than the line's
	// current quantity.
	ErrExceedsTicketQuantity = errors.New("cannot remove more parts than are on the ticket")

	// ErrAlreadyAssigned rejects assigning a mechanic twice to one ticket.
	ErrAlreadyAssigned = errors.New("mechanic already assigned to this service ticket")

	// ErrNotAssigned rejects unassigning a mechanic who is not on the ticket.
	ErrNotAssigned = errors.New("mechanic is not assigned to this service ticket")
)
