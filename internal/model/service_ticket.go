package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket status values written by the assignment engine.  The direct
// update endpoint may set any status, including StatusComplete, which
// additionally stamps CompletedAt.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusComplete   = "Complete"
)

// ServiceTicket represents a row in the `service_tickets` table.  A
// ticket belongs to exactly one customer and describes one vehicle and
// the work requested.  Price and PartsSummary are derived fields owned
// by the reconciliation engine: Price is the sum of unit price times
// quantity over the ticket's part lines (floored at zero) and
// PartsSummary is a re-rendering of those lines.  Both are nil until
// the engine first touches the ticket.
//
// Fields:
//  ID                 – primary key identifier.
//  CustomerID         – owning customer; immutable after creation.
//  VehicleMake        – vehicle manufacturer.
//  VehicleModel       – vehicle model name.
//  VehicleYear        – vehicle model year.
//  ServiceDescription – description of the requested work.
//  Status             – ticket status (see constants above).
//  Price              – accumulated parts price (nullable).
//  PartsSummary       – human readable parts listing (nullable).
//  DateCreated        – date the ticket was opened.
//  CompletedAt        – set when status transitions to Complete.
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type ServiceTicket struct {
	ID                 uint64           // service_tickets.id
	CustomerID         uint64           // service_tickets.customer_id
	VehicleMake        string           // service_tickets.vehicle_make
	VehicleModel       string           // service_tickets.vehicle_model
	VehicleYear        int              // service_tickets.vehicle_year
	ServiceDescription string           // service_tickets.service_description
	Status             string           // service_tickets.status
	Price              *decimal.Decimal // service_tickets.price (nullable)
	PartsSummary       *string          // service_tickets.parts_summary (nullable)
	DateCreated        time.Time        // service_tickets.date_created
	CompletedAt        *time.Time       // service_tickets.completed_at (nullable)
	CreatedAt          time.Time        // service_tickets.created_at
	UpdatedAt          time.Time        // service_tickets.updated_at
}
