package model

// TicketPart links a service ticket to a part with the quantity of that
// part consumed by the ticket.  At most one row exists per
// (service_ticket_id, part_id) pair; repeated adds accumulate on the
// existing row.  Quantity is always greater than zero while the row
// exists — a row whose quantity would reach zero is deleted instead.
//
// Fields:
//  ID              – primary key identifier; also the insertion order
//                    used when rendering the parts summary.
//  ServiceTicketID – ticket side of the association.
//  PartID          – part side of the association.
//  Quantity        – units of the part on the ticket, > 0.
type TicketPart struct {
	ID              uint64 // ticket_parts.id
	ServiceTicketID uint64 // ticket_parts.service_ticket_id
	PartID          uint64 // ticket_parts.part_id
	Quantity        uint32 // ticket_parts.quantity
}

// TicketPartLine is a ticket part joined with its part's name, in the
// shape needed to render the parts summary.
type TicketPartLine struct {
	PartID   uint64 // ticket_parts.part_id
	PartName string // parts.part_name
	Quantity uint32 // ticket_parts.quantity
}
