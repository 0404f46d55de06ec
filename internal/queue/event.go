// Package queue defines message payloads exchanged over the message broker,
// the publisher that emits them, and the background consumer that writes
// them to logs/ticket.log.
package queue

// TicketPartsChangedEvent is published after a ticket's part ledger has been
// reconciled (a part added or removed). It carries the refreshed totals so
// downstream consumers can log or trigger analytics without querying the
// primary database.
type TicketPartsChangedEvent struct {
	TicketID     uint64  `json:"ticket_id"`
	PartID       uint64  `json:"part_id"`
	PartName     string  `json:"part_name"`
	Action       string  `json:"action"` // "added" | "removed"
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	PartsSummary string  `json:"parts_summary"`
	OccurredAt   string  `json:"occurred_at"`
}
