package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part represents a row in the `parts` table.  Parts live in inventory
// with a unit price and a stock count.  Stock is only mutated by the
// reconciliation engine (add/remove against a ticket) and by the
// restock endpoint.
//
// Fields:
//  ID        – primary key identifier.
//  PartName  – display name of the part.
//  Price     – unit price, DECIMAL(10,2), never negative.
//  Stock     – units currently available in inventory.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Part struct {
	ID        uint64          // parts.id
	PartName  string          // parts.part_name
	Price     decimal.Decimal // parts.price
	Stock     uint32          // parts.stock
	CreatedAt time.Time       // parts.created_at
	UpdatedAt time.Time       // parts.updated_at
}
