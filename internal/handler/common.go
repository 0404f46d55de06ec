package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getMechanicID
	"strconv" // strconv converts strings to numeric types
	"time"    // time formats response timestamps

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/dcortes/mechanic-shop-api/internal/model" // model holds the shop entities
)

// getMechanicID extracts the authenticated mechanic's ID from
// echo.Context and converts it to uint64.  JWTAuth stores the raw claim
// value, whose concrete type depends on how the JWT library decoded it.
func getMechanicID(c echo.Context) (uint64, error) {
	v := c.Get("mechanic_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid mechanic_id in context")
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// ticketResp is the JSON shape of a service ticket.  Price is rendered
// as a JSON number; parts_summary and completed_at are omitted-null
// until the engines touch the ticket.
type ticketResp struct {
	ID                 uint64   `json:"id"`
	CustomerID         uint64   `json:"customer_id"`
	VehicleMake        string   `json:"vehicle_make"`
	VehicleModel       string   `json:"vehicle_model"`
	VehicleYear        int      `json:"vehicle_year"`
	ServiceDescription string   `json:"service_description"`
	Status             string   `json:"status"`
	Price              *float64 `json:"price"`
	PartsSummary       *string  `json:"parts_summary"`
	DateCreated        string   `json:"date_created"`
	CompletedAt        *string  `json:"completed_at,omitempty"`
}

// newTicketResp converts a model.ServiceTicket into its response shape.
func newTicketResp(t *model.ServiceTicket) ticketResp {
	resp := ticketResp{
		ID:                 t.ID,
		CustomerID:         t.CustomerID,
		VehicleMake:        t.VehicleMake,
		VehicleModel:       t.VehicleModel,
		VehicleYear:        t.VehicleYear,
		ServiceDescription: t.ServiceDescription,
		Status:             t.Status,
		PartsSummary:       t.PartsSummary,
		DateCreated:        t.DateCreated.Format("2006-01-02"),
	}
	if t.Price != nil {
		p := t.Price.InexactFloat64()
		resp.Price = &p
	}
	if t.CompletedAt != nil {
		iso := t.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &iso
	}
	return resp
}
