package handler

import (
	"context"  // background context for post-commit event publishing
	"errors"   // errors.Is comparisons on sentinels
	"log"      // publish failures are logged, never surfaced
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // event timestamps

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/dcortes/mechanic-shop-api/internal/model"      // shop entities
	"github.com/dcortes/mechanic-shop-api/internal/queue"      // broker events
	"github.com/dcortes/mechanic-shop-api/internal/repository" // DB repositories
	"github.com/dcortes/mechanic-shop-api/internal/service"    // reconciliation and assignment engines
)

// TicketHandler bundles dependencies for service ticket endpoints. CRUD
// goes straight to the repositories; part and mechanic mutations go
// through the engines so their invariants hold.
type TicketHandler struct {
	Tickets    *repository.TicketRepo
	Customers  *repository.CustomerRepo
	Parts      *repository.PartRepo
	Reconciler *service.ReconciliationEngine
	Assigner   *service.AssignmentEngine

	// PublishEvents gates the post-commit broker publish so tests and
	// broker-less deployments can switch it off.
	PublishEvents bool
}

func NewTicketHandler(t *repository.TicketRepo, cu *repository.CustomerRepo, p *repository.PartRepo, rec *service.ReconciliationEngine, asg *service.AssignmentEngine, publishEvents bool) *TicketHandler {
	if t == nil || cu == nil || p == nil || rec == nil || asg == nil {
		panic("nil dependency passed to NewTicketHandler")
	}
	return &TicketHandler{Tickets: t, Customers: cu, Parts: p, Reconciler: rec, Assigner: asg, PublishEvents: publishEvents}
}

type ticketBody struct {
	CustomerID         uint64 `json:"customer_id"`
	VehicleMake        string `json:"vehicle_make"`
	VehicleModel       string `json:"vehicle_model"`
	VehicleYear        int    `json:"vehicle_year"`
	ServiceDescription string `json:"service_description"`
	Status             string `json:"status"`
}

// reconcileReq is the payload for the add_part and remove_part routes.
// A missing quantity defaults to one unit.
type reconcileReq struct {
	ServiceTicketID uint64 `json:"service_ticket_id"`
	PartID          uint64 `json:"part_id"`
	Quantity        *int   `json:"quantity"`
}

// serviceErrStatus maps engine sentinels to HTTP status codes. Unknown
// errors are treated as database failures.
func serviceErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrTicketNotFound),
		errors.Is(err, service.ErrPartNotFound),
		errors.Is(err, service.ErrMechanicNotFound),
		errors.Is(err, service.ErrPartNotOnTicket):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrExceedsTicketQuantity),
		errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrNotAssigned):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "database error"
	}
}

// Create handles POST /v1/tickets. The ticket starts in status
// "Pending" with no price and no parts summary.
func (h *TicketHandler) Create(c echo.Context) error {
	var body ticketBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.VehicleMake = strings.TrimSpace(body.VehicleMake)
	body.VehicleModel = strings.TrimSpace(body.VehicleModel)
	body.ServiceDescription = strings.TrimSpace(body.ServiceDescription)
	if body.CustomerID == 0 || body.VehicleMake == "" || body.VehicleModel == "" || body.VehicleYear == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id, vehicle_make, vehicle_model and vehicle_year are required"})
	}

	if _, err := h.Customers.GetByID(c.Request().Context(), body.CustomerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	t := &model.ServiceTicket{
		CustomerID:         body.CustomerID,
		VehicleMake:        body.VehicleMake,
		VehicleModel:       body.VehicleModel,
		VehicleYear:        body.VehicleYear,
		ServiceDescription: body.ServiceDescription,
	}
	if err := h.Tickets.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create service ticket"})
	}
	return c.JSON(http.StatusCreated, newTicketResp(t))
}

// Get handles GET /v1/tickets/:id.
func (h *TicketHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Tickets.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, newTicketResp(t))
}

// List handles GET /v1/tickets. The route sits behind the response
// cache middleware, so repeated reads within the TTL skip the database.
func (h *TicketHandler) List(c echo.Context) error {
	items, err := h.Tickets.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]ticketResp, 0, len(items))
	for i := range items {
		out = append(out, newTicketResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update handles PUT /v1/tickets/:id. Only vehicle fields, the
// description and the status are writable; price, parts summary and the
// customer reference belong to the engines and the create flow.
func (h *TicketHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body ticketBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.VehicleMake = strings.TrimSpace(body.VehicleMake)
	body.VehicleModel = strings.TrimSpace(body.VehicleModel)
	body.ServiceDescription = strings.TrimSpace(body.ServiceDescription)
	body.Status = strings.TrimSpace(body.Status)
	if body.VehicleMake == "" || body.VehicleModel == "" || body.VehicleYear == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_make, vehicle_model and vehicle_year are required"})
	}
	if body.Status == "" {
		body.Status = model.StatusPending
	}

	t := &model.ServiceTicket{
		ID:                 id,
		VehicleMake:        body.VehicleMake,
		VehicleModel:       body.VehicleModel,
		VehicleYear:        body.VehicleYear,
		ServiceDescription: body.ServiceDescription,
		Status:             body.Status,
	}
	if err := h.Tickets.Update(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Tickets.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, newTicketResp(updated))
}

// Delete handles DELETE /v1/tickets/:id.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Tickets.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Service ticket deleted"})
}

// AddPart handles PUT /v1/tickets/add_part. The engine validates the
// request, moves stock, accumulates the price and re-renders the parts
// summary inside one transaction.
func (h *TicketHandler) AddPart(c echo.Context) error {
	return h.reconcile(c, "added", h.Reconciler.AddPart)
}

// RemovePart handles PUT /v1/tickets/remove_part.
func (h *TicketHandler) RemovePart(c echo.Context) error {
	return h.reconcile(c, "removed", h.Reconciler.RemovePart)
}

func (h *TicketHandler) reconcile(c echo.Context, action string, op func(ctx context.Context, ticketID, partID uint64, quantity int) (*model.ServiceTicket, string, error)) error {
	var req reconcileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ServiceTicketID == 0 || req.PartID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_ticket_id and part_id are required"})
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	t, confirmation, err := op(c.Request().Context(), req.ServiceTicketID, req.PartID, qty)
	if err != nil {
		status, msg := serviceErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}

	if h.PublishEvents {
		go h.publishPartsChanged(t, req.PartID, action, qty)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": confirmation,
		"ticket":  newTicketResp(t),
	})
}

// publishPartsChanged emits the post-commit broker event. The request
// has already committed and responded, so failures are only logged.
func (h *TicketHandler) publishPartsChanged(t *model.ServiceTicket, partID uint64, action string, qty int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.TicketPartsChangedEvent{
		TicketID:   t.ID,
		PartID:     partID,
		Action:     action,
		Quantity:   qty,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if t.Price != nil {
		ev.Price = t.Price.InexactFloat64()
	}
	if t.PartsSummary != nil {
		ev.PartsSummary = *t.PartsSummary
	}
	if p, err := h.Parts.GetByID(ctx, partID); err == nil {
		ev.PartName = p.PartName
	}

	if err := queue.PublishPartsChanged(ctx, ev); err != nil {
		log.Printf("ticket: publish parts_changed failed: %v", err)
	}
}

// AssignMechanic handles PUT /v1/tickets/:id/assign_mechanic/:mechanic_id.
func (h *TicketHandler) AssignMechanic(c echo.Context) error {
	return h.assignment(c, h.Assigner.AssignMechanic)
}

// RemoveMechanic handles PUT /v1/tickets/:id/remove_mechanic/:mechanic_id.
func (h *TicketHandler) RemoveMechanic(c echo.Context) error {
	return h.assignment(c, h.Assigner.UnassignMechanic)
}

func (h *TicketHandler) assignment(c echo.Context, op func(ctx context.Context, ticketID, mechanicID uint64) (*model.ServiceTicket, string, error)) error {
	ticketID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	mechanicID, ok := pathID(c, "mechanic_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mechanic_id"})
	}

	t, confirmation, err := op(c.Request().Context(), ticketID, mechanicID)
	if err != nil {
		status, msg := serviceErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": confirmation,
		"ticket":  newTicketResp(t),
	})
}
