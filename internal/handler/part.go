package handler

import (
	"errors"   // errors.Is comparisons on repository sentinels
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities

	"github.com/labstack/echo/v4"   // Echo framework for HTTP routing
	"github.com/shopspring/decimal" // exact decimal arithmetic for prices

	"github.com/dcortes/mechanic-shop-api/internal/model"      // shop entities
	"github.com/dcortes/mechanic-shop-api/internal/repository" // DB repositories
)

// PartHandler bundles the part repository for inventory endpoints.
type PartHandler struct {
	Parts *repository.PartRepo
}

func NewPartHandler(parts *repository.PartRepo) *PartHandler {
	if parts == nil {
		panic("nil repository passed to NewPartHandler")
	}
	return &PartHandler{Parts: parts}
}

type partBody struct {
	PartName string  `json:"part_name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

type partResp struct {
	ID       uint64  `json:"id"`
	PartName string  `json:"part_name"`
	Price    float64 `json:"price"`
	Stock    uint32  `json:"stock"`
}

func newPartResp(p *model.Part) partResp {
	return partResp{
		ID:       p.ID,
		PartName: p.PartName,
		Price:    p.Price.InexactFloat64(),
		Stock:    p.Stock,
	}
}

// Create handles POST /v1/parts and adds a part to inventory.
func (h *PartHandler) Create(c echo.Context) error {
	var body partBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.PartName)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "part_name is required"})
	}
	if body.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}
	if body.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock cannot be negative"})
	}
	p := &model.Part{
		PartName: name,
		Price:    decimal.NewFromFloat(body.Price).Round(2),
		Stock:    uint32(body.Stock),
	}
	if err := h.Parts.Create(c.Request().Context(), p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create part"})
	}
	return c.JSON(http.StatusCreated, newPartResp(p))
}

// Get handles GET /v1/parts/:id.
func (h *PartHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Parts.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPartNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, newPartResp(p))
}

// List handles GET /v1/parts.
func (h *PartHandler) List(c echo.Context) error {
	items, err := h.Parts.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]partResp, 0, len(items))
	for i := range items {
		out = append(out, newPartResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Update handles PUT /v1/parts/:id and replaces name, price and stock.
func (h *PartHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body partBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.PartName)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "part_name is required"})
	}
	if body.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price cannot be negative"})
	}
	if body.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock cannot be negative"})
	}
	p := &model.Part{
		ID:       id,
		PartName: name,
		Price:    decimal.NewFromFloat(body.Price).Round(2),
		Stock:    uint32(body.Stock),
	}
	if err := h.Parts.Update(c.Request().Context(), p); err != nil {
		if errors.Is(err, repository.ErrPartNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Parts.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, newPartResp(updated))
}

// Delete handles DELETE /v1/parts/:id.  Parts referenced by a ticket
// ledger cannot be removed.
func (h *PartHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Parts.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrPartNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "part is used on service tickets"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Part deleted"})
}

// AddStock handles PUT /v1/parts/:id/add_stock and increments the
// inventory count by the requested amount.
func (h *PartHandler) AddStock(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Amount int `json:"amount"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be greater than zero"})
	}
	stock, err := h.Parts.AddStock(c.Request().Context(), id, uint32(body.Amount))
	if err != nil {
		if errors.Is(err, repository.ErrPartNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "stock": stock})
}
