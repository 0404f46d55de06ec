package handler

import (
	"errors"   // errors.Is comparisons on repository sentinels
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/dcortes/mechanic-shop-api/internal/config"     // app configuration
	"github.com/dcortes/mechanic-shop-api/internal/model"      // shop entities
	"github.com/dcortes/mechanic-shop-api/internal/repository" // DB repositories
	"github.com/dcortes/mechanic-shop-api/internal/utils"      // password hashing
)

// MechanicHandler bundles dependencies for mechanic resource endpoints.
// Update and Delete operate on the authenticated mechanic only; a
// mechanic cannot modify a colleague's record.
type MechanicHandler struct {
	Cfg       config.Config
	Mechanics *repository.MechanicRepo
	Tickets   *repository.TicketRepo
}

func NewMechanicHandler(cfg config.Config, m *repository.MechanicRepo, t *repository.TicketRepo) *MechanicHandler {
	if m == nil || t == nil {
		panic("nil repository passed to NewMechanicHandler")
	}
	return &MechanicHandler{Cfg: cfg, Mechanics: m, Tickets: t}
}

type mechanicBody struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Specialty string `json:"specialty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// mechanicResp never exposes the password hash.
type mechanicResp struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Specialty string `json:"specialty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func newMechanicResp(m *model.Mechanic) mechanicResp {
	return mechanicResp{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Specialty: m.Specialty,
		Email:     m.Email,
		Phone:     m.Phone,
	}
}

func (b *mechanicBody) trim() {
	b.FirstName = strings.TrimSpace(b.FirstName)
	b.LastName = strings.TrimSpace(b.LastName)
	b.Specialty = strings.TrimSpace(b.Specialty)
	b.Email = strings.TrimSpace(b.Email)
	b.Phone = strings.TrimSpace(b.Phone)
}

// Create handles POST /v1/mechanics and registers a new mechanic.
// Registration is open; the password is bcrypt-hashed before storage.
func (h *MechanicHandler) Create(c echo.Context) error {
	var body mechanicBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.trim()
	if body.FirstName == "" || body.LastName == "" || body.Email == "" || body.Phone == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name, email, phone and password are required"})
	}

	hash, err := utils.HashPassword(body.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
	}
	m := &model.Mechanic{
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Specialty:    body.Specialty,
		Email:        body.Email,
		Phone:        body.Phone,
		PasswordHash: hash,
	}
	if err := h.Mechanics.Create(c.Request().Context(), m); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		if errors.Is(err, repository.ErrPhoneExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create mechanic"})
	}
	return c.JSON(http.StatusCreated, newMechanicResp(m))
}

// Get handles GET /v1/mechanics/:id.
func (h *MechanicHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Mechanics.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMechanicNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mechanic not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, newMechanicResp(m))
}

// List handles GET /v1/mechanics.
func (h *MechanicHandler) List(c echo.Context) error {
	items, err := h.Mechanics.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]mechanicResp, 0, len(items))
	for i := range items {
		out = append(out, newMechanicResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// UpdateSelf handles PUT /v1/mechanics.  The target record is the
// authenticated mechanic; the ID comes from the token, not the body.
func (h *MechanicHandler) UpdateSelf(c echo.Context) error {
	mechanicID, err := getMechanicID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body mechanicBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.trim()
	if body.FirstName == "" || body.LastName == "" || body.Email == "" || body.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name, email and phone are required"})
	}

	current, err := h.Mechanics.GetByID(c.Request().Context(), mechanicID)
	if err != nil {
		if errors.Is(err, repository.ErrMechanicNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mechanic not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// An omitted password keeps the existing hash.
	hash := current.PasswordHash
	if body.Password != "" {
		hash, err = utils.HashPassword(body.Password, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not hash password"})
		}
	}

	m := &model.Mechanic{
		ID:           mechanicID,
		FirstName:    body.FirstName,
		LastName:     body.LastName,
		Specialty:    body.Specialty,
		Email:        body.Email,
		Phone:        body.Phone,
		PasswordHash: hash,
	}
	if err := h.Mechanics.Update(c.Request().Context(), m); err != nil {
		if errors.Is(err, repository.ErrMechanicNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mechanic not found"})
		}
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		if errors.Is(err, repository.ErrPhoneExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Mechanics.GetByID(c.Request().Context(), mechanicID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, newMechanicResp(updated))
}

// DeleteSelf handles DELETE /v1/mechanics/:id.  The path ID must match
// the authenticated mechanic.
func (h *MechanicHandler) DeleteSelf(c echo.Context) error {
	mechanicID, err := getMechanicID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if id != mechanicID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "can only delete your own account"})
	}
	if err := h.Mechanics.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMechanicNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mechanic not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Mechanic deleted"})
}

// MyTickets handles GET /v1/mechanics/my_tickets and lists the service
// tickets the authenticated mechanic is assigned to.
func (h *MechanicHandler) MyTickets(c echo.Context) error {
	mechanicID, err := getMechanicID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Tickets.ListByMechanic(c.Request().Context(), mechanicID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]ticketResp, 0, len(items))
	for i := range items {
		out = append(out, newTicketResp(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
