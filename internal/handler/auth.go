package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // errors.Is comparisons on repository sentinels
	"fmt"      // welcome message formatting
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/dcortes/mechanic-shop-api/internal/config"     // app configuration
	"github.com/dcortes/mechanic-shop-api/internal/repository" // DB repositories
	"github.com/dcortes/mechanic-shop-api/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for the mechanic login endpoint.
// Logging out is a client-side concern with stateless access tokens;
// the logout route simply acknowledges.
type AuthHandler struct {
	Cfg       config.Config
	Mechanics *repository.MechanicRepo
}

func NewAuthHandler(cfg config.Config, m *repository.MechanicRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Mechanics: m}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies a mechanic's credentials and returns a signed access
// token.  Credential failures are reported uniformly so callers cannot
// probe which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Mechanics.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrMechanicNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyPassword(m.PasswordHash, req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or password"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, m.ID, "mechanic", h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Welcome %s %s", m.FirstName, m.LastName),
		"token":   access.Token,
		"expires": access.Exp,
	})
}

// Logout acknowledges a logout request.  Access tokens are stateless,
// so discarding the token client-side is sufficient.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}
