package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/dcortes/mechanic-shop-api/internal/config"     // cache and rate limit configuration
	"github.com/dcortes/mechanic-shop-api/internal/handler"    // import the handlers that implement business logic
	"github.com/dcortes/mechanic-shop-api/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// Handlers groups every handler the API mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Customers *handler.CustomerHandler
	Mechanics *handler.MechanicHandler
	Parts     *handler.PartHandler
	Tickets   *handler.TicketHandler
}

// Register mounts every route on the provided Echo instance.
//
// Layout:
//   - /healthz and POST /v1/mechanics/login and POST /v1/mechanics are open;
//     a mechanic has to be able to register and obtain a token first.
//   - everything else under /v1 requires a valid access token with the
//     mechanic role.
//   - GET /v1/tickets additionally sits behind the Redis response cache.
//
// The token bucket rate limiter applies to the whole API. Both Redis
// middlewares degrade to pass-through when rdb is nil.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	// Health check for load balancers and monitoring. Not rate limited.
	e.GET("/healthz", handler.Health)

	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Open routes: registration and login.
	e.POST("/v1/mechanics", h.Mechanics.Create)
	e.POST("/v1/mechanics/login", h.Auth.Login)
	e.POST("/v1/mechanics/logout", h.Auth.Logout)

	// Protected routes: every other endpoint requires a mechanic token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("mechanic"))

	// Customers.
	auth.POST("/customers", h.Customers.Create)
	auth.GET("/customers", h.Customers.List)
	auth.GET("/customers/:id", h.Customers.Get)
	auth.PUT("/customers/:id", h.Customers.Update)
	auth.DELETE("/customers/:id", h.Customers.Delete)

	// Mechanics. my_tickets is registered before :id so Echo does not
	// swallow it as a path parameter.
	auth.GET("/mechanics", h.Mechanics.List)
	auth.GET("/mechanics/my_tickets", h.Mechanics.MyTickets)
	auth.GET("/mechanics/:id", h.Mechanics.Get)
	auth.PUT("/mechanics", h.Mechanics.UpdateSelf)
	auth.DELETE("/mechanics/:id", h.Mechanics.DeleteSelf)

	// Parts inventory.
	auth.POST("/parts", h.Parts.Create)
	auth.GET("/parts", h.Parts.List)
	auth.GET("/parts/:id", h.Parts.Get)
	auth.PUT("/parts/:id", h.Parts.Update)
	auth.DELETE("/parts/:id", h.Parts.Delete)
	auth.PUT("/parts/:id/add_stock", h.Parts.AddStock)

	// Service tickets. The list route carries the response cache.
	auth.POST("/tickets", h.Tickets.Create)
	auth.GET("/tickets", h.Tickets.List, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	auth.GET("/tickets/:id", h.Tickets.Get)
	auth.PUT("/tickets/add_part", h.Tickets.AddPart)
	auth.PUT("/tickets/remove_part", h.Tickets.RemovePart)
	auth.PUT("/tickets/:id", h.Tickets.Update)
	auth.DELETE("/tickets/:id", h.Tickets.Delete)
	auth.PUT("/tickets/:id/assign_mechanic/:mechanic_id", h.Tickets.AssignMechanic)
	auth.PUT("/tickets/:id/remove_mechanic/:mechanic_id", h.Tickets.RemoveMechanic)
}
