package main // Entry point package

import (
	"log" // Logging library
	"os"  // Environment flags

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/dcortes/mechanic-shop-api/internal/config"     // Internal config loader
	"github.com/dcortes/mechanic-shop-api/internal/database"   // MySQL connection pool
	"github.com/dcortes/mechanic-shop-api/internal/handler"    // HTTP handlers
	"github.com/dcortes/mechanic-shop-api/internal/queue"      // Broker consumer
	"github.com/dcortes/mechanic-shop-api/internal/repository" // Data access layer
	"github.com/dcortes/mechanic-shop-api/internal/router"     // Route registration
	"github.com/dcortes/mechanic-shop-api/internal/service"    // Reconciliation and assignment engines
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env wins

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; middlewares degrade to no-ops

	// Repositories.
	customers := repository.NewCustomerRepo(db)
	mechanics := repository.NewMechanicRepo(db)
	parts := repository.NewPartRepo(db)
	tickets := repository.NewTicketRepo(db)
	ticketParts := repository.NewTicketPartRepo(db)

	// Engines share one transactional store.
	store := repository.NewStore(db, tickets, parts, ticketParts, mechanics)
	reconciler := service.NewReconciliationEngine(store)
	assigner := service.NewAssignmentEngine(store)

	publishEvents := os.Getenv("DISABLE_EVENTS") == ""

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, mechanics),
		Customers: handler.NewCustomerHandler(customers),
		Mechanics: handler.NewMechanicHandler(cfg, mechanics, tickets),
		Parts:     handler.NewPartHandler(parts),
		Tickets:   handler.NewTicketHandler(tickets, customers, parts, reconciler, assigner, publishEvents),
	}

	// Background consumer appends parts_changed events to logs/ticket.log.
	if publishEvents {
		go func() {
			if err := queue.StartTicketConsumer(); err != nil {
				log.Printf("ticket-consumer: %v", err)
			}
		}()
	}

	e := echo.New() // Create Echo instance
	router.Register(e, h, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
