package server

import (
	"errors"
	"strings"

	"saraf-backend/internal/apperr"
	"saraf-backend/internal/audit"
	"saraf-backend/internal/auth"
	"saraf-backend/internal/config"
	"saraf-backend/internal/database"
	"saraf-backend/internal/items"
	"saraf-backend/internal/ledger"
	"saraf-backend/internal/logger"
	"saraf-backend/internal/rates"
	"saraf-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// New builds the fiber app with every route wired against database.DB.
func New(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var ae *apperr.Error
			if errors.As(err, &ae) {
				return c.Status(ae.Status).JSON(ae)
			}
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"message": e.Message,
				})
			}
			logger.L.WithError(err).Error("unexpected error")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	engine := ledger.NewEngine(database.DB)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Everything else runs under the vendor identity from the JWT.
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Karagir ledger
	protected.Get("/ledger", ledger.ListEntriesHandler(engine))
	protected.Get("/ledger/pending-out", ledger.PendingOutHandler(engine))
	protected.Get("/ledger/:id", ledger.GetEntryHandler(engine))
	protected.Post("/ledger", ledger.CreateEntryHandler(engine))
	protected.Put("/ledger/:id", ledger.UpdateEntryHandler(engine))
	protected.Delete("/ledger/:id", ledger.DeleteEntryHandler(engine))
	protected.Delete("/ledger", ledger.DeleteAllEntriesHandler(engine))

	// Stock items
	protected.Get("/items", items.ListItemsHandler())
	protected.Get("/items/:id", items.GetItemHandler())
	protected.Post("/items", items.CreateItemHandler())
	protected.Put("/items/:id", items.UpdateItemHandler())
	protected.Delete("/items/:id", items.DeleteItemHandler())

	// Rate board
	protected.Get("/rates", rates.ListRatesHandler())
	protected.Post("/rates", rates.SetRateHandler())
	protected.Delete("/rates/:id", rates.DeleteRateHandler())

	// Customer buy/sell
	protected.Get("/transactions", sales.ListTransactionsHandler())
	protected.Get("/transactions/:id", sales.GetTransactionHandler())
	protected.Post("/transactions", sales.CreateTransactionHandler())
	protected.Delete("/transactions/:id", sales.DeleteTransactionHandler())

	// Audit trail
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	return app
}
