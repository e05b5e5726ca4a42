package http

import (
	"github.com/gofiber/fiber/v2"

	appeinvoice "github.com/facturis/efactura-pro/internal/application/einvoice"
)

// RouterDeps are the router's dependencies.
type RouterDeps struct {
	BuildEInvoice *appeinvoice.BuildEInvoiceUseCase
	JWTSecret     string
}

// Router registers the API routes. Everything under /api requires a Bearer
// token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	einvoices := api.Group("/einvoices")
	handler := NewEInvoiceHandler(deps.BuildEInvoice)
	einvoices.Post("/", handler.Create)
	einvoices.Get("/", handler.List)
	einvoices.Get("/:id", handler.GetByID)
	einvoices.Get("/:id/xml", handler.GetXML)
	einvoices.Get("/:id/status", handler.GetStatus)
}
