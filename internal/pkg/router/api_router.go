package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/payliv/fulfillment-service/app/controllers"
	"github.com/payliv/fulfillment-service/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(), cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Authorization, X-Client-Info, Apikey, Content-Type, X-API-Key",
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from fulfillment api",
		})
	})

	// Provider-facing webhook; the provider authenticates itself by payload,
	// not by service key.
	api.Post("/webhooks/payment", controllers.HandlePaymentWebhook)

	// Internal service-to-service endpoints.
	internal := api.Group("/", middleware.ServiceKeyMiddleware())
	internal.Post("/orders/finalize-digital", controllers.HandleFinalizeDigitalOrder)
	internal.Post("/accounts/from-order", controllers.HandleCreateAccountFromOrder)
	internal.Post("/notifications/whatsapp/order", controllers.HandleSendOrderWhatsApp)
	internal.Post("/notifications/whatsapp/send", controllers.HandleSendWhatsAppMessage)
	internal.Get("/webhooks/logs", controllers.HandleListWebhookLogs)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
