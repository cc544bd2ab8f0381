package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/caravantransport/caravan-crm/app/controllers"
	"github.com/caravantransport/caravan-crm/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 120}))

	// Auth
	auth := api.Group("/auth")
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/logout", controllers.HandleLogout)
	auth.Get("/session", controllers.HandleSession)

	// Public contract access: the signing token is the credential here, not
	// an operator session.
	api.Get("/contracts/:uuid/verify", controllers.HandleVerifyContract)
	api.Post("/contracts/:uuid/sign", controllers.HandleSignContract)
	api.Get("/contracts/:uuid/pdf", controllers.HandleContractPDF)

	// Processor webhooks authenticate via signature header
	api.Post("/webhooks/stripe", controllers.HandleStripeWebhook)

	// Operator-only routes
	contracts := api.Group("/contracts", middleware.RequireOperator)
	contracts.Post("/", controllers.HandleCreateContract)
	contracts.Get("/", controllers.HandleListContracts)
	contracts.Get("/:uuid", controllers.HandleGetContract)
	contracts.Put("/:uuid", controllers.HandleUpdateContract)
	contracts.Delete("/:uuid", controllers.HandleDeleteContract)
	contracts.Post("/:uuid/send", controllers.HandleSendContract)
	contracts.Post("/:uuid/resend", controllers.HandleResendContract)

	customers := api.Group("/customers", middleware.RequireOperator)
	customers.Post("/", controllers.HandleCreateCustomer)
	customers.Get("/", controllers.HandleListCustomers)
	customers.Get("/:uuid", controllers.HandleGetCustomer)
	customers.Put("/:uuid", controllers.HandleUpdateCustomer)
	customers.Delete("/:uuid", controllers.HandleDeleteCustomer)

	api.Get("/payments", middleware.RequireOperator, controllers.HandleListPayments)
	api.Get("/analytics", middleware.RequireOperator, controllers.HandleAnalytics)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
