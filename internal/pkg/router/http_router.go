package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caravantransport/caravan-crm/app/controllers"
	"github.com/caravantransport/caravan-crm/app/repository"
	"github.com/caravantransport/caravan-crm/internal/pkg/contracts"
	"github.com/caravantransport/caravan-crm/internal/pkg/env"
	"github.com/caravantransport/caravan-crm/internal/pkg/mail"
	"github.com/caravantransport/caravan-crm/internal/pkg/middleware"
	"github.com/caravantransport/caravan-crm/internal/pkg/payments"
	"github.com/caravantransport/caravan-crm/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Operator context on every request
	app.Use(middleware.UserContextMiddleware)

	// Wire the lifecycle service into the controllers
	stripeCfg := payments.ConfigFromEnv()
	service := contracts.NewService(
		repository.GetGlobalRepositories(),
		payments.NewStripeClient(stripeCfg),
		mail.NewSMTPMailer(mail.SMTPConfigFromEnv()),
		contracts.Config{
			AppURL:     env.GetEnv("APP_URL", "http://localhost:4000"),
			AdminEmail: env.GetEnv("ADMIN_EMAIL", ""),
		},
	)
	controllers.InitializeContractController(service)
	controllers.InitializeWebhookController(stripeCfg)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
