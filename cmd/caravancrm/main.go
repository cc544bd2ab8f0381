package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/caravantransport/caravan-crm/app/models"
	"github.com/caravantransport/caravan-crm/app/repository"
	"github.com/caravantransport/caravan-crm/internal/pkg/cache"
	"github.com/caravantransport/caravan-crm/internal/pkg/database"
	"github.com/caravantransport/caravan-crm/internal/pkg/env"
	"github.com/caravantransport/caravan-crm/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	seedFirstOperator()

	app := fiber.New(fiber.Config{
		AppName:   "Caravan Transport CRM",
		BodyLimit: 10 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}

// seedFirstOperator creates the initial admin account from the environment
// when the users table is empty. Without it there is no way to log in to a
// fresh deployment.
func seedFirstOperator() {
	repo := repository.GetGlobalRepositories().User
	count, err := repo.Count()
	if err != nil || count > 0 {
		return
	}

	email := env.GetEnv("ADMIN_EMAIL", "")
	password := env.GetEnv("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		log.Println("No operator accounts exist and ADMIN_EMAIL/ADMIN_PASSWORD are not set")
		return
	}

	user, err := models.CreateUser("Administrator", email, password)
	if err != nil {
		log.Printf("Failed to build initial admin account: %v", err)
		return
	}
	user.Role = models.ROLE_ADMIN
	if err := repo.Create(user); err != nil {
		log.Printf("Failed to create initial admin account: %v", err)
		return
	}
	log.Printf("Created initial admin account %s", email)
}
