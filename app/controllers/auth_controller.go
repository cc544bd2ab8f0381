package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/caravantransport/caravan-crm/app/models"
	"github.com/caravantransport/caravan-crm/app/repository"
	"github.com/caravantransport/caravan-crm/internal/pkg/middleware"
	"github.com/caravantransport/caravan-crm/internal/pkg/session"
	"github.com/caravantransport/caravan-crm/internal/pkg/usercontext"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates an operator and establishes a session.
func HandleLogin(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_body", "message": "Invalid request body"})
	}
	if input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Email and password are required"})
	}

	user, err := repository.GetGlobalRepositories().User.GetByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Login failed"})
	}

	if !user.IsActive() || !user.CheckPassword(input.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid credentials"})
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session unavailable"})
	}
	sess.Set(middleware.SessionKeyUserID, user.ID)
	sess.Set(middleware.SessionKeyUserName, user.Name)
	sess.Set(middleware.SessionKeyIsAdmin, user.Role == models.ROLE_ADMIN)
	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to persist session"})
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repository.GetGlobalRepositories().User.Update(user); err != nil {
		log.Printf("Failed to record last login for %s: %v", user.Email, err)
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// HandleLogout destroys the operator session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleSession returns the current operator context.
func HandleSession(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "No active session"})
	}
	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":       userCtx.UserID,
			"name":     userCtx.Name,
			"is_admin": userCtx.IsAdmin,
		},
	})
}
