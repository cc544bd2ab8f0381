package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caravantransport/caravan-crm/internal/pkg/session"
	"github.com/caravantransport/caravan-crm/internal/pkg/usercontext"
)

// Session keys written by the auth controller.
const (
	SessionKeyUserID   = "USER_ID"
	SessionKeyUserName = "USER_NAME"
	SessionKeyIsAdmin  = "USER_IS_ADMIN"
)

// UserContextMiddleware resolves the operator session for every request and
// stores the result in Locals. Requests without a session pass through as
// anonymous; route guards decide what anonymous may reach.
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := usercontext.UserContext{IsLoggedIn: false, IsAdmin: false}

	store := session.GetSessionStore()
	if store == nil {
		c.Locals("USER_CONTEXT", anonymous)
		return c.Next()
	}

	sess, err := store.Get(c)
	if err != nil {
		c.Locals("USER_CONTEXT", anonymous)
		return c.Next()
	}

	userID, ok := sess.Get(SessionKeyUserID).(uint)
	if !ok || userID == 0 {
		c.Locals("USER_CONTEXT", anonymous)
		return c.Next()
	}

	name, _ := sess.Get(SessionKeyUserName).(string)
	isAdmin, _ := sess.Get(SessionKeyIsAdmin).(bool)

	c.Locals("USER_CONTEXT", usercontext.UserContext{
		UserID:     userID,
		Name:       name,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})

	return c.Next()
}
