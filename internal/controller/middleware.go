package controller

import (
	"ai-booking-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// NewIdentityMiddleware resolves every request to the demo identity and
// stores its id in locals, mirroring what a session middleware would do.
func NewIdentityMiddleware(userService service.IUserService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := userService.EnsureDemoUser(ctx.Context())
		if err != nil {
			return err
		}
		ctx.Locals("user_id", user.Id.String())
		return ctx.Next()
	}
}
