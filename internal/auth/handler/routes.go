package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("api/v1/register", h.Register)
	app.Post("api/v1/login", h.Login)
	app.Post("api/v1/refresh", h.Refresh)
	app.Get("api/v1/verify-email/:token", h.VerifyEmail)
	app.Post("api/v1/verify-email", h.VerifyEmail)
	app.Post("api/v1/resend-verification", h.ResendVerification)
	app.Post("api/v1/password-reset", h.RequestPasswordReset)
	app.Post("api/v1/password-reset/confirm", h.ConfirmPasswordReset)

	// Authenticated surface
	me := app.Group("/api/v1", h.RequireAuth())
	me.Post("/logout", h.Logout)
	me.Post("/change-password", h.ChangePassword)
	me.Get("/me", h.GetProfile)
	me.Patch("/me", h.UpdateProfile)
	me.Get("/sessions", h.ListSessions)
	me.Delete("/sessions/:id", h.RevokeSession)
}
