package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sauron136/custos/internal/auth/dto"
	"github.com/sauron136/custos/internal/auth/service"
	autherror "github.com/sauron136/custos/internal/errors"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService service.TokenGenerator
}

func NewAuthHandler(userService *service.UserService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{userService: userService, tokenService: tokenService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	user, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Please check your email to verify your account.",
		"user":    dto.NewUserOutput(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	// Capture metadata
	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	tokenPair, user, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token":  tokenPair.AccessToken,
		"refresh_token": tokenPair.RefreshToken,
		"user":          dto.NewUserOutput(user),
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	tokens, err := h.userService.Refresh(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input dto.LogoutInput
	// Body is optional; without a named token every session is closed.
	_ = c.BodyParser(&input)

	userID, _ := c.Locals(LocalUserID).(string)

	if err := h.userService.Logout(c.Context(), userID, input.RefreshToken); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logged out successfully.",
	})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		var input dto.VerifyEmailInput
		if err := c.BodyParser(&input); err != nil || input.Token == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
		}
		token = input.Token
	}

	if err := h.userService.VerifyEmail(c.Context(), token); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Email verified successfully. You can now login to your account.",
	})
}

func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var input dto.ResendVerificationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if verr := dto.Validate(input); verr != nil {
		return respondError(c, verr)
	}

	if err := h.userService.ResendVerification(c.Context(), input.Email); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Verification email sent successfully.",
	})
}

func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var input dto.PasswordResetRequestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if verr := dto.Validate(input); verr != nil {
		return respondError(c, verr)
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	if err := h.userService.RequestPasswordReset(c.Context(), input); err != nil {
		return respondError(c, err)
	}

	// Same response whether or not the account exists.
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If an account with this email exists, a password reset link has been sent.",
	})
}

func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var input dto.PasswordResetConfirmInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.userService.ConfirmPasswordReset(c.Context(), input); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password reset successful. You can now login with your new password.",
	})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var input dto.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	userID, _ := c.Locals(LocalUserID).(string)

	if err := h.userService.ChangePassword(c.Context(), userID, input); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password changed successfully. Please login again with your new password.",
	})
}

// respondError maps service errors onto status codes. Anything outside
// the known taxonomy is an opaque 500.
func respondError(c *fiber.Ctx, err error) error {
	if verr, ok := autherror.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verr.Fields})
	}

	switch {
	case errors.Is(err, autherror.ErrInvalidCredentials),
		errors.Is(err, autherror.ErrAccountDisabled),
		errors.Is(err, autherror.ErrEmailNotVerified),
		errors.Is(err, autherror.ErrRefreshTokenNotFound),
		errors.Is(err, autherror.ErrRefreshTokenRevoked),
		errors.Is(err, autherror.ErrRefreshTokenExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, autherror.ErrTooManyLoginAttempts):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, autherror.ErrEmailAlreadyInUse),
		errors.Is(err, autherror.ErrUsernameAlreadyInUse),
		errors.Is(err, autherror.ErrEmailAlreadyVerified):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, autherror.ErrTokenNotFound),
		errors.Is(err, autherror.ErrTokenExpired),
		errors.Is(err, autherror.ErrTokenAlreadyUsed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, autherror.ErrUserNotFound),
		errors.Is(err, autherror.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
