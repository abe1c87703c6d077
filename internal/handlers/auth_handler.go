package handlers

import (
	"vriksh/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/refresh", h.HandleRefresh)
	authRoutes.Get("/verify", h.HandleVerify)
}

// HandleSignup creates an account and returns a token.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidJSON)
	}

	res, err := h.authService.Signup(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err, "Signup failed. Please try again.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"token":   res.Token,
		"user":    res.User,
	})
}

// HandleLogin authenticates and returns a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidJSON)
	}

	res, err := h.authService.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err, "Login failed. Please try again.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"token":   res.Token,
		"user":    res.User,
	})
}

// HandleRefresh exchanges a valid token for a fresh one.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	token, err := h.authService.Refresh(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return respondError(c, h.log, err, "Token refresh failed. Please login again.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

// HandleVerify returns the profile behind a valid token.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	user, err := h.authService.Verify(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return respondError(c, h.log, err, "Token verification failed")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
