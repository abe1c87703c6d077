package handlers

import (
	"vriksh/internal/middleware"
	"vriksh/internal/models"
	"vriksh/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AIHandler serves the model-backed routes: identification (Darshan),
// diagnosis (Chikitsa) and care schedules (Seva).
type AIHandler struct {
	identify  *services.IdentificationService
	diagnoses *services.DiagnosisService
	schedules *services.CareScheduleService
	log       zerolog.Logger
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(identify *services.IdentificationService, diagnoses *services.DiagnosisService, schedules *services.CareScheduleService, log zerolog.Logger) *AIHandler {
	return &AIHandler{identify: identify, diagnoses: diagnoses, schedules: schedules, log: log}
}

// RegisterPublicRoutes registers routes that need no token.
func (h *AIHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Post("/darshan", h.Darshan)
	router.Post("/seva", h.Seva)
}

// RegisterProtectedRoutes registers routes that need a verified caller.
func (h *AIHandler) RegisterProtectedRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/chikitsa", auth, h.Chikitsa)
}

// Darshan identifies a plant from an image.
func (h *AIHandler) Darshan(c *fiber.Ctx) error {
	var in services.IdentifyInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidJSON)
	}

	res, err := h.identify.Identify(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err, "Plant identification failed. Please try again with a clearer image.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"darshan": res,
	})
}

// Chikitsa diagnoses a plant and stores the result for owned plants.
func (h *AIHandler) Chikitsa(c *fiber.Ctx) error {
	var in models.DiagnosisInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidJSON)
	}

	res, err := h.diagnoses.Diagnose(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return respondError(c, h.log, err, "Plant diagnosis failed. Please try again.")
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"chikitsa": res.Chikitsa,
		"saved":    res.Saved,
	})
}

// Seva builds a care schedule.
func (h *AIHandler) Seva(c *fiber.Ctx) error {
	var in models.CareScheduleInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidJSON)
	}

	res, err := h.schedules.Schedule(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err, "Care schedule generation failed. Please try again.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"seva":    res,
	})
}
