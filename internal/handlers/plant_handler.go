package handlers

import (
	"vriksh/internal/middleware"
	"vriksh/internal/models"
	"vriksh/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// PlantHandler serves the caller's plant collection (Mera Vana).
type PlantHandler struct {
	plants    *services.PlantService
	diagnoses *services.DiagnosisService
	log       zerolog.Logger
}

// NewPlantHandler creates a new PlantHandler.
func NewPlantHandler(plants *services.PlantService, diagnoses *services.DiagnosisService, log zerolog.Logger) *PlantHandler {
	return &PlantHandler{plants: plants, diagnoses: diagnoses, log: log}
}

// RegisterRoutes registers the plant routes behind auth.
func (h *PlantHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	vana := router.Group("/vana", auth)
	vana.Get("/", h.List)
	vana.Post("/", h.Create)
	vana.Get("/:id", h.Get)
	vana.Put("/:id", h.Update)
	vana.Patch("/:id", h.Update)
	vana.Delete("/:id", h.Delete)
	vana.Get("/:id/chikitsa", h.History)
}

// List returns the caller's plants.
func (h *PlantHandler) List(c *fiber.Ctx) error {
	plants, err := h.plants.ListForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch plants. Please try again.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"plants":  plants,
		"count":   len(plants),
	})
}

// Create adds a plant to the caller's collection.
func (h *PlantHandler) Create(c *fiber.Ctx) error {
	var in models.PlantInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidJSON)
	}

	id, err := h.plants.Create(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to add plant. Please try again.")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"plant_id": id,
		"message":  "Plant added to Mera Vana successfully",
	})
}

// Get returns one of the caller's plants.
func (h *PlantHandler) Get(c *fiber.Ctx) error {
	plant, err := h.plants.Get(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch plant. Please try again.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"plant":   plant,
	})
}

// Update applies a partial update.
func (h *PlantHandler) Update(c *fiber.Ctx) error {
	var in models.PlantUpdate
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidJSON)
	}

	if err := h.plants.Update(c.UserContext(), middleware.UserID(c), c.Params("id"), in); err != nil {
		return respondError(c, h.log, err, "Failed to update plant. Please try again.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Plant updated successfully",
	})
}

// Delete removes a plant and its diagnoses.
func (h *PlantHandler) Delete(c *fiber.Ctx) error {
	if err := h.plants.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err, "Failed to remove plant. Please try again.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Plant removed from Mera Vana successfully",
	})
}

// History lists recent diagnoses for one of the caller's plants.
func (h *PlantHandler) History(c *fiber.Ctx) error {
	checks, err := h.diagnoses.History(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch health history. Please try again.")
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"health_checks": checks,
		"count":         len(checks),
	})
}
