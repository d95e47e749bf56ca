package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/valleops/postpilot/internal/service"
)

type APIKeyHandler struct {
	s service.APIKeyService
}

func NewAPIKeyHandler(service service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{s: service}
}

func (h *APIKeyHandler) CreateAPIKey(c *fiber.Ctx) error {
	actorID := GetActorID(c)

	if err := h.s.Create(c.Context(), actorID); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *APIKeyHandler) ListKeys(c *fiber.Ctx) error {
	actorID := GetActorID(c)

	keys, err := h.s.List(c.Context(), actorID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list api keys",
		})
	}

	return c.Status(fiber.StatusOK).JSON(keys)
}

func (h *APIKeyHandler) RemoveAPIKey(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	keyID := c.QueryInt("id", 0)

	if err := h.s.RemoveAPIKey(c.Context(), actorID, int64(keyID)); err != nil {
		return serviceError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
