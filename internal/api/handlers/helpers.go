package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/valleops/postpilot/internal/service"
)

func GetActorID(c *fiber.Ctx) string {
	actorID, _ := c.Locals("user_id").(string)
	return actorID
}

// serviceError maps service layer failures onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case service.IsValidationError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case service.IsAuthorizationError(err):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "record not found",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
