package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/valleops/postpilot/internal/service"
	"github.com/valleops/postpilot/internal/transfer"
)

type ApprovalHandler struct {
	s service.ApprovalService
}

func NewApprovalHandler(service service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{s: service}
}

func (h *ApprovalHandler) Decide(c *fiber.Ctx) error {
	actorID := GetActorID(c)

	var action transfer.ApprovalAction
	if err := c.BodyParser(&action); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	post, err := h.s.Decide(c.Context(), actorID, &action)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}
