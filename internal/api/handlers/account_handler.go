package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/valleops/postpilot/internal/service"
)

type AccountHandler struct {
	s service.AccountService
}

func NewAccountHandler(service service.AccountService) *AccountHandler {
	return &AccountHandler{s: service}
}

func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	clientID := c.Query("client_id")

	accounts, err := h.s.ListAccounts(c.Context(), actorID, clientID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(accounts)
}
