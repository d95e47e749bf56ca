package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/valleops/postpilot/internal/service"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	actorID := GetActorID(c)

	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	clientID := c.FormValue("client_id")
	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files selected",
		})
	}

	results, err := h.s.Upload(c.Context(), actorID, clientID, files)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(results)
}

func (h *MediaHandler) ListMedia(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	clientID := c.Query("client_id")

	assets, err := h.s.List(c.Context(), actorID, clientID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(assets)
}
