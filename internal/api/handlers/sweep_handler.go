package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	config "github.com/valleops/postpilot/configs"
	"github.com/valleops/postpilot/internal/service"
)

// SweepHandler lets an external scheduler trigger a due-record sweep. The
// in-process cron already runs sweeps; this endpoint exists for platforms
// where a managed cron calls the service over HTTP.
type SweepHandler struct {
	s   service.PublishService
	cfg config.Config
}

func NewSweepHandler(cfg config.Config, service service.PublishService) *SweepHandler {
	return &SweepHandler{s: service, cfg: cfg}
}

func (h *SweepHandler) RunSweep(c *fiber.Ctx) error {
	// An unset secret must close the route, not open it.
	if h.cfg.CronSecret == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "cron trigger is not configured",
		})
	}

	secret := c.Get("X-Cron-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.CronSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid cron secret",
		})
	}

	stats, err := h.s.PublishDue(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
