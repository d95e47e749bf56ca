package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	config "github.com/valleops/postpilot/configs"
	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/transfer"
)

type stubPublishService struct {
	stats *transfer.SweepStats
	calls int
}

func (s *stubPublishService) PublishDue(ctx context.Context) (*transfer.SweepStats, error) {
	s.calls++
	return s.stats, nil
}

func (s *stubPublishService) PublishOne(ctx context.Context, post *models.PostRecord, expectedStatus string) error {
	return nil
}

func (s *stubPublishService) PublishClaimed(ctx context.Context, post *models.PostRecord) error {
	return nil
}

func sweepApp(secret string, ps *stubPublishService) *fiber.App {
	app := fiber.New()
	handler := NewSweepHandler(config.Config{CronSecret: secret}, ps)
	app.Post("/cron/sweep", handler.RunSweep)
	return app
}

func TestRunSweep(t *testing.T) {
	ps := &stubPublishService{stats: &transfer.SweepStats{Processed: 3, Published: 2, Failed: 1}}
	app := sweepApp("s3cret", ps)

	req := httptest.NewRequest(http.MethodPost, "/cron/sweep", nil)
	req.Header.Set("X-Cron-Secret", "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, ps.calls)

	var stats transfer.SweepStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 3, stats.Processed)
	assert.Equal(t, 2, stats.Published)
	assert.Equal(t, 1, stats.Failed)
}

func TestRunSweepWrongSecret(t *testing.T) {
	ps := &stubPublishService{stats: &transfer.SweepStats{}}
	app := sweepApp("s3cret", ps)

	req := httptest.NewRequest(http.MethodPost, "/cron/sweep", nil)
	req.Header.Set("X-Cron-Secret", "guess")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, ps.calls)
}

func TestRunSweepUnconfiguredSecretRejects(t *testing.T) {
	ps := &stubPublishService{stats: &transfer.SweepStats{}}
	app := sweepApp("", ps)

	// Without a configured secret the empty header would compare equal;
	// the route must stay closed instead.
	req := httptest.NewRequest(http.MethodPost, "/cron/sweep", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, ps.calls)
}
