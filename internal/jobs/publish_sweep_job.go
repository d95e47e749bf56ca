package job

import (
	"context"
	"log/slog"

	"github.com/valleops/postpilot/internal/service"
)

// PublishSweepJob runs the periodic due-record sweep. Most records publish
// through their delayed queue task first; the sweep catches anything the
// queue missed, such as tasks lost to a Redis outage.
type PublishSweepJob struct {
	ps service.PublishService
}

func NewPublishSweepJob(ps service.PublishService) *PublishSweepJob {
	return &PublishSweepJob{ps: ps}
}

func (j *PublishSweepJob) Run() {
	ctx := context.Background()

	stats, err := j.ps.PublishDue(ctx)
	if err != nil {
		slog.Error(err.Error())
		return
	}

	if stats.Processed > 0 {
		slog.Info("publish sweep finished",
			"processed", stats.Processed,
			"published", stats.Published,
			"failed", stats.Failed)
	}
}
