package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/repository"
	"github.com/valleops/postpilot/internal/service"
)

type Worker struct {
	pr repository.PostRecordRepository
	ps service.PublishService
}

func NewWorker(pr repository.PostRecordRepository, ps service.PublishService) *Worker {
	return &Worker{pr: pr, ps: ps}
}

// HandlePublishPostTask fires at a record's scheduled time. The record may
// already have been swept, approved away, or deleted by now, so every check
// here is a re-check; the claim inside PublishOne settles any remaining race.
func (w *Worker) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	post, err := w.pr.GetByID(ctx, payload.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		log.Printf("Publish task: post %s no longer exists", payload.PostID)
		return nil
	}

	if post.Status != models.StatusScheduled {
		return nil
	}
	if post.ScheduledAt != nil && post.ScheduledAt.After(time.Now()) {
		return nil
	}

	err = w.ps.PublishOne(ctx, post, models.StatusScheduled)
	if err == service.ErrClaimConflict {
		return nil
	}
	return err
}
