package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/publisher"
	"github.com/valleops/postpilot/internal/repository"
	"github.com/valleops/postpilot/internal/transfer"
)

// DefaultPublishError is recorded when the adapter fails without a summary.
const DefaultPublishError = "Falha ao publicar"

// PublishService is the orchestrator: it claims due records, drives them
// through the publisher and reconciles the outcome onto the record.
type PublishService interface {
	PublishDue(ctx context.Context) (*transfer.SweepStats, error)
	PublishOne(ctx context.Context, post *models.PostRecord, expectedStatus string) error
	PublishClaimed(ctx context.Context, post *models.PostRecord) error
}

type publishService struct {
	pr        repository.PostRecordRepository
	ph        repository.PostingHistoryRepository
	pub       publisher.Publisher
	batchSize int
}

func NewPublishService(
	pr repository.PostRecordRepository,
	ph repository.PostingHistoryRepository,
	pub publisher.Publisher,
	batchSize int) PublishService {
	return &publishService{
		pr:        pr,
		ph:        ph,
		pub:       pub,
		batchSize: batchSize,
	}
}

// PublishDue is one sweep: due records, earliest deadline first, processed
// sequentially. A claim lost to a concurrent trigger is skipped silently.
func (s *publishService) PublishDue(ctx context.Context) (*transfer.SweepStats, error) {
	stats := &transfer.SweepStats{}

	due, err := s.pr.ListDue(ctx, time.Now(), s.batchSize)
	if err != nil {
		return stats, fmt.Errorf("error selecting due records: %w", err)
	}

	for _, post := range due {
		err := s.PublishOne(ctx, post, models.StatusScheduled)
		if err == ErrClaimConflict {
			continue
		}
		if err != nil {
			slog.Info(fmt.Sprintf("sweep: post %s: %v", post.ID, err))
			continue
		}

		stats.Processed++
		if post.Status == models.StatusPublished {
			stats.Published++
		} else {
			stats.Failed++
		}
	}

	return stats, nil
}

// PublishOne claims the record from its expected status and, if this caller
// wins the claim, runs the publish sequence. The conditional update is the
// only guard against concurrent triggers racing on the same record.
func (s *publishService) PublishOne(ctx context.Context, post *models.PostRecord, expectedStatus string) error {
	claimed, err := s.pr.ClaimPublishing(ctx, post.ID, expectedStatus)
	if err != nil {
		return fmt.Errorf("error claiming post %s: %w", post.ID, err)
	}
	if !claimed {
		return ErrClaimConflict
	}

	post.Status = models.StatusPublishing
	return s.PublishClaimed(ctx, post)
}

// PublishClaimed runs the adapter for a record this caller already owns and
// writes the terminal state. These writes are the only way out of
// `publishing`, so every path below must end in one of them.
func (s *publishService) PublishClaimed(ctx context.Context, post *models.PostRecord) error {
	result := s.attempt(ctx, post)

	s.recordHistory(ctx, post, result.PerChannel)

	if result.OK {
		publishedAt := time.Now()
		if err := s.pr.MarkPublished(ctx, post.ID, publishedAt, result.PerChannel); err != nil {
			return fmt.Errorf("error marking post %s published: %w", post.ID, err)
		}
		post.Status = models.StatusPublished
		post.PublishedAt = &publishedAt
		post.ErrorMessage = ""
		post.PerChannelResults = result.PerChannel
		return nil
	}

	message := result.Err
	if message == "" {
		message = DefaultPublishError
	}

	if err := s.pr.MarkFailed(ctx, post.ID, message, result.PerChannel); err != nil {
		return fmt.Errorf("error marking post %s failed: %w", post.ID, err)
	}
	post.Status = models.StatusFailed
	post.ErrorMessage = message
	post.PerChannelResults = result.PerChannel
	return nil
}

// attempt invokes the adapter. A failing or panicking adapter must not
// strand the record in `publishing`, so every exit maps to a Result.
func (s *publishService) attempt(ctx context.Context, post *models.PostRecord) (result *publisher.Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error(fmt.Sprintf("publisher panic for post %s: %v", post.ID, r))
			result = &publisher.Result{OK: false, Err: fmt.Sprintf("publisher panic: %v", r)}
		}
	}()

	result, err := s.pub.Publish(ctx, post)
	if err != nil {
		return &publisher.Result{OK: false, Err: err.Error()}
	}
	if result == nil {
		return &publisher.Result{OK: false}
	}
	return result
}

func (s *publishService) recordHistory(ctx context.Context, post *models.PostRecord, results []models.ChannelResult) {
	for _, cr := range results {
		ph := models.PostingHistory{
			ClientID:   post.ClientID,
			PostID:     post.ID,
			Channel:    cr.Channel,
			ExternalID: cr.ExternalID,
		}
		if !cr.OK {
			ph.ErrorMessage = cr.Detail
		}
		if _, err := s.ph.Create(ctx, &ph); err != nil {
			slog.Info(fmt.Sprintf("error saving posting history for post %s: %v", post.ID, err))
		}
	}
}
