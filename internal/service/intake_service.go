package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/publisher"
	"github.com/valleops/postpilot/internal/repository"
	"github.com/valleops/postpilot/internal/transfer"
)

// IntakeService validates a content submission, persists the record in its
// derived initial state and kicks off publication when the record is
// immediately due.
type IntakeService interface {
	SubmitPost(ctx context.Context, actorID string, sub *transfer.PostSubmission) (*transfer.SubmissionResult, error)
}

// Enqueuer schedules the precise per-record publish trigger. The cron sweep
// remains the safety net when an enqueue is lost.
type Enqueuer interface {
	EnqueuePost(postID string, delay time.Duration) error
}

type intakeService struct {
	pr    repository.PostRecordRepository
	guard GuardService
	ps    PublishService
	pub   publisher.Publisher
	enq   Enqueuer
}

func NewIntakeService(
	pr repository.PostRecordRepository,
	guard GuardService,
	ps PublishService,
	pub publisher.Publisher,
	enq Enqueuer) IntakeService {
	return &intakeService{
		pr:    pr,
		guard: guard,
		ps:    ps,
		pub:   pub,
		enq:   enq,
	}
}

func (s *intakeService) SubmitPost(ctx context.Context, actorID string, sub *transfer.PostSubmission) (*transfer.SubmissionResult, error) {
	if sub == nil {
		return nil, NewValidationError("", "submission is nil")
	}
	if sub.ClientID == "" {
		return nil, NewValidationError("client_id", "client_id is required")
	}
	if len(sub.Channels) == 0 {
		return nil, NewValidationError("channels", "select at least one channel")
	}
	for _, channel := range sub.Channels {
		if !s.pub.Supports(channel) {
			return nil, NewValidationError("channels", fmt.Sprintf("unknown channel %q", channel))
		}
	}
	for _, ref := range sub.MediaRefs {
		u, err := url.Parse(ref)
		if err != nil || !u.IsAbs() {
			return nil, NewValidationError("media_refs", fmt.Sprintf("malformed media ref %q", ref))
		}
	}
	if sub.Caption == "" && len(sub.MediaRefs) == 0 {
		return nil, NewValidationError("caption", "caption is required when no media is attached")
	}

	approvalStatus := sub.ApprovalStatus
	if approvalStatus == "" {
		approvalStatus = models.ApprovalApproved
	}
	if approvalStatus != models.ApprovalApproved && approvalStatus != models.ApprovalPending {
		return nil, NewValidationError("approval_status", fmt.Sprintf("invalid approval status %q", approvalStatus))
	}

	scheduledAt, err := parseScheduledAt(sub.ScheduledAt)
	if err != nil {
		return nil, NewValidationError("scheduled_at", err.Error())
	}

	if err := s.guard.CheckAccess(ctx, actorID, sub.ClientID); err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error generating post id: %w", err)
	}

	now := time.Now()
	post := &models.PostRecord{
		ID:             id,
		ClientID:       sub.ClientID,
		Channels:       sub.Channels,
		ContentType:    inferContentType(sub.MediaRefs),
		Caption:        sub.Caption,
		MediaRefs:      sub.MediaRefs,
		IsDraft:        sub.IsDraft,
		ApprovalStatus: approvalStatus,
		ScheduledAt:    scheduledAt,
		Status:         models.DeriveInitialStatus(sub.IsDraft, approvalStatus, scheduledAt, now),
		CreatedBy:      actorID,
	}

	if err := s.pr.Create(ctx, nil, post); err != nil {
		return nil, fmt.Errorf("error creating post record: %w", err)
	}

	result := &transfer.SubmissionResult{PostID: post.ID, Status: post.Status}

	switch post.Status {
	case models.StatusPublishing:
		// Created directly in publishing, so the record is already claimed
		// by this request; the caller gets the outcome inline.
		if err := s.ps.PublishClaimed(ctx, post); err != nil {
			return nil, err
		}
		result.Status = post.Status
		result.Published = post.Status == models.StatusPublished
		result.Error = post.ErrorMessage
	case models.StatusScheduled:
		if err := s.enq.EnqueuePost(post.ID, time.Until(*post.ScheduledAt)); err != nil {
			// The sweep will still pick the record up on schedule.
			slog.Info(fmt.Sprintf("error enqueueing publish task for post %s: %v", post.ID, err))
		}
	}

	return result, nil
}

func parseScheduledAt(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04", value)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid scheduled time format: %v", err)
	}
	return &t, nil
}

var videoExtensions = []string{".mp4", ".mov", ".m4v", ".webm"}

// inferContentType derives the content type from the submission shape:
// multiple refs make a carousel, a single video ref makes a video,
// anything else is an image.
func inferContentType(mediaRefs []string) string {
	if len(mediaRefs) > 1 {
		return models.ContentTypeCarousel
	}
	if len(mediaRefs) == 1 {
		ref := strings.ToLower(mediaRefs[0])
		if i := strings.IndexAny(ref, "?#"); i >= 0 {
			ref = ref[:i]
		}
		for _, ext := range videoExtensions {
			if strings.HasSuffix(ref, ext) {
				return models.ContentTypeVideo
			}
		}
	}
	return models.ContentTypeImage
}
