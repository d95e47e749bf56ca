package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/repository"
	"github.com/valleops/postpilot/internal/transfer"
)

// ApprovalService is the gate between pending_approval and the rest of the
// pipeline. Approving a record that is already due publishes it inside the
// approval call rather than waiting for the next sweep.
type ApprovalService interface {
	Decide(ctx context.Context, actorID string, action *transfer.ApprovalAction) (*models.PostRecord, error)
}

type approvalService struct {
	pr    repository.PostRecordRepository
	guard GuardService
	ps    PublishService
	enq   Enqueuer
}

func NewApprovalService(
	pr repository.PostRecordRepository,
	guard GuardService,
	ps PublishService,
	enq Enqueuer) ApprovalService {
	return &approvalService{
		pr:    pr,
		guard: guard,
		ps:    ps,
		enq:   enq,
	}
}

func (s *approvalService) Decide(ctx context.Context, actorID string, action *transfer.ApprovalAction) (*models.PostRecord, error) {
	if action == nil || action.PostID == "" {
		return nil, NewValidationError("post_id", "post_id is required")
	}
	if action.Decision != models.ApprovalApproved && action.Decision != models.ApprovalRejected {
		return nil, NewValidationError("decision", "decision must be approved or rejected")
	}

	if err := s.guard.CheckApprover(ctx, actorID); err != nil {
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, action.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if post.ApprovalStatus != models.ApprovalPending {
		return nil, NewValidationError("decision", fmt.Sprintf("post is not awaiting approval (status %s)", post.Status))
	}

	if action.Decision == models.ApprovalRejected {
		reason := action.Reason
		if reason == "" {
			reason = "Reprovado"
		}
		if err := s.pr.SetApproval(ctx, post.ID, models.ApprovalRejected, models.StatusRejected, reason); err != nil {
			return nil, err
		}
		post.ApprovalStatus = models.ApprovalRejected
		post.Status = models.StatusRejected
		post.RejectionReason = reason
		return post, nil
	}

	destination := models.NextAfterApproval(post.ScheduledAt, time.Now())

	if destination == models.StatusScheduled {
		if err := s.pr.SetApproval(ctx, post.ID, models.ApprovalApproved, models.StatusScheduled, ""); err != nil {
			return nil, err
		}
		post.ApprovalStatus = models.ApprovalApproved
		post.Status = models.StatusScheduled

		if err := s.enq.EnqueuePost(post.ID, time.Until(*post.ScheduledAt)); err != nil {
			slog.Info(fmt.Sprintf("error enqueueing publish task for post %s: %v", post.ID, err))
		}
		return post, nil
	}

	// Due now: flip approval first, then claim pending_approval → publishing
	// through the same conditional update as any other trigger, so a racing
	// second approval cannot double-publish.
	if err := s.pr.SetApproval(ctx, post.ID, models.ApprovalApproved, models.StatusPendingApproval, ""); err != nil {
		return nil, err
	}
	post.ApprovalStatus = models.ApprovalApproved

	err = s.ps.PublishOne(ctx, post, models.StatusPendingApproval)
	if err == ErrClaimConflict {
		// Another caller got there first; it owns the outcome now.
		current, getErr := s.pr.GetByID(ctx, post.ID)
		if getErr != nil {
			return nil, getErr
		}
		if current != nil {
			return current, nil
		}
		return post, nil
	}
	if err != nil {
		return nil, err
	}

	return post, nil
}
