package service

import (
	"context"
	"log/slog"

	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/repository"
)

const listPostsLimit = 100

type PostService interface {
	ListPosts(ctx context.Context, actorID, clientID string) ([]*models.PostRecord, error)
	GetPost(ctx context.Context, actorID, postID string) (*models.PostRecord, error)
	RemovePost(ctx context.Context, actorID, postID string) error
}

type postService struct {
	pr    repository.PostRecordRepository
	guard GuardService
}

func NewPostService(pr repository.PostRecordRepository, guard GuardService) PostService {
	return &postService{
		pr:    pr,
		guard: guard,
	}
}

func (s *postService) ListPosts(ctx context.Context, actorID, clientID string) ([]*models.PostRecord, error) {
	if clientID == "" {
		return nil, NewValidationError("client_id", "client_id is required")
	}

	if err := s.guard.CheckAccess(ctx, actorID, clientID); err != nil {
		return nil, err
	}

	records, err := s.pr.ListByClientID(ctx, clientID, listPostsLimit)
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}
	return records, nil
}

func (s *postService) GetPost(ctx context.Context, actorID, postID string) (*models.PostRecord, error) {
	if postID == "" {
		return nil, NewValidationError("post_id", "post_id is required")
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	if err := s.guard.CheckAccess(ctx, actorID, post.ClientID); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) RemovePost(ctx context.Context, actorID, postID string) error {
	if postID == "" {
		return NewValidationError("post_id", "post_id is required")
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	if post == nil {
		return ErrNotFound
	}

	if err := s.guard.CheckAccess(ctx, actorID, post.ClientID); err != nil {
		return err
	}

	if post.Status == models.StatusPublishing {
		return NewValidationError("status", "cannot remove a record while it is publishing")
	}

	return s.pr.Remove(ctx, postID)
}
