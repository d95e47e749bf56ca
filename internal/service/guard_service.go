package service

import (
	"context"
	"log/slog"

	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/repository"
)

// GuardService decides whether an acting identity may touch posts of a given
// client. It is a pure authorization predicate: a denial is final, never
// retryable.
type GuardService interface {
	CheckAccess(ctx context.Context, actorID, clientID string) error
	CheckApprover(ctx context.Context, actorID string) error
}

type guardService struct {
	up repository.UserProfileRepository
	aa repository.AreaAssignmentRepository
}

func NewGuardService(up repository.UserProfileRepository, aa repository.AreaAssignmentRepository) GuardService {
	return &guardService{up: up, aa: aa}
}

var socialAreas = []string{models.AreaSocialMedia, models.AreaHeadOfMarketing}

// CheckAccess allows platform administrators outright; everyone else needs a
// social-media or head-of-marketing area assignment for the client.
func (s *guardService) CheckAccess(ctx context.Context, actorID, clientID string) error {
	profile, err := s.up.GetByUserID(ctx, actorID)
	if err != nil {
		return err
	}
	if profile == nil {
		slog.Info("access denied: unknown actor", "actor_id", actorID)
		return &AuthorizationError{Reason: "unknown actor"}
	}

	if profile.Role == models.RoleSuperAdmin || profile.Role == models.RoleAdmin {
		return nil
	}

	assigned, err := s.aa.HasAreaForClient(ctx, actorID, clientID, socialAreas)
	if err != nil {
		return err
	}
	if !assigned {
		slog.Info("access denied: no area assignment", "actor_id", actorID, "client_id", clientID)
		return &AuthorizationError{Reason: "actor has no social media assignment for this client"}
	}

	return nil
}

// CheckApprover restricts approval decisions to admin-or-above.
func (s *guardService) CheckApprover(ctx context.Context, actorID string) error {
	profile, err := s.up.GetByUserID(ctx, actorID)
	if err != nil {
		return err
	}
	if profile == nil {
		return &AuthorizationError{Reason: "unknown actor"}
	}

	if profile.Role != models.RoleSuperAdmin && profile.Role != models.RoleAdmin {
		return &AuthorizationError{Reason: "approval requires an administrator"}
	}

	return nil
}
