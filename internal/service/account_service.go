package service

import (
	"context"
	"log/slog"

	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/repository"
)

// AccountService exposes the directory of connected social accounts.
type AccountService interface {
	ListAccounts(ctx context.Context, actorID, clientID string) ([]*models.SocialAccount, error)
}

type accountService struct {
	sa    repository.SocialAccountRepository
	guard GuardService
}

func NewAccountService(sa repository.SocialAccountRepository, guard GuardService) AccountService {
	return &accountService{
		sa:    sa,
		guard: guard,
	}
}

func (s *accountService) ListAccounts(ctx context.Context, actorID, clientID string) ([]*models.SocialAccount, error) {
	if clientID == "" {
		return nil, NewValidationError("client_id", "client_id is required")
	}

	if err := s.guard.CheckAccess(ctx, actorID, clientID); err != nil {
		return nil, err
	}

	accounts, err := s.sa.ListByClientID(ctx, clientID)
	if err != nil {
		slog.Error(err.Error())
		return nil, err
	}

	// Access tokens never leave the service layer.
	for _, account := range accounts {
		account.AccessToken = ""
		account.RefreshToken = ""
	}
	return accounts, nil
}
