package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/valleops/postpilot/internal/models"
	"github.com/valleops/postpilot/internal/repository"
	"github.com/valleops/postpilot/pkg/utils"
)

const maxAPIKeysPerUser = 5

type APIKeyService interface {
	Create(ctx context.Context, userID string) error
	List(ctx context.Context, userID string) ([]*models.APIKey, error)
	GetUserID(ctx context.Context, apiKey string) (string, error)
	RemoveAPIKey(ctx context.Context, userID string, keyID int64) error
}

type apiKeyService struct {
	k repository.APIKeyRepository
}

func NewAPIKeyService(k repository.APIKeyRepository) APIKeyService {
	return &apiKeyService{
		k: k,
	}
}

func (s *apiKeyService) Create(ctx context.Context, userID string) error {
	keys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if len(keys) >= maxAPIKeysPerUser {
		err = fmt.Errorf("only %d API keys can be created", maxAPIKeysPerUser)
		slog.Info(err.Error())
		return NewValidationError("api_key", err.Error())
	}

	key, err := utils.GenerateRandomKey(16)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("error generating API key")
	}

	apiKey := &models.APIKey{
		UserID: userID,
		APIKey: key,
	}

	_, err = s.k.Create(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("error saving API key")
	}
	return nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (string, error) {
	userID, isExist, err := s.k.GetByKey(ctx, apiKey)
	if err != nil {
		return "", err
	}

	if !isExist {
		return "", errors.New("key doesn't exist")
	}

	return userID, nil
}

func (s *apiKeyService) List(ctx context.Context, userID string) ([]*models.APIKey, error) {
	apiKeys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting API keys")
	}
	return apiKeys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, userID string, keyID int64) error {
	var err error

	if userID == "" {
		err = errors.New("user is not valid")
		slog.Info(err.Error())
		return err
	}

	if keyID == 0 {
		err = errors.New("key id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("key doesn't exist")
		slog.Info(err.Error())
		return ErrNotFound
	}

	return s.k.Remove(ctx, keyID)
}
