package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/postdrip/postdrip/internal/apperr"
	"github.com/postdrip/postdrip/internal/models"
	"github.com/postdrip/postdrip/internal/repository"
	"github.com/postdrip/postdrip/pkg/utils"
)

const maxApiKeys = 5

type ApiKeyService interface {
	Create(ctx context.Context, name string) (*models.ApiKey, error)
	List(ctx context.Context) ([]*models.ApiKey, error)
	Validate(ctx context.Context, apiKey string) error
	Remove(ctx context.Context, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{k: k}
}

func (s *apiKeyService) Create(ctx context.Context, name string) (*models.ApiKey, error) {
	keys, err := s.k.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) >= maxApiKeys {
		return nil, apperr.New(apperr.KindValidation,
			fmt.Sprintf("only %d API keys can be created", maxApiKeys))
	}

	key, err := utils.GenerateRandomKey(16)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error generating API key")
	}

	apiKey := &models.ApiKey{Name: name, ApiKey: key}
	id, err := s.k.Create(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("error saving API key")
	}
	apiKey.ID = id

	return apiKey, nil
}

func (s *apiKeyService) Validate(ctx context.Context, apiKey string) error {
	exists, err := s.k.Exists(ctx, apiKey)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.New(apperr.KindNotFound, "key doesn't exist")
	}
	return nil
}

func (s *apiKeyService) List(ctx context.Context) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting API keys")
	}
	return apiKeys, nil
}

func (s *apiKeyService) Remove(ctx context.Context, keyID int64) error {
	if keyID == 0 {
		return apperr.New(apperr.KindValidation, "key id is not valid")
	}
	return s.k.Remove(ctx, keyID)
}
