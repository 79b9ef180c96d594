package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	cfg "github.com/postdrip/postdrip/configs"
)

// SecretsService fetches key-value secret bundles from AWS Secrets Manager.
type SecretsService struct {
	config cfg.Config
}

func NewSecretsService(cfg cfg.Config) *SecretsService {
	return &SecretsService{config: cfg}
}

func (s *SecretsService) client(ctx context.Context) (*secretsmanager.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.config.AWS.AccessKey, s.config.AWS.SecretKey, "")),
		awsconfig.WithRegion(s.config.AWS.Region),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return secretsmanager.NewFromConfig(awsCfg), nil
}

func (s *SecretsService) GetSecret(ctx context.Context, name string) (map[string]string, error) {
	client, err := s.client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string payload", name)
	}

	var bundle map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &bundle); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("secret %s is not a key-value bundle: %w", name, err)
	}

	return bundle, nil
}
