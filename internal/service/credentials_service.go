package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/postdrip/postdrip/internal/apperr"
)

// SecretFetcher is the secret store boundary. Implemented by SecretsService
// against AWS Secrets Manager; tests substitute a stub.
type SecretFetcher interface {
	GetSecret(ctx context.Context, name string) (map[string]string, error)
}

// Credentials is the sanitized bundle needed to post on the social platform.
type Credentials struct {
	AccessToken string
	AuthorURN   string
}

type CredentialsService interface {
	GetCredentials(ctx context.Context) (*Credentials, error)
}

type credentialsService struct {
	fetcher    SecretFetcher
	secretName string
	ttl        time.Duration
	now        func() time.Time

	mu        sync.Mutex
	cached    *Credentials
	fetchedAt time.Time
}

func NewCredentialsService(fetcher SecretFetcher, secretName string, ttl time.Duration) CredentialsService {
	return &credentialsService{
		fetcher:    fetcher,
		secretName: secretName,
		ttl:        ttl,
		now:        time.Now,
	}
}

// GetCredentials returns the cached bundle while it is fresh, fetching and
// sanitizing a new one at most once per TTL window. A bundle that fails
// sanitization is never cached.
func (s *credentialsService) GetCredentials(ctx context.Context) (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.cached, nil
	}

	raw, err := s.fetcher.GetSecret(ctx, s.secretName)
	if err != nil {
		slog.Info(err.Error())
		return nil, apperr.Wrap(apperr.KindCollaborator, "fetching credentials", err)
	}

	creds := &Credentials{
		AccessToken: SanitizeSecret(raw["access_token"]),
		AuthorURN:   SanitizeSecret(raw["author_urn"]),
	}
	if creds.AccessToken == "" || creds.AuthorURN == "" {
		return nil, apperr.New(apperr.KindCollaborator,
			fmt.Sprintf("secret %s is missing required fields", s.secretName))
	}

	s.cached = creds
	s.fetchedAt = s.now()
	return creds, nil
}

// SanitizeSecret normalizes a raw secret string: every Unicode whitespace
// and format (zero-width) rune is removed, then one pair of matching quote
// characters is stripped if the value arrived quoted.
func SanitizeSecret(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, raw)

	if len(cleaned) >= 2 {
		first, last := cleaned[0], cleaned[len(cleaned)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			cleaned = cleaned[1 : len(cleaned)-1]
		}
	}
	return cleaned
}
