package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cfg "github.com/postdrip/postdrip/configs"
	"github.com/postdrip/postdrip/internal/apperr"
	"github.com/postdrip/postdrip/internal/models"
	"github.com/postdrip/postdrip/internal/repository"
	"github.com/postdrip/postdrip/internal/transfer"
	"golang.org/x/time/rate"
)

type PublisherService interface {
	RunScheduledPublish(ctx context.Context) (*transfer.PublishRunResult, error)
	PublishNow(ctx context.Context, postID string) (*transfer.PublishReceipt, error)
}

type publisherService struct {
	cfg     cfg.Config
	pr      repository.PostRepository
	ar      repository.ArticleRepository
	creds   CredentialsService
	poster  SocialPoster
	limiter *rate.Limiter
	now     func() time.Time
}

func NewPublisherService(
	cfg cfg.Config,
	pr repository.PostRepository,
	ar repository.ArticleRepository,
	creds CredentialsService,
	poster SocialPoster) PublisherService {

	limit := rate.Inf
	if cfg.Publishing.DelaySeconds > 0 {
		limit = rate.Every(time.Duration(cfg.Publishing.DelaySeconds) * time.Second)
	}

	return &publisherService{
		cfg:     cfg,
		pr:      pr,
		ar:      ar,
		creds:   creds,
		poster:  poster,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

// RunScheduledPublish publishes due pending posts one at a time. Items fail
// independently: a collaborator error marks that post failed and the loop
// moves on. Only a failure before the loop starts (the due query or the
// credential fetch) aborts the run.
func (s *publisherService) RunScheduledPublish(ctx context.Context) (*transfer.PublishRunResult, error) {
	due, err := s.pr.GetDue(ctx, s.now(), s.cfg.Publishing.BatchSize)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRun, "querying due posts", err)
	}

	result := &transfer.PublishRunResult{}
	if len(due) == 0 {
		return result, nil
	}

	creds, err := s.creds.GetCredentials(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRun, "fetching posting credentials", err)
	}

	// One article may back several due posts; fetch each once per run.
	articles := make(map[int64]*models.Article)

	for _, post := range due {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, apperr.Wrap(apperr.KindRun, "publish run interrupted", err)
		}

		receipt, err := s.publishOne(ctx, creds, post, articles)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, transfer.PublishError{
				PostID:  post.ID,
				Message: err.Error(),
			})
			slog.Info("publish failed", "post_id", post.ID, "error", err.Error())
			continue
		}

		result.Published++
		slog.Info("published post", "post_id", post.ID, "external_id", receipt.ExternalID)
	}

	return result, nil
}

// PublishNow publishes a single post on demand with the same transition
// rules as the batch path. Unlike the batch path, a collaborator failure is
// returned to the caller after the post is marked failed.
func (s *publisherService) PublishNow(ctx context.Context, postID string) (*transfer.PublishReceipt, error) {
	if postID == "" {
		return nil, apperr.New(apperr.KindValidation, "post id is required")
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post: %w", err)
	}
	if post == nil {
		return nil, apperr.New(apperr.KindNotFound, "post doesn't exist")
	}
	if post.Status == models.PostStatusPosted {
		return nil, apperr.New(apperr.KindConflict, "post is already published")
	}

	creds, err := s.creds.GetCredentials(ctx)
	if err != nil {
		return nil, err
	}

	return s.publishOne(ctx, creds, post, make(map[int64]*models.Article))
}

// publishOne composes the final text, posts it, and records the outcome on
// the post. The conditional store updates guarantee at most one posted
// transition even if another run picked up the same post.
func (s *publisherService) publishOne(ctx context.Context, creds *Credentials, post *models.Post, articles map[int64]*models.Article) (*transfer.PublishReceipt, error) {
	link := s.referenceLink(ctx, post.ArticleID, articles)
	text := Compose(post.Body, post.Hashtags, link, s.cfg.Publishing.CharLimit)

	receipt, err := s.poster.Post(ctx, creds, text)
	if err != nil {
		failErr := apperr.Wrap(apperr.KindCollaborator, "posting failed", err)
		if markErr := s.pr.MarkFailed(ctx, post.ID, err.Error(), s.now()); markErr != nil {
			if errors.Is(markErr, repository.ErrNoTransition) {
				return nil, apperr.New(apperr.KindConflict, "post is already published")
			}
			slog.Info("could not record publish failure", "post_id", post.ID, "error", markErr.Error())
		}
		return nil, failErr
	}

	if err := s.pr.MarkPosted(ctx, post.ID, receipt.ExternalID, receipt.ExternalURL, s.now()); err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			return nil, apperr.New(apperr.KindConflict, "post is already published")
		}
		return nil, fmt.Errorf("error recording publish outcome: %w", err)
	}

	return receipt, nil
}

func (s *publisherService) referenceLink(ctx context.Context, articleID int64, cache map[int64]*models.Article) string {
	if article, ok := cache[articleID]; ok {
		if article == nil {
			return ""
		}
		return article.ReferenceURL
	}

	article, err := s.ar.GetByID(ctx, articleID)
	if err != nil {
		// The link is an optional component; publish without it.
		slog.Info("could not load article for reference link", "article_id", articleID, "error", err.Error())
		cache[articleID] = nil
		return ""
	}
	cache[articleID] = article
	if article == nil {
		return ""
	}
	return article.ReferenceURL
}
