package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
	cfg "github.com/postdrip/postdrip/configs"
	"github.com/postdrip/postdrip/internal/apperr"
	"github.com/postdrip/postdrip/internal/models"
	"github.com/postdrip/postdrip/internal/repository"
	"github.com/postdrip/postdrip/internal/transfer"
)

type PostService interface {
	GenerateForArticle(ctx context.Context, articleID int64) ([]*models.Post, error)
	List(ctx context.Context, f transfer.PostListFilter) (*transfer.PostList, error)
	PostInfo(ctx context.Context, postID string) (*models.Post, error)
	Update(ctx context.Context, postID string, update *transfer.PostUpdate) (*models.Post, error)
	Remove(ctx context.Context, postID string) error
}

type postService struct {
	db        *sql.DB
	cfg       cfg.Config
	pr        repository.PostRepository
	ar        repository.ArticleRepository
	generator GeneratorService
	now       func() time.Time
}

func NewPostService(
	db *sql.DB,
	cfg cfg.Config,
	pr repository.PostRepository,
	ar repository.ArticleRepository,
	generator GeneratorService) PostService {
	return &postService{
		db:        db,
		cfg:       cfg,
		pr:        pr,
		ar:        ar,
		generator: generator,
		now:       time.Now,
	}
}

// GenerateForArticle turns one article into a batch of pending posts, one
// release slot per day. The generator never fails (it falls back to
// templates), so the only failure modes here are a missing article and the
// store itself.
func (s *postService) GenerateForArticle(ctx context.Context, articleID int64) (posts []*models.Post, err error) {
	if articleID == 0 {
		return nil, apperr.New(apperr.KindValidation, "article id is required")
	}

	article, err := s.ar.GetByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("error loading article: %w", err)
	}
	if article == nil {
		return nil, apperr.New(apperr.KindNotFound, "article doesn't exist")
	}

	drafts := s.generator.Generate(ctx, article)
	slots := NextSlots(len(drafts), s.cfg.Publishing.DailyHourUTC, s.now())

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	for i, draft := range drafts {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("error generating post id: %w", err)
		}

		post := &models.Post{
			ID:            id,
			ArticleID:     article.ID,
			Body:          clampBody(draft.Text),
			Tone:          draft.Tone,
			Hashtags:      draft.Hashtags,
			Sequence:      i + 1,
			TotalInBatch:  len(drafts),
			Status:        models.PostStatusPending,
			ScheduledTime: slots[i],
		}
		if err := s.pr.Create(ctx, tx, post); err != nil {
			return nil, fmt.Errorf("error creating post: %w", err)
		}
		posts = append(posts, post)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("generated post batch", "article_id", article.ID, "posts", len(posts))
	return posts, nil
}

func (s *postService) List(ctx context.Context, f transfer.PostListFilter) (*transfer.PostList, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}

	posts, total, err := s.pr.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}

	return &transfer.PostList{
		Posts: posts,
		Page:  f.Page,
		Limit: f.Limit,
		Total: total,
	}, nil
}

func (s *postService) PostInfo(ctx context.Context, postID string) (*models.Post, error) {
	if postID == "" {
		return nil, apperr.New(apperr.KindValidation, "post id is required")
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info: %w", err)
	}
	if post == nil {
		return nil, apperr.New(apperr.KindNotFound, "post doesn't exist")
	}
	return post, nil
}

// Update applies manual edits. Posted posts are immutable, so any edit to a
// protected field is rejected with a conflict.
func (s *postService) Update(ctx context.Context, postID string, update *transfer.PostUpdate) (*models.Post, error) {
	post, err := s.PostInfo(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Status == models.PostStatusPosted {
		return nil, apperr.New(apperr.KindConflict, "posted posts can't be edited")
	}

	if update.Body != nil {
		if *update.Body == "" {
			return nil, apperr.New(apperr.KindValidation, "body can't be empty")
		}
		if utf8.RuneCountInString(*update.Body) > models.MaxBodyLength {
			return nil, apperr.New(apperr.KindValidation,
				fmt.Sprintf("body exceeds %d characters", models.MaxBodyLength))
		}
		post.Body = *update.Body
	}
	if update.Tone != nil {
		post.Tone = *update.Tone
	}
	if update.Hashtags != nil {
		post.Hashtags = update.Hashtags
	}
	if update.ScheduledTime != nil {
		post.ScheduledTime = *update.ScheduledTime
	}
	if update.Status != nil {
		if *update.Status != models.PostStatusPending && *update.Status != models.PostStatusFailed {
			return nil, apperr.New(apperr.KindValidation, "status can only be set to pending or failed")
		}
		post.Status = *update.Status
	}

	if err := s.pr.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	return post, nil
}

// Remove soft-deletes a post. Posted posts are part of the public record
// and can't be deleted.
func (s *postService) Remove(ctx context.Context, postID string) error {
	post, err := s.PostInfo(ctx, postID)
	if err != nil {
		return err
	}

	if post.Status == models.PostStatusPosted {
		return apperr.New(apperr.KindConflict, "posted posts can't be deleted")
	}

	if err := s.pr.SoftDelete(ctx, postID, s.now()); err != nil {
		if errors.Is(err, repository.ErrNoTransition) {
			return apperr.New(apperr.KindConflict, "posted posts can't be deleted")
		}
		return fmt.Errorf("error removing post: %w", err)
	}
	return nil
}

func clampBody(text string) string {
	if utf8.RuneCountInString(text) <= models.MaxBodyLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:models.MaxBodyLength])
}
