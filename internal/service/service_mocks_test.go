package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/postdrip/postdrip/internal/models"
	"github.com/postdrip/postdrip/internal/repository"
	"github.com/postdrip/postdrip/internal/transfer"
)

// memPostRepo is an in-memory PostRepository with the same conditional
// transition semantics as the Postgres implementation.
type memPostRepo struct {
	posts  map[string]*models.Post
	dueErr error
}

func newMemPostRepo(posts ...*models.Post) *memPostRepo {
	r := &memPostRepo{posts: make(map[string]*models.Post)}
	for _, p := range posts {
		cp := *p
		r.posts[p.ID] = &cp
	}
	return r
}

func (r *memPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memPostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, ok := r.posts[id]
	if !ok || post.DeletedAt != nil {
		return nil, nil
	}
	cp := *post
	return &cp, nil
}

func (r *memPostRepo) List(ctx context.Context, f transfer.PostListFilter) ([]*models.Post, int, error) {
	var posts []*models.Post
	for _, post := range r.posts {
		if post.DeletedAt != nil {
			continue
		}
		if f.Status != "" && post.Status != f.Status {
			continue
		}
		if f.ArticleID != 0 && post.ArticleID != f.ArticleID {
			continue
		}
		cp := *post
		posts = append(posts, &cp)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ScheduledTime.Before(posts[j].ScheduledTime)
	})
	return posts, len(posts), nil
}

func (r *memPostRepo) Update(ctx context.Context, post *models.Post) error {
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memPostRepo) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	post, ok := r.posts[id]
	if !ok || post.DeletedAt != nil || post.Status == models.PostStatusPosted {
		return repository.ErrNoTransition
	}
	post.DeletedAt = &deletedAt
	return nil
}

func (r *memPostRepo) GetDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error) {
	if r.dueErr != nil {
		return nil, r.dueErr
	}
	var due []*models.Post
	for _, post := range r.posts {
		if post.Status != models.PostStatusPending || post.DeletedAt != nil {
			continue
		}
		if post.ScheduledTime.After(now) {
			continue
		}
		cp := *post
		due = append(due, &cp)
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].ScheduledTime.Before(due[j].ScheduledTime)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *memPostRepo) MarkPosted(ctx context.Context, id, externalID, externalURL string, postedAt time.Time) error {
	post, ok := r.posts[id]
	if !ok || post.DeletedAt != nil {
		return repository.ErrNoTransition
	}
	if post.Status != models.PostStatusPending && post.Status != models.PostStatusFailed {
		return repository.ErrNoTransition
	}
	post.Status = models.PostStatusPosted
	post.PostedTime = &postedAt
	post.ExternalPostID = &externalID
	post.ExternalURL = &externalURL
	post.ErrorMessage = nil
	post.UpdatedAt = postedAt
	return nil
}

func (r *memPostRepo) MarkFailed(ctx context.Context, id, message string, failedAt time.Time) error {
	post, ok := r.posts[id]
	if !ok || post.DeletedAt != nil {
		return repository.ErrNoTransition
	}
	if post.Status != models.PostStatusPending && post.Status != models.PostStatusFailed {
		return repository.ErrNoTransition
	}
	post.Status = models.PostStatusFailed
	post.ErrorMessage = &message
	post.UpdatedAt = failedAt
	return nil
}

type stubArticleRepo struct {
	articles map[int64]*models.Article
	err      error
}

func (r *stubArticleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.articles[id], nil
}

type stubSecretFetcher struct {
	bundle map[string]string
	err    error
	calls  int
}

func (f *stubSecretFetcher) GetSecret(ctx context.Context, name string) (map[string]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.bundle, nil
}

// stubPoster records every publish attempt and can be told to fail the n-th
// call (1-based).
type stubPoster struct {
	calls      int
	texts      []string
	failOnCall map[int]error
}

func (p *stubPoster) Post(ctx context.Context, creds *Credentials, text string) (*transfer.PublishReceipt, error) {
	p.calls++
	p.texts = append(p.texts, text)
	if err, ok := p.failOnCall[p.calls]; ok {
		return nil, err
	}
	return &transfer.PublishReceipt{
		ExternalID:  fmt.Sprintf("ext-%d", p.calls),
		ExternalURL: fmt.Sprintf("https://example.com/posts/ext-%d", p.calls),
	}, nil
}

type stubDraftClient struct {
	drafts []transfer.Draft
	err    error
	calls  int
}

func (c *stubDraftClient) GenerateDrafts(ctx context.Context, title, bodyExcerpt string, topicTags []string) ([]transfer.Draft, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.drafts, nil
}

func staticCreds() CredentialsService {
	return staticCredsService{}
}

type staticCredsService struct{}

func (staticCredsService) GetCredentials(ctx context.Context) (*Credentials, error) {
	return &Credentials{AccessToken: "token", AuthorURN: "urn:li:person:test"}, nil
}
