package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/postdrip/postdrip/internal/models"
	"github.com/postdrip/postdrip/internal/transfer"
)

// ErrNoTransition is returned by the conditional status updates when the
// post is no longer in a publishable state, typically because a concurrent
// run already posted it.
var ErrNoTransition = errors.New("post is not in a publishable state")

type PostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, f transfer.PostListFilter) ([]*models.Post, int, error)
	Update(ctx context.Context, post *models.Post) error
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
	GetDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error)
	MarkPosted(ctx context.Context, id, externalID, externalURL string, postedAt time.Time) error
	MarkFailed(ctx context.Context, id, message string, failedAt time.Time) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, article_id, body, tone, hashtags, sequence, total_in_batch, status,
	scheduled_time, posted_time, external_post_id, external_url, error_message,
	deleted_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var post models.Post
	var hashtags pq.StringArray
	err := row.Scan(&post.ID, &post.ArticleID, &post.Body, &post.Tone, &hashtags,
		&post.Sequence, &post.TotalInBatch, &post.Status, &post.ScheduledTime,
		&post.PostedTime, &post.ExternalPostID, &post.ExternalURL, &post.ErrorMessage,
		&post.DeletedAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	post.Hashtags = hashtags
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	query := `
		INSERT INTO posts (id, article_id, body, tone, hashtags, sequence, total_in_batch, status, scheduled_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var err error
	args := []any{post.ID, post.ArticleID, post.Body, post.Tone, pq.Array(post.Hashtags),
		post.Sequence, post.TotalInBatch, post.Status, post.ScheduledTime}

	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1 AND deleted_at IS NULL`, postColumns)
	row := r.db.QueryRowContext(ctx, query, id)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *postRepository) List(ctx context.Context, f transfer.PostListFilter) ([]*models.Post, int, error) {
	where := []string{"deleted_at IS NULL"}
	args := []any{}

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.ArticleID != 0 {
		args = append(args, f.ArticleID)
		where = append(where, fmt.Sprintf("article_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("body ILIKE $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM posts WHERE %s", cond)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE %s ORDER BY scheduled_time ASC LIMIT $%d OFFSET $%d`,
		postColumns, cond, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	return posts, total, rows.Err()
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET body = $2, tone = $3, hashtags = $4, scheduled_time = $5, status = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, post.ID, post.Body, post.Tone,
		pq.Array(post.Hashtags), post.ScheduledTime, post.Status, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// SoftDelete refuses posted posts at the database level so a post that gets
// published between the service's status check and this update keeps its
// publication record.
func (r *postRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	query := `
		UPDATE posts SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL AND status IN ($3, $4)
	`
	res, err := r.db.ExecContext(ctx, query, id, deletedAt,
		models.PostStatusPending, models.PostStatusFailed)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return ErrNoTransition
	}
	return nil
}

func (r *postRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*models.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE status = $1 AND deleted_at IS NULL AND scheduled_time <= $2
		ORDER BY scheduled_time ASC
		LIMIT $3
	`, postColumns)

	rows, err := r.db.QueryContext(ctx, query, models.PostStatusPending, now, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// MarkPosted transitions a pending or failed post to posted, recording the
// external identifiers and clearing any previous error. The status check in
// the WHERE clause is what makes double-publishing impossible under
// overlapping runs.
func (r *postRepository) MarkPosted(ctx context.Context, id, externalID, externalURL string, postedAt time.Time) error {
	query := `
		UPDATE posts
		SET status = $2, posted_time = $3, external_post_id = $4, external_url = $5,
			error_message = NULL, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL AND status IN ($6, $7)
	`
	res, err := r.db.ExecContext(ctx, query, id, models.PostStatusPosted, postedAt,
		externalID, externalURL, models.PostStatusPending, models.PostStatusFailed)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoTransition
	}
	return nil
}

func (r *postRepository) MarkFailed(ctx context.Context, id, message string, failedAt time.Time) error {
	query := `
		UPDATE posts
		SET status = $2, error_message = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL AND status IN ($5, $6)
	`
	res, err := r.db.ExecContext(ctx, query, id, models.PostStatusFailed, message,
		failedAt, models.PostStatusPending, models.PostStatusFailed)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoTransition
	}
	return nil
}
