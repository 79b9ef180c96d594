package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/postdrip/postdrip/internal/models"
)

type ArticleRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Article, error)
}

type articleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := `SELECT id, title, excerpt, body, reference_url, created_at FROM articles WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var article models.Article
	err := row.Scan(&article.ID, &article.Title, &article.Excerpt, &article.Body,
		&article.ReferenceURL, &article.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	tags, err := r.topicTags(ctx, id)
	if err != nil {
		return nil, err
	}
	article.TopicTags = tags

	return &article, nil
}

func (r *articleRepository) topicTags(ctx context.Context, articleID int64) ([]string, error) {
	query := `
		SELECT t.name FROM tags t
		JOIN article_tags at ON at.tag_id = t.id
		WHERE at.article_id = $1
		ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
