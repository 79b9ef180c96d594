package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/postdrip/postdrip/internal/apperr"
	"github.com/postdrip/postdrip/internal/models"
	"github.com/postdrip/postdrip/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPostService wires a post service over the in-memory repo. The *sql.DB
// is nil because none of the paths under test open a transaction.
func testPostService(repo *memPostRepo) PostService {
	return NewPostService(nil, testConfig(), repo, testArticles(),
		NewGeneratorService(&stubDraftClient{}))
}

func postedPost(id string) *models.Post {
	now := time.Now()
	extID := "ext-1"
	extURL := "https://example.com/posts/ext-1"
	return &models.Post{
		ID:             id,
		ArticleID:      7,
		Body:           "already out",
		Status:         models.PostStatusPosted,
		ScheduledTime:  now.Add(-time.Hour),
		PostedTime:     &now,
		ExternalPostID: &extID,
		ExternalURL:    &extURL,
	}
}

func TestUpdateAppliesEdits(t *testing.T) {
	repo := newMemPostRepo(duePost("p1", 5))
	s := testPostService(repo)

	body := "an edited body"
	tone := "casual"
	when := time.Now().Add(48 * time.Hour)
	post, err := s.Update(context.Background(), "p1", &transfer.PostUpdate{
		Body:          &body,
		Tone:          &tone,
		Hashtags:      []string{"edited"},
		ScheduledTime: &when,
	})
	require.NoError(t, err)

	assert.Equal(t, "an edited body", post.Body)
	assert.Equal(t, "casual", post.Tone)
	assert.Equal(t, []string{"edited"}, post.Hashtags)
	assert.True(t, post.ScheduledTime.Equal(when))

	stored, _ := repo.GetByID(context.Background(), "p1")
	assert.Equal(t, "an edited body", stored.Body)
}

func TestUpdateRejectsPostedPost(t *testing.T) {
	repo := newMemPostRepo(postedPost("p1"))
	s := testPostService(repo)

	body := "rewrite"
	_, err := s.Update(context.Background(), "p1", &transfer.PostUpdate{Body: &body})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestUpdateValidatesBody(t *testing.T) {
	repo := newMemPostRepo(duePost("p1", 5))
	s := testPostService(repo)

	empty := ""
	_, err := s.Update(context.Background(), "p1", &transfer.PostUpdate{Body: &empty})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	long := strings.Repeat("x", models.MaxBodyLength+1)
	_, err = s.Update(context.Background(), "p1", &transfer.PostUpdate{Body: &long})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateRestrictsStatusValues(t *testing.T) {
	repo := newMemPostRepo(duePost("p1", 5))
	s := testPostService(repo)

	posted := models.PostStatusPosted
	_, err := s.Update(context.Background(), "p1", &transfer.PostUpdate{Status: &posted})
	assert.True(t, apperr.Is(err, apperr.KindValidation),
		"posted can only be reached through a publish, not an edit")

	pending := models.PostStatusPending
	failedPost := duePost("p2", 5)
	failedPost.Status = models.PostStatusFailed
	repo.posts["p2"] = failedPost
	post, err := s.Update(context.Background(), "p2", &transfer.PostUpdate{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPending, post.Status)
}

func TestRemoveSoftDeletes(t *testing.T) {
	repo := newMemPostRepo(duePost("p1", 5))
	s := testPostService(repo)

	require.NoError(t, s.Remove(context.Background(), "p1"))

	post, err := s.PostInfo(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Nil(t, post)

	// The row survives with the marker set.
	assert.NotNil(t, repo.posts["p1"].DeletedAt)
}

func TestRemoveRejectsPostedPost(t *testing.T) {
	repo := newMemPostRepo(postedPost("p1"))
	s := testPostService(repo)

	err := s.Remove(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Nil(t, repo.posts["p1"].DeletedAt)
}

// stalePendingRepo reports every post as still pending, simulating a publish
// that lands between the status check and the delete.
type stalePendingRepo struct {
	*memPostRepo
}

func (r *stalePendingRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := r.memPostRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stale := *post
	stale.Status = models.PostStatusPending
	return &stale, nil
}

func TestRemoveLosesRaceToPublish(t *testing.T) {
	repo := newMemPostRepo(postedPost("p1"))
	s := NewPostService(nil, testConfig(), &stalePendingRepo{repo}, testArticles(),
		NewGeneratorService(&stubDraftClient{}))

	err := s.Remove(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Nil(t, repo.posts["p1"].DeletedAt)
}

func TestPostInfoValidation(t *testing.T) {
	s := testPostService(newMemPostRepo())

	_, err := s.PostInfo(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = s.PostInfo(context.Background(), "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGenerateForArticleValidation(t *testing.T) {
	s := testPostService(newMemPostRepo())

	_, err := s.GenerateForArticle(context.Background(), 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = s.GenerateForArticle(context.Background(), 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListDefaultsPagination(t *testing.T) {
	repo := newMemPostRepo(duePost("p1", 5), duePost("p2", 10))
	s := testPostService(repo)

	list, err := s.List(context.Background(), transfer.PostListFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.Limit)
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Posts, 2)
}
