package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/postdrip/postdrip/internal/apperr"
	"github.com/postdrip/postdrip/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	err     error
	lastID  string
	runErr  error
	receipt *transfer.PublishReceipt
}

func (s *stubPublisher) RunScheduledPublish(ctx context.Context) (*transfer.PublishRunResult, error) {
	return &transfer.PublishRunResult{}, s.runErr
}

func (s *stubPublisher) PublishNow(ctx context.Context, postID string) (*transfer.PublishReceipt, error) {
	s.lastID = postID
	if s.err != nil {
		return nil, s.err
	}
	if s.receipt != nil {
		return s.receipt, nil
	}
	return &transfer.PublishReceipt{ExternalID: "ext-1", ExternalURL: "https://example.com/ext-1"}, nil
}

func publishTask(t *testing.T, postID string) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(PublishPostPayload{PostID: postID})
	require.NoError(t, err)
	return asynq.NewTask(TaskTypePublishPost, payload)
}

func TestHandlePublishPostTask(t *testing.T) {
	publisher := &stubPublisher{}
	q := NewQueue(publisher)

	err := q.HandlePublishPostTask(context.Background(), publishTask(t, "p1"))
	require.NoError(t, err)
	assert.Equal(t, "p1", publisher.lastID)
}

func TestHandlePublishPostTaskDoesNotRetry(t *testing.T) {
	// Any outcome of the single attempt finishes the task; retry semantics
	// belong to the post's status, not to asynq.
	for name, pubErr := range map[string]error{
		"conflict":     apperr.New(apperr.KindConflict, "post is already published"),
		"not found":    apperr.New(apperr.KindNotFound, "post doesn't exist"),
		"collaborator": apperr.Wrap(apperr.KindCollaborator, "posting failed", errors.New("timeout")),
	} {
		t.Run(name, func(t *testing.T) {
			q := NewQueue(&stubPublisher{err: pubErr})
			err := q.HandlePublishPostTask(context.Background(), publishTask(t, "p1"))
			assert.NoError(t, err)
		})
	}
}

func TestHandlePublishPostTaskBadPayload(t *testing.T) {
	q := NewQueue(&stubPublisher{})
	err := q.HandlePublishPostTask(context.Background(), asynq.NewTask(TaskTypePublishPost, []byte("{")))
	assert.Error(t, err)
}
