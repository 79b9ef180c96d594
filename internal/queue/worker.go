package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/postdrip/postdrip/internal/apperr"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	receipt, err := q.publisher.PublishNow(ctx, payload.PostID)
	if err != nil {
		switch {
		case apperr.Is(err, apperr.KindConflict):
			// The cron sweep got there first. That is the idempotency guard
			// doing its job, not a failure.
			slog.Info("post already published", "post_id", payload.PostID)
		case apperr.Is(err, apperr.KindNotFound):
			slog.Info("post deleted before publish", "post_id", payload.PostID)
		default:
			// The attempt already marked the post failed. Retrying here
			// would violate the single-attempt rule, so the task is done.
			slog.Info("scheduled publish failed", "post_id", payload.PostID, "error", err.Error())
		}
		return nil
	}

	slog.Info("published post", "post_id", payload.PostID, "external_id", receipt.ExternalID)
	return nil
}
