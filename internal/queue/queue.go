package queue

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// EnqueuePublish schedules one delayed publish task for a post. The cron
// sweep remains the catch-up path if the task is lost; both funnel through
// the same conditional status update, so a post can't be published twice.
func EnqueuePublish(asynqClient *asynq.Client, payload PublishPostPayload, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)

	_, err = asynqClient.Enqueue(task, asynq.ProcessIn(delay), asynq.MaxRetry(0))
	if err != nil {
		return err
	}

	slog.Info("publish task scheduled", "post_id", payload.PostID, "delay", delay.String())
	return nil
}
