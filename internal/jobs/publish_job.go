package job

import (
	"context"
	"log/slog"

	"github.com/postdrip/postdrip/internal/service"
)

// PublishJob is the periodic sweep over due posts. The cron scheduler runs
// it on one goroutine, so runs never overlap.
type PublishJob struct {
	publisher service.PublisherService
}

func NewPublishJob(publisher service.PublisherService) *PublishJob {
	return &PublishJob{publisher: publisher}
}

func (j *PublishJob) Run() {
	ctx := context.Background()

	result, err := j.publisher.RunScheduledPublish(ctx)
	if err != nil {
		slog.Info("scheduled publish run failed", "error", err.Error())
		return
	}

	if result.Published == 0 && result.Failed == 0 {
		return
	}
	slog.Info("scheduled publish run finished",
		"published", result.Published, "failed", result.Failed)
}
