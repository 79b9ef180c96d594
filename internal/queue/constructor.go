package queue

import (
	"github.com/postdrip/postdrip/internal/service"
)

type Queue struct {
	publisher service.PublisherService
}

func NewQueue(publisher service.PublisherService) *Queue {
	return &Queue{publisher: publisher}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID string `json:"post_id"`
}
