package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/postdrip/postdrip/internal/queue"
	"github.com/postdrip/postdrip/internal/service"
	"github.com/postdrip/postdrip/internal/transfer"
)

type PostHandler struct {
	s           service.PostService
	publisher   service.PublisherService
	AsynqClient *asynq.Client
}

func NewPostHandler(s service.PostService, publisher service.PublisherService, asynqClient *asynq.Client) *PostHandler {
	return &PostHandler{s: s, publisher: publisher, AsynqClient: asynqClient}
}

// GenerateForArticle creates a batch of pending posts from an article and
// schedules one delayed publish task per post.
func (h *PostHandler) GenerateForArticle(c *fiber.Ctx) error {
	articleID := int64(c.QueryInt("article_id", 0))

	posts, err := h.s.GenerateForArticle(c.Context(), articleID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	for _, post := range posts {
		delay := time.Until(post.ScheduledTime)
		if delay < 0 {
			delay = 0
		}
		if err := queue.EnqueuePublish(h.AsynqClient, queue.PublishPostPayload{PostID: post.ID}, delay); err != nil {
			// The cron sweep will still pick the post up when it is due.
			slog.Info("could not enqueue publish task", "post_id", post.ID, "error", err.Error())
		}
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	postID := c.Query("id")
	if postID != "" {
		post, err := h.s.PostInfo(c.Context(), postID)
		if err != nil {
			return ErrorResponse(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(post)
	}

	list, err := h.s.List(c.Context(), transfer.PostListFilter{
		Status:    c.Query("status"),
		ArticleID: int64(c.QueryInt("article_id", 0)),
		Search:    c.Query("search"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 20),
	})
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(list)
}

func (h *PostHandler) UpdatePost(c *fiber.Ctx) error {
	postID := c.Query("id")

	var update transfer.PostUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	post, err := h.s.Update(c.Context(), postID, &update)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	postID := c.Query("id")

	if err := h.s.Remove(c.Context(), postID); err != nil {
		return ErrorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PostHandler) PublishNow(c *fiber.Ctx) error {
	postID := c.Query("id")

	receipt, err := h.publisher.PublishNow(c.Context(), postID)
	if err != nil {
		return ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(receipt)
}
