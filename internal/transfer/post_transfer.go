package transfer

import (
	"time"

	"github.com/postdrip/postdrip/internal/models"
)

// Draft is one candidate post produced by the content generator before it
// is assigned a slot and persisted.
type Draft struct {
	Text     string   `json:"text"`
	Tone     string   `json:"tone"`
	Hashtags []string `json:"hashtags"`
}

// PostUpdate carries user edits. Nil fields are left untouched.
type PostUpdate struct {
	Body          *string    `json:"body"`
	Tone          *string    `json:"tone"`
	Hashtags      []string   `json:"hashtags"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	Status        *string    `json:"status"`
}

type PostListFilter struct {
	Status    string
	ArticleID int64
	Search    string
	Page      int
	Limit     int
}

type PostList struct {
	Posts []*models.Post `json:"posts"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}

// PublishReceipt identifies a post on the external platform after a
// successful publish.
type PublishReceipt struct {
	ExternalID  string `json:"external_id"`
	ExternalURL string `json:"external_url"`
}

type PublishError struct {
	PostID  string `json:"post_id"`
	Message string `json:"message"`
}

// PublishRunResult aggregates one batch publisher run. A failed item never
// aborts the run, so both counters can be non-zero.
type PublishRunResult struct {
	Published int            `json:"published"`
	Failed    int            `json:"failed"`
	Errors    []PublishError `json:"errors"`
}
