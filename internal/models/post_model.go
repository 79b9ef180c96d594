package models

import "time"

type Post struct {
	ID             string     `db:"id" json:"id"`
	ArticleID      int64      `db:"article_id" json:"article_id"`
	Body           string     `db:"body" json:"body"`
	Tone           string     `db:"tone" json:"tone"`
	Hashtags       []string   `db:"hashtags" json:"hashtags"`
	Sequence       int        `db:"sequence" json:"sequence"`
	TotalInBatch   int        `db:"total_in_batch" json:"total_in_batch"`
	Status         string     `db:"status" json:"status"` // pending, posted, failed
	ScheduledTime  time.Time  `db:"scheduled_time" json:"scheduled_time"`
	PostedTime     *time.Time `db:"posted_time" json:"posted_time,omitempty"`
	ExternalPostID *string    `db:"external_post_id" json:"external_post_id,omitempty"`
	ExternalURL    *string    `db:"external_url" json:"external_url,omitempty"`
	ErrorMessage   *string    `db:"error_message" json:"error_message,omitempty"`
	DeletedAt      *time.Time `db:"deleted_at" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusPending = "pending"
	PostStatusPosted  = "posted"
	PostStatusFailed  = "failed"
)

// MaxBodyLength bounds the stored post body. The publish-time character
// budget is separate and configurable; this only guards storage.
const MaxBodyLength = 1000
