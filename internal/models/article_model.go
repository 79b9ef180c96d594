package models

import "time"

type Article struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Excerpt      string    `db:"excerpt" json:"excerpt"`
	Body         string    `db:"body" json:"body"`
	ReferenceURL string    `db:"reference_url" json:"reference_url"`
	TopicTags    []string  `db:"topic_tags" json:"topic_tags"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
