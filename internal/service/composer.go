package service

import (
	"strings"
	"unicode/utf8"
)

// Compose builds the final post text from body, hashtags and an optional
// reference link under a character budget. Components are joined with blank
// lines and dropped in reverse priority when the budget is exceeded: first
// the hashtag block, then the link. The body is always returned whole, even
// when it alone exceeds the limit; bounding the body is the caller's job at
// write time, not here. Compose is pure and never fails.
func Compose(body string, hashtags []string, link string, limit int) string {
	tagBlock := HashtagBlock(hashtags)

	candidates := []string{
		joinBlocks(body, tagBlock, link),
		joinBlocks(body, link),
	}
	for _, text := range candidates {
		if utf8.RuneCountInString(text) <= limit {
			return text
		}
	}
	return body
}

// HashtagBlock renders stored hashtags (no # prefix) as a single line,
// e.g. "#golang #backend".
func HashtagBlock(hashtags []string) string {
	var tags []string
	for _, tag := range hashtags {
		if tag == "" {
			continue
		}
		tags = append(tags, "#"+tag)
	}
	return strings.Join(tags, " ")
}

func joinBlocks(blocks ...string) string {
	var kept []string
	for _, block := range blocks {
		if block != "" {
			kept = append(kept, block)
		}
	}
	return strings.Join(kept, "\n\n")
}
