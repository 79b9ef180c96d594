package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/postdrip/postdrip/internal/models"
	"github.com/postdrip/postdrip/internal/transfer"
)

// DraftClient is the generative collaborator boundary. It may fail or time
// out; the generator service treats any error or empty result as a trigger
// for the template fallback.
type DraftClient interface {
	GenerateDrafts(ctx context.Context, title, bodyExcerpt string, topicTags []string) ([]transfer.Draft, error)
}

const (
	// excerptLimit caps how much article body is sent to the generative
	// service.
	excerptLimit = 3000
	maxTopicTags = 3
	fallbackSize = 4
)

type GeneratorService interface {
	Generate(ctx context.Context, article *models.Article) []transfer.Draft
}

type generatorService struct {
	client DraftClient
}

func NewGeneratorService(client DraftClient) GeneratorService {
	return &generatorService{client: client}
}

// Generate produces a batch of candidate drafts for the article. The
// generative service is tried first; on any error or an empty response the
// deterministic template fallback takes over, so the returned batch is
// never empty and Generate itself never fails.
func (s *generatorService) Generate(ctx context.Context, article *models.Article) []transfer.Draft {
	tags := topTags(article.TopicTags)

	drafts, err := s.client.GenerateDrafts(ctx, article.Title, excerpt(article), tags)
	if err != nil {
		slog.Info("draft generation failed, using fallback templates", "article_id", article.ID, "error", err.Error())
		return FallbackDrafts(article.Title, tags)
	}
	if len(drafts) == 0 {
		slog.Info("draft generation returned nothing, using fallback templates", "article_id", article.ID)
		return FallbackDrafts(article.Title, tags)
	}

	return drafts
}

// FallbackDrafts builds a fixed-size batch from hand-authored templates,
// each with a distinct tone. It never calls out and never fails.
func FallbackDrafts(title string, topicTags []string) []transfer.Draft {
	tags := topTags(topicTags)

	topic := "this"
	if len(tags) > 0 {
		topic = tags[0]
	}

	return []transfer.Draft{
		{
			Text:     fmt.Sprintf("New on the blog: %s. A practical walkthrough with the details that usually get skipped.", title),
			Tone:     "professional",
			Hashtags: tags,
		},
		{
			Text:     fmt.Sprintf("Ever wondered how %s really works? We just published %q and it answers exactly that.", topic, title),
			Tone:     "engaging",
			Hashtags: tags,
		},
		{
			Text:     fmt.Sprintf("We wrote up %s. Worth a read over coffee.", title),
			Tone:     "casual",
			Hashtags: tags,
		},
		{
			Text:     fmt.Sprintf("Most teams get %s wrong before they get it right. %s covers what we learned the hard way.", topic, title),
			Tone:     "thought-provoking",
			Hashtags: tags,
		},
	}
}

func excerpt(article *models.Article) string {
	body := article.Body
	if body == "" {
		body = article.Excerpt
	}
	if utf8.RuneCountInString(body) <= excerptLimit {
		return body
	}
	runes := []rune(body)
	return strings.TrimSpace(string(runes[:excerptLimit])) + "..."
}

func topTags(tags []string) []string {
	var kept []string
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		kept = append(kept, tag)
		if len(kept) == maxTopicTags {
			break
		}
	}
	return kept
}
