package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	cfg "github.com/postdrip/postdrip/configs"
	"github.com/postdrip/postdrip/internal/transfer"
)

const draftSystemPrompt = `You turn long-form articles into short social media posts.
Given an article title, an excerpt and topic tags, write 4 short posts that each
stand alone, vary in tone (professional, engaging, casual, thought-provoking)
and stay under 240 characters. Respond with a JSON object:
{"posts": [{"text": "...", "tone": "...", "hashtags": ["tag1", "tag2"]}]}
Hashtags must not include the # character.`

// OpenAIService calls a chat-completions style API to draft posts. It
// implements DraftClient.
type OpenAIService struct {
	config cfg.Config
	client *http.Client
}

func NewOpenAIService(cfg cfg.Config) *OpenAIService {
	return &OpenAIService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *OpenAIService) GenerateDrafts(ctx context.Context, title, bodyExcerpt string, topicTags []string) ([]transfer.Draft, error) {
	prompt := fmt.Sprintf("Title: %s\nTopics: %s\n\nExcerpt:\n%s",
		title, strings.Join(topicTags, ", "), bodyExcerpt)

	reqBody := transfer.ChatCompletionRequest{
		Model: s.config.Generation.Model,
		Messages: []transfer.ChatMessage{
			{Role: "system", Content: draftSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.8,
		ResponseFormat: &transfer.ChatResponseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.Generation.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.Generation.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("draft generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var completion transfer.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("unexpected generation response: %w", err)
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("generation API error: %s", completion.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation API returned status %d", resp.StatusCode)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("generation API returned no choices")
	}

	var envelope transfer.DraftEnvelope
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &envelope); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("generation API returned malformed drafts: %w", err)
	}

	var drafts []transfer.Draft
	for _, draft := range envelope.Posts {
		if strings.TrimSpace(draft.Text) == "" {
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}
