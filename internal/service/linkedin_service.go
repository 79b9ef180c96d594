package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/postdrip/postdrip/internal/transfer"
	"golang.org/x/oauth2"
)

// SocialPoster is the posting collaborator boundary. A failure, timeout or
// rejected credential all surface as a plain error; the publisher decides
// what that means for the post.
type SocialPoster interface {
	Post(ctx context.Context, creds *Credentials, text string) (*transfer.PublishReceipt, error)
}

const linkedinAPIBase = "https://api.linkedin.com/v2"

// LinkedInService posts text shares through the LinkedIn UGC API.
type LinkedInService struct {
	baseURL string
	timeout time.Duration
}

func NewLinkedInService() *LinkedInService {
	return &LinkedInService{
		baseURL: linkedinAPIBase,
		timeout: 30 * time.Second,
	}
}

func (s *LinkedInService) Post(ctx context.Context, creds *Credentials, text string) (*transfer.PublishReceipt, error) {
	share := transfer.LinkedInShareRequest{
		Author:         creds.AuthorURN,
		LifecycleState: "PUBLISHED",
		SpecificContent: transfer.LinkedInSpecificContent{
			ShareContent: transfer.LinkedInShareContent{
				ShareCommentary:    transfer.LinkedInText{Text: text},
				ShareMediaCategory: "NONE",
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	payload, err := json.Marshal(share)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/ugcPosts", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.AccessToken}))
	client.Timeout = s.timeout

	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("posting to linkedin failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var apiErr transfer.LinkedInErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("linkedin rejected the post: %s (status %d)", apiErr.Message, resp.StatusCode)
		}
		return nil, fmt.Errorf("linkedin returned status %d", resp.StatusCode)
	}

	var shareResp transfer.LinkedInShareResponse
	if err := json.Unmarshal(body, &shareResp); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("unexpected linkedin response: %w", err)
	}
	if shareResp.ID == "" {
		shareResp.ID = resp.Header.Get("X-RestLi-Id")
	}
	if shareResp.ID == "" {
		return nil, fmt.Errorf("linkedin response is missing the share id")
	}

	return &transfer.PublishReceipt{
		ExternalID:  shareResp.ID,
		ExternalURL: fmt.Sprintf("https://www.linkedin.com/feed/update/%s/", shareResp.ID),
	}, nil
}
