// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"brandnet/internal/models"
)

// Post is what gets published on a platform.
type Post struct {
	Brand      models.Brand
	Text       string
	ArticleURL string
	ImageURL   string
}

// PostResult is the outcome of one posting attempt.
type PostResult struct {
	Success bool   `json:"success"`
	PostURL string `json:"post_url,omitempty"`
	Error   string `json:"error,omitempty"`
}

func failed(format string, args ...any) PostResult {
	return PostResult{Error: fmt.Sprintf(format, args...)}
}

// Poster publishes a post on one platform using the brand's credentials.
type Poster interface {
	Post(ctx context.Context, p Post, credentials map[string]string) PostResult
}

// Endpoints holds platform API base URLs. Zero values use the public APIs.
type Endpoints struct {
	Twitter  string
	Facebook string
}

// DefaultPosters returns the posting adapter of every supported platform.
// LinkedIn, Instagram and Threads are posted through a per-brand webhook
// relay configured in the platform credentials.
func DefaultPosters(endpoints Endpoints) map[models.Platform]Poster {
	if endpoints.Twitter == "" {
		endpoints.Twitter = "https://api.twitter.com"
	}
	if endpoints.Facebook == "" {
		endpoints.Facebook = "https://graph.facebook.com/v19.0"
	}
	client := &http.Client{Timeout: 30 * time.Second}
	relay := &relayPoster{client: client}

	return map[models.Platform]Poster{
		models.PlatformTwitter:   &twitterPoster{baseURL: endpoints.Twitter, client: client},
		models.PlatformFacebook:  &facebookPoster{baseURL: endpoints.Facebook, client: client},
		models.PlatformLinkedIn:  relay.For(models.PlatformLinkedIn),
		models.PlatformInstagram: relay.For(models.PlatformInstagram),
		models.PlatformThreads:   relay.For(models.PlatformThreads),
	}
}

func missing(credentials map[string]string, keys ...string) []string {
	var out []string
	for _, k := range keys {
		if strings.TrimSpace(credentials[k]) == "" {
			out = append(out, k)
		}
	}
	return out
}

// do sends req and decodes a JSON response into out when it is non-nil.
func do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
	}
	return nil
}

// twitterPoster posts through the X API v2 (POST /2/tweets) with an OAuth
// 2.0 user access token.
type twitterPoster struct {
	baseURL string
	client  *http.Client
}

func (p *twitterPoster) Post(ctx context.Context, post Post, credentials map[string]string) PostResult {
	if m := missing(credentials, "access_token"); len(m) > 0 {
		return failed("missing credentials: %s", strings.Join(m, ", "))
	}

	payload, _ := json.Marshal(map[string]string{"text": post.Text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return failed("twitter request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credentials["access_token"])

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := do(p.client, req, &resp); err != nil {
		return failed("twitter: %v", err)
	}
	if resp.Data.ID == "" {
		return failed("twitter: no tweet id returned")
	}
	return PostResult{Success: true, PostURL: "https://x.com/i/web/status/" + resp.Data.ID}
}

// facebookPoster posts a link to a page feed through the Graph API
// (POST /{page_id}/feed) with a page access token.
type facebookPoster struct {
	baseURL string
	client  *http.Client
}

func (p *facebookPoster) Post(ctx context.Context, post Post, credentials map[string]string) PostResult {
	if m := missing(credentials, "page_id", "access_token"); len(m) > 0 {
		return failed("missing credentials: %s", strings.Join(m, ", "))
	}

	form := url.Values{
		"message":      {post.Text},
		"link":         {post.ArticleURL},
		"access_token": {credentials["access_token"]},
	}
	endpoint := p.baseURL + "/" + url.PathEscape(credentials["page_id"]) + "/feed"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return failed("facebook request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		ID string `json:"id"`
	}
	if err := do(p.client, req, &resp); err != nil {
		return failed("facebook: %v", err)
	}
	if resp.ID == "" {
		return failed("facebook: no post id returned")
	}
	return PostResult{Success: true, PostURL: "https://www.facebook.com/" + resp.ID}
}

// relayPoster hands posts for platforms without a direct integration to a
// webhook relay (an automation service holding the platform session).
type relayPoster struct {
	client   *http.Client
	platform models.Platform
}

// For returns a relay poster bound to platform.
func (p *relayPoster) For(platform models.Platform) *relayPoster {
	return &relayPoster{client: p.client, platform: platform}
}

func (p *relayPoster) Post(ctx context.Context, post Post, credentials map[string]string) PostResult {
	if m := missing(credentials, "webhook_url"); len(m) > 0 {
		return failed("missing credentials: %s", strings.Join(m, ", "))
	}

	payload, _ := json.Marshal(relayRequest{
		Platform: p.platform,
		Brand:    post.Brand,
		Text:     post.Text,
		URL:      post.ArticleURL,
		ImageURL: post.ImageURL,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, credentials["webhook_url"], bytes.NewReader(payload))
	if err != nil {
		return failed("%s relay request: %v", p.platform, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if secret := credentials["webhook_secret"]; secret != "" {
		req.Header.Set("Authorization", "Bearer "+secret)
	}

	var resp struct {
		PostURL string `json:"post_url"`
	}
	if err := do(p.client, req, &resp); err != nil {
		return failed("%s relay: %v", p.platform, err)
	}
	return PostResult{Success: true, PostURL: resp.PostURL}
}

type relayRequest struct {
	Platform models.Platform `json:"platform"`
	Brand    models.Brand    `json:"brand"`
	Text     string          `json:"text"`
	URL      string          `json:"url"`
	ImageURL string          `json:"image_url,omitempty"`
}
