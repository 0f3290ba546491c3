package effects

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandnet/internal/effect"
	"brandnet/internal/models"
)

// Endpoint paths served by the handlers package.
const (
	PathAudio      = "/api/effects/audio"
	PathNewsletter = "/api/effects/newsletter"
	PathSocial     = "/api/effects/social"
)

// Client fires the effects as HTTP POSTs against another instance.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a Client for baseURL. token is sent as a bearer token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

type audioRequest struct {
	ArticleID uuid.UUID `json:"articleId"`
}

type newsletterRequest struct {
	ArticleID uuid.UUID `json:"article_id"`
}

type socialRequest struct {
	ArticleID uuid.UUID         `json:"article_id"`
	Platforms []models.Platform `json:"platforms"`
	Brand     models.Brand      `json:"brand"`
}

// Audio posts {articleId} to the audio endpoint.
func (c *Client) Audio(ctx context.Context, item *models.ContentItem) effect.Outcome {
	return c.post(ctx, NameAudio, PathAudio, audioRequest{ArticleID: item.ID})
}

// Newsletter posts {article_id} to the newsletter endpoint.
func (c *Client) Newsletter(ctx context.Context, item *models.ContentItem) effect.Outcome {
	return c.post(ctx, NameNewsletter, PathNewsletter, newsletterRequest{ArticleID: item.ID})
}

// Social posts {article_id, platforms, brand} to the social endpoint.
func (c *Client) Social(ctx context.Context, item *models.ContentItem, platforms []models.Platform) effect.Outcome {
	if platforms == nil {
		platforms = []models.Platform{}
	}
	return c.post(ctx, NameSocial, PathSocial, socialRequest{ArticleID: item.ID, Platforms: platforms, Brand: item.Brand})
}

// ErrorBody is the JSON error shape of the API.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (c *Client) post(ctx context.Context, name, path string, body any) effect.Outcome {
	payload, err := json.Marshal(body)
	if err != nil {
		return effect.Failf(name, effect.KindInternal, "marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return effect.Failf(name, effect.KindInternal, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return effect.Failf(name, effect.KindProvider, "%s: %v", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return effect.Failf(name, effect.KindProvider, "%s: read body: %v", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb ErrorBody
		if json.Unmarshal(respBody, &eb) == nil && eb.Error != "" {
			kind := effect.Kind(eb.Code)
			if kind == "" {
				kind = effect.KindProvider
			}
			return effect.Failf(name, kind, "%s", eb.Error)
		}
		return effect.Failf(name, effect.KindProvider, "%s: status %d", path, resp.StatusCode)
	}

	var info map[string]any
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &info); err != nil {
			return effect.Failf(name, effect.KindProvider, "%s: decode response: %v", path, err)
		}
	}
	detail, _ := info["message"].(string)
	if detail == "" {
		detail = fmt.Sprintf("%s accepted", path)
	}
	return effect.Ok(name, info, detail)
}
