// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package social shares published articles on the brands' social accounts.
// Every platform attempt is independent and recorded in the share log,
// whether it succeeded or not.
package social

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"brandnet/internal/brand"
	"brandnet/internal/compose"
	"brandnet/internal/effect"
	"brandnet/internal/models"
)

// ErrArticleNotFound is returned when the article to share does not exist.
var ErrArticleNotFound = errors.New("article not found")

// SettingsStore reads platform settings and writes the share log.
type SettingsStore interface {
	Settings(ctx context.Context, brand models.Brand, platform models.Platform) (*models.SocialMediaSettings, error)
	AutoSharePlatforms(ctx context.Context, brand models.Brand) ([]models.Platform, error)
	AppendShareLog(ctx context.Context, e *models.SocialShareLogEntry) error
}

// ArticleFinder loads articles.
type ArticleFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
}

// Request asks for an article to be shared.
type Request struct {
	ArticleID uuid.UUID         `json:"article_id"`
	Platforms []models.Platform `json:"platforms"`
	// Brand selects the accounts and public URL; the article's brand when empty.
	Brand models.Brand `json:"brand"`
}

// PlatformResult is the outcome on one platform.
type PlatformResult struct {
	Platform models.Platform `json:"platform"`
	Text     string          `json:"text,omitempty"`
	PostResult
}

// Result lists the per-platform outcomes in attempt order.
type Result struct {
	ArticleID uuid.UUID        `json:"article_id"`
	Brand     models.Brand     `json:"brand"`
	Results   []PlatformResult `json:"results"`
}

// Succeeded counts the successful platforms.
func (r *Result) Succeeded() int {
	n := 0
	for _, pr := range r.Results {
		if pr.Success {
			n++
		}
	}
	return n
}

// Fanout shares articles across platforms.
type Fanout struct {
	settings SettingsStore
	articles ArticleFinder
	brands   *brand.Table
	posters  map[models.Platform]Poster
}

// NewFanout creates a Fanout.
func NewFanout(settings SettingsStore, articles ArticleFinder, brands *brand.Table, posters map[models.Platform]Poster) *Fanout {
	return &Fanout{settings: settings, articles: articles, brands: brands, posters: posters}
}

// Platforms merges the requested platforms with the brand's auto-share
// platforms. Requested platforms come first; unknown platforms and
// duplicates are dropped.
func Platforms(requested, auto []models.Platform) []models.Platform {
	var out []models.Platform
	for _, p := range slices.Concat(requested, auto) {
		if p.Valid() && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// Share posts the article on every merged platform. A failure on one
// platform never stops the others; the returned error is only set when the
// article or the platform list cannot be loaded.
func (f *Fanout) Share(ctx context.Context, req Request) (*Result, error) {
	article, err := f.articles.FindByID(ctx, req.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	if article == nil {
		return nil, effect.WithKind(effect.KindNotFound, ErrArticleNotFound)
	}

	b := req.Brand
	if !b.Valid() {
		b = article.Brand
	}

	auto, err := f.settings.AutoSharePlatforms(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("load auto-share platforms: %w", err)
	}

	profile := f.brands.MustLookup(b)
	fields := compose.Fields{
		Title:   article.Title,
		Excerpt: models.Deref(article.Excerpt),
		URL:     profile.ArticleURL(article.Slug),
		Brand:   profile.Name,
		Author:  article.AuthorName,
	}

	res := &Result{ArticleID: article.ID, Brand: b}
	for _, platform := range Platforms(req.Platforms, auto) {
		pr := f.shareOne(ctx, article, b, platform, fields)
		f.record(ctx, article.ID, b, pr)
		res.Results = append(res.Results, pr)
	}

	slog.Info("social fan-out finished",
		"article_id", article.ID,
		"brand", b,
		"platforms", len(res.Results),
		"succeeded", res.Succeeded(),
	)
	return res, nil
}

func (f *Fanout) shareOne(ctx context.Context, article *models.ContentItem, b models.Brand, platform models.Platform, fields compose.Fields) (pr PlatformResult) {
	pr.Platform = platform
	defer func() {
		if rec := recover(); rec != nil {
			pr.PostResult = failed("%s adapter panicked: %v", platform, rec)
		}
	}()

	settings, err := f.settings.Settings(ctx, b, platform)
	if err != nil {
		pr.PostResult = failed("load settings: %v", err)
		return pr
	}

	tmpl := compose.DefaultPostTemplate
	var (
		hashtags    []string
		credentials map[string]string
	)
	if settings != nil {
		if !settings.Enabled {
			pr.PostResult = failed("disabled")
			return pr
		}
		if settings.DefaultTemplate != "" {
			tmpl = settings.DefaultTemplate
		}
		hashtags = settings.DefaultHashtags
		credentials = settings.Credentials
	}

	pr.Text = compose.Post(platform, tmpl, fields, hashtags)

	poster, ok := f.posters[platform]
	if !ok {
		pr.PostResult = failed("no posting adapter for %s", platform)
		return pr
	}
	pr.PostResult = poster.Post(ctx, Post{
		Brand:      b,
		Text:       pr.Text,
		ArticleURL: fields.URL,
		ImageURL:   article.MetaString(models.MetaOGImageURL),
	}, credentials)
	return pr
}

func (f *Fanout) record(ctx context.Context, articleID uuid.UUID, b models.Brand, pr PlatformResult) {
	entry := &models.SocialShareLogEntry{
		ArticleID: articleID,
		Platform:  pr.Platform,
		Brand:     b,
		Status:    models.ShareStatusSuccess,
		PostURL:   models.StrPtr(pr.PostURL),
	}
	if !pr.Success {
		entry.Status = models.ShareStatusFailed
		entry.ErrorMessage = models.StrPtr(pr.Error)
		slog.Warn("social share failed", "article_id", articleID, "platform", pr.Platform, "error", pr.Error)
	}
	if err := f.settings.AppendShareLog(ctx, entry); err != nil {
		slog.Warn("failed to append share log", "article_id", articleID, "platform", pr.Platform, "error", err)
	}
}
