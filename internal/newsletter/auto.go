// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package newsletter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"brandnet/internal/effect"
	"brandnet/internal/models"
)

// AutoResult is the outcome of an auto-dispatch attempt.
type AutoResult struct {
	// Skipped is set when the brand did not opt into sending on publish.
	Skipped  string                     `json:"skipped,omitempty"`
	Campaign *models.NewsletterCampaign `json:"campaign,omitempty"`
	Send     *SendResult                `json:"send,omitempty"`
}

// AutoDispatcher creates and sends a single-article campaign when an item
// is published.
type AutoDispatcher struct {
	store    Store
	articles ArticleFinder
	sender   *Sender
}

// NewAutoDispatcher creates an AutoDispatcher.
func NewAutoDispatcher(store Store, articles ArticleFinder, sender *Sender) *AutoDispatcher {
	return &AutoDispatcher{store: store, articles: articles, sender: sender}
}

// DispatchByID loads an article and dispatches it.
func (d *AutoDispatcher) DispatchByID(ctx context.Context, articleID uuid.UUID) (*AutoResult, error) {
	item, err := d.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	if item == nil {
		return nil, effect.WithKind(effect.KindNotFound, ErrArticleNotFound)
	}
	return d.Dispatch(ctx, item)
}

// Dispatch creates a draft campaign for item and sends it, unless the
// brand's settings are missing, disabled or do not ask for sending on
// publish. Skips are not errors and create no campaign.
func (d *AutoDispatcher) Dispatch(ctx context.Context, item *models.ContentItem) (*AutoResult, error) {
	settings, err := d.store.Settings(ctx, item.Brand)
	if err != nil {
		return nil, fmt.Errorf("load newsletter settings: %w", err)
	}
	switch {
	case settings == nil:
		return &AutoResult{Skipped: "no newsletter settings"}, nil
	case !settings.Enabled:
		return &AutoResult{Skipped: "newsletter disabled"}, nil
	case !settings.AutoSendOnPublish:
		return &AutoResult{Skipped: "auto send on publish is off"}, nil
	}

	campaign, err := d.store.CreateCampaign(ctx, item.Brand, item.Title, []uuid.UUID{item.ID})
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	slog.Info("newsletter campaign created on publish",
		"campaign_id", campaign.ID,
		"brand", item.Brand,
		"item_id", item.ID,
	)

	res := &AutoResult{Campaign: campaign}
	res.Send, err = d.sender.Send(ctx, campaign.ID)
	return res, err
}
