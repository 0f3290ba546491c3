// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package newsletter sends per-brand email campaigns. Campaigns are created
// automatically when an item is published and the brand opted in, or sent
// on demand through the campaign send endpoint.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"brandnet/internal/brand"
	"brandnet/internal/compose"
	"brandnet/internal/effect"
	"brandnet/internal/models"
)

// Skip and lookup conditions of the newsletter flow.
var (
	ErrNotConfigured    = errors.New("newsletter is not configured for this brand")
	ErrNoSubscribers    = errors.New("brand has no active subscribers")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrArticleNotFound  = errors.New("article not found")
)

// Store is the persistence the newsletter flow needs.
type Store interface {
	Settings(ctx context.Context, brand models.Brand) (*models.NewsletterSettings, error)
	ActiveSubscribers(ctx context.Context, brand models.Brand) ([]models.Subscriber, error)
	CreateCampaign(ctx context.Context, brand models.Brand, subject string, articleIDs []uuid.UUID) (*models.NewsletterCampaign, error)
	FindCampaign(ctx context.Context, id uuid.UUID) (*models.NewsletterCampaign, error)
	MarkCampaignSending(ctx context.Context, id uuid.UUID) error
	MarkCampaignSent(ctx context.Context, id uuid.UUID, sentCount int, at time.Time) error
	MarkCampaignFailed(ctx context.Context, id uuid.UUID, message string) error
}

// ArticleFinder loads the articles a campaign references.
type ArticleFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
}

// SendResult summarises a finished campaign send.
type SendResult struct {
	CampaignID uuid.UUID `json:"campaign_id"`
	Provider   string    `json:"provider"`
	SentCount  int       `json:"sent_count"`
	Recipients int       `json:"recipients"`
}

// Sender delivers campaigns.
type Sender struct {
	store    Store
	articles ArticleFinder
	brands   *brand.Table
	mailers  MailerFactory
	now      func() time.Time
}

// NewSender creates a Sender.
func NewSender(store Store, articles ArticleFinder, brands *brand.Table, mailers MailerFactory) *Sender {
	return &Sender{store: store, articles: articles, brands: brands, mailers: mailers, now: time.Now}
}

// Send delivers a campaign to every active subscriber of its brand.
//
// A missing or disabled configuration fails with ErrNotConfigured and a
// brand without subscribers with ErrNoSubscribers; in both cases the
// campaign is left as it was. Otherwise the campaign moves to sending, one
// email goes out per subscriber and individual delivery failures are only
// logged. The campaign ends as sent with the count of accepted deliveries,
// or as failed when the batch itself could not run.
func (s *Sender) Send(ctx context.Context, campaignID uuid.UUID) (*SendResult, error) {
	campaign, err := s.store.FindCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("load campaign: %w", err)
	}
	if campaign == nil {
		return nil, effect.WithKind(effect.KindNotFound, ErrCampaignNotFound)
	}

	settings, err := s.store.Settings(ctx, campaign.Brand)
	if err != nil {
		return nil, fmt.Errorf("load newsletter settings: %w", err)
	}
	if settings == nil || !settings.Enabled {
		return nil, effect.WithKind(effect.KindNotConfigured, ErrNotConfigured)
	}

	subscribers, err := s.store.ActiveSubscribers(ctx, campaign.Brand)
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}
	if len(subscribers) == 0 {
		return nil, effect.WithKind(effect.KindNoSubscribers, ErrNoSubscribers)
	}

	if err := s.store.MarkCampaignSending(ctx, campaign.ID); err != nil {
		return nil, err
	}

	result, err := s.deliver(ctx, campaign, settings, subscribers)
	if err != nil {
		if markErr := s.store.MarkCampaignFailed(ctx, campaign.ID, err.Error()); markErr != nil {
			slog.Error("failed to record campaign failure", "campaign_id", campaign.ID, "error", markErr)
		}
		return nil, err
	}

	if err := s.store.MarkCampaignSent(ctx, campaign.ID, result.SentCount, s.now()); err != nil {
		return nil, err
	}

	slog.Info("campaign sent",
		"campaign_id", campaign.ID,
		"brand", campaign.Brand,
		"provider", result.Provider,
		"sent", result.SentCount,
		"recipients", result.Recipients,
	)
	return result, nil
}

// deliver runs the batch. A panic inside the batch is returned as an error
// so the campaign can still be marked failed.
func (s *Sender) deliver(ctx context.Context, campaign *models.NewsletterCampaign, settings *models.NewsletterSettings, subscribers []models.Subscriber) (result *SendResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = effect.WithKind(effect.KindPanic, fmt.Errorf("campaign batch panicked: %v", rec))
		}
	}()

	items, err := s.loadArticles(ctx, campaign.ArticleIDs)
	if err != nil {
		return nil, err
	}

	mailer, err := s.mailers(settings)
	if err != nil {
		return nil, effect.WithKind(effect.KindProvider, err)
	}

	profile := s.brands.MustLookup(campaign.Brand)
	result = &SendResult{CampaignID: campaign.ID, Provider: mailer.Name(), Recipients: len(subscribers)}

	for _, sub := range subscribers {
		email, err := compose.NewsletterEmail(profile, campaign.Subject, items, compose.UnsubscribeURL(profile, sub.UnsubscribeToken))
		if err != nil {
			return nil, fmt.Errorf("render newsletter: %w", err)
		}

		err = mailer.Send(ctx, Message{
			From:     settings.FromEmail,
			FromName: settings.FromName,
			ReplyTo:  models.Deref(settings.ReplyTo),
			To:       sub.Email,
			Subject:  email.Subject,
			HTML:     email.HTML,
			Text:     email.Text,
		})
		if err != nil {
			slog.Warn("newsletter delivery failed",
				"campaign_id", campaign.ID,
				"subscriber_id", sub.ID,
				"provider", mailer.Name(),
				"error", err,
			)
			continue
		}
		result.SentCount++
	}
	return result, nil
}

func (s *Sender) loadArticles(ctx context.Context, ids []uuid.UUID) ([]*models.ContentItem, error) {
	items := make([]*models.ContentItem, 0, len(ids))
	for _, id := range ids {
		item, err := s.articles.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load campaign article %s: %w", id, err)
		}
		if item == nil {
			slog.Warn("campaign article missing, skipping", "article_id", id)
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, errors.New("campaign has no articles to send")
	}
	return items, nil
}
