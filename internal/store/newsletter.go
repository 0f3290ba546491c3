// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"brandnet/internal/models"
)

const campaignColumns = `id, brand, subject, article_ids, status, sent_count, sent_at,
	error_message, created_at, updated_at`

// NewsletterStore manages per-brand newsletter settings, subscribers and
// campaigns.
type NewsletterStore struct {
	db *sql.DB
}

// NewNewsletterStore returns a new NewsletterStore backed by the given database.
func NewNewsletterStore(db *sql.DB) *NewsletterStore {
	return &NewsletterStore{db: db}
}

// Settings returns the newsletter settings of a brand, or nil when the
// brand has none.
func (s *NewsletterStore) Settings(ctx context.Context, brand models.Brand) (*models.NewsletterSettings, error) {
	ns := &models.NewsletterSettings{}
	err := s.db.QueryRowContext(ctx, `
		SELECT brand, enabled, auto_send_on_publish, provider, api_key,
		       from_email, from_name, reply_to, updated_at
		FROM newsletter_settings WHERE brand = $1
	`, brand).Scan(
		&ns.Brand, &ns.Enabled, &ns.AutoSendOnPublish, &ns.Provider, &ns.APIKey,
		&ns.FromEmail, &ns.FromName, &ns.ReplyTo, &ns.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find newsletter settings: %w", err)
	}
	return ns, nil
}

// UpsertSettings creates or replaces the newsletter settings of a brand.
func (s *NewsletterStore) UpsertSettings(ctx context.Context, ns *models.NewsletterSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO newsletter_settings (brand, enabled, auto_send_on_publish, provider, api_key,
		                                 from_email, from_name, reply_to, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (brand)
		DO UPDATE SET enabled = EXCLUDED.enabled,
		              auto_send_on_publish = EXCLUDED.auto_send_on_publish,
		              provider = EXCLUDED.provider,
		              api_key = EXCLUDED.api_key,
		              from_email = EXCLUDED.from_email,
		              from_name = EXCLUDED.from_name,
		              reply_to = EXCLUDED.reply_to,
		              updated_at = EXCLUDED.updated_at`,
		ns.Brand, ns.Enabled, ns.AutoSendOnPublish, ns.Provider, ns.APIKey,
		ns.FromEmail, ns.FromName, ns.ReplyTo, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert newsletter settings: %w", err)
	}
	return nil
}

// AddSubscriber inserts an active subscriber and returns it with its
// generated unsubscribe token. An existing subscriber with the same email
// is reactivated and keeps its token.
func (s *NewsletterStore) AddSubscriber(ctx context.Context, brand models.Brand, email string, name *string) (*models.Subscriber, error) {
	sub := &models.Subscriber{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_subscribers (brand, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (brand, email) DO UPDATE
		SET is_active = TRUE,
		    name = COALESCE(EXCLUDED.name, newsletter_subscribers.name)
		RETURNING id, brand, email, name, is_active, unsubscribe_token, created_at
	`, brand, email, name).Scan(
		&sub.ID, &sub.Brand, &sub.Email, &sub.Name, &sub.IsActive, &sub.UnsubscribeToken, &sub.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("add subscriber: %w", err)
	}
	return sub, nil
}

// ActiveSubscribers returns every active subscriber of a brand.
func (s *NewsletterStore) ActiveSubscribers(ctx context.Context, brand models.Brand) ([]models.Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, brand, email, name, is_active, unsubscribe_token, created_at
		FROM newsletter_subscribers
		WHERE brand = $1 AND is_active
		ORDER BY created_at
	`, brand)
	if err != nil {
		return nil, fmt.Errorf("list active subscribers: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Brand, &sub.Email, &sub.Name, &sub.IsActive, &sub.UnsubscribeToken, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanCampaign(row rowScanner) (*models.NewsletterCampaign, error) {
	var (
		c   models.NewsletterCampaign
		ids pq.StringArray
	)
	err := row.Scan(
		&c.ID, &c.Brand, &c.Subject, &ids, &c.Status, &c.SentCount, &c.SentAt,
		&c.ErrorMessage, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.ArticleIDs, err = parseIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("parse article_ids: %w", err)
	}
	return &c, nil
}

// CreateCampaign inserts a draft campaign.
func (s *NewsletterStore) CreateCampaign(ctx context.Context, brand models.Brand, subject string, articleIDs []uuid.UUID) (*models.NewsletterCampaign, error) {
	c, err := scanCampaign(s.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_campaigns (brand, subject, article_ids, status)
		VALUES ($1, $2, $3, 'draft')
		RETURNING `+campaignColumns,
		brand, subject, idStrings(articleIDs),
	))
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

// FindCampaign returns a campaign by ID, or nil when it does not exist.
func (s *NewsletterStore) FindCampaign(ctx context.Context, id uuid.UUID) (*models.NewsletterCampaign, error) {
	c, err := scanCampaign(s.db.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM newsletter_campaigns WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	return c, nil
}

// MarkCampaignSending moves a campaign to sending.
func (s *NewsletterStore) MarkCampaignSending(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE newsletter_campaigns SET status = 'sending', updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("mark campaign sending: %w", err)
	}
	return nil
}

// MarkCampaignSent records the final delivery count of a campaign.
func (s *NewsletterStore) MarkCampaignSent(ctx context.Context, id uuid.UUID, sentCount int, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE newsletter_campaigns
		SET status = 'sent', sent_count = $2, sent_at = $3, error_message = NULL, updated_at = NOW()
		WHERE id = $1
	`, id, sentCount, at)
	if err != nil {
		return fmt.Errorf("mark campaign sent: %w", err)
	}
	return nil
}

// MarkCampaignFailed records a batch-level failure on a campaign.
func (s *NewsletterStore) MarkCampaignFailed(ctx context.Context, id uuid.UUID, message string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE newsletter_campaigns
		SET status = 'failed', error_message = $2, updated_at = NOW()
		WHERE id = $1
	`, id, message)
	if err != nil {
		return fmt.Errorf("mark campaign failed: %w", err)
	}
	return nil
}
