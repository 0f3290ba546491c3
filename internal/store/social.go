// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"brandnet/internal/models"
)

// SocialStore manages per-platform social settings and the append-only
// share log.
type SocialStore struct {
	db *sql.DB
}

// NewSocialStore creates a new SocialStore.
func NewSocialStore(db *sql.DB) *SocialStore {
	return &SocialStore{db: db}
}

func scanSocialSettings(row rowScanner) (*models.SocialMediaSettings, error) {
	var (
		ss       models.SocialMediaSettings
		hashtags pq.StringArray
		creds    []byte
	)
	err := row.Scan(
		&ss.Brand, &ss.Platform, &ss.Enabled, &ss.AutoShareOnPublish,
		&ss.DefaultTemplate, &hashtags, &creds, &ss.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ss.DefaultHashtags = []string(hashtags)
	ss.Credentials = map[string]string{}
	if len(creds) > 0 {
		if err := json.Unmarshal(creds, &ss.Credentials); err != nil {
			return nil, fmt.Errorf("decode credentials: %w", err)
		}
	}
	return &ss, nil
}

// Settings returns the settings of one platform for a brand, or nil.
func (s *SocialStore) Settings(ctx context.Context, brand models.Brand, platform models.Platform) (*models.SocialMediaSettings, error) {
	ss, err := scanSocialSettings(s.db.QueryRowContext(ctx, `
		SELECT brand, platform, enabled, auto_share_on_publish, default_template,
		       default_hashtags, credentials, updated_at
		FROM social_media_settings
		WHERE brand = $1 AND platform = $2
	`, brand, platform))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find social settings: %w", err)
	}
	return ss, nil
}

// AutoSharePlatforms returns the platforms of a brand that are enabled and
// flagged for sharing on publish.
func (s *SocialStore) AutoSharePlatforms(ctx context.Context, brand models.Brand) ([]models.Platform, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT platform FROM social_media_settings
		WHERE brand = $1 AND enabled AND auto_share_on_publish
		ORDER BY platform
	`, brand)
	if err != nil {
		return nil, fmt.Errorf("list auto-share platforms: %w", err)
	}
	defer rows.Close()

	var platforms []models.Platform
	for rows.Next() {
		var p models.Platform
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

// UpsertSettings creates or replaces the settings of one platform.
func (s *SocialStore) UpsertSettings(ctx context.Context, ss *models.SocialMediaSettings) error {
	creds := ss.Credentials
	if creds == nil {
		creds = map[string]string{}
	}
	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	hashtags := ss.DefaultHashtags
	if hashtags == nil {
		hashtags = []string{}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO social_media_settings (brand, platform, enabled, auto_share_on_publish,
		                                   default_template, default_hashtags, credentials, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)
		ON CONFLICT (brand, platform)
		DO UPDATE SET enabled = EXCLUDED.enabled,
		              auto_share_on_publish = EXCLUDED.auto_share_on_publish,
		              default_template = EXCLUDED.default_template,
		              default_hashtags = EXCLUDED.default_hashtags,
		              credentials = EXCLUDED.credentials,
		              updated_at = EXCLUDED.updated_at`,
		ss.Brand, ss.Platform, ss.Enabled, ss.AutoShareOnPublish,
		ss.DefaultTemplate, pq.StringArray(hashtags), string(raw), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert social settings: %w", err)
	}
	return nil
}

// AppendShareLog records one share attempt.
func (s *SocialStore) AppendShareLog(ctx context.Context, e *models.SocialShareLogEntry) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO social_share_log (article_id, platform, brand, status, post_url, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, e.ArticleID, e.Platform, e.Brand, e.Status, e.PostURL, e.ErrorMessage).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append share log: %w", err)
	}
	return nil
}

// ShareLog returns the share attempts of an article, newest first.
func (s *SocialStore) ShareLog(ctx context.Context, articleID uuid.UUID) ([]models.SocialShareLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, article_id, platform, brand, status, post_url, error_message, created_at
		FROM social_share_log
		WHERE article_id = $1
		ORDER BY created_at DESC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list share log: %w", err)
	}
	defer rows.Close()

	var entries []models.SocialShareLogEntry
	for rows.Next() {
		var e models.SocialShareLogEntry
		if err := rows.Scan(&e.ID, &e.ArticleID, &e.Platform, &e.Brand, &e.Status, &e.PostURL, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan share log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
