// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"brandnet/internal/models"
)

const audioColumns = `id, article_id, provider, voice_id, status, url, duration_seconds,
	file_size, error_message, created_at, updated_at`

// AudioStore manages audio versions of articles.
type AudioStore struct {
	db *sql.DB
}

// NewAudioStore creates a new AudioStore.
func NewAudioStore(db *sql.DB) *AudioStore {
	return &AudioStore{db: db}
}

func scanAudio(row rowScanner) (*models.AudioVersion, error) {
	v := &models.AudioVersion{}
	err := row.Scan(
		&v.ID, &v.ArticleID, &v.Provider, &v.VoiceID, &v.Status, &v.URL, &v.DurationSeconds,
		&v.FileSize, &v.ErrorMessage, &v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

// FindReady returns the ready audio version of an article, or nil.
func (s *AudioStore) FindReady(ctx context.Context, articleID uuid.UUID) (*models.AudioVersion, error) {
	v, err := scanAudio(s.db.QueryRowContext(ctx, `
		SELECT `+audioColumns+`
		FROM audio_versions
		WHERE article_id = $1 AND status = 'ready'
		ORDER BY created_at DESC
		LIMIT 1
	`, articleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find ready audio: %w", err)
	}
	return v, nil
}

// Create inserts a new audio version, normally in the processing state.
func (s *AudioStore) Create(ctx context.Context, v *models.AudioVersion) (*models.AudioVersion, error) {
	created, err := scanAudio(s.db.QueryRowContext(ctx, `
		INSERT INTO audio_versions (article_id, provider, voice_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+audioColumns,
		v.ArticleID, v.Provider, v.VoiceID, v.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("create audio version: %w", err)
	}
	return created, nil
}

// MarkReady records a finished synthesis on an audio version.
func (s *AudioStore) MarkReady(ctx context.Context, id uuid.UUID, url string, durationSeconds int, fileSize int64) (*models.AudioVersion, error) {
	v, err := scanAudio(s.db.QueryRowContext(ctx, `
		UPDATE audio_versions
		SET status = 'ready', url = $2, duration_seconds = $3, file_size = $4,
		    error_message = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING `+audioColumns,
		id, url, durationSeconds, fileSize,
	))
	if err != nil {
		return nil, fmt.Errorf("mark audio ready: %w", err)
	}
	return v, nil
}

// MarkError records a failed synthesis on an audio version.
func (s *AudioStore) MarkError(ctx context.Context, id uuid.UUID, message string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE audio_versions
		SET status = 'error', error_message = $2, updated_at = NOW()
		WHERE id = $1
	`, id, message)
	if err != nil {
		return fmt.Errorf("mark audio error: %w", err)
	}
	return nil
}
