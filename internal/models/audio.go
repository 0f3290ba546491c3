// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// AudioStatus is the lifecycle state of a synthesized audio version.
type AudioStatus string

const (
	AudioStatusProcessing AudioStatus = "processing"
	AudioStatusReady      AudioStatus = "ready"
	AudioStatusError      AudioStatus = "error"
)

// AudioVersion is a text-to-speech rendition of an article. At most one
// ready version exists per article.
type AudioVersion struct {
	ID              uuid.UUID   `json:"id"`
	ArticleID       uuid.UUID   `json:"article_id"`
	Provider        string      `json:"provider"`
	VoiceID         string      `json:"voice_id"`
	Status          AudioStatus `json:"status"`
	URL             *string     `json:"url,omitempty"`
	DurationSeconds int         `json:"duration_seconds"`
	FileSize        int64       `json:"file_size"`
	ErrorMessage    *string     `json:"error_message,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
