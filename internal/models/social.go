// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform is a social network the fan-out can post to.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformThreads   Platform = "threads"
)

// Platforms lists every supported platform.
var Platforms = []Platform{PlatformTwitter, PlatformFacebook, PlatformLinkedIn, PlatformInstagram, PlatformThreads}

// Valid reports whether p is a supported platform.
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// ShareStatus is the outcome of one share attempt.
type ShareStatus string

const (
	ShareStatusSuccess ShareStatus = "success"
	ShareStatusFailed  ShareStatus = "failed"
)

// SocialMediaSettings configures one platform for one brand.
type SocialMediaSettings struct {
	Brand              Brand             `json:"brand"`
	Platform           Platform          `json:"platform"`
	Enabled            bool              `json:"enabled"`
	AutoShareOnPublish bool              `json:"auto_share_on_publish"`
	DefaultTemplate    string            `json:"default_template"`
	DefaultHashtags    []string          `json:"default_hashtags"`
	Credentials        map[string]string `json:"-"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// SocialShareLogEntry is one append-only row of the share audit trail.
type SocialShareLogEntry struct {
	ID           uuid.UUID   `json:"id"`
	ArticleID    uuid.UUID   `json:"article_id"`
	Platform     Platform    `json:"platform"`
	Brand        Brand       `json:"brand"`
	Status       ShareStatus `json:"status"`
	PostURL      *string     `json:"post_url,omitempty"`
	ErrorMessage *string     `json:"error_message,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
