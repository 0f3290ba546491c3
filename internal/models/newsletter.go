// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CampaignStatus is the delivery state of a newsletter campaign.
type CampaignStatus string

const (
	CampaignStatusDraft   CampaignStatus = "draft"
	CampaignStatusSending CampaignStatus = "sending"
	CampaignStatusSent    CampaignStatus = "sent"
	CampaignStatusFailed  CampaignStatus = "failed"
)

// Email provider names accepted in NewsletterSettings.Provider.
const (
	EmailProviderResend   = "resend"
	EmailProviderSendGrid = "sendgrid"
	EmailProviderNone     = "none"
)

// NewsletterSettings holds one brand's newsletter configuration.
type NewsletterSettings struct {
	Brand             Brand     `json:"brand"`
	Enabled           bool      `json:"enabled"`
	AutoSendOnPublish bool      `json:"auto_send_on_publish"`
	Provider          string    `json:"provider"`
	APIKey            string    `json:"-"`
	FromEmail         string    `json:"from_email"`
	FromName          string    `json:"from_name"`
	ReplyTo           *string   `json:"reply_to,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Subscriber is a newsletter recipient of one brand.
type Subscriber struct {
	ID               uuid.UUID `json:"id"`
	Brand            Brand     `json:"brand"`
	Email            string    `json:"email"`
	Name             *string   `json:"name,omitempty"`
	IsActive         bool      `json:"is_active"`
	UnsubscribeToken string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewsletterCampaign is one newsletter send covering one or more articles.
type NewsletterCampaign struct {
	ID           uuid.UUID      `json:"id"`
	Brand        Brand          `json:"brand"`
	Subject      string         `json:"subject"`
	ArticleIDs   []uuid.UUID    `json:"article_ids"`
	Status       CampaignStatus `json:"status"`
	SentCount    int            `json:"sent_count"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
