// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"brandnet/internal/audio"
	"brandnet/internal/models"
	"brandnet/internal/newsletter"
	"brandnet/internal/social"
)

// AudioGenerator creates audio versions of articles.
type AudioGenerator interface {
	Generate(ctx context.Context, articleID uuid.UUID) (*audio.Result, error)
}

// NewsletterDispatcher sends the publish newsletter of an article.
type NewsletterDispatcher interface {
	DispatchByID(ctx context.Context, articleID uuid.UUID) (*newsletter.AutoResult, error)
}

// CampaignSender sends an existing campaign.
type CampaignSender interface {
	Send(ctx context.Context, campaignID uuid.UUID) (*newsletter.SendResult, error)
}

// SocialSharer posts an article on social platforms.
type SocialSharer interface {
	Share(ctx context.Context, req social.Request) (*social.Result, error)
}

// Effects groups the effect endpoints. They are what the publish flow
// calls when effects run on another instance, and can be called directly
// to re-run an effect by hand.
type Effects struct {
	audio      AudioGenerator
	newsletter NewsletterDispatcher
	campaigns  CampaignSender
	social     SocialSharer
}

// NewEffects creates the Effects handler group.
func NewEffects(a AudioGenerator, n NewsletterDispatcher, c CampaignSender, s SocialSharer) *Effects {
	return &Effects{audio: a, newsletter: n, campaigns: c, social: s}
}

// Audio handles POST {"articleId"}.
func (h *Effects) Audio(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArticleID uuid.UUID `json:"articleId"`
	}
	if !decodeJSON(w, r, &req, false) || !requireID(w, req.ArticleID, "articleId") {
		return
	}

	res, err := h.audio.Generate(r.Context(), req.ArticleID)
	if err != nil {
		writeServiceError(w, "audio generation", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Newsletter handles POST {"article_id"}.
func (h *Effects) Newsletter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArticleID uuid.UUID `json:"article_id"`
	}
	if !decodeJSON(w, r, &req, false) || !requireID(w, req.ArticleID, "article_id") {
		return
	}

	res, err := h.newsletter.DispatchByID(r.Context(), req.ArticleID)
	if err != nil {
		writeServiceError(w, "newsletter dispatch", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Social handles POST {"article_id", "platforms", "brand"}.
func (h *Effects) Social(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArticleID uuid.UUID         `json:"article_id"`
		Platforms []models.Platform `json:"platforms"`
		Brand     models.Brand      `json:"brand"`
	}
	if !decodeJSON(w, r, &req, false) || !requireID(w, req.ArticleID, "article_id") {
		return
	}
	for _, p := range req.Platforms {
		if !p.Valid() {
			writeError(w, http.StatusBadRequest, codeBadRequest, "unknown platform "+string(p))
			return
		}
	}

	res, err := h.social.Share(r.Context(), social.Request{
		ArticleID: req.ArticleID,
		Platforms: req.Platforms,
		Brand:     req.Brand,
	})
	if err != nil {
		writeServiceError(w, "social fan-out", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SendCampaign handles POST /api/newsletter/campaigns/{id}/send.
func (h *Effects) SendCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.campaigns.Send(r.Context(), id)
	if err != nil {
		writeServiceError(w, "campaign send", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
