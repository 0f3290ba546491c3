// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"brandnet/internal/models"
)

// PublishedFinder loads published items by brand and slug.
type PublishedFinder interface {
	FindPublishedBySlug(ctx context.Context, brand models.Brand, slug string) (*models.ContentItem, error)
}

// SubscriberStore adds newsletter subscribers.
type SubscriberStore interface {
	AddSubscriber(ctx context.Context, brand models.Brand, email string, name *string) (*models.Subscriber, error)
}

// PageCache caches encoded public responses.
type PageCache interface {
	Get(ctx context.Context, brand models.Brand, slug string) ([]byte, bool)
	Set(ctx context.Context, brand models.Brand, slug string, body []byte)
}

// Public groups the unauthenticated endpoints. It checks the Valkey page
// cache before loading an article, and stores the encoded result on miss.
type Public struct {
	items       PublishedFinder
	subscribers SubscriberStore
	pageCache   PageCache
}

// NewPublic creates the Public handler group. pageCache may be nil when
// Valkey is not configured.
func NewPublic(items PublishedFinder, subscribers SubscriberStore, pageCache PageCache) *Public {
	return &Public{items: items, subscribers: subscribers, pageCache: pageCache}
}

// Article serves a published item of a brand.
func (p *Public) Article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b := models.Brand(chi.URLParam(r, "brand"))
	slug := chi.URLParam(r, "slug")
	if !b.Valid() {
		writeError(w, http.StatusNotFound, "not_found", "unknown brand")
		return
	}

	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(ctx, b, slug); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}
	}

	item, err := p.items.FindPublishedBySlug(ctx, b, slug)
	if err != nil {
		writeServiceError(w, "load public article", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "not_found", "article not found")
		return
	}

	body, err := json.Marshal(item)
	if err != nil {
		slog.Error("encode public article failed", "brand", b, "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}
	if p.pageCache != nil {
		p.pageCache.Set(ctx, b, slug, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}

// Subscribe adds a newsletter subscriber to a brand.
func (p *Public) Subscribe(w http.ResponseWriter, r *http.Request) {
	b := models.Brand(chi.URLParam(r, "brand"))
	if !b.Valid() {
		writeError(w, http.StatusNotFound, "not_found", "unknown brand")
		return
	}

	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if !decodeJSON(w, r, &req, false) {
		return
	}
	email, msg := validateSubscriber(req.Email, req.Name)
	if msg != "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, msg)
		return
	}

	sub, err := p.subscribers.AddSubscriber(r.Context(), b, email, models.StrPtr(req.Name))
	if err != nil {
		writeServiceError(w, "add subscriber", err)
		return
	}
	slog.Info("newsletter subscriber added", "brand", b, "subscriber_id", sub.ID)
	writeJSON(w, http.StatusCreated, sub)
}
