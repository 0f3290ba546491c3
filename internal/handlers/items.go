// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"brandnet/internal/models"
	"brandnet/internal/publish"
	"brandnet/internal/slug"
	"brandnet/internal/store"
)

// wordsPerMinute is the reading speed used for reading_time.
const wordsPerMinute = 200

// effectLogLimit caps the entries returned by the effect log endpoint.
const effectLogLimit = 50

// ItemStore loads and creates content items.
type ItemStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
	Insert(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error)
}

// Publisher runs the publish transition and its effects.
type Publisher interface {
	Publish(ctx context.Context, id uuid.UUID, opts publish.Options) (*publish.Result, error)
}

// EffectLogReader lists recorded effect outcomes.
type EffectLogReader interface {
	RecentEntries(ctx context.Context, itemID uuid.UUID, limit int) ([]store.EffectLogEntry, error)
}

// Items groups the content item endpoints.
type Items struct {
	items     ItemStore
	publisher Publisher
	effectLog EffectLogReader
}

// NewItems creates the Items handler group.
func NewItems(items ItemStore, publisher Publisher, effectLog EffectLogReader) *Items {
	return &Items{items: items, publisher: publisher, effectLog: effectLog}
}

type createItemRequest struct {
	Brand         models.Brand         `json:"brand"`
	Status        models.ContentStatus `json:"status"`
	Title         string               `json:"title"`
	Slug          string               `json:"slug"`
	Body          string               `json:"body"`
	Excerpt       string               `json:"excerpt"`
	CoverImage    string               `json:"cover_image"`
	Tags          []string             `json:"tags"`
	AuthorID      uuid.UUID            `json:"author_id"`
	AuthorName    string               `json:"author_name"`
	Metadata      map[string]any       `json:"metadata"`
	SourceURL     string               `json:"source_url"`
	IsAIGenerated bool                 `json:"is_ai_generated"`
}

// Create stores a new draft item.
func (h *Items) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if !req.Brand.Valid() {
		writeError(w, http.StatusBadRequest, codeBadRequest, "unknown brand")
		return
	}
	switch req.Status {
	case "":
		req.Status = models.ContentStatusDraft
	case models.ContentStatusDraft, models.ContentStatusPendingReview:
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, "items are created as draft or pending_review; use the publish endpoint")
		return
	}
	if msg := validateContent(req.Title, req.Slug, req.Body); msg != "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, msg)
		return
	}
	if msg := validateExtras(req.Excerpt, req.CoverImage, req.Tags); msg != "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, msg)
		return
	}

	s := req.Slug
	if s == "" {
		s = req.Title
	}
	s = slug.Generate(s)
	if s == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "slug is empty after normalisation")
		return
	}

	// Derived fields are owned by the publish flow.
	delete(req.Metadata, models.MetaOGImageURL)

	created, err := h.items.Insert(r.Context(), &models.ContentItem{
		Brand:         req.Brand,
		Status:        req.Status,
		Title:         strings.TrimSpace(req.Title),
		Slug:          s,
		Body:          req.Body,
		Excerpt:       models.StrPtr(req.Excerpt),
		CoverImage:    models.StrPtr(req.CoverImage),
		Tags:          req.Tags,
		AuthorID:      req.AuthorID,
		AuthorName:    req.AuthorName,
		ReadingTime:   readingTime(req.Body),
		Metadata:      req.Metadata,
		SourceURL:     models.StrPtr(req.SourceURL),
		IsAIGenerated: req.IsAIGenerated,
	})
	if errors.Is(err, store.ErrDuplicateSlug) {
		writeError(w, http.StatusConflict, codeConflict, "slug already used in this brand")
		return
	}
	if err != nil {
		writeServiceError(w, "create item", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get returns one item.
func (h *Items) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.items.FindByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "load item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "not_found", "item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Publish publishes an item. The body is optional:
// {"cross_post_to": [...], "share_to": [...]}. The response is the item
// as committed, with the ids of its cross-posts.
func (h *Items) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var opts publish.Options
	if !decodeJSON(w, r, &opts, true) {
		return
	}

	res, err := h.publisher.Publish(r.Context(), id, opts)
	switch {
	case errors.Is(err, publish.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "item not found")
		return
	case err != nil:
		writeServiceError(w, "publish", err)
		return
	}

	if res.AlreadyPublished {
		w.Header().Set("X-Already-Published", "true")
	}
	writeJSON(w, http.StatusOK, res.Item)
}

// Effects lists the recorded effect outcomes of an item, newest first.
func (h *Items) Effects(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	entries, err := h.effectLog.RecentEntries(r.Context(), id, effectLogLimit)
	if err != nil {
		writeServiceError(w, "list effect log", err)
		return
	}
	if entries == nil {
		entries = []store.EffectLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"effects": entries})
}

// readingTime estimates reading minutes, at least one.
func readingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
