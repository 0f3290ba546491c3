// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the domain types shared by the stores, the publish
// orchestrator and the effect dispatchers.
package models

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Brand identifies one property of the content network. Every content item
// lives in exactly one brand namespace.
type Brand string

const (
	BrandSauceWire     Brand = "saucewire"
	BrandSauceCaviar   Brand = "saucecaviar"
	BrandTrapGlow      Brand = "trapglow"
	BrandTrapFrequency Brand = "trapfrequency"
)

// Brands lists every brand of the network in display order.
var Brands = []Brand{BrandSauceWire, BrandSauceCaviar, BrandTrapGlow, BrandTrapFrequency}

// Valid reports whether b is one of the network brands.
func (b Brand) Valid() bool {
	for _, known := range Brands {
		if b == known {
			return true
		}
	}
	return false
}

// ContentStatus represents the editorial state of a content item.
type ContentStatus string

const (
	ContentStatusDraft         ContentStatus = "draft"
	ContentStatusPendingReview ContentStatus = "pending_review"
	ContentStatusPublished     ContentStatus = "published"
	ContentStatusArchived      ContentStatus = "archived"
)

// Metadata keys written by the publish pipeline.
const (
	MetaOGImageURL           = "og_image_url"
	MetaCategory             = "category"
	MetaCrossPostedFromBrand = "cross_posted_from_brand"
	MetaCrossPostedFromTitle = "cross_posted_from_title"
)

// CrossPostedTag marks replicas created by the cross-post replicator.
const CrossPostedTag = "cross-posted"

// ContentItem is an editorial unit (article) owned by one brand.
type ContentItem struct {
	ID              uuid.UUID      `json:"id"`
	Brand           Brand          `json:"brand"`
	Status          ContentStatus  `json:"status"`
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	Body            string         `json:"body"`
	Excerpt         *string        `json:"excerpt,omitempty"`
	CoverImage      *string        `json:"cover_image,omitempty"`
	Tags            []string       `json:"tags"`
	AuthorID        uuid.UUID      `json:"author_id"`
	AuthorName      string         `json:"author_name,omitempty"`
	ReadingTime     int            `json:"reading_time"`
	Metadata        map[string]any `json:"metadata"`
	CrossPostedTo   []uuid.UUID    `json:"cross_posted_to"`
	CrossPostedFrom *uuid.UUID     `json:"cross_posted_from,omitempty"`
	SourceURL       *string        `json:"source_url,omitempty"`
	IsAIGenerated   bool           `json:"is_ai_generated"`
	PublishedAt     *time.Time     `json:"published_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Clone returns a copy of c that shares no slices or maps with it.
func (c *ContentItem) Clone() *ContentItem {
	out := *c
	out.Tags = slices.Clone(c.Tags)
	out.CrossPostedTo = slices.Clone(c.CrossPostedTo)
	out.Metadata = maps.Clone(c.Metadata)
	return &out
}

// IsPublished returns true if the content item is in published status.
func (c *ContentItem) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// HasTag reports whether the item carries the given tag.
func (c *ContentItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MetaString returns a string metadata value, or "" when the key is missing
// or holds a non-string value.
func (c *ContentItem) MetaString(key string) string {
	if c.Metadata == nil {
		return ""
	}
	s, _ := c.Metadata[key].(string)
	return s
}

// ItemPatch is a partial update of a content item. Nil fields are left
// untouched. Metadata keys are merged into the stored map rather than
// replacing it. Status changes go through the store's Publish.
type ItemPatch struct {
	Metadata      map[string]any
	CrossPostedTo []uuid.UUID // nil = untouched, empty = clear
}

// IsEmpty reports whether the patch changes nothing.
func (p ItemPatch) IsEmpty() bool {
	return len(p.Metadata) == 0 && p.CrossPostedTo == nil
}

// StrPtr returns a pointer to s, or nil when s is empty.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
