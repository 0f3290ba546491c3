// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memstore provides in-memory implementations of the store
// interfaces. It backs the unit tests of the publish pipeline and the
// memory store driver used for local development without PostgreSQL.
// Every method returns copies, so callers can never alias stored state.
package memstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"brandnet/internal/models"
	"brandnet/internal/store"
)

// Store holds every table in memory. All methods are safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	items       map[uuid.UUID]*models.ContentItem
	audio       map[uuid.UUID]*models.AudioVersion
	newsletters map[models.Brand]*models.NewsletterSettings
	subscribers []*models.Subscriber
	campaigns   map[uuid.UUID]*models.NewsletterCampaign
	social      map[socialKey]*models.SocialMediaSettings
	shareLog    []models.SocialShareLogEntry
	effectLog   []store.EffectLogEntry

	// FailInsertFor makes Insert fail for the given brands.
	FailInsertFor map[models.Brand]error
}

type socialKey struct {
	brand    models.Brand
	platform models.Platform
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		items:         make(map[uuid.UUID]*models.ContentItem),
		audio:         make(map[uuid.UUID]*models.AudioVersion),
		newsletters:   make(map[models.Brand]*models.NewsletterSettings),
		campaigns:     make(map[uuid.UUID]*models.NewsletterCampaign),
		social:        make(map[socialKey]*models.SocialMediaSettings),
		FailInsertFor: make(map[models.Brand]error),
	}
}

func cloneItem(c *models.ContentItem) *models.ContentItem {
	out := c.Clone()
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.CrossPostedTo == nil {
		out.CrossPostedTo = []uuid.UUID{}
	}
	return out
}

// --- content items ---

// FindByID returns an item by id, or nil.
func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(c), nil
}

// FindPublishedBySlug returns a published item of a brand by slug, or nil.
func (s *Store) FindPublishedBySlug(_ context.Context, brand models.Brand, slug string) (*models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.items {
		if c.Brand == brand && c.Slug == slug && c.IsPublished() {
			return cloneItem(c), nil
		}
	}
	return nil, nil
}

// Insert stores a new item. Slugs are unique per brand.
func (s *Store) Insert(_ context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.FailInsertFor[c.Brand]; err != nil {
		return nil, err
	}
	for _, existing := range s.items {
		if existing.Brand == c.Brand && existing.Slug == c.Slug {
			return nil, fmt.Errorf("insert content item %s/%s: %w", c.Brand, c.Slug, store.ErrDuplicateSlug)
		}
	}

	created := cloneItem(c)
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	now := time.Now()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.items[created.ID] = created
	return cloneItem(created), nil
}

// Update applies a partial patch. Metadata keys are merged.
func (s *Store) Update(_ context.Context, id uuid.UUID, patch models.ItemPatch) (*models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	if len(patch.Metadata) > 0 {
		if c.Metadata == nil {
			c.Metadata = map[string]any{}
		}
		maps.Copy(c.Metadata, patch.Metadata)
	}
	if patch.CrossPostedTo != nil {
		c.CrossPostedTo = slices.Clone(patch.CrossPostedTo)
	}
	if !patch.IsEmpty() {
		c.UpdatedAt = time.Now()
	}
	return cloneItem(c), nil
}

// Publish moves an item to published unless it already is.
func (s *Store) Publish(_ context.Context, id uuid.UUID, at time.Time) (*models.ContentItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.items[id]
	if !ok {
		return nil, false, nil
	}
	if c.IsPublished() {
		return cloneItem(c), false, nil
	}
	c.Status = models.ContentStatusPublished
	if c.PublishedAt == nil {
		c.PublishedAt = &at
	}
	c.UpdatedAt = time.Now()
	return cloneItem(c), true, nil
}

// Items returns every stored item of a brand.
func (s *Store) Items(brand models.Brand) []*models.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.ContentItem
	for _, c := range s.items {
		if c.Brand == brand {
			out = append(out, cloneItem(c))
		}
	}
	return out
}

// --- audio versions ---

// FindReady returns the ready audio version of an article, or nil.
func (s *Store) FindReady(_ context.Context, articleID uuid.UUID) (*models.AudioVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.audio {
		if v.ArticleID == articleID && v.Status == models.AudioStatusReady {
			out := *v
			return &out, nil
		}
	}
	return nil, nil
}

// Create stores a new audio version.
func (s *Store) Create(_ context.Context, v *models.AudioVersion) (*models.AudioVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := *v
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.audio[created.ID] = &created
	out := created
	return &out, nil
}

// MarkReady records a finished synthesis. Only one version per article
// may be ready.
func (s *Store) MarkReady(_ context.Context, id uuid.UUID, url string, durationSeconds int, fileSize int64) (*models.AudioVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.audio[id]
	if !ok {
		return nil, fmt.Errorf("mark audio ready: version %s not found", id)
	}
	for _, other := range s.audio {
		if other.ID != id && other.ArticleID == v.ArticleID && other.Status == models.AudioStatusReady {
			return nil, fmt.Errorf("mark audio ready: article %s already has a ready version", v.ArticleID)
		}
	}
	v.Status = models.AudioStatusReady
	v.URL = &url
	v.DurationSeconds = durationSeconds
	v.FileSize = fileSize
	v.ErrorMessage = nil
	v.UpdatedAt = time.Now()
	out := *v
	return &out, nil
}

// MarkError records a failed synthesis.
func (s *Store) MarkError(_ context.Context, id uuid.UUID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.audio[id]
	if !ok {
		return fmt.Errorf("mark audio error: version %s not found", id)
	}
	v.Status = models.AudioStatusError
	v.ErrorMessage = &message
	v.UpdatedAt = time.Now()
	return nil
}

// AudioVersions returns every audio version of an article.
func (s *Store) AudioVersions(articleID uuid.UUID) []models.AudioVersion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AudioVersion
	for _, v := range s.audio {
		if v.ArticleID == articleID {
			out = append(out, *v)
		}
	}
	return out
}

// --- newsletter ---

// Settings returns the newsletter settings of a brand, or nil.
func (s *Store) Settings(_ context.Context, brand models.Brand) (*models.NewsletterSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns, ok := s.newsletters[brand]
	if !ok {
		return nil, nil
	}
	out := *ns
	return &out, nil
}

// UpsertSettings creates or replaces the newsletter settings of a brand.
func (s *Store) UpsertSettings(_ context.Context, ns *models.NewsletterSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *ns
	stored.UpdatedAt = time.Now()
	s.newsletters[ns.Brand] = &stored
	return nil
}

// AddSubscriber stores an active subscriber, reactivating an existing one
// with the same email.
func (s *Store) AddSubscriber(_ context.Context, brand models.Brand, email string, name *string) (*models.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.subscribers {
		if existing.Brand == brand && existing.Email == email {
			existing.IsActive = true
			if name != nil {
				existing.Name = name
			}
			out := *existing
			return &out, nil
		}
	}
	sub := &models.Subscriber{
		ID:               uuid.New(),
		Brand:            brand,
		Email:            email,
		Name:             name,
		IsActive:         true,
		UnsubscribeToken: uuid.NewString(),
		CreatedAt:        time.Now(),
	}
	s.subscribers = append(s.subscribers, sub)
	out := *sub
	return &out, nil
}

// Deactivate marks a subscriber inactive.
func (s *Store) Deactivate(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscribers {
		if sub.ID == id {
			sub.IsActive = false
		}
	}
}

// ActiveSubscribers returns the active subscribers of a brand.
func (s *Store) ActiveSubscribers(_ context.Context, brand models.Brand) ([]models.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Subscriber
	for _, sub := range s.subscribers {
		if sub.Brand == brand && sub.IsActive {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func cloneCampaign(c *models.NewsletterCampaign) *models.NewsletterCampaign {
	out := *c
	out.ArticleIDs = slices.Clone(c.ArticleIDs)
	return &out
}

// CreateCampaign stores a draft campaign.
func (s *Store) CreateCampaign(_ context.Context, brand models.Brand, subject string, articleIDs []uuid.UUID) (*models.NewsletterCampaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	c := &models.NewsletterCampaign{
		ID:         uuid.New(),
		Brand:      brand,
		Subject:    subject,
		ArticleIDs: slices.Clone(articleIDs),
		Status:     models.CampaignStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.campaigns[c.ID] = c
	return cloneCampaign(c), nil
}

// FindCampaign returns a campaign by id, or nil.
func (s *Store) FindCampaign(_ context.Context, id uuid.UUID) (*models.NewsletterCampaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, nil
	}
	return cloneCampaign(c), nil
}

func (s *Store) updateCampaign(id uuid.UUID, fn func(c *models.NewsletterCampaign)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return fmt.Errorf("campaign %s not found", id)
	}
	fn(c)
	c.UpdatedAt = time.Now()
	return nil
}

// MarkCampaignSending moves a campaign to sending.
func (s *Store) MarkCampaignSending(_ context.Context, id uuid.UUID) error {
	return s.updateCampaign(id, func(c *models.NewsletterCampaign) {
		c.Status = models.CampaignStatusSending
	})
}

// MarkCampaignSent records the final delivery count of a campaign.
func (s *Store) MarkCampaignSent(_ context.Context, id uuid.UUID, sentCount int, at time.Time) error {
	return s.updateCampaign(id, func(c *models.NewsletterCampaign) {
		c.Status = models.CampaignStatusSent
		c.SentCount = sentCount
		c.SentAt = &at
		c.ErrorMessage = nil
	})
}

// MarkCampaignFailed records a batch-level failure.
func (s *Store) MarkCampaignFailed(_ context.Context, id uuid.UUID, message string) error {
	return s.updateCampaign(id, func(c *models.NewsletterCampaign) {
		c.Status = models.CampaignStatusFailed
		c.ErrorMessage = &message
	})
}

// Campaigns returns every campaign of a brand.
func (s *Store) Campaigns(brand models.Brand) []*models.NewsletterCampaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.NewsletterCampaign
	for _, c := range s.campaigns {
		if c.Brand == brand {
			out = append(out, cloneCampaign(c))
		}
	}
	return out
}
