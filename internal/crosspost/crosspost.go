// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package crosspost replicates a published item into sibling brands of the
// network. Each target brand is attempted independently; a failed replica
// never prevents the others from being created.
package crosspost

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"brandnet/internal/brand"
	"brandnet/internal/compose"
	"brandnet/internal/models"
	"brandnet/internal/slug"
)

// DefaultConcurrency bounds the number of replicas written at once.
const DefaultConcurrency = 4

// Store is the content gateway the replicator writes through.
type Store interface {
	Insert(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error)
	Update(ctx context.Context, id uuid.UUID, patch models.ItemPatch) (*models.ContentItem, error)
}

// TargetResult is the outcome of one target brand.
type TargetResult struct {
	Brand models.Brand `json:"brand"`
	ID    *uuid.UUID   `json:"id,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Result is the outcome of a replication run.
type Result struct {
	// Source is the source item after its cross_posted_to list was
	// extended. Nil when nothing was created.
	Source  *models.ContentItem `json:"-"`
	Created []uuid.UUID         `json:"created"`
	Targets []TargetResult      `json:"targets"`
}

// Replicator creates cross-posted replicas.
type Replicator struct {
	store       Store
	brands      *brand.Table
	concurrency int
	now         func() time.Time
}

// New creates a Replicator. A concurrency below one uses DefaultConcurrency.
func New(store Store, brands *brand.Table, concurrency int) *Replicator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Replicator{store: store, brands: brands, concurrency: concurrency, now: time.Now}
}

// Targets filters a requested brand list down to the brands that will be
// replicated to: known brands other than the source's own, each once, in
// request order.
func Targets(source models.Brand, requested []models.Brand) []models.Brand {
	var out []models.Brand
	for _, b := range requested {
		if b == source || !b.Valid() || slices.Contains(out, b) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Replicate creates one published replica of source per target brand and
// appends the ids of the created replicas to the source's cross_posted_to
// list. Per-target failures are reported in the result. The returned error
// is only set when the write-back onto the source fails.
func (r *Replicator) Replicate(ctx context.Context, source *models.ContentItem, requested []models.Brand) (*Result, error) {
	targets := Targets(source.Brand, requested)
	if skipped := len(requested) - len(targets); skipped > 0 {
		slog.Debug("cross-post targets skipped", "item_id", source.ID, "requested", requested, "skipped", skipped)
	}

	res := &Result{Targets: make([]TargetResult, len(targets))}
	if len(targets) == 0 {
		return res, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, target := range targets {
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("cross-post panicked", "item_id", source.ID, "target_brand", target, "error", rec)
					res.Targets[i] = TargetResult{Brand: target, Error: fmt.Sprintf("panic: %v", rec)}
				}
			}()
			res.Targets[i] = r.replicate(gctx, source, target)
			return nil
		})
	}
	g.Wait()

	for _, t := range res.Targets {
		if t.ID != nil {
			res.Created = append(res.Created, *t.ID)
		}
	}
	if len(res.Created) == 0 {
		return res, nil
	}

	siblings := slices.Clone(source.CrossPostedTo)
	for _, id := range res.Created {
		if !slices.Contains(siblings, id) {
			siblings = append(siblings, id)
		}
	}
	updated, err := r.store.Update(ctx, source.ID, models.ItemPatch{CrossPostedTo: siblings})
	if err != nil {
		return res, fmt.Errorf("record cross-posts on source: %w", err)
	}
	if updated == nil {
		return res, fmt.Errorf("record cross-posts on source: item %s no longer exists", source.ID)
	}
	res.Source = updated
	return res, nil
}

func (r *Replicator) replicate(ctx context.Context, source *models.ContentItem, target models.Brand) TargetResult {
	replica := r.Replica(source, target)
	created, err := r.store.Insert(ctx, replica)
	if err != nil {
		slog.Warn("cross-post failed",
			"item_id", source.ID,
			"target_brand", target,
			"error", err,
		)
		return TargetResult{Brand: target, Error: err.Error()}
	}

	slog.Info("cross-posted item",
		"item_id", source.ID,
		"target_brand", target,
		"replica_id", created.ID,
		"slug", created.Slug,
	)
	id := created.ID
	return TargetResult{Brand: target, ID: &id}
}

// Replica builds the item stored in the target brand for source.
func (r *Replicator) Replica(source *models.ContentItem, target models.Brand) *models.ContentItem {
	now := r.now()
	sourceProfile := r.brands.MustLookup(source.Brand)

	tags := slices.Clone(source.Tags)
	if !slices.Contains(tags, models.CrossPostedTag) {
		tags = append(tags, models.CrossPostedTag)
	}

	metadata := maps.Clone(source.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	delete(metadata, models.MetaOGImageURL)
	metadata[models.MetaCrossPostedFromBrand] = string(source.Brand)
	metadata[models.MetaCrossPostedFromTitle] = source.Title

	sourceID := source.ID
	replica := &models.ContentItem{
		Brand:           target,
		Status:          models.ContentStatusPublished,
		Title:           source.Title,
		Slug:            slug.CrossPost(source.Slug, string(target)),
		Body:            source.Body,
		Excerpt:         source.Excerpt,
		CoverImage:      source.CoverImage,
		Tags:            tags,
		AuthorID:        source.AuthorID,
		AuthorName:      source.AuthorName,
		ReadingTime:     source.ReadingTime,
		Metadata:        metadata,
		CrossPostedTo:   []uuid.UUID{},
		CrossPostedFrom: &sourceID,
		SourceURL:       models.StrPtr(sourceProfile.ArticleURL(source.Slug)),
		IsAIGenerated:   source.IsAIGenerated,
		PublishedAt:     &now,
	}
	replica.Metadata[models.MetaOGImageURL] = compose.OGImageURL(r.brands.MustLookup(target), replica)
	return replica
}
