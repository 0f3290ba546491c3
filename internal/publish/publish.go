// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package publish owns the publish transition of a content item and the
// side effects that follow it. Only the transition itself can fail a
// publish; every effect reports an effect.Outcome that is logged and
// recorded but never returned as an error.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"brandnet/internal/brand"
	"brandnet/internal/compose"
	"brandnet/internal/crosspost"
	"brandnet/internal/effect"
	"brandnet/internal/effects"
	"brandnet/internal/models"
	"brandnet/internal/telemetry"
)

var (
	// ErrNotFound is returned when the item to publish does not exist.
	ErrNotFound = errors.New("content item not found")

	// ErrPrimaryTransition wraps failures of the status transition write.
	ErrPrimaryTransition = errors.New("publish transition failed")
)

// Options are the optional parameters of a publish call.
type Options struct {
	CrossPostTo []models.Brand    `json:"cross_post_to"`
	ShareTo     []models.Platform `json:"share_to"`
}

// Result is the response of a publish call.
type Result struct {
	Item *models.ContentItem `json:"item"`

	// AlreadyPublished is set when the item was published before this
	// call. Nothing was written and no effects were dispatched.
	AlreadyPublished bool `json:"already_published"`

	CrossPost *crosspost.Result `json:"cross_post,omitempty"`

	// Handles of the detached effects, in submission order.
	Handles []*effect.Handle `json:"-"`
}

// Store is the content gateway the orchestrator writes through.
type Store interface {
	Publish(ctx context.Context, id uuid.UUID, at time.Time) (*models.ContentItem, bool, error)
	Update(ctx context.Context, id uuid.UUID, patch models.ItemPatch) (*models.ContentItem, error)
}

// Replicator creates cross-posts of a published item.
type Replicator interface {
	Replicate(ctx context.Context, source *models.ContentItem, requested []models.Brand) (*crosspost.Result, error)
}

// Runner executes detached work.
type Runner interface {
	Submit(ctx context.Context, name string, task effect.Task, onDone func(effect.Outcome)) *effect.Handle
}

// EffectLog records effect outcomes per item.
type EffectLog interface {
	Log(ctx context.Context, itemID uuid.UUID, o effect.Outcome)
}

// PageCache drops cached public pages.
type PageCache interface {
	InvalidateItem(ctx context.Context, brand models.Brand, slug string)
}

// Deps are the collaborators of an Orchestrator. EffectLog and PageCache
// are optional.
type Deps struct {
	Store      Store
	Replicator Replicator
	Effects    effects.Dispatcher
	Runner     Runner
	Brands     *brand.Table
	EffectLog  EffectLog
	PageCache  PageCache
}

// Orchestrator publishes items and fans out their effects.
type Orchestrator struct {
	store      Store
	replicator Replicator
	effects    effects.Dispatcher
	runner     Runner
	brands     *brand.Table
	log        EffectLog
	cache      PageCache
	now        func() time.Time
}

// New creates an Orchestrator.
func New(d Deps) *Orchestrator {
	return &Orchestrator{
		store:      d.Store,
		replicator: d.Replicator,
		effects:    d.Effects,
		runner:     d.Runner,
		brands:     d.Brands,
		log:        d.EffectLog,
		cache:      d.PageCache,
		now:        time.Now,
	}
}

// Publish moves an item to published and triggers its effects:
//
//   - the OG image URL is written into the item metadata
//   - audio, newsletter and social effects are submitted to the runner
//     and not waited for
//   - cross-posts are created before returning, and their ids are part of
//     the returned item
//
// Publishing an item that is already published changes nothing and
// dispatches no effects.
func (o *Orchestrator) Publish(ctx context.Context, id uuid.UUID, opts Options) (*Result, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "publish",
		trace.WithAttributes(attribute.String("item.id", id.String())),
	)
	defer span.End()

	item, changed, err := o.store.Publish(ctx, id, o.now().UTC())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition failed")
		return nil, fmt.Errorf("%w: %w", ErrPrimaryTransition, err)
	}
	if item == nil {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	span.SetAttributes(attribute.String("item.brand", string(item.Brand)))

	if !changed {
		slog.Info("item already published, effects not dispatched",
			"item_id", item.ID,
			"brand", item.Brand,
		)
		span.SetAttributes(attribute.Bool("publish.already_published", true))
		return &Result{Item: item, AlreadyPublished: true}, nil
	}

	slog.Info("item published", "item_id", item.ID, "brand", item.Brand, "slug", item.Slug)

	item = o.writeOGImage(ctx, item)

	res := &Result{Item: item}

	snapshot := item.Clone()
	res.Handles = append(res.Handles,
		o.detach(ctx, effects.NameAudio, snapshot.ID, func(ctx context.Context) effect.Outcome {
			return o.effects.Audio(ctx, snapshot)
		}),
		o.detach(ctx, effects.NameNewsletter, snapshot.ID, func(ctx context.Context) effect.Outcome {
			return o.effects.Newsletter(ctx, snapshot)
		}),
	)

	if len(opts.CrossPostTo) > 0 {
		cp, outcome := o.crossPost(ctx, item, opts.CrossPostTo)
		o.record(ctx, item.ID, outcome)
		res.CrossPost = cp
		if cp != nil && cp.Source != nil {
			res.Item = cp.Source
		}
	}

	// Cached pages are dropped once every synchronous write is done.
	if o.cache != nil {
		o.cache.InvalidateItem(ctx, res.Item.Brand, res.Item.Slug)
	}

	platforms := append([]models.Platform(nil), opts.ShareTo...)
	res.Handles = append(res.Handles,
		o.detach(ctx, effects.NameSocial, snapshot.ID, func(ctx context.Context) effect.Outcome {
			return o.effects.Social(ctx, snapshot, platforms)
		}),
	)

	return res, nil
}

// writeOGImage stores the brand's OG image URL on the item. A failed write
// is recorded and the item is returned unchanged.
func (o *Orchestrator) writeOGImage(ctx context.Context, item *models.ContentItem) *models.ContentItem {
	profile, ok := o.brands.Lookup(item.Brand)
	if !ok {
		o.record(ctx, item.ID, effect.Failf(effects.NameOGImage, effect.KindNotConfigured, "unknown brand %q", item.Brand))
		return item
	}

	url := compose.OGImageURL(profile, item)
	updated, err := o.store.Update(ctx, item.ID, models.ItemPatch{
		Metadata: map[string]any{models.MetaOGImageURL: url},
	})
	if err != nil {
		o.record(ctx, item.ID, effect.Failf(effects.NameOGImage, effect.KindStorage, "%v", err))
		return item
	}
	if updated == nil {
		o.record(ctx, item.ID, effect.Failf(effects.NameOGImage, effect.KindNotFound, "item disappeared before the OG image write"))
		return item
	}
	o.record(ctx, item.ID, effect.Ok(effects.NameOGImage, nil, url))
	return updated
}

func (o *Orchestrator) crossPost(ctx context.Context, item *models.ContentItem, targets []models.Brand) (res *crosspost.Result, outcome effect.Outcome) {
	ctx, span := telemetry.Tracer().Start(ctx, "effect."+effects.NameCrossPost)
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("cross-post panicked", "item_id", item.ID, "error", rec)
			res, outcome = nil, effect.Failf(effects.NameCrossPost, effect.KindPanic, "panic: %v", rec)
		}
	}()

	res, err := o.replicator.Replicate(ctx, item, targets)
	if err != nil {
		span.RecordError(err)
		return res, effect.Fail(effects.NameCrossPost, effect.WithKind(effect.KindStorage, err))
	}

	var failed int
	for _, t := range res.Targets {
		if t.ID == nil {
			failed++
		}
	}
	if failed > 0 {
		span.SetStatus(codes.Error, "targets failed")
		return res, effect.Failf(effects.NameCrossPost, effect.KindStorage, "%d of %d targets failed", failed, len(res.Targets))
	}
	return res, effect.Ok(effects.NameCrossPost, res, fmt.Sprintf("created %d replicas", len(res.Created)))
}

// detach submits task to the runner. The outcome is logged and recorded
// when the task finishes.
func (o *Orchestrator) detach(ctx context.Context, name string, itemID uuid.UUID, task effect.Task) *effect.Handle {
	traced := func(ctx context.Context) effect.Outcome {
		ctx, span := telemetry.Tracer().Start(ctx, "effect."+name,
			trace.WithAttributes(attribute.String("item.id", itemID.String())),
		)
		defer span.End()

		out := task(ctx)
		if !out.OK && !out.Kind.Skip() {
			span.SetStatus(codes.Error, out.Detail)
		}
		return out
	}
	return o.runner.Submit(ctx, name, traced, func(out effect.Outcome) {
		o.record(context.WithoutCancel(ctx), itemID, out)
	})
}

// record logs an outcome and appends it to the effect log.
func (o *Orchestrator) record(ctx context.Context, itemID uuid.UUID, out effect.Outcome) {
	attrs := append([]any{"item_id", itemID}, out.LogAttrs()...)
	switch {
	case out.OK:
		slog.Info("publish effect finished", attrs...)
	case out.Kind.Skip():
		slog.Info("publish effect skipped", attrs...)
	default:
		slog.Warn("publish effect failed", attrs...)
	}
	if o.log != nil {
		o.log.Log(ctx, itemID, out)
	}
}
