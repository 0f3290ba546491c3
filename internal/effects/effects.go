// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package effects runs the detached publish effects (audio, newsletter and
// social) either in-process or against the effect endpoints of another
// instance. Both implementations report through effect.Outcome and never
// return errors.
package effects

import (
	"context"
	"fmt"

	"brandnet/internal/audio"
	"brandnet/internal/effect"
	"brandnet/internal/models"
	"brandnet/internal/newsletter"
	"brandnet/internal/social"
)

// Effect names used in outcomes, logs and the effect log.
const (
	NameOGImage    = "og_image"
	NameAudio      = "audio"
	NameNewsletter = "newsletter"
	NameCrossPost  = "crosspost"
	NameSocial     = "social"
)

// Dispatcher runs the detached effects of a published item.
type Dispatcher interface {
	Audio(ctx context.Context, item *models.ContentItem) effect.Outcome
	Newsletter(ctx context.Context, item *models.ContentItem) effect.Outcome
	Social(ctx context.Context, item *models.ContentItem, platforms []models.Platform) effect.Outcome
}

// Local runs the effects in-process.
type Local struct {
	audio      *audio.Trigger
	newsletter *newsletter.AutoDispatcher
	social     *social.Fanout
}

// NewLocal creates an in-process Dispatcher.
func NewLocal(a *audio.Trigger, n *newsletter.AutoDispatcher, s *social.Fanout) *Local {
	return &Local{audio: a, newsletter: n, social: s}
}

// Audio generates the audio version of item.
func (l *Local) Audio(ctx context.Context, item *models.ContentItem) effect.Outcome {
	res, err := l.audio.Generate(ctx, item.ID)
	if err != nil {
		return effect.Fail(NameAudio, err)
	}
	return effect.Ok(NameAudio, res, res.Message)
}

// Newsletter auto-dispatches item to the brand's subscribers.
func (l *Local) Newsletter(ctx context.Context, item *models.ContentItem) effect.Outcome {
	res, err := l.newsletter.Dispatch(ctx, item)
	if err != nil {
		return effect.Fail(NameNewsletter, err)
	}
	if res.Skipped != "" {
		return effect.Ok(NameNewsletter, res, "skipped: "+res.Skipped)
	}
	return effect.Ok(NameNewsletter, res, fmt.Sprintf("sent to %d of %d subscribers", res.Send.SentCount, res.Send.Recipients))
}

// Social shares item on the requested and auto-share platforms.
func (l *Local) Social(ctx context.Context, item *models.ContentItem, platforms []models.Platform) effect.Outcome {
	res, err := l.social.Share(ctx, social.Request{ArticleID: item.ID, Platforms: platforms, Brand: item.Brand})
	if err != nil {
		return effect.Fail(NameSocial, err)
	}
	return effect.Ok(NameSocial, res, fmt.Sprintf("%d of %d platforms succeeded", res.Succeeded(), len(res.Results)))
}
