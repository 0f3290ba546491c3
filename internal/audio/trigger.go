// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package audio generates narrated versions of published articles. A
// Trigger turns an article into plain text, sends it to a speech provider
// and stores the result in object storage, tracking progress on an
// AudioVersion record.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"brandnet/internal/brand"
	"brandnet/internal/compose"
	"brandnet/internal/effect"
	"brandnet/internal/markdown"
	"brandnet/internal/models"
)

// ErrArticleNotFound is returned when the article to narrate does not exist.
var ErrArticleNotFound = errors.New("article not found")

// AssumedBitrate is the bitrate used to estimate duration from file size.
// Providers return constant-bitrate MP3 at roughly this rate; the result is
// an estimate, not a decoded value.
const AssumedBitrate = 128_000 // bits per second

// MessageExists is returned when an article already has a ready version.
const MessageExists = "Audio already exists"

// MessageGenerated is returned after a successful synthesis.
const MessageGenerated = "Audio generated"

// ArticleFinder loads articles.
type ArticleFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error)
}

// VersionStore persists audio versions.
type VersionStore interface {
	FindReady(ctx context.Context, articleID uuid.UUID) (*models.AudioVersion, error)
	Create(ctx context.Context, v *models.AudioVersion) (*models.AudioVersion, error)
	MarkReady(ctx context.Context, id uuid.UUID, url string, durationSeconds int, fileSize int64) (*models.AudioVersion, error)
	MarkError(ctx context.Context, id uuid.UUID, message string) error
}

// Uploader stores public objects and returns their URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// Result is the response of a trigger call.
type Result struct {
	Message      string               `json:"message"`
	AudioVersion *models.AudioVersion `json:"audioVersion"`
}

// Trigger generates audio versions.
type Trigger struct {
	articles ArticleFinder
	versions VersionStore
	storage  Uploader
	synth    Synthesizer
	brands   *brand.Table
}

// NewTrigger creates a Trigger. synth and storage may be nil, in which case
// Generate fails with a not-configured error.
func NewTrigger(articles ArticleFinder, versions VersionStore, storage Uploader, synth Synthesizer, brands *brand.Table) *Trigger {
	return &Trigger{
		articles: articles,
		versions: versions,
		storage:  storage,
		synth:    synth,
		brands:   brands,
	}
}

// Generate produces the audio version of an article. An existing ready
// version is returned as is without calling the provider. Otherwise a
// processing record is created first and moved to ready or error once the
// provider and storage calls finish.
func (t *Trigger) Generate(ctx context.Context, articleID uuid.UUID) (*Result, error) {
	existing, err := t.versions.FindReady(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("check existing audio: %w", err)
	}
	if existing != nil {
		return &Result{Message: MessageExists, AudioVersion: existing}, nil
	}

	article, err := t.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("load article: %w", err)
	}
	if article == nil {
		return nil, effect.WithKind(effect.KindNotFound, ErrArticleNotFound)
	}

	if t.synth == nil || t.storage == nil {
		return nil, effect.WithKind(effect.KindNotConfigured, errors.New("audio synthesis is not configured"))
	}

	profile := t.brands.MustLookup(article.Brand)
	version, err := t.versions.Create(ctx, &models.AudioVersion{
		ArticleID: article.ID,
		Provider:  t.synth.Name(),
		VoiceID:   t.synth.Voice(profile.VoiceID),
		Status:    models.AudioStatusProcessing,
	})
	if err != nil {
		return nil, fmt.Errorf("create audio version: %w", err)
	}

	ready, err := t.synthesize(ctx, article, version)
	if err != nil {
		if markErr := t.versions.MarkError(ctx, version.ID, err.Error()); markErr != nil {
			slog.Error("failed to record audio error", "audio_id", version.ID, "error", markErr)
		}
		return nil, err
	}

	slog.Info("audio generated",
		"article_id", article.ID,
		"brand", article.Brand,
		"provider", version.Provider,
		"duration_seconds", ready.DurationSeconds,
	)
	return &Result{Message: MessageGenerated, AudioVersion: ready}, nil
}

func (t *Trigger) synthesize(ctx context.Context, article *models.ContentItem, version *models.AudioVersion) (*models.AudioVersion, error) {
	text, err := NarrationText(article, t.synth.MaxInput())
	if err != nil {
		return nil, fmt.Errorf("prepare narration text: %w", err)
	}
	if text == "" {
		return nil, effect.WithKind(effect.KindProvider, errors.New("article has no narratable text"))
	}

	speech, err := t.synth.Synthesize(ctx, text, version.VoiceID)
	if err != nil {
		return nil, effect.WithKind(effect.KindProvider, err)
	}

	size := int64(len(speech.Data))
	key := ObjectKey(article.Brand, article.ID, speech.Ext)
	url, err := t.storage.Upload(ctx, key, speech.ContentType, bytes.NewReader(speech.Data), size)
	if err != nil {
		return nil, effect.WithKind(effect.KindStorage, err)
	}

	ready, err := t.versions.MarkReady(ctx, version.ID, url, EstimateDuration(size), size)
	if err != nil {
		return nil, fmt.Errorf("mark audio ready: %w", err)
	}
	return ready, nil
}

// NarrationText renders the title and body of an article to plain text
// with normalised whitespace, cut to at most limit runes.
func NarrationText(article *models.ContentItem, limit int) (string, error) {
	text, err := markdown.PlainText("# " + article.Title + "\n\n" + article.Body)
	if err != nil {
		return "", err
	}
	if limit > 0 && len([]rune(text)) > limit {
		text = compose.Truncate(text, limit)
	}
	return text, nil
}

// ObjectKey returns the storage key of an article's audio file.
func ObjectKey(b models.Brand, articleID uuid.UUID, ext string) string {
	return fmt.Sprintf("audio/%s/%s.%s", b, articleID, ext)
}

// EstimateDuration approximates the playback length of a constant-bitrate
// file of the given size, in whole seconds.
func EstimateDuration(size int64) int {
	return int(size * 8 / AssumedBitrate)
}
