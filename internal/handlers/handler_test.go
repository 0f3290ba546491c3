// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory store with the real publish services
// and fake outbound providers.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"brandnet/internal/audio"
	"brandnet/internal/brand"
	"brandnet/internal/crosspost"
	"brandnet/internal/effect"
	"brandnet/internal/effects"
	"brandnet/internal/memstore"
	"brandnet/internal/models"
	"brandnet/internal/newsletter"
	"brandnet/internal/publish"
	"brandnet/internal/social"
)

type fakeSynth struct{}

func (fakeSynth) Name() string          { return "fake" }
func (fakeSynth) Voice(v string) string { return v }
func (fakeSynth) MaxInput() int         { return 5000 }
func (fakeSynth) Synthesize(context.Context, string, string) (*audio.Speech, error) {
	return &audio.Speech{Data: bytes.Repeat([]byte{0xff}, 32_000), ContentType: "audio/mpeg", Ext: "mp3"}, nil
}

type fakeUploader struct{}

func (fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader, _ int64) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

type fakePoster struct{}

func (fakePoster) Post(_ context.Context, post social.Post, _ map[string]string) social.PostResult {
	return social.PostResult{Success: true, PostURL: "https://x.com/i/web/status/1"}
}

// memCache is an in-memory page cache.
type memCache struct {
	mu    sync.Mutex
	pages map[string][]byte
}

func newMemCache() *memCache { return &memCache{pages: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, b models.Brand, slug string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.pages[string(b)+":"+slug]
	return body, ok
}

func (c *memCache) Set(_ context.Context, b models.Brand, slug string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[string(b)+":"+slug] = body
}

func (c *memCache) InvalidateItem(_ context.Context, b models.Brand, slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pages, string(b)+":"+slug)
}

type testEnv struct {
	store  *memstore.Store
	runner *effect.Runner
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	brands, err := brand.Load("")
	if err != nil {
		t.Fatalf("brand.Load: %v", err)
	}

	s := memstore.New()
	runner := effect.NewRunner(2, 32)
	t.Cleanup(func() { runner.Close(context.Background()) })

	trigger := audio.NewTrigger(s, s, fakeUploader{}, fakeSynth{}, brands)
	sender := newsletter.NewSender(s, s, brands, newsletter.NewMailerFactory(newsletter.Endpoints{}))
	auto := newsletter.NewAutoDispatcher(s, s, sender)
	fanout := social.NewFanout(s.Social(), s, brands, map[models.Platform]social.Poster{
		models.PlatformTwitter: fakePoster{},
	})
	cache := newMemCache()

	orch := publish.New(publish.Deps{
		Store:      s,
		Replicator: crosspost.New(s, brands, 0),
		Effects:    effects.NewLocal(trigger, auto, fanout),
		Runner:     runner,
		Brands:     brands,
		EffectLog:  s,
		PageCache:  cache,
	})

	items := NewItems(s, orch, s)
	fx := NewEffects(trigger, auto, sender, fanout)
	public := NewPublic(s, s, cache)

	r := chi.NewRouter()
	r.Post("/api/items", items.Create)
	r.Get("/api/items/{id}", items.Get)
	r.Post("/api/items/{id}/publish", items.Publish)
	r.Get("/api/items/{id}/effects", items.Effects)
	r.Post("/api/effects/audio", fx.Audio)
	r.Post("/api/effects/newsletter", fx.Newsletter)
	r.Post("/api/effects/social", fx.Social)
	r.Post("/api/newsletter/campaigns/{id}/send", fx.SendCampaign)
	r.Get("/api/public/{brand}/{slug}", public.Article)
	r.Post("/api/public/{brand}/subscribe", public.Subscribe)

	return &testEnv{store: s, runner: runner, router: r}
}

// do sends a request with an optional JSON body.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// drain waits for every detached effect to finish.
func (e *testEnv) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.runner.Close(ctx); err != nil {
		t.Fatalf("drain runner: %v", err)
	}
}

// createItem creates a draft through the API.
func (e *testEnv) createItem(t *testing.T, b models.Brand, title string) *models.ContentItem {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/items", map[string]any{
		"brand":       b,
		"title":       title,
		"body":        "The tour starts in **June** with ten dates.",
		"excerpt":     "Ten dates.",
		"tags":        []string{"music"},
		"author_name": "Dee",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create item: status %d, body %s", rr.Code, rr.Body)
	}
	var item models.ContentItem
	decode(t, rr, &item)
	return &item
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	decode(t, rr, &body)
	return body.Code
}
