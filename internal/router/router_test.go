// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"brandnet/internal/audio"
	"brandnet/internal/brand"
	"brandnet/internal/crosspost"
	"brandnet/internal/effect"
	"brandnet/internal/effects"
	"brandnet/internal/handlers"
	"brandnet/internal/memstore"
	"brandnet/internal/models"
	"brandnet/internal/newsletter"
	"brandnet/internal/publish"
	"brandnet/internal/social"
)

const testToken = "router-test-token"

// newTestRouter wires the real handlers over the in-memory store with no
// speech provider and no page cache.
func newTestRouter(t *testing.T) (http.Handler, *memstore.Store) {
	t.Helper()
	brands, err := brand.Load("")
	if err != nil {
		t.Fatalf("brand.Load: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(testToken), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}

	s := memstore.New()
	runner := effect.NewRunner(1, 16)
	t.Cleanup(func() { runner.Close(context.Background()) })

	trigger := audio.NewTrigger(s, s, nil, nil, brands)
	sender := newsletter.NewSender(s, s, brands, newsletter.NewMailerFactory(newsletter.Endpoints{}))
	auto := newsletter.NewAutoDispatcher(s, s, sender)
	fanout := social.NewFanout(s.Social(), s, brands, nil)

	orch := publish.New(publish.Deps{
		Store:      s,
		Replicator: crosspost.New(s, brands, 0),
		Effects:    effects.NewLocal(trigger, auto, fanout),
		Runner:     runner,
		Brands:     brands,
		EffectLog:  s,
	})

	r := New(
		handlers.NewItems(s, orch, s),
		handlers.NewEffects(trigger, auto, sender, fanout),
		handlers.NewPublic(s, s, nil),
		string(hash),
		nil,
	)
	return r, s
}

func serve(h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRoutesRequireToken(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/items"},
		{http.MethodGet, "/api/items/00000000-0000-0000-0000-000000000001"},
		{http.MethodPost, "/api/items/00000000-0000-0000-0000-000000000001/publish"},
		{http.MethodGet, "/api/items/00000000-0000-0000-0000-000000000001/effects"},
		{http.MethodPost, effects.PathAudio},
		{http.MethodPost, effects.PathNewsletter},
		{http.MethodPost, effects.PathSocial},
		{http.MethodPost, "/api/newsletter/campaigns/00000000-0000-0000-0000-000000000001/send"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if rr := serve(h, tt.method, tt.path, "", nil); rr.Code != http.StatusUnauthorized {
				t.Errorf("no token: got %d, want 401", rr.Code)
			}
			if rr := serve(h, tt.method, tt.path, "wrong", nil); rr.Code != http.StatusUnauthorized {
				t.Errorf("wrong token: got %d, want 401", rr.Code)
			}
		})
	}
}

func TestPublicRoutesAreOpen(t *testing.T) {
	h, _ := newTestRouter(t)

	if rr := serve(h, http.MethodGet, "/health", "", nil); rr.Code != http.StatusOK {
		t.Errorf("health: got %d", rr.Code)
	}
	if rr := serve(h, http.MethodGet, "/api/public/saucewire/missing", "", nil); rr.Code != http.StatusNotFound {
		t.Errorf("public article: got %d, want 404", rr.Code)
	}
	rr := serve(h, http.MethodPost, "/api/public/saucewire/subscribe", "", map[string]string{"email": "a@example.com"})
	if rr.Code != http.StatusCreated {
		t.Errorf("subscribe: got %d, want 201", rr.Code)
	}
}

func TestPublishThroughRouter(t *testing.T) {
	h, s := newTestRouter(t)

	rr := serve(h, http.MethodPost, "/api/items", testToken, map[string]any{
		"brand": "saucecaviar",
		"title": "Router Story",
		"body":  "Hello.",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rr.Code, rr.Body)
	}
	var item models.ContentItem
	if err := json.NewDecoder(rr.Body).Decode(&item); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rr = serve(h, http.MethodPost, "/api/items/"+item.ID.String()+"/publish", testToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("publish: got %d, body %s", rr.Code, rr.Body)
	}

	stored, _ := s.FindByID(context.Background(), item.ID)
	if stored == nil || stored.Status != models.ContentStatusPublished {
		t.Errorf("stored item not published: %+v", stored)
	}

	// Audio has no provider configured here.
	rr = serve(h, http.MethodPost, effects.PathAudio, testToken, map[string]any{"articleId": item.ID})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("audio without provider: got %d, want 400", rr.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	h, _ := newTestRouter(t)
	rr := serve(h, http.MethodGet, "/health", "", nil)
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options: got %q", got)
	}
}
