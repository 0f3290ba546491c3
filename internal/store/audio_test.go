package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"brandnet/internal/models"
)

func TestAudioStoreLifecycle(t *testing.T) {
	db := testDB(t)
	content := NewContentStore(db)
	s := NewAudioStore(db)
	ctx := context.Background()

	slug := "test-audio-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, slug) })

	article, err := content.Insert(ctx, newDraft(slug))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	ready, err := s.FindReady(ctx, article.ID)
	if err != nil {
		t.Fatalf("FindReady: %v", err)
	}
	if ready != nil {
		t.Fatal("expected no ready version yet")
	}

	v, err := s.Create(ctx, &models.AudioVersion{
		ArticleID: article.ID,
		Provider:  "elevenlabs",
		VoiceID:   "voice-1",
		Status:    models.AudioStatusProcessing,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.Status != models.AudioStatusProcessing {
		t.Errorf("status: got %q", v.Status)
	}

	done, err := s.MarkReady(ctx, v.ID, "https://cdn.example.com/audio/x.mp3", 42, 672000)
	if err != nil {
		t.Fatalf("MarkReady: %v", err)
	}
	if done.Status != models.AudioStatusReady || models.Deref(done.URL) == "" {
		t.Errorf("unexpected ready version: %+v", done)
	}

	ready, err = s.FindReady(ctx, article.ID)
	if err != nil {
		t.Fatalf("FindReady: %v", err)
	}
	if ready == nil || ready.ID != v.ID {
		t.Errorf("FindReady: got %+v", ready)
	}
}

func TestAudioStoreMarkError(t *testing.T) {
	db := testDB(t)
	content := NewContentStore(db)
	s := NewAudioStore(db)
	ctx := context.Background()

	slug := "test-audio-err-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanContent(t, db, slug) })

	article, err := content.Insert(ctx, newDraft(slug))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	v, err := s.Create(ctx, &models.AudioVersion{
		ArticleID: article.ID, Provider: "openai", VoiceID: "alloy", Status: models.AudioStatusProcessing,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.MarkError(ctx, v.ID, "provider returned 500"); err != nil {
		t.Fatalf("MarkError: %v", err)
	}

	ready, err := s.FindReady(ctx, article.ID)
	if err != nil {
		t.Fatalf("FindReady: %v", err)
	}
	if ready != nil {
		t.Error("errored version must not be reported as ready")
	}
}
