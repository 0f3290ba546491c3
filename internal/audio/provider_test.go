package audio

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewSynthesizer(t *testing.T) {
	s, err := NewSynthesizer("elevenlabs", ProviderConfig{})
	if err != nil || s != nil {
		t.Errorf("empty key: got (%v, %v), want (nil, nil)", s, err)
	}
	if _, err := NewSynthesizer("polly", ProviderConfig{APIKey: "k"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	for _, name := range []string{"elevenlabs", "openai"} {
		s, err := NewSynthesizer(name, ProviderConfig{APIKey: "k"})
		if err != nil || s == nil || s.Name() != name {
			t.Errorf("%s: got (%v, %v)", name, s, err)
		}
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	var gotPath, gotKey string
	var gotBody elevenLabsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-audio"))
	}))
	defer srv.Close()

	p := newElevenLabs(ProviderConfig{APIKey: "xi-key", BaseURL: srv.URL})
	speech, err := p.Synthesize(context.Background(), "hello world", "voice-123")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotPath != "/text-to-speech/voice-123" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotKey != "xi-key" {
		t.Errorf("api key header: got %q", gotKey)
	}
	if gotBody.Text != "hello world" || gotBody.ModelID == "" {
		t.Errorf("request body: %+v", gotBody)
	}
	if string(speech.Data) != "ID3-audio" || speech.Ext != "mp3" {
		t.Errorf("speech: %+v", speech)
	}
}

func TestElevenLabsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"invalid api key"}`)
	}))
	defer srv.Close()

	p := newElevenLabs(ProviderConfig{APIKey: "bad", BaseURL: srv.URL})
	_, err := p.Synthesize(context.Background(), "hi", "v")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestElevenLabsVoiceFallback(t *testing.T) {
	p := newElevenLabs(ProviderConfig{APIKey: "k", Voice: "fallback"})
	if got := p.Voice("brand-voice"); got != "brand-voice" {
		t.Errorf("Voice: got %q", got)
	}
	if got := p.Voice(""); got != "fallback" {
		t.Errorf("Voice fallback: got %q", got)
	}
}

func TestOpenAISynthesize(t *testing.T) {
	var gotAuth string
	var gotBody openAISpeechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	p := newOpenAI(ProviderConfig{APIKey: "sk-test", BaseURL: srv.URL})
	voice := p.Voice("elevenlabs-only-voice")
	if voice != "alloy" {
		t.Errorf("voice: got %q, want alloy", voice)
	}
	speech, err := p.Synthesize(context.Background(), "text", voice)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header: got %q", gotAuth)
	}
	if gotBody.Model != "tts-1" || gotBody.Input != "text" || gotBody.ResponseFormat != "mp3" {
		t.Errorf("request body: %+v", gotBody)
	}
	if string(speech.Data) != "mp3-bytes" {
		t.Errorf("speech data: %q", speech.Data)
	}
}
