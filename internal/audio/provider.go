// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package audio

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Speech is the encoded audio returned by a synthesis provider.
type Speech struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Synthesizer turns plain text into speech. Each provider handles its own
// HTTP communication.
type Synthesizer interface {
	// Name returns the provider identifier stored on audio versions.
	Name() string

	// Voice maps the voice configured for a brand onto one the provider
	// accepts.
	Voice(brandVoice string) string

	// MaxInput is the provider's input ceiling in runes.
	MaxInput() int

	Synthesize(ctx context.Context, text, voice string) (*Speech, error)
}

// ProviderConfig holds the credentials and settings for a speech provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	Voice   string // fallback or fixed voice, provider dependent
	BaseURL string
}

// NewSynthesizer creates the provider registered under name. Returns
// (nil, nil) when the API key is empty so the service can start without
// audio.
func NewSynthesizer(name string, cfg ProviderConfig) (Synthesizer, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	switch name {
	case "elevenlabs":
		return newElevenLabs(cfg), nil
	case "openai":
		return newOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("unknown speech provider %q", name)
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 120 * time.Second}
}
