// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// elevenLabsProvider implements Synthesizer using the ElevenLabs
// text-to-speech API (POST /v1/text-to-speech/{voice_id}).
type elevenLabsProvider struct {
	config ProviderConfig
	client *http.Client
}

func newElevenLabs(cfg ProviderConfig) *elevenLabsProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "eleven_multilingual_v2"
	}
	return &elevenLabsProvider{config: cfg, client: newHTTPClient()}
}

func (p *elevenLabsProvider) Name() string  { return "elevenlabs" }
func (p *elevenLabsProvider) MaxInput() int { return 5000 }

func (p *elevenLabsProvider) Voice(brandVoice string) string {
	if brandVoice != "" {
		return brandVoice
	}
	return p.config.Voice
}

func (p *elevenLabsProvider) Synthesize(ctx context.Context, text, voice string) (*Speech, error) {
	if voice == "" {
		return nil, fmt.Errorf("elevenlabs: no voice configured")
	}

	payload, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: p.config.Model,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs marshal: %w", err)
	}

	url := p.config.BaseURL + "/text-to-speech/" + voice
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs API error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("elevenlabs: empty audio response")
	}

	return &Speech{Data: body, ContentType: "audio/mpeg", Ext: "mp3"}, nil
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}
