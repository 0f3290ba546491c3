// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"brandnet/internal/models"
)

// Message is one outbound email.
type Message struct {
	From     string
	FromName string
	ReplyTo  string
	To       string
	Subject  string
	HTML     string
	Text     string
}

// Mailer delivers a single email through a provider.
type Mailer interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Endpoints holds provider API base URLs. Zero values use the public APIs.
type Endpoints struct {
	Resend   string
	SendGrid string
}

// MailerFactory builds the mailer configured by a brand's settings.
type MailerFactory func(settings *models.NewsletterSettings) (Mailer, error)

// NewMailerFactory returns a factory creating provider adapters that share
// one HTTP client.
func NewMailerFactory(endpoints Endpoints) MailerFactory {
	if endpoints.Resend == "" {
		endpoints.Resend = "https://api.resend.com"
	}
	if endpoints.SendGrid == "" {
		endpoints.SendGrid = "https://api.sendgrid.com"
	}
	client := &http.Client{Timeout: 30 * time.Second}

	return func(settings *models.NewsletterSettings) (Mailer, error) {
		switch settings.Provider {
		case models.EmailProviderNone, "":
			return noopMailer{}, nil
		case models.EmailProviderResend:
			if settings.APIKey == "" {
				return nil, fmt.Errorf("resend: api key is not set")
			}
			return &resendMailer{baseURL: endpoints.Resend, apiKey: settings.APIKey, client: client}, nil
		case models.EmailProviderSendGrid:
			if settings.APIKey == "" {
				return nil, fmt.Errorf("sendgrid: api key is not set")
			}
			return &sendGridMailer{baseURL: endpoints.SendGrid, apiKey: settings.APIKey, client: client}, nil
		default:
			return nil, fmt.Errorf("unknown email provider %q", settings.Provider)
		}
	}
}

// noopMailer simulates a successful delivery without calling out.
type noopMailer struct{}

func (noopMailer) Name() string                       { return models.EmailProviderNone }
func (noopMailer) Send(context.Context, Message) error { return nil }

// postJSON sends body to url and fails on any non-2xx status.
func postJSON(ctx context.Context, client *http.Client, url, apiKey string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func formatAddress(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// resendMailer implements Mailer using the Resend API (POST /emails).
type resendMailer struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func (m *resendMailer) Name() string { return models.EmailProviderResend }

func (m *resendMailer) Send(ctx context.Context, msg Message) error {
	body := resendRequest{
		From:    formatAddress(msg.FromName, msg.From),
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}
	if msg.ReplyTo != "" {
		body.ReplyTo = msg.ReplyTo
	}
	if err := postJSON(ctx, m.client, m.baseURL+"/emails", m.apiKey, body); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// sendGridMailer implements Mailer using the SendGrid v3 mail send API.
type sendGridMailer struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func (m *sendGridMailer) Name() string { return models.EmailProviderSendGrid }

func (m *sendGridMailer) Send(ctx context.Context, msg Message) error {
	body := sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: msg.To}}}},
		From:             sendGridAddress{Email: msg.From, Name: msg.FromName},
		Subject:          msg.Subject,
	}
	if msg.Text != "" {
		body.Content = append(body.Content, sendGridContent{Type: "text/plain", Value: msg.Text})
	}
	body.Content = append(body.Content, sendGridContent{Type: "text/html", Value: msg.HTML})
	if msg.ReplyTo != "" {
		body.ReplyTo = &sendGridAddress{Email: msg.ReplyTo}
	}
	if err := postJSON(ctx, m.client, m.baseURL+"/v3/mail/send", m.apiKey, body); err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	return nil
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	ReplyTo          *sendGridAddress          `json:"reply_to,omitempty"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}
