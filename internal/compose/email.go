// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	texttemplate "text/template"

	"brandnet/internal/brand"
	"brandnet/internal/markdown"
	"brandnet/internal/models"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

var (
	htmlTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// teaserLength bounds the generated teaser when an article has no excerpt.
const teaserLength = 280

// Email is a rendered newsletter message.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

type emailArticle struct {
	Title      string
	Teaser     string
	URL        string
	CoverImage string
	Author     string
}

type emailData struct {
	BrandName      string
	BrandURL       string
	Subject        string
	Articles       []emailArticle
	UnsubscribeURL string
}

// UnsubscribeURL returns the brand's one-click unsubscribe link for token.
func UnsubscribeURL(p brand.Profile, token string) string {
	return p.BaseURL() + "/newsletter/unsubscribe?token=" + url.QueryEscape(token)
}

// NewsletterEmail renders the campaign email for one subscriber.
func NewsletterEmail(p brand.Profile, subject string, items []*models.ContentItem, unsubscribeURL string) (*Email, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("newsletter email: no articles")
	}

	data := emailData{
		BrandName:      p.Name,
		BrandURL:       p.BaseURL(),
		Subject:        subject,
		UnsubscribeURL: unsubscribeURL,
	}
	for _, item := range items {
		teaser, err := Teaser(item)
		if err != nil {
			return nil, fmt.Errorf("newsletter teaser %s: %w", item.ID, err)
		}
		data.Articles = append(data.Articles, emailArticle{
			Title:      item.Title,
			Teaser:     teaser,
			URL:        p.ArticleURL(item.Slug),
			CoverImage: models.Deref(item.CoverImage),
			Author:     item.AuthorName,
		})
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&htmlBuf, "newsletter.html", data); err != nil {
		return nil, fmt.Errorf("render newsletter html: %w", err)
	}
	if err := textTemplates.ExecuteTemplate(&textBuf, "newsletter.txt", data); err != nil {
		return nil, fmt.Errorf("render newsletter text: %w", err)
	}

	return &Email{Subject: subject, HTML: htmlBuf.String(), Text: textBuf.String()}, nil
}

// Teaser returns the excerpt of item, or the start of its plain-text body
// when the excerpt is empty.
func Teaser(item *models.ContentItem) (string, error) {
	if ex := strings.TrimSpace(models.Deref(item.Excerpt)); ex != "" {
		return ex, nil
	}
	text, err := markdown.PlainText(item.Body)
	if err != nil {
		return "", err
	}
	return Truncate(text, teaserLength), nil
}
