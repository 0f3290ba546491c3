// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package compose fills social post and email templates with article
// fields and enforces per-platform text constraints.
package compose

import (
	"strings"
	"unicode/utf8"

	"brandnet/internal/models"
)

// DefaultPostTemplate is used when a brand has no settings for a platform.
const DefaultPostTemplate = "{title} {url}"

// Ellipsis is appended to truncated posts.
const Ellipsis = "..."

// platformLimits holds the hard text ceilings. Only twitter is constrained.
var platformLimits = map[models.Platform]int{
	models.PlatformTwitter: 280,
}

// PlatformLimit returns the text ceiling of p in runes.
func PlatformLimit(p models.Platform) (int, bool) {
	n, ok := platformLimits[p]
	return n, ok
}

// Fields are the values available to templates.
type Fields struct {
	Title   string
	Excerpt string
	URL     string
	Brand   string
	Author  string
}

// Fill substitutes {title}, {excerpt}, {url}, {brand} and {author} in tmpl.
// Substitution happens in a single pass: a value that itself contains a
// placeholder is not expanded again. Missing values become "".
func Fill(tmpl string, f Fields) string {
	r := strings.NewReplacer(
		"{title}", f.Title,
		"{excerpt}", f.Excerpt,
		"{url}", f.URL,
		"{brand}", f.Brand,
		"{author}", f.Author,
	)
	return r.Replace(tmpl)
}

// WithHashtags appends the hashtags on their own paragraph. Tags get a
// leading '#' when missing; blanks and case-insensitive duplicates are
// dropped. text is returned unchanged when no usable tag remains.
func WithHashtags(text string, hashtags []string) string {
	seen := make(map[string]bool, len(hashtags))
	var tags []string
	for _, h := range hashtags {
		h = strings.TrimSpace(h)
		h = strings.TrimLeft(h, "#")
		h = strings.ReplaceAll(h, " ", "")
		if h == "" {
			continue
		}
		key := strings.ToLower(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, "#"+h)
	}
	if len(tags) == 0 {
		return text
	}
	return text + "\n\n" + strings.Join(tags, " ")
}

// Truncate shortens text to limit runes, ending it with Ellipsis so the
// result is exactly limit runes long. Text within the limit is returned
// as is.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	if limit <= len(Ellipsis) {
		return string(runes[:limit])
	}
	return string(runes[:limit-len(Ellipsis)]) + Ellipsis
}

// Post builds the final text for one platform: template fill, hashtags,
// then the platform ceiling.
func Post(platform models.Platform, tmpl string, f Fields, hashtags []string) string {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultPostTemplate
	}
	text := WithHashtags(Fill(tmpl, f), hashtags)
	if limit, ok := PlatformLimit(platform); ok {
		text = Truncate(text, limit)
	}
	return text
}
