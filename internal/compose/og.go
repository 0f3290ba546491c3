// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compose

import (
	"net/url"

	"brandnet/internal/brand"
	"brandnet/internal/models"
)

// OGImageURL returns the brand's dynamic Open Graph image URL for item.
// The query is encoded with sorted keys, so the same item always yields
// the same URL.
func OGImageURL(p brand.Profile, item *models.ContentItem) string {
	q := url.Values{}
	q.Set("title", item.Title)
	if category := Category(p, item); category != "" {
		q.Set("category", category)
	}
	if item.AuthorName != "" {
		q.Set("author", item.AuthorName)
	}
	if cover := models.Deref(item.CoverImage); cover != "" {
		q.Set("image", cover)
	}
	return p.BaseURL() + "/api/og?" + q.Encode()
}

// Category picks the display category of item: explicit metadata first,
// then the first tag, then the brand default.
func Category(p brand.Profile, item *models.ContentItem) string {
	if c := item.MetaString(models.MetaCategory); c != "" {
		return c
	}
	for _, t := range item.Tags {
		if t != "" && t != models.CrossPostedTag {
			return t
		}
	}
	return p.DefaultCategory
}
