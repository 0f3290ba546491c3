// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package brand holds the per-brand configuration table (public domain,
// article path, TTS voice, display name). The table is loaded once at
// startup and injected into every component that needs brand-specific
// values; it is never mutated afterwards.
package brand

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"brandnet/internal/models"
)

//go:embed brands.yaml
var defaultTable []byte

// Profile describes one brand.
type Profile struct {
	Slug            models.Brand `yaml:"slug"`
	Name            string       `yaml:"name"`
	Domain          string       `yaml:"domain"`
	ArticlePath     string       `yaml:"articlePath"`
	VoiceID         string       `yaml:"voiceId"`
	DefaultCategory string       `yaml:"defaultCategory"`
}

// BaseURL returns the canonical https origin of the brand site.
func (p Profile) BaseURL() string {
	return "https://" + p.Domain
}

// ArticleURL returns the canonical public URL of an article slug.
func (p Profile) ArticleURL(slug string) string {
	path := strings.Trim(p.ArticlePath, "/")
	if path == "" {
		return p.BaseURL() + "/" + url.PathEscape(slug)
	}
	return p.BaseURL() + "/" + path + "/" + url.PathEscape(slug)
}

type file struct {
	Brands []Profile `yaml:"brands"`
}

// Table is an immutable brand lookup table.
type Table struct {
	profiles map[models.Brand]Profile
	order    []models.Brand
}

// Load reads the brand table from path, or the embedded default when path
// is empty.
func Load(path string) (*Table, error) {
	raw := defaultTable
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read brand table %s: %w", path, err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse builds a table from YAML. Every entry must name a known network
// brand and a domain; duplicates are rejected.
func Parse(raw []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse brand table: %w", err)
	}
	if len(f.Brands) == 0 {
		return nil, fmt.Errorf("brand table is empty")
	}

	t := &Table{profiles: make(map[models.Brand]Profile, len(f.Brands))}
	for _, p := range f.Brands {
		if !p.Slug.Valid() {
			return nil, fmt.Errorf("brand table: unknown brand %q", p.Slug)
		}
		if p.Domain == "" {
			return nil, fmt.Errorf("brand table: %s has no domain", p.Slug)
		}
		if _, dup := t.profiles[p.Slug]; dup {
			return nil, fmt.Errorf("brand table: duplicate brand %q", p.Slug)
		}
		if p.Name == "" {
			p.Name = string(p.Slug)
		}
		t.profiles[p.Slug] = p
		t.order = append(t.order, p.Slug)
	}
	return t, nil
}

// Lookup returns the profile of b.
func (t *Table) Lookup(b models.Brand) (Profile, bool) {
	p, ok := t.profiles[b]
	return p, ok
}

// MustLookup returns the profile of b or a minimal profile derived from
// the brand slug, so URL building never fails for a configured item.
func (t *Table) MustLookup(b models.Brand) Profile {
	if p, ok := t.profiles[b]; ok {
		return p
	}
	return Profile{Slug: b, Name: string(b), Domain: string(b) + ".com"}
}

// Brands returns the configured brands in table order.
func (t *Table) Brands() []models.Brand {
	out := make([]models.Brand, len(t.order))
	copy(out, t.order)
	return out
}
