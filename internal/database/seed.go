// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"brandnet/internal/models"
)

// Seed populates the database with development defaults: one newsletter
// settings row per brand (enabled, simulated provider, auto-send off) and
// a twitter settings row per brand. Existing rows are left untouched.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM newsletter_settings").Scan(&count); err != nil {
		return fmt.Errorf("seed check newsletter settings: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, b := range models.Brands {
		_, err := db.Exec(`
			INSERT INTO newsletter_settings (brand, enabled, auto_send_on_publish, provider, from_email, from_name)
			VALUES ($1, TRUE, FALSE, $2, $3, $4)
			ON CONFLICT (brand) DO NOTHING
		`, b, models.EmailProviderNone, "newsletter@"+string(b)+".com", string(b))
		if err != nil {
			return fmt.Errorf("seed newsletter settings %s: %w", b, err)
		}

		_, err = db.Exec(`
			INSERT INTO social_media_settings (brand, platform, enabled, auto_share_on_publish, default_template)
			VALUES ($1, $2, TRUE, FALSE, $3)
			ON CONFLICT (brand, platform) DO NOTHING
		`, b, models.PlatformTwitter, "{title} {url}")
		if err != nil {
			return fmt.Errorf("seed social settings %s: %w", b, err)
		}
	}

	slog.Info("database seeded with default brand settings", "brands", len(models.Brands))
	return nil
}
