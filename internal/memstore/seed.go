package memstore

import (
	"context"

	"brandnet/internal/models"
)

// SeedDefaults mirrors the database seed: newsletter settings with the
// simulated provider and a twitter settings row for every brand.
func (s *Store) SeedDefaults(ctx context.Context) error {
	for _, b := range models.Brands {
		if err := s.UpsertSettings(ctx, &models.NewsletterSettings{
			Brand:     b,
			Enabled:   true,
			Provider:  models.EmailProviderNone,
			FromEmail: "newsletter@" + string(b) + ".com",
			FromName:  string(b),
		}); err != nil {
			return err
		}
		if err := s.Social().UpsertSettings(ctx, &models.SocialMediaSettings{
			Brand:           b,
			Platform:        models.PlatformTwitter,
			Enabled:         true,
			DefaultTemplate: "{title} {url}",
		}); err != nil {
			return err
		}
	}
	return nil
}
