package memstore

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"brandnet/internal/models"
)

// SocialSettings is the social settings view of a Store. Its method set
// does not collide with the newsletter settings methods of Store.
type SocialSettings struct{ s *Store }

// Social returns the social settings view of the store.
func (s *Store) Social() *SocialSettings { return &SocialSettings{s: s} }

func cloneSocial(ss *models.SocialMediaSettings) *models.SocialMediaSettings {
	out := *ss
	out.DefaultHashtags = slices.Clone(ss.DefaultHashtags)
	out.Credentials = maps.Clone(ss.Credentials)
	return &out
}

// Settings returns the settings of one platform for a brand, or nil.
func (v *SocialSettings) Settings(_ context.Context, brand models.Brand, platform models.Platform) (*models.SocialMediaSettings, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	ss, ok := v.s.social[socialKey{brand, platform}]
	if !ok {
		return nil, nil
	}
	return cloneSocial(ss), nil
}

// AutoSharePlatforms returns the enabled auto-share platforms of a brand
// in alphabetical order.
func (v *SocialSettings) AutoSharePlatforms(_ context.Context, brand models.Brand) ([]models.Platform, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []models.Platform
	for k, ss := range v.s.social {
		if k.brand == brand && ss.Enabled && ss.AutoShareOnPublish {
			out = append(out, k.platform)
		}
	}
	slices.Sort(out)
	return out, nil
}

// UpsertSettings creates or replaces the settings of one platform.
func (v *SocialSettings) UpsertSettings(_ context.Context, ss *models.SocialMediaSettings) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	stored := cloneSocial(ss)
	stored.UpdatedAt = time.Now()
	v.s.social[socialKey{ss.Brand, ss.Platform}] = stored
	return nil
}

// AppendShareLog records one share attempt.
func (v *SocialSettings) AppendShareLog(_ context.Context, e *models.SocialShareLogEntry) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	v.s.shareLog = append(v.s.shareLog, *e)
	return nil
}

// ShareLog returns the share attempts of an article in insertion order.
func (v *SocialSettings) ShareLog(_ context.Context, articleID uuid.UUID) ([]models.SocialShareLogEntry, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []models.SocialShareLogEntry
	for _, e := range v.s.shareLog {
		if e.ArticleID == articleID {
			out = append(out, e)
		}
	}
	return out, nil
}
