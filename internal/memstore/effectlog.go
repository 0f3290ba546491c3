package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	"brandnet/internal/effect"
	"brandnet/internal/store"
)

// Log records an effect outcome.
func (s *Store) Log(_ context.Context, itemID uuid.UUID, o effect.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effectLog = append(s.effectLog, store.EffectLogEntry{
		ID:        int64(len(s.effectLog) + 1),
		ItemID:    itemID,
		Effect:    o.Effect,
		OK:        o.OK,
		Kind:      o.Kind,
		Detail:    o.Detail,
		CreatedAt: time.Now(),
	})
}

// RecentEntries returns the latest effect outcomes of an item, newest first.
func (s *Store) RecentEntries(_ context.Context, itemID uuid.UUID, limit int) ([]store.EffectLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.EffectLogEntry
	for i := len(s.effectLog) - 1; i >= 0 && len(out) < limit; i-- {
		if s.effectLog[i].ItemID == itemID {
			out = append(out, s.effectLog[i])
		}
	}
	return out, nil
}
