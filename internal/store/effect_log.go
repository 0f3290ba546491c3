// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// effect_log.go records the outcome of every publish effect in the database
// for audit and debugging purposes. Each entry captures which effect ran
// for which item and whether it succeeded.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"brandnet/internal/effect"
)

// EffectLogStore handles effect log operations.
type EffectLogStore struct {
	db *sql.DB
}

// NewEffectLogStore creates a new EffectLogStore.
func NewEffectLogStore(db *sql.DB) *EffectLogStore {
	return &EffectLogStore{db: db}
}

// Log records an effect outcome. Failures are logged and swallowed.
func (s *EffectLogStore) Log(ctx context.Context, itemID uuid.UUID, o effect.Outcome) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO effect_log (item_id, effect, ok, kind, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, itemID, o.Effect, o.OK, string(o.Kind), o.Detail)
	if err != nil {
		slog.Warn("failed to log effect outcome",
			"item_id", itemID,
			"effect", o.Effect,
			"ok", o.OK,
			"error", err,
		)
		return
	}
	slog.Debug("effect outcome logged", "item_id", itemID, "effect", o.Effect, "ok", o.OK)
}

// RecentEntries returns the most recent effect outcomes for an item,
// newest first. Limited to the specified count.
func (s *EffectLogStore) RecentEntries(ctx context.Context, itemID uuid.UUID, limit int) ([]EffectLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, item_id, effect, ok, kind, detail, created_at
		FROM effect_log
		WHERE item_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("query effect log: %w", err)
	}
	defer rows.Close()

	var entries []EffectLogEntry
	for rows.Next() {
		var e EffectLogEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.Effect, &e.OK, &e.Kind, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan effect log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EffectLogEntry represents a single recorded effect outcome.
type EffectLogEntry struct {
	ID        int64       `json:"id"`
	ItemID    uuid.UUID   `json:"item_id"`
	Effect    string      `json:"effect"`
	OK        bool        `json:"ok"`
	Kind      effect.Kind `json:"kind,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
