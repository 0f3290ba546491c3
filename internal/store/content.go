// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"brandnet/internal/models"
)

// psql is the statement builder shared by every store in this package.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ErrDuplicateSlug is returned by Insert when the brand already has an item
// with the same slug.
var ErrDuplicateSlug = errors.New("duplicate slug")

// uniqueViolation is the PostgreSQL error code of a unique constraint failure.
const uniqueViolation = "23505"

const contentColumns = `id, brand, status, title, slug, body, excerpt, cover_image, tags,
	author_id, author_name, reading_time, metadata, cross_posted_to, cross_posted_from,
	source_url, is_ai_generated, published_at, created_at, updated_at`

// ContentStore handles all content item database operations for every brand.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.ContentItem, error) {
	var (
		c        models.ContentItem
		tags     pq.StringArray
		crossTo  pq.StringArray
		from     uuid.NullUUID
		metadata []byte
	)
	err := row.Scan(
		&c.ID, &c.Brand, &c.Status, &c.Title, &c.Slug, &c.Body, &c.Excerpt, &c.CoverImage, &tags,
		&c.AuthorID, &c.AuthorName, &c.ReadingTime, &metadata, &crossTo, &from,
		&c.SourceURL, &c.IsAIGenerated, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Tags = []string(tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.CrossPostedTo, err = parseIDs(crossTo)
	if err != nil {
		return nil, fmt.Errorf("parse cross_posted_to: %w", err)
	}
	if from.Valid {
		id := from.UUID
		c.CrossPostedFrom = &id
	}
	c.Metadata = map[string]any{}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &c.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &c, nil
}

func parseIDs(raw pq.StringArray) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func idStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// FindByID retrieves a content item by its UUID. Returns nil if not found.
func (s *ContentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM content_items WHERE id = $1`, id)
	c, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content item by id: %w", err)
	}
	return c, nil
}

// FindPublishedBySlug retrieves a published item of a brand by slug. Used
// by the public read endpoint. Returns nil if not found.
func (s *ContentStore) FindPublishedBySlug(ctx context.Context, brand models.Brand, slug string) (*models.ContentItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+`
		FROM content_items
		WHERE brand = $1 AND slug = $2 AND status = 'published'
	`, brand, slug)
	c, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published content item by slug: %w", err)
	}
	return c, nil
}

// Insert creates a new content item and returns it with the generated ID
// and timestamps.
func (s *ContentStore) Insert(ctx context.Context, c *models.ContentItem) (*models.ContentItem, error) {
	metadata := c.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}

	var from any
	if c.CrossPostedFrom != nil {
		from = *c.CrossPostedFrom
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO content_items (brand, status, title, slug, body, excerpt, cover_image, tags,
		                           author_id, author_name, reading_time, metadata, cross_posted_to,
		                           cross_posted_from, source_url, is_ai_generated, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13, $14, $15, $16, $17)
		RETURNING `+contentColumns,
		c.Brand, c.Status, c.Title, c.Slug, c.Body, c.Excerpt, c.CoverImage, pq.StringArray(tags),
		c.AuthorID, c.AuthorName, c.ReadingTime, string(raw), idStrings(c.CrossPostedTo),
		from, c.SourceURL, c.IsAIGenerated, c.PublishedAt,
	)
	created, err := scanItem(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("insert content item %s/%s: %w", c.Brand, c.Slug, ErrDuplicateSlug)
		}
		return nil, fmt.Errorf("insert content item: %w", err)
	}
	return created, nil
}

// Update applies a partial patch to an item and returns the stored result.
// Metadata keys are merged into the existing map. Returns nil if the item
// does not exist.
func (s *ContentStore) Update(ctx context.Context, id uuid.UUID, patch models.ItemPatch) (*models.ContentItem, error) {
	if patch.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	q := psql.Update("content_items").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + contentColumns)

	if len(patch.Metadata) > 0 {
		raw, err := json.Marshal(patch.Metadata)
		if err != nil {
			return nil, fmt.Errorf("encode metadata patch: %w", err)
		}
		q = q.Set("metadata", sq.Expr("metadata || ?::jsonb", string(raw)))
	}
	if patch.CrossPostedTo != nil {
		q = q.Set("cross_posted_to", idStrings(patch.CrossPostedTo))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build content update: %w", err)
	}

	c, err := scanItem(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update content item: %w", err)
	}
	return c, nil
}

// Publish moves an item to published in a single conditional statement.
// published_at is only set when it was empty, and items that are already
// published are left untouched. changed reports whether this call did the
// transition. Returns a nil item if it does not exist.
func (s *ContentStore) Publish(ctx context.Context, id uuid.UUID, at time.Time) (*models.ContentItem, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE content_items
		SET status = 'published',
		    published_at = COALESCE(published_at, $2),
		    updated_at = NOW()
		WHERE id = $1 AND status <> 'published'
		RETURNING `+contentColumns, id, at)
	c, err := scanItem(row)
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("publish content item: %w", err)
	}

	// Either missing or already published.
	c, err = s.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return c, false, nil
}
