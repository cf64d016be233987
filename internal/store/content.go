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

	"github.com/jackc/pgx/v5/pgconn"

	"sitecms/internal/models"
	"sitecms/internal/versioning"
)

// contentColumns lists all columns for content_items SELECTs.
const contentColumns = `site_id, content_type, content_id, title, status,
	data, draft_data, created_at, updated_at, published_at`

// pgUniqueViolation is the SQLSTATE PostgreSQL reports for unique index conflicts.
const pgUniqueViolation = "23505"

// ContentStore persists versioned content items in PostgreSQL. Payloads are
// stored as JSONB and every write is a single statement, so each state
// transition is atomic to concurrent readers.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// scanContent scans a single content_items row into a ContentItem.
func scanContent(scanner interface{ Scan(...any) error }) (*models.ContentItem, error) {
	var (
		c               models.ContentItem
		data, draftData []byte
	)
	err := scanner.Scan(
		&c.SiteID, &c.ContentType, &c.ContentID, &c.Title, &c.Status,
		&data, &draftData, &c.CreatedAt, &c.UpdatedAt, &c.PublishedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, &c.Data); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	if draftData != nil {
		if err := json.Unmarshal(draftData, &c.DraftData); err != nil {
			return nil, fmt.Errorf("decode draft data: %w", err)
		}
	}
	if c.Data == nil {
		c.Data = models.Fields{}
	}
	return &c, nil
}

// Insert adds a new content item. A unique violation on the primary key or
// on the per-site singleton index is reported as versioning.ErrDuplicate.
func (s *ContentStore) Insert(ctx context.Context, c *models.ContentItem) error {
	data, draftData, err := encodePayloads(c)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO content_items (site_id, content_type, content_id, title, status,
		                           data, draft_data, created_at, updated_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.SiteID, c.ContentType, c.ContentID, c.Title, c.Status,
		data, draftData, c.CreatedAt, c.UpdatedAt, c.PublishedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("insert content: %w", versioning.ErrDuplicate)
		}
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

// Find retrieves a content item by key. Returns nil if not found.
func (s *ContentStore) Find(ctx context.Context, key models.ContentKey) (*models.ContentItem, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+`
		FROM content_items
		WHERE site_id = $1 AND content_type = $2 AND content_id = $3
	`, key.SiteID, key.ContentType, key.ContentID)

	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content: %w", err)
	}
	return c, nil
}

// List returns the content items of one type for a site, ordered by
// creation date descending. An empty status filter returns every status.
func (s *ContentStore) List(ctx context.Context, f versioning.ListFilter) ([]models.ContentItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contentColumns+`
		FROM content_items
		WHERE site_id = $1 AND content_type = $2
		  AND ($3::text = '' OR status = $3::text)
		ORDER BY created_at DESC, content_id
	`, f.SiteID, f.ContentType, string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Replace overwrites every mutable column of an existing item in a single
// UPDATE. Returns false if no row matched.
func (s *ContentStore) Replace(ctx context.Context, c *models.ContentItem) (bool, error) {
	data, draftData, err := encodePayloads(c)
	if err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE content_items SET
			title = $4, status = $5, data = $6, draft_data = $7,
			updated_at = $8, published_at = $9
		WHERE site_id = $1 AND content_type = $2 AND content_id = $3
	`, c.SiteID, c.ContentType, c.ContentID,
		c.Title, c.Status, data, draftData, c.UpdatedAt, c.PublishedAt,
	)
	if err != nil {
		return false, fmt.Errorf("replace content: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("replace content rows: %w", err)
	}
	return n > 0, nil
}

// Delete removes a content item by key.
func (s *ContentStore) Delete(ctx context.Context, key models.ContentKey) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM content_items
		WHERE site_id = $1 AND content_type = $2 AND content_id = $3
	`, key.SiteID, key.ContentType, key.ContentID)
	if err != nil {
		return false, fmt.Errorf("delete content: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete content rows: %w", err)
	}
	return n > 0, nil
}

// encodePayloads marshals Data and DraftData for JSONB columns. A nil
// DraftData becomes SQL NULL rather than a JSON null.
func encodePayloads(c *models.ContentItem) ([]byte, []byte, error) {
	fields := c.Data
	if fields == nil {
		fields = models.Fields{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, fmt.Errorf("encode data: %w", err)
	}
	if c.DraftData == nil {
		return data, nil, nil
	}
	draftData, err := json.Marshal(c.DraftData)
	if err != nil {
		return nil, nil, fmt.Errorf("encode draft data: %w", err)
	}
	return data, draftData, nil
}
