// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache_log.go records public read cache invalidations in the database for
// debugging. Each entry captures which content item was invalidated, when,
// and by which transition (create/publish/archive/delete).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"sitecms/internal/models"
)

// CacheLogStore handles cache invalidation log operations.
type CacheLogStore struct {
	db *sql.DB
}

// NewCacheLogStore creates a new CacheLogStore.
func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log records a cache invalidation event for one content item.
func (s *CacheLogStore) Log(ctx context.Context, key models.ContentKey, action string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_invalidation_log (site_id, content_type, content_id, action)
		VALUES ($1, $2, $3, $4)
	`, key.SiteID, key.ContentType, key.ContentID, action)
	if err != nil {
		// Best-effort.
		slog.Warn("failed to log cache invalidation",
			"site", key.SiteID,
			"type", key.ContentType,
			"id", key.ContentID,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("cache invalidation logged",
		"site", key.SiteID,
		"type", key.ContentType,
		"id", key.ContentID,
		"action", action,
	)
}

// RecentEntries returns the most recent invalidation events for a site,
// newest first. Limited to the specified count.
func (s *CacheLogStore) RecentEntries(ctx context.Context, siteID string, limit int) ([]CacheLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, content_type, content_id, action, invalidated_at
		FROM cache_invalidation_log
		WHERE site_id = $1
		ORDER BY invalidated_at DESC, id DESC
		LIMIT $2
	`, siteID, limit)
	if err != nil {
		return nil, fmt.Errorf("query cache log: %w", err)
	}
	defer rows.Close()

	var entries []CacheLogEntry
	for rows.Next() {
		var e CacheLogEntry
		if err := rows.Scan(&e.ID, &e.SiteID, &e.ContentType, &e.ContentID, &e.Action, &e.InvalidatedAt); err != nil {
			return nil, fmt.Errorf("scan cache log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CacheLogEntry represents a single cache invalidation event.
type CacheLogEntry struct {
	ID            int64                `json:"id"`
	SiteID        string               `json:"site_id"`
	ContentType   models.ContentTypeID `json:"content_type"`
	ContentID     string               `json:"content_id"`
	Action        string               `json:"action"`
	InvalidatedAt time.Time            `json:"invalidated_at"`
}
