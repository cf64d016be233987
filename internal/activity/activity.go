// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package activity derives a human-readable change log for a content item
// from its timestamps. Nothing is stored: the log is rebuilt from the
// item's current state on every read, so it describes the latest of each
// kind of event rather than a full history.
package activity

import (
	"sort"
	"time"

	"sitecms/internal/models"
)

// Action names shown in the admin activity panel.
const (
	ActionCreated            = "created"
	ActionModified           = "modified"
	ActionPublished          = "published"
	ActionUnpublishedChanges = "unpublished changes"
)

// DraftDetails accompanies the unpublished changes entry.
const DraftDetails = "Draft saved. Publish to make changes live."

// EmptyMessage is what callers display for an item with no entries.
const EmptyMessage = "No activity yet"

// Entry is one line of the activity log.
type Entry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
}

// rank orders entries that share a timestamp. Lower sorts first.
var rank = map[string]int{
	ActionUnpublishedChanges: 0,
	ActionPublished:          1,
	ActionModified:           2,
	ActionCreated:            3,
}

// Reconstruct returns the activity log for item, newest first. It never
// fails; an item without timestamps yields an empty, non-nil slice.
func Reconstruct(item *models.ContentItem) []Entry {
	entries := []Entry{}
	if item == nil {
		return entries
	}

	if !item.CreatedAt.IsZero() {
		entries = append(entries, Entry{
			ID:        "created",
			Action:    ActionCreated,
			Timestamp: item.CreatedAt,
		})
	}

	var draftAt time.Time
	if item.HasDraft() {
		draftAt = item.UpdatedAt
		if item.PublishedAt != nil && item.PublishedAt.After(draftAt) {
			draftAt = *item.PublishedAt
		}
	}

	// A publish or a draft save stamps UpdatedAt; the specific entry
	// stands in for the generic one.
	if !item.UpdatedAt.IsZero() && !item.UpdatedAt.Equal(item.CreatedAt) {
		coincides := (item.PublishedAt != nil && item.UpdatedAt.Equal(*item.PublishedAt)) ||
			(!draftAt.IsZero() && item.UpdatedAt.Equal(draftAt))
		if !coincides {
			entries = append(entries, Entry{
				ID:        "modified",
				Action:    ActionModified,
				Timestamp: item.UpdatedAt,
			})
		}
	}

	if item.PublishedAt != nil && !item.PublishedAt.IsZero() {
		entries = append(entries, Entry{
			ID:        "published",
			Action:    ActionPublished,
			Timestamp: *item.PublishedAt,
		})
	}

	if !draftAt.IsZero() {
		entries = append(entries, Entry{
			ID:        "draft",
			Action:    ActionUnpublishedChanges,
			Timestamp: draftAt,
			Details:   DraftDetails,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return rank[a.Action] < rank[b.Action]
	})
	return entries
}
