// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"reflect"
	"time"
)

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusPublished, ContentStatusArchived:
		return true
	}
	return false
}

// Fields is the opaque field payload of a content item. Its shape depends
// on the content type; the store never looks inside it beyond the title
// and required-field checks of the content type registry.
type Fields map[string]any

// String returns the value of key when it is a string, or "" otherwise.
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Clone returns a deep copy of the payload. Nested maps and slices are
// copied so the clone shares no mutable state with f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return map[string]any(Fields(t).Clone())
	case Fields:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	}

	// Typed slices and maps ([]string, map[string]string, ...) keep their
	// type but get fresh backing storage.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(cloneElem(rv.Index(i)))
		}
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneElem(iter.Value()))
		}
		return out.Interface()
	default:
		return v
	}
}

// cloneElem deep-copies one slice element or map value.
func cloneElem(e reflect.Value) reflect.Value {
	if e.Kind() == reflect.Interface && e.IsNil() {
		return e
	}
	return reflect.ValueOf(cloneValue(e.Interface()))
}

// ContentKey identifies one content item: content ids are unique per site
// and content type.
type ContentKey struct {
	SiteID      string        `json:"site_id"`
	ContentType ContentTypeID `json:"content_type"`
	ContentID   string        `json:"content_id"`
}

// ContentItem is the versioned unit of editable content. Data holds the
// last published snapshot (or the only snapshot of a never-published item);
// DraftData holds unpublished edits layered over a published item.
type ContentItem struct {
	SiteID      string        `json:"site_id"`
	ContentType ContentTypeID `json:"content_type"`
	ContentID   string        `json:"content_id"`
	Title       string        `json:"title"`
	Status      ContentStatus `json:"status"`
	Data        Fields        `json:"data"`
	DraftData   Fields        `json:"draft_data,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
}

// Key returns the identifying key of the item.
func (c *ContentItem) Key() ContentKey {
	return ContentKey{SiteID: c.SiteID, ContentType: c.ContentType, ContentID: c.ContentID}
}

// IsPublished returns true if the content item is in published status.
func (c *ContentItem) IsPublished() bool {
	return c.Status == ContentStatusPublished
}

// IsArchived returns true if the item has been archived.
func (c *ContentItem) IsArchived() bool {
	return c.Status == ContentStatusArchived
}

// HasDraft reports whether a published item carries unpublished edits.
// A never-published item has no draft distinction: its edits live in Data.
func (c *ContentItem) HasDraft() bool {
	return c.DraftData != nil && c.Status == ContentStatusPublished
}

// EditData returns the snapshot an editor should load: the draft overlay
// when one exists, otherwise the live data.
func (c *ContentItem) EditData() Fields {
	if c.DraftData != nil {
		return c.DraftData
	}
	return c.Data
}

// Clone returns a deep copy of the item.
func (c *ContentItem) Clone() *ContentItem {
	out := *c
	out.Data = c.Data.Clone()
	out.DraftData = c.DraftData.Clone()
	if c.PublishedAt != nil {
		t := *c.PublishedAt
		out.PublishedAt = &t
	}
	return &out
}

// MarshalJSON adds the derived has_draft flag to the serialized item.
func (c ContentItem) MarshalJSON() ([]byte, error) {
	type plain ContentItem
	return json.Marshal(struct {
		plain
		HasDraft bool `json:"has_draft"`
	}{plain(c), c.HasDraft()})
}
