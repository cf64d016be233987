// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sort"
	"sync"

	"sitecms/internal/models"
	"sitecms/internal/versioning"
)

// MemoryContentStore keeps content items in process memory. It has the
// same per-call atomicity as the PostgreSQL store and is used for local
// development without a database and for tests.
type MemoryContentStore struct {
	mu    sync.RWMutex
	items map[models.ContentKey]*models.ContentItem
}

// NewMemoryContentStore creates an empty in-memory store.
func NewMemoryContentStore() *MemoryContentStore {
	return &MemoryContentStore{items: make(map[models.ContentKey]*models.ContentItem)}
}

// Insert stores a copy of item. Singleton content types allow one item per site.
func (s *MemoryContentStore) Insert(_ context.Context, item *models.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := item.Key()
	if _, exists := s.items[key]; exists {
		return versioning.ErrDuplicate
	}
	if spec, ok := models.LookupContentType(item.ContentType); ok && spec.Singleton {
		for k := range s.items {
			if k.SiteID == key.SiteID && k.ContentType == key.ContentType {
				return versioning.ErrDuplicate
			}
		}
	}

	s.items[key] = item.Clone()
	return nil
}

// Find returns a copy of the item for key, or nil if not found.
func (s *MemoryContentStore) Find(_ context.Context, key models.ContentKey) (*models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	return item.Clone(), nil
}

// List returns copies of the matching items, ordered by creation date descending.
func (s *MemoryContentStore) List(_ context.Context, f versioning.ListFilter) ([]models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []models.ContentItem
	for k, item := range s.items {
		if k.SiteID != f.SiteID || k.ContentType != f.ContentType {
			continue
		}
		if f.Status != "" && item.Status != f.Status {
			continue
		}
		items = append(items, *item.Clone())
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ContentID < items[j].ContentID
	})
	return items, nil
}

// Replace overwrites an existing item with a copy of item.
func (s *MemoryContentStore) Replace(_ context.Context, item *models.ContentItem) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := item.Key()
	if _, ok := s.items[key]; !ok {
		return false, nil
	}
	s.items[key] = item.Clone()
	return true, nil
}

// Delete removes the item for key.
func (s *MemoryContentStore) Delete(_ context.Context, key models.ContentKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return false, nil
	}
	delete(s.items, key)
	return true, nil
}

// Len returns the number of stored items.
func (s *MemoryContentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
