// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package versioning

import (
	"context"

	"sitecms/internal/models"
)

// ListFilter narrows a repository listing. An empty Status returns items
// in every status.
type ListFilter struct {
	SiteID      string
	ContentType models.ContentTypeID
	Status      models.ContentStatus
}

// Repository persists content items. Every method is a single atomic
// record operation: readers never observe a half-applied write and a failed
// write leaves the stored record as it was.
type Repository interface {
	// Insert stores a new item. It returns ErrDuplicate when the key is
	// taken or a second singleton would be created for the site.
	Insert(ctx context.Context, item *models.ContentItem) error

	// Find returns the item for key, or (nil, nil) if none exists.
	Find(ctx context.Context, key models.ContentKey) (*models.ContentItem, error)

	// List returns the items matching f, newest first.
	List(ctx context.Context, f ListFilter) ([]models.ContentItem, error)

	// Replace overwrites every mutable column of an existing item in one
	// write. It reports false when the item no longer exists.
	Replace(ctx context.Context, item *models.ContentItem) (bool, error)

	// Delete removes the item and reports whether it existed.
	Delete(ctx context.Context, key models.ContentKey) (bool, error)
}
