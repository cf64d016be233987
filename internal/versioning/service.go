// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package versioning implements the draft/publish lifecycle shared by every
// editable content type. A published item keeps serving its last published
// snapshot while editors stage changes in a draft overlay, which is later
// either promoted with Publish or dropped with DiscardDraft.
package versioning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitecms/internal/models"
	"sitecms/internal/slug"
)

// contentIDPattern restricts caller-supplied ids to URL-safe tokens.
var contentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,127}$`)

// Service owns every state transition of a content item. It holds no
// per-item state of its own; concurrent writers to the same item race and
// the last write wins.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func(title string) string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the content id generator used when a caller
// creates an item without supplying an id.
func WithIDGenerator(fn func(title string) string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a Service backed by repo.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: generateContentID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams describes a new content item.
type CreateParams struct {
	SiteID      string
	ContentType models.ContentTypeID
	// ContentID is optional; one is generated from the title when empty.
	ContentID string
	Fields    models.Fields
	// Status must be draft or published. Empty means draft.
	Status models.ContentStatus
}

// Create stores a new item with Data set to the given fields.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.ContentItem, error) {
	spec, err := lookupType(p.ContentType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.SiteID) == "" {
		return nil, validationf("site id is required")
	}
	if p.Fields == nil {
		return nil, validationf("fields are required")
	}

	status := p.Status
	if status == "" {
		status = models.ContentStatusDraft
	}
	if status != models.ContentStatusDraft && status != models.ContentStatusPublished {
		return nil, validationf("cannot create content with status %q", status)
	}
	if status == models.ContentStatusPublished {
		if missing := spec.MissingFields(p.Fields); len(missing) > 0 {
			return nil, validationf("missing required fields: %s", strings.Join(missing, ", "))
		}
	}

	contentID := p.ContentID
	switch {
	case spec.Singleton:
		if contentID != "" && contentID != models.SiteContentID {
			return nil, validationf("%s is a singleton and uses the id %q", spec.ID, models.SiteContentID)
		}
		contentID = models.SiteContentID
		existing, err := s.repo.List(ctx, ListFilter{SiteID: p.SiteID, ContentType: spec.ID})
		if err != nil {
			return nil, storageErr("check singleton", err)
		}
		if len(existing) > 0 {
			return nil, validationf("%s already exists for site %q", spec.ID, p.SiteID)
		}
	case contentID == "":
		contentID = s.newID(spec.TitleOf(p.Fields))
	case !contentIDPattern.MatchString(contentID):
		return nil, validationf("invalid content id %q", contentID)
	}

	now := s.stamp(time.Time{})
	item := &models.ContentItem{
		SiteID:      p.SiteID,
		ContentType: spec.ID,
		ContentID:   contentID,
		Title:       spec.TitleOf(p.Fields),
		Status:      status,
		Data:        p.Fields.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == models.ContentStatusPublished {
		published := now
		item.PublishedAt = &published
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, validationf("%s %q already exists", spec.ID, contentID)
		}
		return nil, storageErr("create content", err)
	}

	slog.Debug("content created",
		"site", item.SiteID,
		"type", item.ContentType,
		"id", item.ContentID,
		"status", item.Status,
	)
	return item, nil
}

// SaveDraft stores fields as the editor's latest version without touching
// what the public site reads. A never-published item is edited in place; a
// published item gets the fields as its draft overlay.
func (s *Service) SaveDraft(ctx context.Context, key models.ContentKey, fields models.Fields) (*models.ContentItem, error) {
	if fields == nil {
		return nil, validationf("fields are required")
	}
	item, spec, err := s.load(ctx, "save draft", key)
	if err != nil {
		return nil, err
	}

	switch item.Status {
	case models.ContentStatusDraft:
		item.Data = fields.Clone()
		item.DraftData = nil
	case models.ContentStatusPublished:
		item.DraftData = fields.Clone()
	default:
		return nil, invalidStatef("%s is %s and cannot be edited", keyString(key), item.Status)
	}

	item.Title = spec.TitleOf(fields)
	item.UpdatedAt = s.stamp(item.UpdatedAt)

	if err := s.replace(ctx, "save draft", item); err != nil {
		return nil, err
	}
	slog.Debug("content draft saved", "key", keyString(key), "has_draft", item.HasDraft())
	return item, nil
}

// Publish makes fields the live snapshot and clears any draft overlay.
// Callers pass the editor's current values; a stored draft that differs is
// dropped, not merged.
func (s *Service) Publish(ctx context.Context, key models.ContentKey, fields models.Fields) (*models.ContentItem, error) {
	if fields == nil {
		return nil, validationf("fields are required")
	}
	item, spec, err := s.load(ctx, "publish", key)
	if err != nil {
		return nil, err
	}
	if item.IsArchived() {
		return nil, invalidStatef("%s is archived and cannot be published", keyString(key))
	}
	if missing := spec.MissingFields(fields); len(missing) > 0 {
		return nil, validationf("missing required fields: %s", strings.Join(missing, ", "))
	}

	now := s.stamp(item.UpdatedAt)
	published := now
	if item.PublishedAt != nil && published.Before(*item.PublishedAt) {
		published = *item.PublishedAt
	}

	item.Data = fields.Clone()
	item.DraftData = nil
	item.Status = models.ContentStatusPublished
	item.Title = spec.TitleOf(fields)
	item.UpdatedAt = now
	item.PublishedAt = &published

	if err := s.replace(ctx, "publish", item); err != nil {
		return nil, err
	}
	slog.Debug("content published", "key", keyString(key), "published_at", published)
	return item, nil
}

// DiscardDraft drops the draft overlay of a published item. Data, status
// and publish time are left alone.
func (s *Service) DiscardDraft(ctx context.Context, key models.ContentKey) (*models.ContentItem, error) {
	item, spec, err := s.load(ctx, "discard draft", key)
	if err != nil {
		return nil, err
	}
	if !item.HasDraft() {
		return nil, invalidStatef("%s has no draft to discard", keyString(key))
	}

	item.DraftData = nil
	item.Title = spec.TitleOf(item.Data)
	item.UpdatedAt = s.stamp(item.UpdatedAt)

	if err := s.replace(ctx, "discard draft", item); err != nil {
		return nil, err
	}
	slog.Debug("content draft discarded", "key", keyString(key))
	return item, nil
}

// Archive moves an item to the terminal archived status. Archived items
// drop out of public reads and can no longer be edited or published, only
// deleted.
func (s *Service) Archive(ctx context.Context, key models.ContentKey) (*models.ContentItem, error) {
	item, _, err := s.load(ctx, "archive", key)
	if err != nil {
		return nil, err
	}
	if item.IsArchived() {
		return nil, invalidStatef("%s is already archived", keyString(key))
	}

	item.Status = models.ContentStatusArchived
	item.UpdatedAt = s.stamp(item.UpdatedAt)

	if err := s.replace(ctx, "archive", item); err != nil {
		return nil, err
	}
	slog.Debug("content archived", "key", keyString(key))
	return item, nil
}

// Update applies an editor save: status draft routes to SaveDraft and
// status published routes to Publish.
func (s *Service) Update(ctx context.Context, key models.ContentKey, fields models.Fields, status models.ContentStatus) (*models.ContentItem, error) {
	switch status {
	case models.ContentStatusDraft:
		return s.SaveDraft(ctx, key, fields)
	case models.ContentStatusPublished:
		return s.Publish(ctx, key, fields)
	default:
		return nil, validationf("update status must be draft or published, got %q", status)
	}
}

// ResolveForEdit returns the snapshot an editor should load into a form:
// the draft overlay if present, otherwise the live data.
func (s *Service) ResolveForEdit(ctx context.Context, key models.ContentKey) (models.Fields, error) {
	item, _, err := s.load(ctx, "resolve for edit", key)
	if err != nil {
		return nil, err
	}
	return item.EditData().Clone(), nil
}

// Get returns the stored item for key.
func (s *Service) Get(ctx context.Context, key models.ContentKey) (*models.ContentItem, error) {
	item, _, err := s.load(ctx, "get", key)
	return item, err
}

// Find is Get without the not-found error: it returns (nil, nil) when the
// item does not exist.
func (s *Service) Find(ctx context.Context, key models.ContentKey) (*models.ContentItem, error) {
	if _, err := lookupType(key.ContentType); err != nil {
		return nil, err
	}
	item, err := s.repo.Find(ctx, key)
	if err != nil {
		return nil, storageErr("find content", err)
	}
	return item, nil
}

// List returns the items of one content type for a site, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.ContentItem, error) {
	if _, err := lookupType(f.ContentType); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, validationf("unknown status %q", f.Status)
	}
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, storageErr("list content", err)
	}
	return items, nil
}

// Delete removes an item permanently.
func (s *Service) Delete(ctx context.Context, key models.ContentKey) error {
	if _, err := lookupType(key.ContentType); err != nil {
		return err
	}
	found, err := s.repo.Delete(ctx, key)
	if err != nil {
		return storageErr("delete content", err)
	}
	if !found {
		return notFound("delete", keyString(key))
	}
	slog.Debug("content deleted", "key", keyString(key))
	return nil
}

// load fetches the item for key along with its content type entry.
func (s *Service) load(ctx context.Context, op string, key models.ContentKey) (*models.ContentItem, models.ContentTypeSpec, error) {
	spec, err := lookupType(key.ContentType)
	if err != nil {
		return nil, spec, err
	}
	item, err := s.repo.Find(ctx, key)
	if err != nil {
		return nil, spec, storageErr(op, err)
	}
	if item == nil {
		return nil, spec, notFound(op, keyString(key))
	}
	return item, spec, nil
}

// replace writes item back in a single repository call.
func (s *Service) replace(ctx context.Context, op string, item *models.ContentItem) error {
	found, err := s.repo.Replace(ctx, item)
	if err != nil {
		return storageErr(op, err)
	}
	if !found {
		return notFound(op, keyString(item.Key()))
	}
	return nil
}

// stamp returns the current time at the storage precision, moved past prev
// so successive mutations of one item always get increasing timestamps.
func (s *Service) stamp(prev time.Time) time.Time {
	now := s.now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		now = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now
}

func lookupType(id models.ContentTypeID) (models.ContentTypeSpec, error) {
	spec, ok := models.LookupContentType(id)
	if !ok {
		return spec, validationf("unknown content type %q", id)
	}
	return spec, nil
}

// generateContentID builds a readable id from the title with a random
// suffix, e.g. "brand-refresh-1f3a9c2e".
func generateContentID(title string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	base := slug.GenerateMax(title, 64)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func keyString(k models.ContentKey) string {
	return fmt.Sprintf("%s/%s/%s", k.SiteID, k.ContentType, k.ContentID)
}
