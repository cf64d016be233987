// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package resolve decides which snapshot of a content item each reader
// sees. Public readers only ever get published Data; editors get the draft
// overlay when one exists. The site-content singleton is served from
// defaults until its first save.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sitecms/internal/activity"
	"sitecms/internal/models"
	"sitecms/internal/versioning"
)

// StatusAll is the admin list filter that matches every status.
const StatusAll = "all"

// PublicItem is the public view of a published item. It carries the live
// Data only; titles and drafts stay in the admin API.
type PublicItem struct {
	ID          string               `json:"id"`
	ContentType models.ContentTypeID `json:"content_type"`
	Data        models.Fields        `json:"data"`
	PublishedAt *time.Time           `json:"published_at"`
}

// EditView is what the admin editor loads for one item.
type EditView struct {
	Item     *models.ContentItem `json:"item"`
	Data     models.Fields       `json:"data"`
	Activity []activity.Entry    `json:"activity"`
	// Persisted is false for a singleton that has never been saved.
	Persisted bool `json:"persisted"`
}

// Policy applies the read and write rules on top of the versioning service.
type Policy struct {
	svc *versioning.Service
}

// NewPolicy creates a Policy over svc.
func NewPolicy(svc *versioning.Service) *Policy {
	return &Policy{svc: svc}
}

// PublicList returns the published items of one type for a site.
func (p *Policy) PublicList(ctx context.Context, siteID string, ct models.ContentTypeID) ([]PublicItem, error) {
	items, err := p.svc.List(ctx, versioning.ListFilter{
		SiteID:      siteID,
		ContentType: ct,
		Status:      models.ContentStatusPublished,
	})
	if err != nil {
		return nil, err
	}

	out := make([]PublicItem, 0, len(items))
	for i := range items {
		out = append(out, toPublic(&items[i]))
	}
	return out, nil
}

// PublicGet returns one published item. Drafts and archived items are
// reported as not found.
func (p *Policy) PublicGet(ctx context.Context, key models.ContentKey) (*PublicItem, error) {
	item, err := p.svc.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.IsPublished() {
		return nil, fmt.Errorf("public get %s/%s: %w", key.ContentType, key.ContentID, versioning.ErrNotFound)
	}
	pub := toPublic(item)
	return &pub, nil
}

// AdminList returns every item of one type for a site, or only those in
// status. An empty status or StatusAll matches everything.
func (p *Policy) AdminList(ctx context.Context, siteID string, ct models.ContentTypeID, status string) ([]models.ContentItem, error) {
	f := versioning.ListFilter{SiteID: siteID, ContentType: ct}
	if status != "" && status != StatusAll {
		f.Status = models.ContentStatus(status)
	}
	items, err := p.svc.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	return items, nil
}

// EditLoad returns the item with the snapshot the editor should show and
// its activity log.
func (p *Policy) EditLoad(ctx context.Context, key models.ContentKey) (*EditView, error) {
	item, err := p.svc.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return &EditView{
		Item:      item,
		Data:      item.EditData().Clone(),
		Activity:  activity.Reconstruct(item),
		Persisted: true,
	}, nil
}

// Activity returns the reconstructed activity log of one item.
func (p *Policy) Activity(ctx context.Context, key models.ContentKey) ([]activity.Entry, error) {
	item, err := p.svc.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return activity.Reconstruct(item), nil
}

// Singleton returns the site-content item for a site. When none is stored
// it returns an unsaved draft built from the defaults and false; nothing is
// written.
func (p *Policy) Singleton(ctx context.Context, siteID string) (*models.ContentItem, bool, error) {
	item, err := p.svc.Find(ctx, singletonKey(siteID))
	if err != nil {
		return nil, false, err
	}
	if item != nil {
		return item, true, nil
	}
	return &models.ContentItem{
		SiteID:      siteID,
		ContentType: models.ContentTypeSiteContent,
		ContentID:   models.SiteContentID,
		Title:       singletonSpec().Label,
		Status:      models.ContentStatusDraft,
		Data:        models.DefaultSiteContent(),
	}, false, nil
}

// SingletonEdit is EditLoad for the site-content singleton.
func (p *Policy) SingletonEdit(ctx context.Context, siteID string) (*EditView, error) {
	item, persisted, err := p.Singleton(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return &EditView{
		Item:      item,
		Data:      item.EditData().Clone(),
		Activity:  activity.Reconstruct(item),
		Persisted: persisted,
	}, nil
}

// PublicSingleton returns the published site content, or the defaults
// while nothing has been published.
func (p *Policy) PublicSingleton(ctx context.Context, siteID string) (models.Fields, error) {
	item, err := p.svc.Find(ctx, singletonKey(siteID))
	if err != nil {
		return nil, err
	}
	if item == nil || !item.IsPublished() {
		return models.DefaultSiteContent(), nil
	}
	return item.Data.Clone(), nil
}

// SaveSingletonDraft stores fields as the site content draft, creating the
// row on first save.
func (p *Policy) SaveSingletonDraft(ctx context.Context, siteID string, fields models.Fields) (*models.ContentItem, error) {
	return p.writeSingleton(ctx, siteID, fields, models.ContentStatusDraft)
}

// PublishSingleton publishes fields as the site content, creating the row
// on first save.
func (p *Policy) PublishSingleton(ctx context.Context, siteID string, fields models.Fields) (*models.ContentItem, error) {
	return p.writeSingleton(ctx, siteID, fields, models.ContentStatusPublished)
}

func (p *Policy) writeSingleton(ctx context.Context, siteID string, fields models.Fields, status models.ContentStatus) (*models.ContentItem, error) {
	key := singletonKey(siteID)
	existing, err := p.svc.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return p.svc.Update(ctx, key, fields, status)
	}

	item, err := p.svc.Create(ctx, versioning.CreateParams{
		SiteID:      siteID,
		ContentType: models.ContentTypeSiteContent,
		Fields:      fields,
		Status:      status,
	})
	if errors.Is(err, versioning.ErrValidation) {
		// Another writer may have created the row since the lookup.
		if again, ferr := p.svc.Find(ctx, key); ferr == nil && again != nil {
			slog.Debug("site content created concurrently, updating instead", "site", siteID)
			return p.svc.Update(ctx, key, fields, status)
		}
	}
	return item, err
}

func toPublic(item *models.ContentItem) PublicItem {
	return PublicItem{
		ID:          item.ContentID,
		ContentType: item.ContentType,
		Data:        item.Data.Clone(),
		PublishedAt: item.PublishedAt,
	}
}

func singletonKey(siteID string) models.ContentKey {
	return models.ContentKey{
		SiteID:      siteID,
		ContentType: models.ContentTypeSiteContent,
		ContentID:   models.SiteContentID,
	}
}

func singletonSpec() models.ContentTypeSpec {
	spec, _ := models.LookupContentType(models.ContentTypeSiteContent)
	return spec
}
