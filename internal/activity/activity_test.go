package activity

import (
	"testing"
	"time"

	"sitecms/internal/models"
)

var (
	t1 = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	t2 = t1.Add(time.Hour)
	t3 = t2.Add(time.Hour)
)

func ptr(t time.Time) *time.Time { return &t }

type want struct {
	action string
	at     time.Time
}

func check(t *testing.T, got []Entry, expected []want) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("got %d entries %+v, want %d", len(got), got, len(expected))
	}
	for i, w := range expected {
		if got[i].Action != w.action || !got[i].Timestamp.Equal(w.at) {
			t.Errorf("entry %d: got %s@%v, want %s@%v", i, got[i].Action, got[i].Timestamp, w.action, w.at)
		}
	}
}

func TestReconstruct(t *testing.T) {
	tests := []struct {
		name string
		item models.ContentItem
		want []want
	}{
		{
			name: "fresh draft",
			item: models.ContentItem{Status: models.ContentStatusDraft, CreatedAt: t1, UpdatedAt: t1},
			want: []want{{ActionCreated, t1}},
		},
		{
			name: "edited draft",
			item: models.ContentItem{Status: models.ContentStatusDraft, CreatedAt: t1, UpdatedAt: t2},
			want: []want{{ActionModified, t2}, {ActionCreated, t1}},
		},
		{
			name: "created published",
			item: models.ContentItem{Status: models.ContentStatusPublished, CreatedAt: t1, UpdatedAt: t1, PublishedAt: ptr(t1)},
			want: []want{{ActionPublished, t1}, {ActionCreated, t1}},
		},
		{
			name: "published later",
			item: models.ContentItem{Status: models.ContentStatusPublished, CreatedAt: t1, UpdatedAt: t2, PublishedAt: ptr(t2)},
			want: []want{{ActionPublished, t2}, {ActionCreated, t1}},
		},
		{
			name: "draft saved after publish",
			item: models.ContentItem{
				Status: models.ContentStatusPublished, CreatedAt: t1, UpdatedAt: t3, PublishedAt: ptr(t2),
				Data: models.Fields{}, DraftData: models.Fields{"title": "x"},
			},
			want: []want{{ActionUnpublishedChanges, t3}, {ActionPublished, t2}, {ActionCreated, t1}},
		},
		{
			name: "draft discarded",
			item: models.ContentItem{Status: models.ContentStatusPublished, CreatedAt: t1, UpdatedAt: t3, PublishedAt: ptr(t2)},
			want: []want{{ActionModified, t3}, {ActionPublished, t2}, {ActionCreated, t1}},
		},
		{
			name: "archived keeps publish",
			item: models.ContentItem{
				Status: models.ContentStatusArchived, CreatedAt: t1, UpdatedAt: t3, PublishedAt: ptr(t2),
				DraftData: models.Fields{"title": "x"},
			},
			want: []want{{ActionModified, t3}, {ActionPublished, t2}, {ActionCreated, t1}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			check(t, Reconstruct(&tc.item), tc.want)
		})
	}
}

func TestReconstructFullHistory(t *testing.T) {
	item := &models.ContentItem{
		Status:      models.ContentStatusPublished,
		CreatedAt:   t1,
		UpdatedAt:   t2,
		PublishedAt: ptr(t3),
		Data:        models.Fields{"title": "live"},
		DraftData:   models.Fields{"title": "staged"},
	}

	got := Reconstruct(item)
	check(t, got, []want{
		{ActionUnpublishedChanges, t3},
		{ActionPublished, t3},
		{ActionModified, t2},
		{ActionCreated, t1},
	})
	if got[0].Details != DraftDetails {
		t.Errorf("details: got %q, want %q", got[0].Details, DraftDetails)
	}

	// Publishing clears the draft; the unpublished entry must go with it.
	t4 := t3.Add(time.Hour)
	item.DraftData = nil
	item.UpdatedAt = t4
	item.PublishedAt = ptr(t4)

	got = Reconstruct(item)
	check(t, got, []want{{ActionPublished, t4}, {ActionCreated, t1}})
	for _, e := range got {
		if e.Action == ActionUnpublishedChanges {
			t.Error("unpublished changes survived a publish")
		}
	}
}

func TestReconstructEmpty(t *testing.T) {
	if got := Reconstruct(nil); got == nil || len(got) != 0 {
		t.Errorf("nil item: got %v, want empty slice", got)
	}
	if got := Reconstruct(&models.ContentItem{}); len(got) != 0 {
		t.Errorf("zero item: got %v, want empty", got)
	}
}

func TestReconstructUniqueIDs(t *testing.T) {
	item := &models.ContentItem{
		Status: models.ContentStatusPublished, CreatedAt: t1, UpdatedAt: t3, PublishedAt: ptr(t2),
		DraftData: models.Fields{},
	}
	seen := map[string]bool{}
	for _, e := range Reconstruct(item) {
		if seen[e.ID] {
			t.Errorf("duplicate id %q", e.ID)
		}
		seen[e.ID] = true
	}
}
