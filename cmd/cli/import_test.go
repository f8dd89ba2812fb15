package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
)

type fakeRestorer struct {
	rows   []domain.Bookmark
	dumps  int
	failAt int
	nextID int64
}

func (f *fakeRestorer) Dump(ctx context.Context, ownerID string) ([]domain.Bookmark, error) {
	f.dumps++
	var out []domain.Bookmark
	for _, b := range f.rows {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRestorer) Restore(ctx context.Context, b *domain.Bookmark) error {
	if f.failAt > 0 && len(f.rows)+1 == f.failAt {
		return errors.New("disk full")
	}
	f.nextID++
	b.ID = f.nextID
	f.rows = append(f.rows, *b)
	return nil
}

func TestImportBookmarks(t *testing.T) {
	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	store := &fakeRestorer{rows: []domain.Bookmark{
		{ID: 1, OwnerID: "u1", Title: "Go", URL: "https://go.dev"},
	}, nextID: 1}

	records := []domain.Bookmark{
		{ID: 99, Title: "Go again", URL: "https://go.dev", OwnerID: "someone"},
		{Title: " Chi ", URL: "https://go-chi.io", CreatedAt: created},
		{Title: "Chi dup", URL: "https://go-chi.io"},
		{Title: "", URL: "https://untitled.example"},
	}

	res, err := importBookmarks(context.Background(), store, "u1", records)
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 1 {
		t.Errorf("expected 1 import, got %d", res.Imported)
	}
	if len(res.Skipped) != 3 {
		t.Errorf("expected 3 skipped, got %+v", res.Skipped)
	}
	if store.dumps != 1 {
		t.Errorf("expected existing URLs to be loaded once per owner, got %d", store.dumps)
	}

	got := store.rows[len(store.rows)-1]
	if got.OwnerID != "u1" || got.Title != "Chi" || !got.CreatedAt.Equal(created) || got.ID != 2 {
		t.Errorf("unexpected restored row %+v", got)
	}
}

func TestImportKeepsOwnersFromBackup(t *testing.T) {
	store := &fakeRestorer{}
	records := []domain.Bookmark{
		{Title: "A", URL: "https://a.example", OwnerID: "u1"},
		{Title: "A", URL: "https://a.example", OwnerID: "u2"},
		{Title: "B", URL: "https://b.example"},
	}

	res, err := importBookmarks(context.Background(), store, "", records)
	if err != nil {
		t.Fatal(err)
	}
	if res.Imported != 2 {
		t.Errorf("same URL under two owners should import twice, got %d", res.Imported)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].URL != "https://b.example" {
		t.Errorf("record without owner should be skipped, got %+v", res.Skipped)
	}
}

func TestImportStopsOnStoreError(t *testing.T) {
	store := &fakeRestorer{failAt: 2}
	records := []domain.Bookmark{
		{Title: "A", URL: "https://a.example"},
		{Title: "B", URL: "https://b.example"},
		{Title: "C", URL: "https://c.example"},
	}

	res, err := importBookmarks(context.Background(), store, "u1", records)
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Imported != 1 || len(store.rows) != 1 {
		t.Errorf("expected to stop after first record, got %d imported", res.Imported)
	}
}
