package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
)

var dbSeq atomic.Int64

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbURL := fmt.Sprintf("file:repo%d?mode=memory&cache=shared", dbSeq.Add(1))
	repo, err := NewSQLiteRepository(dbURL)
	if err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	// Deterministic, strictly increasing insertion clock
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var tick int64
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return repo
}

func TestInsertAssignsIDAndTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := &domain.Bookmark{Title: "GitHub", URL: "https://github.com", OwnerID: "user-1"}
	if err := repo.InsertBookmark(ctx, b); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if b.ID == 0 {
		t.Error("expected server-assigned id")
	}
	if b.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestListIsNewestFirstAndOwnerScoped(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, b := range []domain.Bookmark{
		{Title: "old", URL: "https://old.example", OwnerID: "alice"},
		{Title: "other", URL: "https://bob.example", OwnerID: "bob"},
		{Title: "new", URL: "https://new.example", OwnerID: "alice"},
	} {
		b := b
		if err := repo.InsertBookmark(ctx, &b); err != nil {
			t.Fatalf("insert %s: %v", b.Title, err)
		}
	}

	got, err := repo.ListBookmarks(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bookmarks for alice, got %d", len(got))
	}
	if got[0].Title != "new" || got[1].Title != "old" {
		t.Errorf("wrong order: %q, %q", got[0].Title, got[1].Title)
	}
	for _, b := range got {
		if b.OwnerID != "alice" {
			t.Errorf("leaked bookmark of %s", b.OwnerID)
		}
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	repo := newTestRepo(t)
	got, err := repo.ListBookmarks(context.Background(), "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %#v", got)
	}
}

func TestDeleteIsOwnerScoped(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := &domain.Bookmark{Title: "mine", URL: "https://mine.example", OwnerID: "alice"}
	if err := repo.InsertBookmark(ctx, b); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteBookmark(ctx, "bob", b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign delete: expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteBookmark(ctx, "alice", b.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
	if err := repo.DeleteBookmark(ctx, "alice", b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestRestoreKeepsTimestampAndDump(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added := time.Date(2020, 5, 17, 8, 30, 0, 0, time.UTC)
	if err := repo.Restore(ctx, &domain.Bookmark{Title: "imported", URL: "https://a.example", OwnerID: "alice", CreatedAt: added}); err != nil {
		t.Fatal(err)
	}
	if err := repo.InsertBookmark(ctx, &domain.Bookmark{Title: "fresh", URL: "https://b.example", OwnerID: "bob"}); err != nil {
		t.Fatal(err)
	}

	all, err := repo.Dump(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 in dump, got %d", len(all))
	}

	alice, err := repo.Dump(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(alice) != 1 || !alice[0].CreatedAt.Equal(added) {
		t.Errorf("restore lost created_at: %+v", alice)
	}
}
