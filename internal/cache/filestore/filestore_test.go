package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/securent/feed-widget/internal/domain"
	apperrors "github.com/securent/feed-widget/pkg/errors"
	"github.com/securent/feed-widget/pkg/logger"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := New(dir, "securent-fb-cache", logger.New(logger.Opts{}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return store, dir
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	posts := []domain.Post{
		{ID: "1", CreatedTime: "2024-01-15T10:00:00Z", Message: "first"},
		{ID: "2", CreatedTime: "2024-01-16T11:00:00Z", Message: "second"},
	}

	before := time.Now()
	store.Save(ctx, posts)

	cached, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cached.Posts) != len(posts) {
		t.Fatalf("Load returned %d posts, want %d", len(cached.Posts), len(posts))
	}
	for i := range posts {
		if cached.Posts[i] != posts[i] {
			t.Errorf("Posts[%d] = %+v, want %+v", i, cached.Posts[i], posts[i])
		}
	}
	if cached.Timestamp.Before(before.Add(-time.Second)) || cached.Timestamp.After(time.Now().Add(time.Second)) {
		t.Errorf("Timestamp = %v, want close to save time", cached.Timestamp)
	}
}

func TestSave_OverwritesWholesale(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, []domain.Post{{ID: "old-1"}, {ID: "old-2"}})
	store.Save(ctx, []domain.Post{{ID: "new-1"}})

	cached, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cached.Posts) != 1 || cached.Posts[0].ID != "new-1" {
		t.Errorf("Load returned %+v, want the replacement payload only", cached.Posts)
	}
}

func TestLoad_MissingCache(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load(context.Background())
	if !apperrors.IsCacheMiss(err) {
		t.Errorf("Load on empty store = %v, want cache miss", err)
	}
}

func TestLoad_MissingTimestampKey(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, []domain.Post{{ID: "1"}})
	if err := os.Remove(filepath.Join(dir, "securent-fb-cache-time")); err != nil {
		t.Fatalf("failed to remove timestamp key: %v", err)
	}

	if _, err := store.Load(ctx); !apperrors.IsCacheMiss(err) {
		t.Errorf("Load with missing timestamp = %v, want cache miss", err)
	}
}

func TestLoad_CorruptPayload(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, []domain.Post{{ID: "1"}})
	if err := os.WriteFile(filepath.Join(dir, "securent-fb-cache"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to corrupt cache: %v", err)
	}

	if _, err := store.Load(ctx); !apperrors.IsCacheMiss(err) {
		t.Errorf("Load with corrupt payload = %v, want cache miss", err)
	}
}

func TestLoad_CorruptTimestamp(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	store.Save(ctx, []domain.Post{{ID: "1"}})
	if err := os.WriteFile(filepath.Join(dir, "securent-fb-cache-time"), []byte("yesterday-ish"), 0o644); err != nil {
		t.Fatalf("failed to corrupt timestamp: %v", err)
	}

	if _, err := store.Load(ctx); !apperrors.IsCacheMiss(err) {
		t.Errorf("Load with corrupt timestamp = %v, want cache miss", err)
	}
}

func TestSave_CorruptCacheReplacedByNextSave(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(dir, "securent-fb-cache"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("failed to seed corrupt cache: %v", err)
	}

	store.Save(ctx, []domain.Post{{ID: "fresh"}})

	cached, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load after save = %v, want success", err)
	}
	if len(cached.Posts) != 1 || cached.Posts[0].ID != "fresh" {
		t.Errorf("Load returned %+v, want the fresh payload", cached.Posts)
	}
}
