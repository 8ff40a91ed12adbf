package feedimpl

import (
	"context"
	"testing"
	"time"

	cachemocks "github.com/securent/feed-widget/internal/cache/mocks"
	"github.com/securent/feed-widget/internal/domain"
	fetchermocks "github.com/securent/feed-widget/internal/fetcher/mocks"
	apperrors "github.com/securent/feed-widget/pkg/errors"
	"github.com/securent/feed-widget/pkg/logger"
	"go.uber.org/mock/gomock"
)

const testURL = "https://feeds.example.com/posts"

func newTestAccessor(t *testing.T) (*AccessorImpl, *fetchermocks.MockClient, *cachemocks.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	fetcherMock := fetchermocks.NewMockClient(ctrl)
	cacheMock := cachemocks.NewMockStore(ctrl)

	accessor := New(Opts{
		Fetcher: fetcherMock,
		Cache:   cacheMock,
		Logger:  logger.New(logger.Opts{}),
	})
	return accessor, fetcherMock, cacheMock
}

func TestFetchFeed_FreshResult(t *testing.T) {
	accessor, fetcherMock, _ := newTestAccessor(t)

	posts := []domain.Post{{ID: "1", Message: "hello"}}
	fetcherMock.EXPECT().FetchPosts(gomock.Any(), testURL).Return(posts, nil)

	result, err := accessor.FetchFeed(context.Background(), testURL)
	if err != nil {
		t.Fatalf("FetchFeed failed: %v", err)
	}
	if result.FromCache {
		t.Error("FromCache = true, want false for a live fetch")
	}
	if len(result.Posts) != 1 || result.Posts[0].ID != "1" {
		t.Errorf("Posts = %+v, want the live payload", result.Posts)
	}
	if result.Error != "" {
		t.Errorf("Error = %q, want empty on a fresh result", result.Error)
	}
	if time.Since(result.Timestamp) > 5*time.Second {
		t.Errorf("Timestamp = %v, want close to now", result.Timestamp)
	}
}

func TestFetchFeed_DegradesToCache(t *testing.T) {
	accessor, fetcherMock, cacheMock := newTestAccessor(t)

	cachedAt := time.Now().Add(-30 * time.Minute)
	cached := &domain.CachedFeed{
		Posts:     []domain.Post{{ID: "cached-1"}, {ID: "cached-2"}},
		Timestamp: cachedAt,
	}

	fetcherMock.EXPECT().FetchPosts(gomock.Any(), testURL).Return(nil, apperrors.New("connection refused"))
	cacheMock.EXPECT().Load(gomock.Any()).Return(cached, nil)

	result, err := accessor.FetchFeed(context.Background(), testURL)
	if err != nil {
		t.Fatalf("FetchFeed should degrade, not fail: %v", err)
	}
	if !result.FromCache {
		t.Error("FromCache = false, want true for a degraded result")
	}
	if len(result.Posts) != 2 {
		t.Errorf("Posts = %+v, want the cached payload", result.Posts)
	}
	if !result.Timestamp.Equal(cachedAt) {
		t.Errorf("Timestamp = %v, want the cache retrieval time %v", result.Timestamp, cachedAt)
	}
	if result.Error == "" {
		t.Error("Error should carry the live failure message")
	}
}

func TestFetchFeed_HardFailure(t *testing.T) {
	accessor, fetcherMock, cacheMock := newTestAccessor(t)

	fetcherMock.EXPECT().FetchPosts(gomock.Any(), testURL).Return(nil, apperrors.New("connection refused"))
	cacheMock.EXPECT().Load(gomock.Any()).Return(nil, apperrors.ErrCacheMiss)

	_, err := accessor.FetchFeed(context.Background(), testURL)
	if err == nil {
		t.Fatal("FetchFeed should fail when both tiers are unavailable")
	}
	if !apperrors.IsFeedUnavailable(err) {
		t.Errorf("error %v should be a hard failure", err)
	}
	if apperrors.GetCode(err) != "HARD_FAILURE" {
		t.Errorf("error code = %q, want HARD_FAILURE", apperrors.GetCode(err))
	}
}
