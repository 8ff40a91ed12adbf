package fetcher

import (
	"context"

	"github.com/securent/feed-widget/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock.go -package=mocks
type Client interface {
	// FetchPosts performs one resilient fetch against the feed endpoint:
	// bounded retries with backoff for transient failures, no retries for
	// client errors. A successful payload is handed to the cache store as a
	// side effect.
	FetchPosts(ctx context.Context, apiURL string) ([]domain.Post, error)
}
