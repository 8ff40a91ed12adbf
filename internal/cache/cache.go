package cache

import (
	"context"

	"github.com/securent/feed-widget/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock.go -package=mocks
type Store interface {
	// Save replaces the cached payload with posts and records the current
	// instant. Caching is best-effort: failures are logged, never returned.
	Save(ctx context.Context, posts []domain.Post)

	// Load returns the last cached feed. A missing, partial or unreadable
	// cache yields ErrCacheMiss, never a crash.
	Load(ctx context.Context) (*domain.CachedFeed, error)

	// Close releases any resources held by the store.
	Close() error
}
