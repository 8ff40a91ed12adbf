package feed

import (
	"context"

	"github.com/securent/feed-widget/internal/domain"
)

type Accessor interface {
	// FetchFeed prefers fresh data, degrades to the last cached payload when
	// the live fetch fails, and errors only when neither is available.
	FetchFeed(ctx context.Context, apiURL string) (domain.FeedResult, error)
}
