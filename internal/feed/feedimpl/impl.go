package feedimpl

import (
	"context"
	"errors"
	"time"

	"github.com/securent/feed-widget/internal/cache"
	"github.com/securent/feed-widget/internal/domain"
	"github.com/securent/feed-widget/internal/feed"
	"github.com/securent/feed-widget/internal/fetcher"
	apperrors "github.com/securent/feed-widget/pkg/errors"
	"github.com/securent/feed-widget/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Fetcher fetcher.Client
	Cache   cache.Store
	Logger  logger.Logger
}

type AccessorImpl struct {
	fetcher fetcher.Client
	cache   cache.Store
	logger  logger.Logger
}

func New(opts Opts) *AccessorImpl {
	return &AccessorImpl{
		fetcher: opts.Fetcher,
		cache:   opts.Cache,
		logger:  opts.Logger.WithComponent("FeedAccessor"),
	}
}

var _ feed.Accessor = (*AccessorImpl)(nil)

// FetchFeed is the two-tier resilience contract: live fetch first, cached
// payload second, hard failure only when both are unavailable.
func (a *AccessorImpl) FetchFeed(ctx context.Context, apiURL string) (domain.FeedResult, error) {
	posts, fetchErr := a.fetcher.FetchPosts(ctx, apiURL)
	if fetchErr == nil {
		return domain.FeedResult{
			Posts:     posts,
			FromCache: false,
			Timestamp: time.Now(),
		}, nil
	}

	a.logger.Warn("Live fetch failed, falling back to cache", "url", apiURL, "error", fetchErr)

	cached, cacheErr := a.cache.Load(ctx)
	if cacheErr == nil {
		a.logger.Info("Serving degraded result from cache", "posts", len(cached.Posts), "cached_at", cached.Timestamp)
		return domain.FeedResult{
			Posts:     cached.Posts,
			FromCache: true,
			Timestamp: cached.Timestamp,
			Error:     fetchErr.Error(),
		}, nil
	}

	return domain.FeedResult{}, apperrors.WrapWithCode(
		errors.Join(apperrors.ErrFeedUnavailable, fetchErr),
		"HARD_FAILURE",
		"no live feed and no cached feed",
	)
}
