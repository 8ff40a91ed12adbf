package fetcherimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/securent/feed-widget/internal/cache"
	"github.com/securent/feed-widget/internal/domain"
	"github.com/securent/feed-widget/internal/fetcher"
	"github.com/securent/feed-widget/internal/ratelimit"
	"github.com/securent/feed-widget/pkg/config"
	apperrors "github.com/securent/feed-widget/pkg/errors"
	"github.com/securent/feed-widget/pkg/logger"
	"github.com/securent/feed-widget/pkg/retry"
	"go.uber.org/fx"
)

const (
	// RequestTimeout bounds a single attempt; a timed-out attempt counts as
	// a transient failure and goes through the retry path.
	RequestTimeout = 5 * time.Second

	// PageLimit is appended to every feed request.
	PageLimit = 100
)

type Opts struct {
	fx.In

	Config *config.Config
	Cache  cache.Store
	Logger logger.Logger
}

type HTTPImpl struct {
	httpClient     *http.Client
	cache          cache.Store
	limiter        ratelimit.Limiter
	logger         logger.Logger
	retryCfg       retry.Config
	requestTimeout time.Duration
}

func New(opts Opts) *HTTPImpl {
	retryCfg := retry.DefaultConfig()
	if n := opts.Config.Feed.MaxRetries; n >= 0 {
		retryCfg.MaxRetries = uint64(n)
	}

	return &HTTPImpl{
		httpClient:     &http.Client{},
		cache:          opts.Cache,
		limiter:        ratelimit.NewTokenBucket(1, time.Second, 3),
		logger:         opts.Logger.WithComponent("Fetcher"),
		retryCfg:       retryCfg,
		requestTimeout: RequestTimeout,
	}
}

var _ fetcher.Client = (*HTTPImpl)(nil)

// FetchPosts retries transient failures with the configured backoff and
// gives up immediately on a 4xx response.
func (f *HTTPImpl) FetchPosts(ctx context.Context, apiURL string) ([]domain.Post, error) {
	reqURL, err := buildRequestURL(apiURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "invalid feed url")
	}

	var posts []domain.Post
	attempt := 0
	operation := func() error {
		attempt++
		fetched, err := f.fetchOnce(ctx, reqURL)
		if err != nil {
			if apperrors.IsPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		posts = fetched
		return nil
	}

	if err := retry.Do(ctx, f.logger, "fetch feed", operation, f.retryCfg); err != nil {
		f.logger.Error("Feed fetch exhausted all attempts", "url", apiURL, "attempts", attempt, "error", err)
		return nil, apperrors.WrapWithCode(err, "FETCH_FAILED", "failed to fetch feed")
	}

	f.cache.Save(ctx, posts)
	return posts, nil
}

func (f *HTTPImpl) fetchOnce(ctx context.Context, reqURL string) ([]domain.Post, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, f.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.StatusError{Status: resp.StatusCode, URL: reqURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodePosts(body)
}

// buildRequestURL appends the page limit to the configured endpoint. Date
// bounds are a client-side filter concern and are never sent upstream.
func buildRequestURL(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("limit", fmt.Sprintf("%d", PageLimit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// decodePosts accepts either a bare JSON array of posts or an envelope
// object with a "data" array. An object without a "data" key is rejected so
// an upstream error payload served with 200 cannot pass as an empty feed and
// overwrite the last-known-good cache.
func decodePosts(body []byte) ([]domain.Post, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		var posts []domain.Post
		if err := json.Unmarshal(envelope.Data, &posts); err != nil {
			return nil, apperrors.Wrap(err, "unexpected feed payload")
		}
		return posts, nil
	}

	var posts []domain.Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, apperrors.Wrap(err, "unexpected feed payload")
	}
	return posts, nil
}
