// Package pgxstore persists the feed cache in Postgres so several widget
// instances can share one last-known-good payload per feed identity.
package pgxstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/securent/feed-widget/internal/cache"
	"github.com/securent/feed-widget/internal/domain"
	apperrors "github.com/securent/feed-widget/pkg/errors"
	"github.com/securent/feed-widget/pkg/logger"
)

var sqBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Store struct {
	pg     *pgxpool.Pool
	key    string
	logger logger.Logger
}

// New connects a pool and scopes the store to one cache key. The key is
// derived from the feed identity so independent feeds do not overwrite each
// other.
func New(ctx context.Context, dsn, key string, log logger.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &Store{
		pg:     pool,
		key:    key,
		logger: log.WithComponent("PgCache"),
	}, nil
}

var _ cache.Store = (*Store)(nil)

// Save upserts the payload for the cache key, last write wins.
func (s *Store) Save(ctx context.Context, posts []domain.Post) {
	payload, err := json.Marshal(posts)
	if err != nil {
		s.logger.Warn("Failed to encode cache payload", "error", err)
		return
	}

	query, args, err := sqBuilder.
		Insert("feed_cache").
		Columns("cache_key", "posts", "fetched_at").
		Values(s.key, payload, time.Now().UTC()).
		Suffix("ON CONFLICT (cache_key) DO UPDATE SET posts = EXCLUDED.posts, fetched_at = EXCLUDED.fetched_at").
		ToSql()
	if err != nil {
		s.logger.Warn("Failed to build feed cache query", "error", err)
		return
	}

	if _, err := s.pg.Exec(ctx, query, args...); err != nil {
		s.logger.Warn("Failed to write feed cache", "cache_key", s.key, "error", err)
		return
	}
	s.logger.Debug("Cached feed payload", "cache_key", s.key, "posts", len(posts))
}

func (s *Store) Load(ctx context.Context) (*domain.CachedFeed, error) {
	query, args, err := sqBuilder.
		Select("posts", "fetched_at").
		From("feed_cache").
		Where(sq.Eq{"cache_key": s.key}).
		ToSql()
	if err != nil {
		return nil, apperrors.ErrCacheMiss
	}

	var (
		payload   []byte
		fetchedAt time.Time
	)
	if err := s.pg.QueryRow(ctx, query, args...).Scan(&payload, &fetchedAt); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("Failed to read feed cache", "cache_key", s.key, "error", err)
		}
		return nil, apperrors.ErrCacheMiss
	}

	var posts []domain.Post
	if err := json.Unmarshal(payload, &posts); err != nil {
		s.logger.Warn("Discarding corrupt feed cache", "cache_key", s.key, "error", err)
		return nil, apperrors.ErrCacheMiss
	}

	return &domain.CachedFeed{Posts: posts, Timestamp: fetchedAt}, nil
}

func (s *Store) Close() error {
	s.pg.Close()
	return nil
}
