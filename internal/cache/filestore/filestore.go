// Package filestore persists the feed cache as two key/value files on disk,
// mirroring the browser-storage layout the widget originally used.
package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/securent/feed-widget/internal/cache"
	"github.com/securent/feed-widget/internal/domain"
	apperrors "github.com/securent/feed-widget/pkg/errors"
	"github.com/securent/feed-widget/pkg/logger"
)

type Store struct {
	dir    string
	key    string
	logger logger.Logger
	mu     sync.Mutex
}

func New(dir, key string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		dir:    dir,
		key:    key,
		logger: log.WithComponent("FileCache"),
	}, nil
}

var _ cache.Store = (*Store)(nil)

// Save writes the posts payload and the current instant under the two
// well-known keys. Failures are swallowed; the in-memory flow continues.
func (s *Store) Save(_ context.Context, posts []domain.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(posts)
	if err != nil {
		s.logger.Warn("Failed to encode cache payload", "error", err)
		return
	}
	if err := os.WriteFile(s.postsPath(), payload, 0o644); err != nil {
		s.logger.Warn("Failed to write feed cache", "path", s.postsPath(), "error", err)
		return
	}
	ts := time.Now().UTC().Format(time.RFC3339Nano)
	if err := os.WriteFile(s.timePath(), []byte(ts), 0o644); err != nil {
		s.logger.Warn("Failed to write feed cache timestamp", "path", s.timePath(), "error", err)
		return
	}
	s.logger.Debug("Cached feed payload", "posts", len(posts))
}

// Load reads both keys back. Absence or corruption of either one is a cache
// miss, not an error to escalate.
func (s *Store) Load(_ context.Context) (*domain.CachedFeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.postsPath())
	if err != nil {
		return nil, apperrors.ErrCacheMiss
	}
	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		s.logger.Warn("Discarding corrupt feed cache", "path", s.postsPath(), "error", err)
		return nil, apperrors.ErrCacheMiss
	}

	rawTs, err := os.ReadFile(s.timePath())
	if err != nil {
		return nil, apperrors.ErrCacheMiss
	}
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(rawTs)))
	if err != nil {
		s.logger.Warn("Discarding corrupt feed cache timestamp", "path", s.timePath(), "error", err)
		return nil, apperrors.ErrCacheMiss
	}

	return &domain.CachedFeed{Posts: posts, Timestamp: ts}, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) postsPath() string {
	return filepath.Join(s.dir, s.key)
}

func (s *Store) timePath() string {
	return filepath.Join(s.dir, s.key+"-time")
}
