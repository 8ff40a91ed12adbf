// Package filter holds the pure post predicates applied after a fetch.
package filter

import (
	"strings"
	"time"

	"github.com/securent/feed-widget/internal/domain"
	apperrors "github.com/securent/feed-widget/pkg/errors"
)

// Engine filters a post list. Implementations must be pure and preserve the
// relative order of the input. The widget accepts any Engine, Apply is the
// default.
type Engine func(posts []domain.Post, cfg domain.FilterConfig) []domain.Post

// Apply keeps a post when it matches at least one keyword (case-insensitive
// substring over the message) and falls inside the configured date range.
// Both predicates combine with AND; an absent predicate always matches.
func Apply(posts []domain.Post, cfg domain.FilterConfig) []domain.Post {
	if len(posts) == 0 {
		return nil
	}
	if cfg.Empty() {
		return posts
	}

	out := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		if !matchesKeywords(p, cfg.Keywords) {
			continue
		}
		if !matchesDateRange(p, cfg.StartDate, cfg.EndDate) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesKeywords(p domain.Post, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	message := strings.ToLower(p.Message)
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

func matchesDateRange(p domain.Post, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}

	createdAt, err := p.CreatedAt()
	if err != nil {
		// A post we cannot place in time never matches a range.
		return false
	}

	if start != nil && createdAt.Before(*start) {
		return false
	}
	if end != nil {
		// The end bound is inclusive through 23:59:59.999 of that day.
		bound := end.Add(24*time.Hour - time.Millisecond)
		if createdAt.After(bound) {
			return false
		}
	}
	return true
}

// ParseKeywords splits a semicolon-separated keyword list into the lowercase
// form FilterConfig expects.
func ParseKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	var keywords []string
	for _, part := range strings.Split(raw, ";") {
		kw := strings.ToLower(strings.TrimSpace(part))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// ParseDate parses a YYYY-MM-DD bound. An empty input yields nil.
func ParseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperrors.Wrap(err, "invalid date bound")
	}
	return &t, nil
}
