package domain

import "time"

// CachedFeed is the payload of the most recent successful fetch plus its
// retrieval time. It is replaced wholesale on the next success and never
// expires on its own.
type CachedFeed struct {
	Posts     []Post
	Timestamp time.Time
}

// FeedResult is the outcome of one FetchFeed call.
type FeedResult struct {
	Posts     []Post
	FromCache bool
	Timestamp time.Time
	Error     string // failure message when the result is degraded
}

// FilterConfig holds the client-side post predicates. Keywords must be
// lowercase. StartDate and EndDate are midnight date bounds; the end bound
// is inclusive through the end of that day.
type FilterConfig struct {
	Keywords  []string
	StartDate *time.Time
	EndDate   *time.Time
}

// Empty reports whether no predicate is configured.
func (c FilterConfig) Empty() bool {
	return len(c.Keywords) == 0 && c.StartDate == nil && c.EndDate == nil
}
