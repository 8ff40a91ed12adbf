// Package pagination tracks the current page over a filtered post list.
package pagination

import "github.com/securent/feed-widget/internal/domain"

// State is the pagination state machine. The current page always stays in
// [1, max(1, totalPages)]; replacing the underlying list via Reset returns
// to page 1.
type State struct {
	currentPage  int
	itemsPerPage int
	totalItems   int
}

func New(itemsPerPage int) *State {
	if itemsPerPage < 1 {
		itemsPerPage = 1
	}
	return &State{
		currentPage:  1,
		itemsPerPage: itemsPerPage,
	}
}

// Reset recomputes the page count for a new list and returns to page 1.
func (s *State) Reset(totalItems int) {
	if totalItems < 0 {
		totalItems = 0
	}
	s.totalItems = totalItems
	s.currentPage = 1
}

func (s *State) CurrentPage() int {
	return s.currentPage
}

func (s *State) ItemsPerPage() int {
	return s.itemsPerPage
}

// TotalPages is zero for an empty list; the UI treats that as one page of
// zero items.
func (s *State) TotalPages() int {
	return (s.totalItems + s.itemsPerPage - 1) / s.itemsPerPage
}

// GoToPage moves to target and reports whether anything changed. An
// out-of-range target is a no-op.
func (s *State) GoToPage(target int) bool {
	if target < 1 || target > s.TotalPages() {
		return false
	}
	s.currentPage = target
	return true
}

// Slice returns the posts visible on the current page.
func (s *State) Slice(posts []domain.Post) []domain.Post {
	start := (s.currentPage - 1) * s.itemsPerPage
	if start >= len(posts) {
		return nil
	}
	end := start + s.itemsPerPage
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}
