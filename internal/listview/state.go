// Package listview keeps a paginated, filterable remote list in sync with the
// URL query that describes it.
//
// A Controller owns the QueryState of one view, mirrors it into a query string
// through the codec, and drives a Fetcher slot so that the most recently
// committed state always determines the result that is displayed.
package listview

import (
	"slices"
)

// QueryState is the filter and pagination state of a single list view.
type QueryState struct {
	Page       int
	GenreIDs   []int
	SearchText string
}

// DefaultState returns page 1 with no genres and no search text.
func DefaultState() QueryState {
	return QueryState{Page: 1}
}

// Normalize clamps the page to at least 1 and sorts and de-duplicates genre ids.
// Non-positive genre ids are dropped.
func (s QueryState) Normalize() QueryState {
	if s.Page < 1 {
		s.Page = 1
	}
	s.GenreIDs = normalizeGenres(s.GenreIDs)
	return s
}

// Equal reports whether two states describe the same view. Genre ids are
// compared as sets.
func (s QueryState) Equal(other QueryState) bool {
	a, b := s.Normalize(), other.Normalize()
	return a.Page == b.Page &&
		a.SearchText == b.SearchText &&
		slices.Equal(a.GenreIDs, b.GenreIDs)
}

// HasGenre reports whether id is part of the selected genres.
func (s QueryState) HasGenre(id int) bool {
	return slices.Contains(s.GenreIDs, id)
}

// WithGenreToggled returns a copy with id added when absent or removed when
// present. The page is reset to 1 since the result set changes.
func (s QueryState) WithGenreToggled(id int) QueryState {
	next := s.clone()
	if idx := slices.Index(next.GenreIDs, id); idx >= 0 {
		next.GenreIDs = slices.Delete(next.GenreIDs, idx, idx+1)
	} else {
		next.GenreIDs = append(next.GenreIDs, id)
	}
	next.Page = 1
	return next.Normalize()
}

// WithPage returns a copy pointing at page n. Callers validate n.
func (s QueryState) WithPage(n int) QueryState {
	next := s.clone()
	next.Page = n
	return next
}

// WithSearchText returns a copy with the given text and page reset to 1.
func (s QueryState) WithSearchText(text string) QueryState {
	next := s.clone()
	next.SearchText = text
	next.Page = 1
	return next
}

func (s QueryState) clone() QueryState {
	s.GenreIDs = slices.Clone(s.GenreIDs)
	return s
}

func normalizeGenres(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
