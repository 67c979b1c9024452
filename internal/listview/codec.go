package listview

import (
	"net/url"
	"strconv"
	"strings"
)

// Query string keys owned by a list view. Any other key is left untouched.
const (
	PageKey     = "page"
	GenreIDsKey = "genreIds"
	SearchKey   = "query"
)

// Decode parses a raw URL query into a QueryState. Missing or invalid values
// fall back to their defaults; invalid genre tokens are dropped.
func Decode(rawQuery string) QueryState {
	// ParseQuery keeps every well-formed pair even when it reports an error.
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))

	state := DefaultState()
	if page, err := strconv.Atoi(strings.TrimSpace(values.Get(PageKey))); err == nil && page >= 1 {
		state.Page = page
	}
	state.GenreIDs = parseGenreIDs(values.Get(GenreIDsKey))
	state.SearchText = values.Get(SearchKey)
	return state.Normalize()
}

// Encode writes state into previousRawQuery and returns the merged query.
// Unrelated parameters are preserved; malformed pairs of the previous query
// are dropped on their own. An empty genre selection or search text
// deletes its key instead of writing an empty value.
func Encode(state QueryState, previousRawQuery string) string {
	values, _ := url.ParseQuery(strings.TrimPrefix(previousRawQuery, "?"))
	if values == nil {
		values = url.Values{}
	}
	return encodeInto(values, state)
}

// EncodeReset encodes state alone, discarding every other parameter.
func EncodeReset(state QueryState) string {
	return encodeInto(url.Values{}, state)
}

func encodeInto(values url.Values, state QueryState) string {
	state = state.Normalize()

	values.Set(PageKey, strconv.Itoa(state.Page))

	if len(state.GenreIDs) > 0 {
		values.Set(GenreIDsKey, JoinGenreIDs(state.GenreIDs))
	} else {
		values.Del(GenreIDsKey)
	}

	if state.SearchText != "" {
		values.Set(SearchKey, state.SearchText)
	} else {
		values.Del(SearchKey)
	}

	return values.Encode()
}

// JoinGenreIDs renders ids comma separated, the form used both in the URL and
// by the catalog's with_genres filter.
func JoinGenreIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func parseGenreIDs(raw string) []int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var ids []int
	for _, token := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
