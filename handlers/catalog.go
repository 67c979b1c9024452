package handlers

import (
	"context"
	"errors"
	"net/http"

	"moviez/internal/listview"
	"moviez/models"
	metadatapkg "moviez/services/metadata"
)

//go:generate mockgen -destination=../mocks/mock_catalog.go -package=mocks moviez/handlers CatalogService

// CatalogService is the part of the movie catalog the handlers use.
type CatalogService interface {
	Configured() bool
	Category(ctx context.Context, category string, page int) (listview.Page[models.MovieSummary], error)
	Discover(ctx context.Context, genreIDs []int, page int) (listview.Page[models.MovieSummary], error)
	Search(ctx context.Context, query string, page int) (listview.Page[models.MovieSummary], error)
	Similar(ctx context.Context, id int64, page int) (listview.Page[models.MovieSummary], error)
	MovieDetails(ctx context.Context, id int64) (*models.MovieDetails, error)
	Credits(ctx context.Context, id int64) (*models.Credits, error)
	Trailer(ctx context.Context, id int64) (*models.Trailer, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	ImageURL(size, path string) string
}

var _ CatalogService = (*metadatapkg.Service)(nil)

type movieLoader = listview.Loader[models.MovieSummary]

func categoryLoader(catalog CatalogService, category string) movieLoader {
	return func(ctx context.Context, state listview.QueryState) (listview.Page[models.MovieSummary], error) {
		return catalog.Category(ctx, category, state.Page)
	}
}

func discoverLoader(catalog CatalogService) movieLoader {
	return func(ctx context.Context, state listview.QueryState) (listview.Page[models.MovieSummary], error) {
		return catalog.Discover(ctx, state.GenreIDs, state.Page)
	}
}

func searchLoader(catalog CatalogService) movieLoader {
	return func(ctx context.Context, state listview.QueryState) (listview.Page[models.MovieSummary], error) {
		return catalog.Search(ctx, state.SearchText, state.Page)
	}
}

func similarLoader(catalog CatalogService, id int64) movieLoader {
	return func(ctx context.Context, state listview.QueryState) (listview.Page[models.MovieSummary], error) {
		return catalog.Similar(ctx, id, state.Page)
	}
}

// statusFor maps a catalog error to the status code of a page or API
// response.
func statusFor(err error) int {
	var apiErr *metadatapkg.APIError
	switch {
	case err == nil:
		return http.StatusOK
	case metadatapkg.IsConfigError(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, metadatapkg.ErrUnknownCategory), errors.Is(err, metadatapkg.ErrNoTrailer):
		return http.StatusNotFound
	case errors.As(err, &apiErr) && apiErr.NotFound():
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
