package metadata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"moviez/config"
	"moviez/internal/listview"
	"moviez/internal/metrics"
	"moviez/models"
)

// Categories accepted by Category, in the order the site lists them.
var Categories = []string{"now_playing", "popular", "top_rated", "upcoming"}

const youtubeWatchURL = "https://www.youtube.com/watch?v="

// Service is the movie catalog used by the handlers. It is safe for
// concurrent use.
type Service struct {
	tmdb      *tmdbClient
	imageBase string

	genresMu   sync.RWMutex
	genres     []models.Genre
	genreGroup singleflight.Group
}

func NewService(cfg config.TMDBConfig, httpc *http.Client, rec metrics.Recorder) *Service {
	imageBase := strings.TrimRight(strings.TrimSpace(cfg.ImageServiceURL), "/")
	if imageBase == "" {
		imageBase = config.DefaultImageBaseURL
	}
	return &Service{
		tmdb:      newTMDBClient(cfg, httpc, rec),
		imageBase: imageBase,
	}
}

// Configured reports whether the catalog credential and base URL are set.
func (s *Service) Configured() bool {
	return s.tmdb.isConfigured()
}

// IsCategory reports whether category is on the allow-list.
func IsCategory(category string) bool {
	return slices.Contains(Categories, category)
}

// CategoryTitle renders a category slug for display: "top_rated" becomes
// "Top Rated".
func CategoryTitle(category string) string {
	words := strings.ReplaceAll(strings.TrimSpace(category), "_", " ")
	return cases.Title(language.English).String(words)
}

// Category lists one page of /movie/{category}.
func (s *Service) Category(ctx context.Context, category string, page int) (listview.Page[models.MovieSummary], error) {
	if !IsCategory(category) {
		return listview.Page[models.MovieSummary]{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return s.tmdb.listMovies(ctx, "movie_category", "/movie/"+category, pageQuery(page))
}

// Discover lists movies having every genre in genreIDs. An empty selection
// lists everything.
func (s *Service) Discover(ctx context.Context, genreIDs []int, page int) (listview.Page[models.MovieSummary], error) {
	query := pageQuery(page)
	if len(genreIDs) > 0 {
		query.Set("with_genres", listview.JoinGenreIDs(genreIDs))
	}
	return s.tmdb.listMovies(ctx, "discover_movie", "/discover/movie", query)
}

// Search lists movies matching query. Blank input yields an empty page
// without calling upstream.
func (s *Service) Search(ctx context.Context, query string, page int) (listview.Page[models.MovieSummary], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return listview.Page[models.MovieSummary]{Items: []models.MovieSummary{}}, nil
	}
	values := pageQuery(page)
	values.Set("query", query)
	values.Set("include_adult", "false")
	return s.tmdb.listMovies(ctx, "search_movie", "/search/movie", values)
}

// Similar lists movies similar to id.
func (s *Service) Similar(ctx context.Context, id int64, page int) (listview.Page[models.MovieSummary], error) {
	path := "/movie/" + strconv.FormatInt(id, 10) + "/similar"
	return s.tmdb.listMovies(ctx, "movie_similar", path, pageQuery(page))
}

func (s *Service) MovieDetails(ctx context.Context, id int64) (*models.MovieDetails, error) {
	return s.tmdb.movieDetails(ctx, id)
}

func (s *Service) Credits(ctx context.Context, id int64) (*models.Credits, error) {
	return s.tmdb.credits(ctx, id)
}

func (s *Service) Videos(ctx context.Context, id int64) ([]models.Video, error) {
	return s.tmdb.videos(ctx, id)
}

// Trailer returns the first YouTube video of type Trailer. Duration is left
// empty; it comes from the video host.
func (s *Service) Trailer(ctx context.Context, id int64) (*models.Trailer, error) {
	videos, err := s.Videos(ctx, id)
	if err != nil {
		return nil, err
	}
	trailer := selectTrailer(videos)
	if trailer == nil {
		return nil, ErrNoTrailer
	}
	return trailer, nil
}

func selectTrailer(videos []models.Video) *models.Trailer {
	for _, v := range videos {
		if v.Site != "YouTube" || v.Type != "Trailer" || strings.TrimSpace(v.Key) == "" {
			continue
		}
		watch := youtubeWatchURL + url.QueryEscape(v.Key)
		return &models.Trailer{
			Key:      v.Key,
			Site:     v.Site,
			Type:     v.Type,
			WatchURL: watch,
			EmbedURL: strings.Replace(watch, "watch?v=", "embed/", 1),
		}
	}
	return nil
}

// Genres returns the movie genre list. It is fetched once per process;
// concurrent first callers share one request, and failures are not stored.
func (s *Service) Genres(ctx context.Context) ([]models.Genre, error) {
	s.genresMu.RLock()
	cached := s.genres
	s.genresMu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := s.genreGroup.Do("genres", func() (any, error) {
		s.genresMu.RLock()
		cached := s.genres
		s.genresMu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		genres, err := s.tmdb.genres(ctx)
		if err != nil {
			return nil, err
		}
		s.genresMu.Lock()
		s.genres = genres
		s.genresMu.Unlock()
		log.Printf("[metadata] loaded %d genres", len(genres))
		return genres, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Genre), nil
}

// WarmGenres preloads the genre list at start-up. Transport and upstream
// failures are retried; configuration errors are returned at once.
func (s *Service) WarmGenres(ctx context.Context, attempts uint, delay time.Duration) error {
	return retry.Do(
		func() error {
			_, err := s.Genres(ctx)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !IsConfigError(err) && !errors.Is(err, context.Canceled)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[metadata] genre warm-up attempt=%d failed: %v", n+1, err)
		}),
	)
}

// ImageURL returns the upstream URL of an image, or "" when path is empty.
func (s *Service) ImageURL(size, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.imageBase + "/" + size + path
}
