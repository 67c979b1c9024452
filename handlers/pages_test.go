package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"moviez/config"
	"moviez/internal/listview"
	"moviez/mocks"
	"moviez/models"
	metadatapkg "moviez/services/metadata"
)

func serve(handler http.HandlerFunc, target string, vars map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCategory_RendersPageAndPagination(t *testing.T) {
	catalog := &fakeCatalog{lists: map[string]listview.Page[models.MovieSummary]{
		"category:popular:2": {Items: movies("Dune", "Heat", "Alien"), TotalPages: 4},
	}}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Category, "/movies/popular?page=2", map[string]string{"category": "popular"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Popular</h1>")
	for _, title := range []string{"Dune", "Heat", "Alien"} {
		assert.Contains(t, body, title)
	}
	assert.Contains(t, body, `href="/movie/1-dune"`)
	assert.Contains(t, body, `href="?page=1" rel="prev" data-page="1"`)
	assert.Contains(t, body, `href="?page=3" rel="next" data-page="3"`)
	assert.Contains(t, body, `<span class="current" aria-current="page">2</span>`)
	assert.Contains(t, body, "Page 2 of 4")
	assert.Contains(t, body, `src="/img/w500/poster1.jpg"`)
}

func TestCategory_RedirectsPastLastPage(t *testing.T) {
	catalog := &fakeCatalog{lists: map[string]listview.Page[models.MovieSummary]{
		"category:top_rated:9": {Items: []models.MovieSummary{}, TotalPages: 4},
	}}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Category, "/movies/top_rated?page=9&utm=x", map[string]string{"category": "top_rated"})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movies/top_rated?page=4&utm=x", rec.Header().Get("Location"))
}

func TestCategory_UnknownCategory(t *testing.T) {
	catalog := &fakeCatalog{}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Category, "/movies/trending", map[string]string{"category": "trending"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown movie category")
	assert.Empty(t, catalog.calls)
}

func TestCategory_FailureShowsUpstreamMessage(t *testing.T) {
	catalog := &fakeCatalog{listErr: &metadatapkg.APIError{StatusCode: 401, Message: "Invalid API key: You must be granted a valid key."}}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Category, "/movies/upcoming", map[string]string{"category": "upcoming"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Invalid API key: You must be granted a valid key.")
	assert.NotContains(t, body, "No movies found.")
	assert.NotContains(t, body, `class="pagination"`)
}

func TestCategory_EmptyIsNotAnError(t *testing.T) {
	catalog := &fakeCatalog{lists: map[string]listview.Page[models.MovieSummary]{
		"category:now_playing:1": {Items: nil, TotalPages: 0},
	}}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Category, "/movies/now_playing", map[string]string{"category": "now_playing"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No movies found.")
	assert.NotContains(t, rec.Body.String(), listview.DefaultFailureMessage)
}

func TestCategory_NotConfiguredShowsConfigMessage(t *testing.T) {
	service := metadatapkg.NewService(config.TMDBConfig{}, nil, nil)
	h := NewPagesHandler(service, testTemplates(t), nil)

	rec := serve(h.Category, "/movies/popular", map[string]string{"category": "popular"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The movie catalog is not configured.")
}

func TestGenres_TogglesAndSelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogService(ctrl)
	catalog.EXPECT().
		Discover(gomock.Any(), []int{28, 35}, 1).
		Return(listview.Page[models.MovieSummary]{Items: movies("Rush Hour"), TotalPages: 1}, nil)
	catalog.EXPECT().
		Genres(gomock.Any()).
		Return([]models.Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}, {ID: 18, Name: "Drama"}}, nil)

	h := NewPagesHandler(catalog, testTemplates(t), nil)
	rec := serve(h.Genres, "/genres?genreIds=35,28,28", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Rush Hour")
	assert.Contains(t, body, `class="badge selected" href="?genreIds=35&amp;page=1" data-genre-id="28"`)
	assert.Contains(t, body, `class="badge selected" href="?genreIds=28&amp;page=1" data-genre-id="35"`)
	assert.Contains(t, body, `class="badge" href="?genreIds=18%2C28%2C35&amp;page=1" data-genre-id="18"`)
	assert.Contains(t, body, `data-live-view="genres"`)
}

func TestGenres_GenreListFailureKeepsMovies(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogService(ctrl)
	catalog.EXPECT().
		Discover(gomock.Any(), gomock.Any(), 1).
		Return(listview.Page[models.MovieSummary]{Items: movies("Up"), TotalPages: 1}, nil)
	catalog.EXPECT().
		Genres(gomock.Any()).
		Return(nil, &metadatapkg.APIError{StatusCode: 500, Message: "Internal error."})

	h := NewPagesHandler(catalog, testTemplates(t), nil)
	rec := serve(h.Genres, "/genres", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal error.")
	assert.Contains(t, rec.Body.String(), `href="/movie/1-up"`)
}

func TestHome_SectionsAndCarousel(t *testing.T) {
	catalog := &fakeCatalog{lists: map[string]listview.Page[models.MovieSummary]{
		"category:popular:1":   {Items: numberedMovies("Popular", 20), TotalPages: 50},
		"category:upcoming:1":  {Items: numberedMovies("Upcoming", 20), TotalPages: 10},
		"category:top_rated:1": {Items: numberedMovies("Top", 20), TotalPages: 10},
	}}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Home, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, carouselSize, strings.Count(body, "data-slide>"))
	assert.Contains(t, body, "<h2>Upcoming</h2>")
	assert.Contains(t, body, "<h2>Top Rated</h2>")
	assert.Contains(t, body, `href="/movies/top_rated">See more`)
	assert.Contains(t, body, "Upcoming 10")
	assert.NotContains(t, body, "Upcoming 11")
	assert.Less(t, strings.Index(body, "<h2>Upcoming</h2>"), strings.Index(body, "<h2>Popular</h2>"))
}

func TestHome_FailedSectionDoesNotFailPage(t *testing.T) {
	catalog := &fakeCatalog{listErr: &metadatapkg.APIError{StatusCode: 503}}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Home, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, len(homeSections), strings.Count(rec.Body.String(), listview.DefaultFailureMessage))
	assert.NotContains(t, rec.Body.String(), "data-carousel")
}

func TestDetail_RendersAllPanels(t *testing.T) {
	catalog := &fakeCatalog{
		movie: &models.MovieDetails{
			ID: 603, Title: "The Matrix", Overview: "A hacker learns the truth.",
			ReleaseDate: "1999-03-30", Runtime: 136, VoteAverage: 8.2,
			PosterPath: "/matrix.jpg", Genres: []models.Genre{{ID: 28, Name: "Action"}},
		},
		credits: &models.Credits{
			Cast: []models.CastMember{{Name: "Keanu Reeves"}, {Name: "Carrie-Anne Moss"}},
			Crew: []models.CrewMember{
				{Name: "Lana Wachowski", Job: "Director"},
				{Name: "Lilly Wachowski", Job: "Director"},
				{Name: "Lana Wachowski", Job: "Writer"},
			},
		},
		trailer: &models.Trailer{Key: "abc", EmbedURL: "https://www.youtube.com/embed/abc"},
		lists: map[string]listview.Page[models.MovieSummary]{
			"similar:603:1": {Items: numberedMovies("Similar", 8), TotalPages: 3},
		},
	}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Detail, "/movie/603-the-matrix", map[string]string{"id": "603-the-matrix"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The Matrix")
	assert.Contains(t, body, "(1999)")
	assert.Contains(t, body, "136 min")
	assert.Contains(t, body, "Lana Wachowski, Lilly Wachowski")
	assert.Contains(t, body, "Keanu Reeves, Carrie-Anne Moss")
	assert.Contains(t, body, `data-trailer-movie-id="603"`)
	assert.Contains(t, body, `href="/genres?genreIds=28"`)
	assert.Contains(t, body, `href="/movie/603/similar">See more`)
	assert.Contains(t, body, "Similar 5")
	assert.NotContains(t, body, "Similar 6")
	assert.Contains(t, body, `<link rel="canonical" href="/movie/603-the-matrix">`)
}

func TestDetail_PanelsDegradeIndependently(t *testing.T) {
	catalog := &fakeCatalog{
		movie:      &models.MovieDetails{ID: 7, Title: "Solo"},
		creditsErr: &metadatapkg.APIError{StatusCode: 500},
		listErr:    &metadatapkg.APIError{StatusCode: 500, Message: "Similar is down"},
	}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Detail, "/movie/7", map[string]string{"id": "7"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Solo")
	assert.Contains(t, body, "Error fetching credits")
	assert.Contains(t, body, "Similar is down")
	assert.Contains(t, body, "No trailer available")
}

func TestDetail_Errors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		err     error
		status  int
		message string
	}{
		{"bad id", "abc", nil, http.StatusBadRequest, "Invalid movie id"},
		{"not found", "42", &metadatapkg.APIError{StatusCode: 404, Message: "The resource you requested could not be found."}, http.StatusNotFound, "Movie not found"},
		{"not configured", "42", metadatapkg.ErrNotConfigured, http.StatusServiceUnavailable, "The movie catalog is not configured."},
		{"upstream", "42", &metadatapkg.APIError{StatusCode: 500}, http.StatusBadGateway, "Error fetching movie details"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{movieErr: tt.err}
			h := NewPagesHandler(catalog, testTemplates(t), nil)

			rec := serve(h.Detail, "/movie/"+tt.id, map[string]string{"id": tt.id})

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestSimilar_Paginates(t *testing.T) {
	catalog := &fakeCatalog{
		movie: &models.MovieDetails{ID: 603, Title: "The Matrix"},
		lists: map[string]listview.Page[models.MovieSummary]{
			"similar:603:2": {Items: movies("Dark City"), TotalPages: 2},
		},
	}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Similar, "/movie/603/similar?page=2", map[string]string{"id": "603"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "More like The Matrix")
	assert.Contains(t, body, "Dark City")
	assert.Contains(t, body, `href="/movie/603-the-matrix"`)
	assert.Contains(t, body, `href="?page=1" rel="prev"`)
}

func TestSearch_Page(t *testing.T) {
	catalog := &fakeCatalog{lists: map[string]listview.Page[models.MovieSummary]{
		"search:matrix:1": {Items: movies("The Matrix", "The Matrix Reloaded"), TotalPages: 1},
	}}
	h := NewPagesHandler(catalog, testTemplates(t), nil)

	rec := serve(h.Search, "/search?query=matrix", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Matrix Reloaded")
	assert.Contains(t, rec.Body.String(), `value="matrix"`)

	rec = serve(h.Search, "/search", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Type a title in the search box.")
}

func TestBuildPagination(t *testing.T) {
	href := func(n int) string { return "?page=" + string(rune('0'+n)) }

	p := buildPagination(1, 0, href)
	assert.Empty(t, p.Links)
	assert.Nil(t, p.Prev)
	assert.Nil(t, p.Next)

	p = buildPagination(1, 3, href)
	require.Len(t, p.Links, 3)
	assert.True(t, p.Links[0].Current)
	assert.Nil(t, p.Prev)
	require.NotNil(t, p.Next)
	assert.Equal(t, 2, p.Next.Number)

	p = buildPagination(9, 9, href)
	require.Len(t, p.Links, paginationWindow)
	assert.Equal(t, 5, p.Links[0].Number)
	assert.Equal(t, 9, p.Links[4].Number)
	assert.Nil(t, p.Next)

	p = buildPagination(12, 9, href)
	assert.Equal(t, 9, p.Page)
}
