package handlers

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sourcegraph/conc/pool"

	"moviez/internal/listview"
	"moviez/internal/metrics"
	"moviez/models"
	metadatapkg "moviez/services/metadata"
	"moviez/utils"
	"moviez/web"
)

const (
	carouselSize    = 8
	homeSectionSize = 10
	moreLikeThis    = 5
	castSize        = 10
)

// homeSections are rendered in this order below the carousel.
var homeSections = []string{"upcoming", "popular", "top_rated"}

type movieResult = listview.Result[models.MovieSummary]

type pageMeta struct {
	Title      string
	SearchText string
	Canonical  string
}

type listData struct {
	Query      string
	Result     movieResult
	Pagination pagination
}

type homeSection struct {
	Title    string
	MoreHref string
	Result   movieResult
}

type homePage struct {
	Meta     pageMeta
	Carousel []models.MovieSummary
	Sections []homeSection
}

type genreBadge struct {
	ID       int
	Name     string
	Href     string
	Selected bool
}

type genresPage struct {
	Meta       pageMeta
	GenreError string
	Genres     []genreBadge
	List       listData
}

type categoryPage struct {
	Meta     pageMeta
	Category string
	List     listData
}

type detailPage struct {
	Meta         pageMeta
	Movie        *models.MovieDetails
	Directors    []string
	Writers      []string
	Cast         []models.CastMember
	CreditsError string
	Trailer      *models.Trailer
	Similar      movieResult
	SimilarHref  string
}

type similarPage struct {
	Meta       pageMeta
	MovieTitle string
	BackHref   string
	List       listData
}

type searchPage struct {
	Meta pageMeta
	List listData
}

type errorPage struct {
	Meta    pageMeta
	Status  int
	Message string
}

// PagesHandler renders the server side pages. Every list on a page is driven
// by its own listview.Controller for the lifetime of the request.
type PagesHandler struct {
	Catalog   CatalogService
	Templates *web.Templates
	Recorder  metrics.Recorder
}

func NewPagesHandler(catalog CatalogService, templates *web.Templates, rec metrics.Recorder) *PagesHandler {
	if rec == nil {
		rec = metrics.Discard
	}
	return &PagesHandler{Catalog: catalog, Templates: templates, Recorder: rec}
}

func (h *PagesHandler) newController(slot string, load movieLoader, opts ...listview.Option) *listview.Controller[models.MovieSummary] {
	opts = append(opts, listview.WithRecorder(h.Recorder))
	return listview.NewController(slot, load, nil, opts...)
}

// Home renders the carousel and the category sections. The sections load
// concurrently; a failed section only shows its own error.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	sections := make([]homeSection, len(homeSections))

	p := pool.New().WithMaxGoroutines(len(homeSections))
	for i, category := range homeSections {
		i, category := i, category
		p.Go(func() {
			ctrl := h.newController("home_"+category, categoryLoader(h.Catalog, category), listview.WithLimit(homeSectionSize))
			defer ctrl.Close()
			sections[i] = homeSection{
				Title:    metadatapkg.CategoryTitle(category),
				MoreHref: "/movies/" + category,
				Result:   ctrl.Mount(r.Context(), ""),
			}
		})
	}
	p.Wait()

	data := homePage{Meta: pageMeta{Title: "Home"}, Sections: sections}
	for _, section := range sections {
		if section.MoreHref == "/movies/popular" && section.Result.IsSuccess() {
			data.Carousel = firstN(section.Result.Items, carouselSize)
		}
	}
	h.render(w, http.StatusOK, "home.html", data)
}

// Genres renders the genre badges and the discover list for the selected
// genres.
func (h *PagesHandler) Genres(w http.ResponseWriter, r *http.Request) {
	ctrl := h.newController("genres", discoverLoader(h.Catalog))
	defer ctrl.Close()
	result := ctrl.Mount(r.Context(), r.URL.RawQuery)
	if h.redirectPastLastPage(w, r, ctrl, result) {
		return
	}

	data := genresPage{
		Meta: pageMeta{Title: "Genres"},
		List: newListData(ctrl, result),
	}
	genres, err := h.Catalog.Genres(r.Context())
	if err != nil {
		log.Printf("[pages] genres: %v", err)
		data.GenreError = listview.FailureMessage(err)
	}
	state := ctrl.State()
	for _, g := range genres {
		data.Genres = append(data.Genres, genreBadge{
			ID:       g.ID,
			Name:     g.Name,
			Href:     "?" + ctrl.ToggleGenreQuery(g.ID),
			Selected: state.HasGenre(g.ID),
		})
	}
	h.render(w, http.StatusOK, "genres.html", data)
}

// Category renders one page of a movie category. Pages past the last known
// page redirect to the last page.
func (h *PagesHandler) Category(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	if !metadatapkg.IsCategory(category) {
		h.renderError(w, http.StatusNotFound, "Unknown movie category")
		return
	}

	ctrl := h.newController("category", categoryLoader(h.Catalog, category))
	defer ctrl.Close()
	result := ctrl.Mount(r.Context(), r.URL.RawQuery)
	if h.redirectPastLastPage(w, r, ctrl, result) {
		return
	}

	h.render(w, http.StatusOK, "category.html", categoryPage{
		Meta:     pageMeta{Title: metadatapkg.CategoryTitle(category)},
		Category: category,
		List:     newListData(ctrl, result),
	})
}

// Detail renders a movie. Details, credits, trailer and similar movies load
// concurrently; only a details failure fails the page.
func (h *PagesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseMovieID(mux.Vars(r)["id"])
	if !ok {
		h.renderError(w, http.StatusBadRequest, "Invalid movie id")
		return
	}
	ctx := r.Context()

	var (
		movie      *models.MovieDetails
		movieErr   error
		credits    *models.Credits
		creditsErr error
		trailer    *models.Trailer
		similar    movieResult
	)
	p := pool.New().WithMaxGoroutines(4)
	p.Go(func() { movie, movieErr = h.Catalog.MovieDetails(ctx, id) })
	p.Go(func() { credits, creditsErr = h.Catalog.Credits(ctx, id) })
	p.Go(func() {
		var err error
		trailer, err = h.Catalog.Trailer(ctx, id)
		if err != nil && !errors.Is(err, metadatapkg.ErrNoTrailer) {
			log.Printf("[pages] trailer movie=%d: %v", id, err)
		}
	})
	p.Go(func() {
		ctrl := h.newController("more_like_this", similarLoader(h.Catalog, id), listview.WithLimit(moreLikeThis))
		defer ctrl.Close()
		similar = ctrl.Mount(ctx, "")
	})
	p.Wait()

	if movieErr != nil {
		log.Printf("[pages] movie details movie=%d: %v", id, movieErr)
		status := statusFor(movieErr)
		h.renderError(w, status, errorMessage(movieErr, status, "Error fetching movie details"))
		return
	}

	data := detailPage{
		Meta: pageMeta{
			Title:     movie.Title,
			Canonical: utils.MoviePath(movie.ID, movie.Title),
		},
		Movie:       movie,
		Trailer:     trailer,
		Similar:     similar,
		SimilarHref: "/movie/" + strconv.FormatInt(id, 10) + "/similar",
	}
	if creditsErr != nil {
		log.Printf("[pages] credits movie=%d: %v", id, creditsErr)
		data.CreditsError = errorMessage(creditsErr, statusFor(creditsErr), "Error fetching credits")
	} else if credits != nil {
		data.Directors = credits.Directors()
		data.Writers = credits.Writers()
		data.Cast = credits.TopCast(castSize)
	}
	h.render(w, http.StatusOK, "detail.html", data)
}

// Similar renders the paginated list of movies similar to a movie.
func (h *PagesHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseMovieID(mux.Vars(r)["id"])
	if !ok {
		h.renderError(w, http.StatusBadRequest, "Invalid movie id")
		return
	}

	ctrl := h.newController("similar", similarLoader(h.Catalog, id))
	defer ctrl.Close()
	result := ctrl.Mount(r.Context(), r.URL.RawQuery)
	if h.redirectPastLastPage(w, r, ctrl, result) {
		return
	}

	data := similarPage{
		Meta:     pageMeta{Title: "Similar movies"},
		BackHref: "/movie/" + strconv.FormatInt(id, 10),
		List:     newListData(ctrl, result),
	}
	if movie, err := h.Catalog.MovieDetails(r.Context(), id); err == nil {
		data.Meta.Title = "More like " + movie.Title
		data.MovieTitle = movie.Title
		data.BackHref = utils.MoviePath(movie.ID, movie.Title)
	} else {
		data.MovieTitle = "movie"
	}
	h.render(w, http.StatusOK, "similar.html", data)
}

// Search renders full search results. It is what the header search form
// submits to when the live view is unavailable.
func (h *PagesHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctrl := h.newController("search_page", searchLoader(h.Catalog))
	defer ctrl.Close()
	result := ctrl.Mount(r.Context(), r.URL.RawQuery)
	if h.redirectPastLastPage(w, r, ctrl, result) {
		return
	}

	text := strings.TrimSpace(ctrl.State().SearchText)
	h.render(w, http.StatusOK, "search.html", searchPage{
		Meta: pageMeta{Title: "Search", SearchText: text},
		List: newListData(ctrl, result),
	})
}

// NotFound renders the error page for unknown routes.
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, http.StatusNotFound, "Page not found")
}

// redirectPastLastPage answers with 303 to the last page when the requested
// page is past the page count of a successful result.
func (h *PagesHandler) redirectPastLastPage(w http.ResponseWriter, r *http.Request, ctrl *listview.Controller[models.MovieSummary], result movieResult) bool {
	if !result.IsSuccess() || result.TotalPages < 1 {
		return false
	}
	if ctrl.State().Page <= result.TotalPages {
		return false
	}
	target := r.URL.Path + "?" + ctrl.PageQuery(result.TotalPages)
	http.Redirect(w, r, target, http.StatusSeeOther)
	return true
}

func newListData(ctrl *listview.Controller[models.MovieSummary], result movieResult) listData {
	total := 0
	if result.IsSuccess() {
		total = result.TotalPages
	}
	return listData{
		Query:  ctrl.Query(),
		Result: result,
		Pagination: buildPagination(ctrl.State().Page, total, func(n int) string {
			return "?" + ctrl.PageQuery(n)
		}),
	}
}

func (h *PagesHandler) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.Templates.Render(&buf, page, data); err != nil {
		log.Printf("[pages] render page=%s: %v", page, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *PagesHandler) renderError(w http.ResponseWriter, status int, message string) {
	h.render(w, status, "error.html", errorPage{
		Meta:    pageMeta{Title: http.StatusText(status)},
		Status:  status,
		Message: message,
	})
}

// errorMessage picks the text shown for a failed single-item lookup.
func errorMessage(err error, status int, fallback string) string {
	if metadatapkg.IsConfigError(err) {
		return metadatapkg.ConfigMessage
	}
	if status == http.StatusNotFound {
		return "Movie not found"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The movie catalog took too long to answer"
	}
	var pub listview.PublicError
	if errors.As(err, &pub) && strings.TrimSpace(pub.PublicMessage()) != "" {
		return pub.PublicMessage()
	}
	return fallback
}

func firstN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
