package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"moviez/api"
	"moviez/handlers"
	"moviez/utils"
)

type app struct {
	pages    *handlers.PagesHandler
	live     *handlers.LiveHandler
	trailers *handlers.TrailerHandler
	images   *handlers.ImageHandler
	static   *handlers.StaticHandler
	version  *handlers.VersionHandler
	metrics  http.Handler
	limiter  *api.IPRateLimiter
}

func (a *app) routes() *mux.Router {
	r := utils.NewRouter(api.RequestLogger(), api.Recoverer())
	limit := api.RateLimit(a.limiter)

	r.HandleFunc("/", a.pages.Home).Methods(http.MethodGet)
	r.HandleFunc("/genres", a.pages.Genres).Methods(http.MethodGet)
	r.HandleFunc("/movies/{category}", a.pages.Category).Methods(http.MethodGet)
	r.HandleFunc("/movie/{id}", a.pages.Detail).Methods(http.MethodGet)
	r.HandleFunc("/movie/{id}/similar", a.pages.Similar).Methods(http.MethodGet)
	r.HandleFunc("/search", a.pages.Search).Methods(http.MethodGet)

	r.Handle("/live", limit(a.live)).Methods(http.MethodGet)
	r.HandleFunc("/api/movies/{id}/trailer", a.trailers.GetTrailer).Methods(http.MethodGet)
	r.Handle("/img/{size}/{path}", limit(http.HandlerFunc(a.images.ServeImage))).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(a.static).Methods(http.MethodGet)

	r.HandleFunc("/version", a.version.GetVersion).Methods(http.MethodGet)
	r.Handle("/metrics", a.metrics).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(a.pages.NotFound)
	return r
}
