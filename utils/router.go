package utils

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter constructs the base mux router with the health route and the
// given middleware applied to every route.
func NewRouter(middleware ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.StrictSlash(true)
	r.Use(middleware...)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	return r
}
