package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"moviez/api"
	metadatapkg "moviez/services/metadata"
	"moviez/services/youtube"
	"moviez/utils"
)

// durationLookup resolves the playing time of a video.
type durationLookup interface {
	FormattedDuration(ctx context.Context, videoID string) (string, error)
}

var _ durationLookup = (*youtube.Client)(nil)

type TrailerHandler struct {
	Catalog   CatalogService
	Durations durationLookup
}

func NewTrailerHandler(catalog CatalogService, durations durationLookup) *TrailerHandler {
	return &TrailerHandler{Catalog: catalog, Durations: durations}
}

// GetTrailer answers GET /api/movies/{id}/trailer with the first YouTube
// trailer of the movie. A failed duration lookup does not fail the request.
func (h *TrailerHandler) GetTrailer(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.ParseMovieID(mux.Vars(r)["id"])
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "invalid movie id")
		return
	}

	trailer, err := h.Catalog.Trailer(r.Context(), id)
	if errors.Is(err, metadatapkg.ErrNoTrailer) {
		api.WriteError(w, http.StatusNotFound, "No trailer available")
		return
	}
	if err != nil {
		log.Printf("[trailer] lookup movie=%d: %v", id, err)
		status := statusFor(err)
		api.WriteError(w, status, errorMessage(err, status, "Error fetching trailer"))
		return
	}

	trailer.Duration = youtube.UnknownDuration
	if h.Durations != nil {
		duration, err := h.Durations.FormattedDuration(r.Context(), trailer.Key)
		if err != nil && !errors.Is(err, youtube.ErrNotConfigured) {
			log.Printf("[trailer] duration video=%s: %v", trailer.Key, err)
		}
		if duration != "" {
			trailer.Duration = duration
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trailer)
}
