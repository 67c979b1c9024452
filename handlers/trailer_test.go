package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"moviez/models"
	metadatapkg "moviez/services/metadata"
	"moviez/services/youtube"
)

type fakeDurations struct {
	duration string
	err      error
	lastID   string
}

func (f *fakeDurations) FormattedDuration(_ context.Context, videoID string) (string, error) {
	f.lastID = videoID
	return f.duration, f.err
}

func TestGetTrailer(t *testing.T) {
	catalog := &fakeCatalog{trailer: &models.Trailer{
		Key:      "vKQi3bBA1y8",
		Site:     "YouTube",
		Type:     "Trailer",
		WatchURL: "https://www.youtube.com/watch?v=vKQi3bBA1y8",
		EmbedURL: "https://www.youtube.com/embed/vKQi3bBA1y8",
	}}
	durations := &fakeDurations{duration: "0h 2m 26s"}
	h := NewTrailerHandler(catalog, durations)

	rec := serve(h.GetTrailer, "/api/movies/603/trailer", map[string]string{"id": "603"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got models.Trailer
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.EmbedURL != "https://www.youtube.com/embed/vKQi3bBA1y8" {
		t.Fatalf("unexpected embed url %q", got.EmbedURL)
	}
	if got.Duration != "0h 2m 26s" {
		t.Fatalf("unexpected duration %q", got.Duration)
	}
	if durations.lastID != "vKQi3bBA1y8" {
		t.Fatalf("duration looked up for %q", durations.lastID)
	}
}

func TestGetTrailer_DurationFailureIsUnknown(t *testing.T) {
	catalog := &fakeCatalog{trailer: &models.Trailer{Key: "abc", EmbedURL: "https://www.youtube.com/embed/abc"}}
	h := NewTrailerHandler(catalog, &fakeDurations{duration: youtube.UnknownDuration, err: errors.New("quota exceeded")})

	rec := serve(h.GetTrailer, "/api/movies/1/trailer", map[string]string{"id": "1"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got models.Trailer
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Duration != youtube.UnknownDuration {
		t.Fatalf("expected Unknown duration, got %q", got.Duration)
	}
}

func TestGetTrailer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		err     error
		status  int
		message string
	}{
		{"bad id", "x", nil, http.StatusBadRequest, "invalid movie id"},
		{"no trailer", "5", nil, http.StatusNotFound, "No trailer available"},
		{"upstream", "5", &metadatapkg.APIError{StatusCode: 500, Message: "Internal error."}, http.StatusBadGateway, "Internal error."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTrailerHandler(&fakeCatalog{trailerErr: tt.err}, nil)

			rec := serve(h.GetTrailer, "/api/movies/"+tt.id+"/trailer", map[string]string{"id": tt.id})

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.message {
				t.Fatalf("expected error %q, got %q", tt.message, body["error"])
			}
		})
	}
}
