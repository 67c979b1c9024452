package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Duration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "contentDetails", r.URL.Query().Get("part"))
		assert.Equal(t, "abc", r.URL.Query().Get("id"))
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"items":[{"contentDetails":{"duration":"PT2M31S"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, srv.Client())
	formatted, err := c.FormattedDuration(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "0h 2m 31s", formatted)
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := NewClient("key", srv.URL, srv.Client())
	formatted, err := c.FormattedDuration(context.Background(), "gone")
	assert.True(t, errors.Is(err, ErrVideoNotFound))
	assert.Equal(t, UnknownDuration, formatted)
}

func TestClient_NoKey(t *testing.T) {
	c := NewClient("", "", nil)
	_, err := c.Duration(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
