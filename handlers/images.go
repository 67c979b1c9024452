package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"moviez/api"
	"moviez/internal/metrics"
)

const (
	maxImageBytes     = 10 << 20
	imageFetchTimeout = 15 * time.Second
)

// imageSizes are the TMDB rendition sizes the proxy forwards.
var imageSizes = map[string]bool{
	"w92":      true,
	"w154":     true,
	"w185":     true,
	"w300":     true,
	"w342":     true,
	"w500":     true,
	"w780":     true,
	"w1280":    true,
	"original": true,
}

var (
	errImageNotFound = errors.New("image not found")
	errNotAnImage    = errors.New("upstream returned a non-image payload")
)

type imageURLBuilder interface {
	ImageURL(size, path string) string
}

type cachedImage struct {
	body        []byte
	contentType string
}

// ImageHandler proxies catalog images so pages only ever reference this
// host. Responses are sniffed and kept in an expiring LRU.
type ImageHandler struct {
	urls     imageURLBuilder
	httpc    *http.Client
	cache    *expirable.LRU[string, cachedImage]
	group    singleflight.Group
	recorder metrics.Recorder
}

func NewImageHandler(urls imageURLBuilder, httpc *http.Client, cacheSize int, ttl time.Duration, rec metrics.Recorder) *ImageHandler {
	if httpc == nil {
		httpc = &http.Client{Timeout: imageFetchTimeout}
	}
	if cacheSize <= 0 {
		cacheSize = 1
	}
	if rec == nil {
		rec = metrics.Discard
	}
	return &ImageHandler{
		urls:     urls,
		httpc:    httpc,
		cache:    expirable.NewLRU[string, cachedImage](cacheSize, nil, ttl),
		recorder: rec,
	}
}

// ServeImage answers GET /img/{size}/{path}.
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	size, path := vars["size"], vars["path"]
	if !imageSizes[size] {
		api.WriteError(w, http.StatusBadRequest, "unsupported image size")
		return
	}
	if path == "" || strings.Contains(path, "/") || strings.Contains(path, "..") {
		api.WriteError(w, http.StatusBadRequest, "invalid image path")
		return
	}

	key := size + "/" + path
	img, hit := h.cache.Get(key)
	h.recorder.RecordImageCache(hit)
	if !hit {
		v, err, _ := h.group.Do(key, func() (any, error) {
			// Shared by every waiter on key, so one client leaving must not end it.
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), imageFetchTimeout)
			defer cancel()
			fetched, err := h.fetch(ctx, h.urls.ImageURL(size, "/"+path))
			if err != nil {
				return nil, err
			}
			h.cache.Add(key, fetched)
			return fetched, nil
		})
		if err != nil {
			h.writeFetchError(w, key, err)
			return
		}
		img = v.(cachedImage)
	}

	w.Header().Set("Content-Type", img.contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Write(img.body)
}

func (h *ImageHandler) fetch(ctx context.Context, url string) (cachedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return cachedImage{}, fmt.Errorf("build image request: %w", err)
	}
	resp, err := h.httpc.Do(req)
	if err != nil {
		return cachedImage{}, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return cachedImage{}, errImageNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return cachedImage{}, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return cachedImage{}, fmt.Errorf("read image: %w", err)
	}
	if len(body) > maxImageBytes {
		return cachedImage{}, fmt.Errorf("image larger than %d bytes", maxImageBytes)
	}

	mt := mimetype.Detect(body)
	if !strings.HasPrefix(mt.String(), "image/") {
		return cachedImage{}, fmt.Errorf("%w: %s", errNotAnImage, mt.String())
	}
	return cachedImage{body: body, contentType: mt.String()}, nil
}

func (h *ImageHandler) writeFetchError(w http.ResponseWriter, key string, err error) {
	if errors.Is(err, errImageNotFound) {
		api.WriteError(w, http.StatusNotFound, "image not found")
		return
	}
	log.Printf("[images] proxy key=%s: %v", key, err)
	api.WriteError(w, http.StatusBadGateway, "image unavailable")
}
