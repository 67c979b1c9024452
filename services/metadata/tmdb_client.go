package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"moviez/config"
	"moviez/internal/listview"
	"moviez/internal/metrics"
	"moviez/models"
)

const (
	tmdbDefaultLanguage = "en-US"
	// upstream bodies larger than this are treated as malformed
	tmdbMaxBodyBytes = 4 << 20
)

// Minimal TMDB v3 client (bearer auth, the movie endpoints the site renders)

type tmdbClient struct {
	baseURL  string
	token    string
	language string
	httpc    *http.Client
	metrics  metrics.Recorder
}

func newTMDBClient(cfg config.TMDBConfig, httpc *http.Client, rec metrics.Recorder) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if rec == nil {
		rec = metrics.Discard
	}
	return &tmdbClient{
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:    strings.TrimSpace(cfg.APIToken),
		language: normalizeLanguage(cfg.Language),
		httpc:    httpc,
		metrics:  rec,
	}
}

func (c *tmdbClient) missing() []string {
	return config.TMDBConfig{BaseURL: c.baseURL, APIToken: c.token}.MissingTMDB()
}

func (c *tmdbClient) isConfigured() bool {
	return len(c.missing()) == 0
}

// normalizeLanguage turns loose language input into a TMDB language tag such
// as "pt-BR". A missing region defaults to US.
func normalizeLanguage(raw string) string {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "_", "-"))
	if raw == "" {
		return tmdbDefaultLanguage
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return tmdbDefaultLanguage
	}
	base, _ := tag.Base()
	region, confidence := tag.Region()
	if confidence != language.Exact {
		region = language.MustParseRegion("US")
	}
	return base.String() + "-" + region.String()
}

// get performs an authenticated GET of path and decodes the JSON body into dst.
// endpoint labels the request in metrics.
func (c *tmdbClient) get(ctx context.Context, endpoint, path string, query url.Values, dst any) error {
	if missing := c.missing(); len(missing) > 0 {
		return &configError{missing: missing}
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("language", c.language)

	endpointURL := c.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return fmt.Errorf("build tmdb request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.metrics.RecordUpstream(endpoint, 0, time.Since(start))
		return fmt.Errorf("tmdb %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordUpstream(endpoint, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, tmdbMaxBodyBytes))
	if err != nil {
		return fmt.Errorf("read tmdb %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			StatusMessage string `json:"status_message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = strings.TrimSpace(payload.StatusMessage)
		}
		return apiErr
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}
	return nil
}

type tmdbMovieResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
}

func (r tmdbMovieResult) toSummary() models.MovieSummary {
	return models.MovieSummary{
		ID:           r.ID,
		Title:        r.Title,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		VoteAverage:  r.VoteAverage,
		ReleaseDate:  r.ReleaseDate,
	}
}

type tmdbListResponse struct {
	Page int `json:"page"`
	// pointer so a missing "results" key can be told apart from an empty list
	Results    *[]tmdbMovieResult `json:"results"`
	TotalPages int                `json:"total_pages"`
}

type tmdbGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type tmdbMovieDetails struct {
	tmdbMovieResult
	Tagline   string      `json:"tagline"`
	VoteCount int         `json:"vote_count"`
	Runtime   int         `json:"runtime"`
	Genres    []tmdbGenre `json:"genres"`
}

type tmdbCredits struct {
	Cast []struct {
		Name      string `json:"name"`
		Character string `json:"character"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

type tmdbVideos struct {
	Results *[]struct {
		Key  string `json:"key"`
		Name string `json:"name"`
		Site string `json:"site"`
		Type string `json:"type"`
	} `json:"results"`
}

type tmdbGenreList struct {
	Genres *[]tmdbGenre `json:"genres"`
}

func (c *tmdbClient) listMovies(ctx context.Context, endpoint, path string, query url.Values) (listview.Page[models.MovieSummary], error) {
	var resp tmdbListResponse
	if err := c.get(ctx, endpoint, path, query, &resp); err != nil {
		return listview.Page[models.MovieSummary]{}, err
	}
	if resp.Results == nil {
		return listview.Page[models.MovieSummary]{}, fmt.Errorf("%w: %s: missing results", ErrMalformedResponse, endpoint)
	}
	items := make([]models.MovieSummary, 0, len(*resp.Results))
	for _, r := range *resp.Results {
		items = append(items, r.toSummary())
	}
	return listview.Page[models.MovieSummary]{Items: items, TotalPages: resp.TotalPages}, nil
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func (c *tmdbClient) movieDetails(ctx context.Context, id int64) (*models.MovieDetails, error) {
	var resp tmdbMovieDetails
	if err := c.get(ctx, "movie_details", "/movie/"+strconv.FormatInt(id, 10), nil, &resp); err != nil {
		return nil, err
	}
	if resp.ID == 0 {
		return nil, fmt.Errorf("%w: movie_details: missing id", ErrMalformedResponse)
	}
	details := &models.MovieDetails{
		ID:           resp.ID,
		Title:        resp.Title,
		Tagline:      resp.Tagline,
		Overview:     resp.Overview,
		PosterPath:   resp.PosterPath,
		BackdropPath: resp.BackdropPath,
		VoteAverage:  resp.VoteAverage,
		VoteCount:    resp.VoteCount,
		ReleaseDate:  resp.ReleaseDate,
		Runtime:      resp.Runtime,
	}
	for _, g := range resp.Genres {
		details.Genres = append(details.Genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	return details, nil
}

func (c *tmdbClient) credits(ctx context.Context, id int64) (*models.Credits, error) {
	var resp tmdbCredits
	if err := c.get(ctx, "movie_credits", "/movie/"+strconv.FormatInt(id, 10)+"/credits", nil, &resp); err != nil {
		return nil, err
	}
	credits := &models.Credits{}
	for _, m := range resp.Cast {
		credits.Cast = append(credits.Cast, models.CastMember{Name: m.Name, Character: m.Character})
	}
	for _, m := range resp.Crew {
		credits.Crew = append(credits.Crew, models.CrewMember{Name: m.Name, Job: m.Job})
	}
	return credits, nil
}

func (c *tmdbClient) videos(ctx context.Context, id int64) ([]models.Video, error) {
	var resp tmdbVideos
	if err := c.get(ctx, "movie_videos", "/movie/"+strconv.FormatInt(id, 10)+"/videos", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: movie_videos: missing results", ErrMalformedResponse)
	}
	videos := make([]models.Video, 0, len(*resp.Results))
	for _, v := range *resp.Results {
		videos = append(videos, models.Video{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type})
	}
	return videos, nil
}

func (c *tmdbClient) genres(ctx context.Context) ([]models.Genre, error) {
	var resp tmdbGenreList
	if err := c.get(ctx, "genre_list", "/genre/movie/list", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Genres == nil {
		return nil, fmt.Errorf("%w: genre_list: missing genres", ErrMalformedResponse)
	}
	genres := make([]models.Genre, 0, len(*resp.Genres))
	for _, g := range *resp.Genres {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	return genres, nil
}
