package models

// MovieSummary is one entry of a movie list (popular, discover, search, similar).
type MovieSummary struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"posterPath"` // empty means "no image"
	BackdropPath string  `json:"backdropPath,omitempty"`
	VoteAverage  float64 `json:"voteAverage"`
	ReleaseDate  string  `json:"releaseDate,omitempty"`
}

// Genre is TMDB genre reference data.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the full record shown on the detail page.
type MovieDetails struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Tagline      string  `json:"tagline,omitempty"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"posterPath"`
	BackdropPath string  `json:"backdropPath"`
	VoteAverage  float64 `json:"voteAverage"`
	VoteCount    int     `json:"voteCount"`
	ReleaseDate  string  `json:"releaseDate"`
	Runtime      int     `json:"runtime"`
	Genres       []Genre `json:"genres"`
}

// CastMember is a credited actor.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
}

// CrewMember is a credited crew member with their job.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits holds cast and crew of a movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns the names of crew members credited as Director.
func (c Credits) Directors() []string {
	return c.crewWithJob("Director")
}

// Writers returns the names of crew members credited as Writer or Screenplay.
func (c Credits) Writers() []string {
	return c.crewWithJob("Writer", "Screenplay")
}

// TopCast returns at most n cast members in billing order.
func (c Credits) TopCast(n int) []CastMember {
	if n <= 0 || len(c.Cast) <= n {
		return c.Cast
	}
	return c.Cast[:n]
}

func (c Credits) crewWithJob(jobs ...string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, member := range c.Crew {
		for _, job := range jobs {
			if member.Job == job && !seen[member.Name] {
				seen[member.Name] = true
				names = append(names, member.Name)
			}
		}
	}
	return names
}

// Video is one entry of a movie's video list.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Trailer is the playable trailer of a movie.
type Trailer struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	WatchURL string `json:"watchUrl"`
	EmbedURL string `json:"embedUrl"`
	Duration string `json:"duration"`
}
