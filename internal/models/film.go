package models

import "time"

// IMDbTitleURL is the IMDb page of a title, formatted with its tconst.
const IMDbTitleURL = "https://www.imdb.com/title/%s/"

// Film represents one row of the film_data catalog
type Film struct {
	ID             string  `json:"id" db:"tconst"` // IMDb tconst, e.g. tt0111161
	Title          string  `json:"title" db:"primaryTitle"`
	Year           int     `json:"year" db:"startYear"`
	RuntimeMinutes int     `json:"duration" db:"runtimeMinutes"`
	MainGenre      string  `json:"main_genre" db:"main_genre"`
	OtherGenres    string  `json:"other_genres,omitempty" db:"other_genres"` // comma separated, display only
	AverageRating  float64 `json:"rating" db:"averageRating"`                // 1.0-10.0
	NumVotes       int64   `json:"votes" db:"numVotes"`

	// Genres holds the genre flag columns that are set for this film
	Genres []string `json:"genres"`

	IMDbURL string `json:"imdb_url"`
}

// HasGenre reports whether the genre flag column name is set
func (f *Film) HasGenre(name string) bool {
	for _, g := range f.Genres {
		if g == name {
			return true
		}
	}
	return false
}

// CatalogMeta describes the loaded catalog
type CatalogMeta struct {
	DataVersion time.Time `json:"data_version"`
	Stale       bool      `json:"stale"` // version is not from the current month
	FilmCount   int64     `json:"film_count"`
}

// IsStale reports whether the catalog version falls outside the month of now
func (m CatalogMeta) IsStale(now time.Time) bool {
	if m.DataVersion.IsZero() {
		return true
	}
	return m.DataVersion.Year() != now.Year() || m.DataVersion.Month() != now.Month()
}

// FilterBounds are the limits a client should offer for each filter
type FilterBounds struct {
	MinYear     int     `json:"min_year"`
	MaxYear     int     `json:"max_year"`
	MinDuration int     `json:"min_duration"`
	MaxDuration int     `json:"max_duration"`
	MinRating   float64 `json:"min_rating"`
	MaxRating   float64 `json:"max_rating"`
	RatingStep  float64 `json:"rating_step"`
	MinVotes    int64   `json:"min_votes"`
	MaxVotes    int64   `json:"max_votes"`
	VotesStep   int64   `json:"votes_step"`
	TopN        []int   `json:"top_n"` // offered caps; 0 means all
}

// CatalogInfo is returned by GET /api/v1/catalog
type CatalogInfo struct {
	CatalogMeta
	Bounds   FilterBounds    `json:"bounds"`
	Defaults FilterSelection `json:"defaults"`
}

// FilmSearchResult is returned by the film search endpoint
type FilmSearchResult struct {
	Films   []Film   `json:"films"`
	Count   int      `json:"count"`
	Notices []string `json:"notices,omitempty"`
}

// Notices shown alongside search results
const (
	NoticeNoMatches     = "No movies found within the boundaries of the chosen filters!"
	NoticeNoGenreFilter = "No filter was applied on genre!"
)
