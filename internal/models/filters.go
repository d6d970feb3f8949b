package models

import (
	"math"
	"time"
)

// IntRange is an inclusive range of integers
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FloatRange is an inclusive range of floats
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SortColumn names the attribute results are ordered by
type SortColumn string

// SortColumn values
const (
	SortByRating   SortColumn = "rating"
	SortByYear     SortColumn = "year"
	SortByDuration SortColumn = "duration"
	SortByVotes    SortColumn = "votes"
)

// SortDirection is asc or desc
type SortDirection string

// SortDirection values
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortDirective orders a result set
type SortDirective struct {
	Column    SortColumn    `json:"column" binding:"omitempty,oneof=rating year duration votes"`
	Direction SortDirection `json:"direction" binding:"omitempty,oneof=asc desc"`
}

// Rating bounds
const (
	MinRating  = 1.0
	MaxRating  = 10.0
	RatingStep = 0.5
)

// FilterSelection is the set of filters chosen for one search. It is owned
// by the caller (request body or saved filters) and passed in on every call.
type FilterSelection struct {
	Years    IntRange        `json:"years"`
	Duration IntRange        `json:"duration"` // minutes
	Rating   FloatRange      `json:"rating"`
	MinVotes int64           `json:"min_votes" binding:"gte=0"`
	Genre    GenreConstraint `json:"genre"`
	Sort     SortDirective   `json:"sort"`
	Limit    int             `json:"limit" binding:"gte=0"` // top N after sorting, 0 = all
}

// DefaultFilterSelection returns the filters a new user starts with
func DefaultFilterSelection(now time.Time) FilterSelection {
	return FilterSelection{
		Years:    IntRange{Min: 1985, Max: now.Year()},
		Duration: IntRange{Min: 60, Max: 120},
		Rating:   FloatRange{Min: 7.0, Max: MaxRating},
		MinVotes: 100000,
		Genre:    NoGenre(),
		Sort:     SortDirective{Column: SortByRating, Direction: SortDesc},
		Limit:    100,
	}
}

// DefaultFilterBounds returns the slider limits for a catalog whose oldest
// film premiered in minYear
func DefaultFilterBounds(minYear int, now time.Time) FilterBounds {
	return FilterBounds{
		MinYear:     minYear,
		MaxYear:     now.Year(),
		MinDuration: 30,
		MaxDuration: 240,
		MinRating:   MinRating,
		MaxRating:   MaxRating,
		RatingStep:  RatingStep,
		MinVotes:    0,
		MaxVotes:    500000,
		VotesStep:   500,
		TopN:        []int{100, 250, 500, 0},
	}
}

// Normalized fills in the sort and operator defaults
func (s FilterSelection) Normalized() FilterSelection {
	if s.Sort.Column == "" {
		s.Sort.Column = SortByRating
	}
	if s.Sort.Direction == "" {
		s.Sort.Direction = SortDesc
	}
	s.Genre = s.Genre.Normalized()
	return s
}

// Validate checks ranges, sort directive and the genre constraint
func (s FilterSelection) Validate() error {
	if s.Years.Min > s.Years.Max {
		return NewValidationError("years", "minimum year %d is after maximum year %d", s.Years.Min, s.Years.Max)
	}
	if s.Duration.Min < 0 || s.Duration.Min > s.Duration.Max {
		return NewValidationError("duration", "invalid duration range %d-%d", s.Duration.Min, s.Duration.Max)
	}
	if err := validateRating(s.Rating); err != nil {
		return err
	}
	if s.MinVotes < 0 {
		return NewValidationError("min_votes", "must not be negative")
	}
	if s.Limit < 0 {
		return NewValidationError("limit", "must not be negative")
	}
	switch s.Sort.Column {
	case "", SortByRating, SortByYear, SortByDuration, SortByVotes:
	default:
		return NewValidationError("sort.column", "unknown sort column %q", s.Sort.Column)
	}
	switch s.Sort.Direction {
	case "", SortAsc, SortDesc:
	default:
		return NewValidationError("sort.direction", "unknown sort direction %q", s.Sort.Direction)
	}
	return s.Genre.Validate()
}

func validateRating(r FloatRange) error {
	for _, v := range []float64{r.Min, r.Max} {
		if v < MinRating || v > MaxRating {
			return NewValidationError("rating", "rating %.1f is outside %.1f-%.1f", v, MinRating, MaxRating)
		}
		if steps := v / RatingStep; math.Abs(steps-math.Round(steps)) > 1e-9 {
			return NewValidationError("rating", "rating %g is not a multiple of %.1f", v, RatingStep)
		}
	}
	if r.Min > r.Max {
		return NewValidationError("rating", "minimum rating %.1f is above maximum rating %.1f", r.Min, r.Max)
	}
	return nil
}
