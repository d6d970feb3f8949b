package repository

import (
	"slices"
	"strings"

	"github.com/jengzang/filmday-backend-go/internal/models"
)

// sortColumns maps sort directives to catalog columns
var sortColumns = map[models.SortColumn]string{
	models.SortByRating:   "averageRating",
	models.SortByYear:     "startYear",
	models.SortByDuration: "runtimeMinutes",
	models.SortByVotes:    "numVotes",
}

var baseColumns = []string{
	"tconst", "primaryTitle", "startYear", "runtimeMinutes",
	"main_genre", "other_genres", "averageRating", "numVotes",
}

// filmColumns lists the base columns followed by the given genre columns
func filmColumns(genres []string) string {
	cols := append([]string(nil), baseColumns...)
	for _, g := range genres {
		cols = append(cols, quoteIdent(g))
	}
	return strings.Join(cols, ", ")
}

// quoteIdent quotes an allow-listed column name
func quoteIdent(name string) string {
	return `"` + name + `"`
}

// filmQuery is a parameterized SELECT against film_data
type filmQuery struct {
	SQL  string
	Args []interface{}
}

// buildFilmQuery turns a selection into a parameterized query over the
// catalog's genre columns. Every value is bound as a parameter; genre
// column names are taken from the allow-list.
func buildFilmQuery(sel models.FilterSelection, genres []string) (filmQuery, error) {
	if err := sel.Validate(); err != nil {
		return filmQuery{}, err
	}
	sel = sel.Normalized()

	conditions := []string{
		"startYear BETWEEN ? AND ?",
		"runtimeMinutes BETWEEN ? AND ?",
		"averageRating BETWEEN ? AND ?",
		"numVotes >= ?",
	}
	args := []interface{}{
		sel.Years.Min, sel.Years.Max,
		sel.Duration.Min, sel.Duration.Max,
		sel.Rating.Min, sel.Rating.Max,
		sel.MinVotes,
	}

	genreConds, genreArgs, err := genrePredicates(sel.Genre, genres)
	if err != nil {
		return filmQuery{}, err
	}
	conditions = append(conditions, genreConds...)
	args = append(args, genreArgs...)

	order := "DESC"
	if sel.Sort.Direction == models.SortAsc {
		order = "ASC"
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(filmColumns(genres))
	b.WriteString(" FROM film_data WHERE ")
	b.WriteString(strings.Join(conditions, " AND "))
	b.WriteString(" ORDER BY ")
	b.WriteString(sortColumns[sel.Sort.Column])
	b.WriteString(" ")
	b.WriteString(order)
	b.WriteString(", tconst ASC")

	// LIMIT follows ORDER BY so the cap keeps the top N of the sorted set
	if sel.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, sel.Limit)
	}

	return filmQuery{SQL: b.String(), Args: args}, nil
}

func genrePredicates(g models.GenreConstraint, available []string) ([]string, []interface{}, error) {
	g = g.Normalized()

	var (
		conditions []string
		args       []interface{}
	)
	switch g.Mode {
	case models.GenreModeNone:
		return nil, nil, nil
	case models.GenreModePrimary:
		return []string{"main_genre = ?"}, []interface{}{g.Primary}, nil
	}

	if g.Primary != "" {
		conditions = append(conditions, "main_genre = ?")
		args = append(args, g.Primary)
	}
	if len(g.Genres) == 0 {
		return conditions, args, nil
	}

	flags := make([]string, 0, len(g.Genres))
	for _, name := range g.Genres {
		column, ok := models.CanonicalGenre(name)
		if !ok {
			return nil, nil, models.NewValidationError("genre.genres", "unknown genre %q", name)
		}
		if !slices.Contains(available, column) {
			return nil, nil, models.NewValidationError("genre.genres", "genre %q is not available in the catalog", name)
		}
		flags = append(flags, quoteIdent(column)+" = 1")
	}

	if g.Operator == models.GenreOr {
		conditions = append(conditions, "("+strings.Join(flags, " OR ")+")")
	} else {
		conditions = append(conditions, flags...)
	}
	return conditions, args, nil
}
