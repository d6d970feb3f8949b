package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/filmday-backend-go/internal/models"
)

// selectionFlags binds a FilterSelection to command flags
type selectionFlags struct {
	years    string
	duration string
	rating   string
	minVotes int64
	mode     string
	primary  string
	genres   []string
	operator string
	sort     string
	limit    int
}

func addSelectionFlags(cmd *cobra.Command, now time.Time) *selectionFlags {
	def := models.DefaultFilterSelection(now)
	f := &selectionFlags{}

	cmd.Flags().StringVar(&f.years, "years", fmt.Sprintf("%d-%d", def.Years.Min, def.Years.Max), "Release year range")
	cmd.Flags().StringVar(&f.duration, "duration", fmt.Sprintf("%d-%d", def.Duration.Min, def.Duration.Max), "Duration range in minutes")
	cmd.Flags().StringVar(&f.rating, "rating", fmt.Sprintf("%g-%g", def.Rating.Min, def.Rating.Max), "IMDb rating range, steps of 0.5")
	cmd.Flags().Int64Var(&f.minVotes, "min-votes", def.MinVotes, "Minimum number of votes")
	cmd.Flags().StringVar(&f.mode, "genre-mode", "", "Genre mode: none, primary or secondary (default from --primary/--genres)")
	cmd.Flags().StringVar(&f.primary, "primary", "", "Main genre")
	cmd.Flags().StringSliceVar(&f.genres, "genres", nil, "Additional genres (max 3, or 2 with --primary)")
	cmd.Flags().StringVar(&f.operator, "operator", string(models.GenreAnd), "Combine genres with and/or")
	cmd.Flags().StringVar(&f.sort, "sort", fmt.Sprintf("%s:%s", def.Sort.Column, def.Sort.Direction), "Sort column and direction, e.g. year:asc")
	cmd.Flags().IntVar(&f.limit, "limit", def.Limit, "Show the top N films, 0 for all")

	return f
}

func (f *selectionFlags) selection() (models.FilterSelection, error) {
	var sel models.FilterSelection
	var err error

	if sel.Years, err = parseIntRange("years", f.years); err != nil {
		return sel, err
	}
	if sel.Duration, err = parseIntRange("duration", f.duration); err != nil {
		return sel, err
	}
	if sel.Rating, err = parseFloatRange("rating", f.rating); err != nil {
		return sel, err
	}
	sel.MinVotes = f.minVotes
	sel.Limit = f.limit

	column, direction, _ := strings.Cut(f.sort, ":")
	sel.Sort = models.SortDirective{
		Column:    models.SortColumn(strings.ToLower(column)),
		Direction: models.SortDirection(strings.ToLower(direction)),
	}

	genres := make([]string, 0, len(f.genres))
	for _, g := range f.genres {
		genres = append(genres, genreColumn(g))
	}
	primary := genreColumn(f.primary)

	mode := models.GenreMode(strings.ToLower(f.mode))
	if mode == "" {
		switch {
		case len(genres) > 0:
			mode = models.GenreModeSecondary
		case primary != "":
			mode = models.GenreModePrimary
		default:
			mode = models.GenreModeNone
		}
	}
	sel.Genre = models.GenreConstraint{
		Mode:     mode,
		Primary:  primary,
		Genres:   genres,
		Operator: models.GenreOperator(strings.ToLower(f.operator)),
	}
	if mode == models.GenreModeNone || mode == models.GenreModePrimary {
		sel.Genre.Operator = ""
	}

	return sel, nil
}

// genreColumn accepts IMDb labels like Sci-Fi. Unknown names are passed
// through for validation to reject.
func genreColumn(name string) string {
	if g, ok := models.GenreFromIMDb(name); ok {
		return g
	}
	return name
}

func parseIntRange(field, value string) (models.IntRange, error) {
	lo, hi, err := splitRange(field, value)
	if err != nil {
		return models.IntRange{}, err
	}
	from, err := strconv.Atoi(lo)
	if err != nil {
		return models.IntRange{}, fmt.Errorf("invalid --%s %q: %w", field, value, err)
	}
	to, err := strconv.Atoi(hi)
	if err != nil {
		return models.IntRange{}, fmt.Errorf("invalid --%s %q: %w", field, value, err)
	}
	return models.IntRange{Min: from, Max: to}, nil
}

func parseFloatRange(field, value string) (models.FloatRange, error) {
	lo, hi, err := splitRange(field, value)
	if err != nil {
		return models.FloatRange{}, err
	}
	from, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return models.FloatRange{}, fmt.Errorf("invalid --%s %q: %w", field, value, err)
	}
	to, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return models.FloatRange{}, fmt.Errorf("invalid --%s %q: %w", field, value, err)
	}
	return models.FloatRange{Min: from, Max: to}, nil
}

func splitRange(field, value string) (string, string, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(value), "-")
	if !ok {
		return "", "", fmt.Errorf("invalid --%s %q, expected MIN-MAX", field, value)
	}
	return strings.TrimSpace(lo), strings.TrimSpace(hi), nil
}
