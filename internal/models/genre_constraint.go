package models

// GenreMode tags the variant held by a GenreConstraint
type GenreMode string

// GenreMode values
const (
	GenreModeNone      GenreMode = "none"
	GenreModePrimary   GenreMode = "primary"
	GenreModeSecondary GenreMode = "secondary"
)

// GenreOperator combines secondary genres
type GenreOperator string

// GenreOperator values
const (
	GenreAnd GenreOperator = "and"
	GenreOr  GenreOperator = "or"
)

// Secondary genre caps
const (
	MaxSecondaryGenres            = 3 // no primary genre chosen
	MaxSecondaryGenresWithPrimary = 2
)

// GenreConstraint is one of
//
//	none                              no genre predicate
//	primary(Primary)                  main_genre = Primary
//	secondary(Primary?, Genres, Op)   flags combined by Op, optionally scoped to Primary
type GenreConstraint struct {
	Mode     GenreMode     `json:"mode" binding:"omitempty,oneof=none primary secondary"`
	Primary  string        `json:"primary,omitempty"`
	Genres   []string      `json:"genres,omitempty"`
	Operator GenreOperator `json:"operator,omitempty" binding:"omitempty,oneof=and or"`
}

// NoGenre returns the empty constraint
func NoGenre() GenreConstraint {
	return GenreConstraint{Mode: GenreModeNone}
}

// PrimaryGenre matches films whose main genre is name
func PrimaryGenre(name string) GenreConstraint {
	return GenreConstraint{Mode: GenreModePrimary, Primary: name}
}

// SecondaryGenres matches films by genre flags. primary may be empty.
func SecondaryGenres(primary string, op GenreOperator, genres ...string) GenreConstraint {
	return GenreConstraint{Mode: GenreModeSecondary, Primary: primary, Genres: genres, Operator: op}
}

// Normalized fills in the mode and operator defaults
func (g GenreConstraint) Normalized() GenreConstraint {
	if g.Mode == "" {
		g.Mode = GenreModeNone
	}
	if g.Mode == GenreModeSecondary && g.Operator == "" {
		g.Operator = GenreAnd
	}
	return g
}

// Cap is the maximum number of secondary genres allowed
func (g GenreConstraint) Cap() int {
	if g.Primary != "" {
		return MaxSecondaryGenresWithPrimary
	}
	return MaxSecondaryGenres
}

// Applied reports whether the constraint adds any predicate at all
func (g GenreConstraint) Applied() bool {
	switch g.Normalized().Mode {
	case GenreModePrimary:
		return true
	case GenreModeSecondary:
		return g.Primary != "" || len(g.Genres) > 0
	}
	return false
}

// Validate checks the variant's fields, the genre cap and that every name
// is a known genre
func (g GenreConstraint) Validate() error {
	g = g.Normalized()
	switch g.Mode {
	case GenreModeNone:
		if g.Primary != "" || len(g.Genres) > 0 {
			return NewValidationError("genre", "genres given but genre mode is none")
		}
		return nil
	case GenreModePrimary:
		if g.Primary == "" {
			return NewValidationError("genre.primary", "a main genre is required")
		}
		if len(g.Genres) > 0 {
			return NewValidationError("genre.genres", "additional genres require the secondary genre mode")
		}
		return validateGenreName("genre.primary", g.Primary)
	case GenreModeSecondary:
	default:
		return NewValidationError("genre.mode", "unknown genre mode %q", g.Mode)
	}

	if g.Operator != GenreAnd && g.Operator != GenreOr {
		return NewValidationError("genre.operator", "unknown genre operator %q", g.Operator)
	}
	if g.Primary != "" {
		if err := validateGenreName("genre.primary", g.Primary); err != nil {
			return err
		}
	}
	if len(g.Genres) > g.Cap() {
		if g.Primary != "" {
			return NewValidationError("genre.genres", "You can select a maximum of %d additional genres!", g.Cap())
		}
		return NewValidationError("genre.genres", "You can select a maximum of %d genres!", g.Cap())
	}
	seen := make(map[string]bool, len(g.Genres))
	for _, name := range g.Genres {
		if err := validateGenreName("genre.genres", name); err != nil {
			return err
		}
		if name == g.Primary {
			return NewValidationError("genre.genres", "%s is already the main genre", name)
		}
		if seen[name] {
			return NewValidationError("genre.genres", "%s is selected twice", name)
		}
		seen[name] = true
	}
	return nil
}

// Names returns every genre name the constraint refers to
func (g GenreConstraint) Names() []string {
	names := make([]string, 0, len(g.Genres)+1)
	if g.Primary != "" {
		names = append(names, g.Primary)
	}
	return append(names, g.Genres...)
}

func validateGenreName(field, name string) error {
	if !IsKnownGenre(name) {
		return NewValidationError(field, "unknown genre %q", name)
	}
	return nil
}
