package models

import "strings"

// KnownGenres is the fixed list of genre flag columns in film_data, in
// column order. Genre names coming from requests are only ever matched
// against this list; the query layer embeds these constants, never the
// caller's text.
var KnownGenres = []string{
	"Action",
	"Adventure",
	"Animation",
	"Biography",
	"Comedy",
	"Crime",
	"Documentary",
	"Drama",
	"Family",
	"Fantasy",
	"Film_Noir",
	"Game_Show",
	"History",
	"Horror",
	"Music",
	"Musical",
	"Mystery",
	"News",
	"Reality_TV",
	"Romance",
	"Sci_Fi",
	"Short",
	"Sport",
	"Talk_Show",
	"Thriller",
	"War",
	"Western",
}

var knownGenreIndex = func() map[string]string {
	idx := make(map[string]string, len(KnownGenres))
	for _, g := range KnownGenres {
		idx[g] = g
	}
	return idx
}()

// CanonicalGenre returns the allow-listed column name for name.
func CanonicalGenre(name string) (string, bool) {
	g, ok := knownGenreIndex[name]
	return g, ok
}

// IsKnownGenre reports whether name is one of KnownGenres.
func IsKnownGenre(name string) bool {
	_, ok := knownGenreIndex[name]
	return ok
}

// GenreFromIMDb maps an IMDb dataset genre label (e.g. "Sci-Fi",
// "Film-Noir") to its column name.
func GenreFromIMDb(label string) (string, bool) {
	return CanonicalGenre(strings.ReplaceAll(strings.TrimSpace(label), "-", "_"))
}

// GenreLabel is the human readable form of a genre column name.
func GenreLabel(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
