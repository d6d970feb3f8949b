// Package imdb reads the IMDb non-commercial datasets
// (https://developer.imdb.com/non-commercial-datasets/) into catalog films.
package imdb

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jengzang/filmday-backend-go/internal/models"
)

// null marks a missing value in the datasets
const null = `\N`

// Rating is one row of title.ratings.tsv
type Rating struct {
	Average float64
	Votes   int64
}

// BasicsStats counts what ReadBasics did with title.basics.tsv
type BasicsStats struct {
	Read    int64
	Kept    int64
	Skipped int64
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenDataset opens a dataset file, transparently decompressing gzip
func OpenDataset(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	if !bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		return &readCloser{Reader: br, closers: []io.Closer{f}}, nil
	}

	gz, err := gzip.NewReader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open gzip dataset %s: %w", path, err)
	}
	return &readCloser{Reader: gz, closers: []io.Closer{f, gz}}, nil
}

// tsvRows calls fn for every data row after checking the header holds
// the wanted columns. fn receives fields indexed like want.
func tsvRows(r io.Reader, want []string, fn func(fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return fmt.Errorf("failed to read header: %w", err)
		}
		return fmt.Errorf("empty dataset")
	}
	header := strings.Split(sc.Text(), "\t")
	index := make([]int, len(want))
	for i, name := range want {
		index[i] = -1
		for j, h := range header {
			if h == name {
				index[i] = j
				break
			}
		}
		if index[i] < 0 {
			return fmt.Errorf("dataset header is missing column %q", name)
		}
	}

	fields := make([]string, len(want))
	line := 1
	for sc.Scan() {
		line++
		cols := strings.Split(sc.Text(), "\t")
		if len(cols) < len(header) {
			return fmt.Errorf("line %d: expected %d columns, got %d", line, len(header), len(cols))
		}
		for i, j := range index {
			fields[i] = cols[j]
		}
		if err := fn(fields); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return sc.Err()
}

// ReadRatings loads title.ratings.tsv keyed by tconst
func ReadRatings(r io.Reader) (map[string]Rating, error) {
	ratings := make(map[string]Rating)
	err := tsvRows(r, []string{"tconst", "averageRating", "numVotes"}, func(f []string) error {
		avg, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return fmt.Errorf("invalid rating %q: %w", f[1], err)
		}
		votes, err := strconv.ParseInt(f[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid vote count %q: %w", f[2], err)
		}
		ratings[f[0]] = Rating{Average: avg, Votes: votes}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings: %w", err)
	}
	return ratings, nil
}

// ReadBasics streams title.basics.tsv and calls fn for every rated,
// non-adult movie with a year, a runtime and at least one known genre
func ReadBasics(r io.Reader, ratings map[string]Rating, fn func(models.Film) error) (BasicsStats, error) {
	var stats BasicsStats
	want := []string{"tconst", "titleType", "primaryTitle", "isAdult", "startYear", "runtimeMinutes", "genres"}
	err := tsvRows(r, want, func(f []string) error {
		stats.Read++
		film, ok := filmFromBasics(f, ratings)
		if !ok {
			stats.Skipped++
			return nil
		}
		stats.Kept++
		return fn(film)
	})
	if err != nil {
		return stats, fmt.Errorf("failed to read basics: %w", err)
	}
	return stats, nil
}

func filmFromBasics(f []string, ratings map[string]Rating) (models.Film, bool) {
	tconst, titleType, title, isAdult, startYear, runtime, genres := f[0], f[1], f[2], f[3], f[4], f[5], f[6]
	if titleType != "movie" || isAdult == "1" || startYear == null || runtime == null || genres == null {
		return models.Film{}, false
	}

	rating, ok := ratings[tconst]
	if !ok {
		return models.Film{}, false
	}
	year, err := strconv.Atoi(startYear)
	if err != nil {
		return models.Film{}, false
	}
	minutes, err := strconv.Atoi(runtime)
	if err != nil || minutes <= 0 {
		return models.Film{}, false
	}

	var (
		known  []string
		labels []string
	)
	for _, label := range strings.Split(genres, ",") {
		if g, ok := models.GenreFromIMDb(label); ok {
			known = append(known, g)
			labels = append(labels, models.GenreLabel(g))
		}
	}
	if len(known) == 0 {
		return models.Film{}, false
	}

	return models.Film{
		ID:             tconst,
		Title:          title,
		Year:           year,
		RuntimeMinutes: minutes,
		MainGenre:      known[0],
		OtherGenres:    strings.Join(labels[1:], ", "),
		AverageRating:  rating.Average,
		NumVotes:       rating.Votes,
		Genres:         known,
	}, true
}
