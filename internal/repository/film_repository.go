package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jengzang/filmday-backend-go/internal/models"
)

const (
	// metaDataVersion is the catalog_meta key holding the IMDb data version
	metaDataVersion = "data_version"
	// metaLoadedAt changes on every import, including reloads of the same version
	metaLoadedAt = "loaded_at"
)

// FilmRepository handles database operations for the film catalog
type FilmRepository struct {
	db  *sql.DB
	now func() time.Time

	mu     sync.Mutex
	genres []string
}

// NewFilmRepository creates a new film repository
func NewFilmRepository(db *sql.DB) *FilmRepository {
	return &FilmRepository{db: db, now: time.Now}
}

// columns returns the genre columns of film_data. The table schema does
// not change at runtime, so the first successful read is kept.
func (r *FilmRepository) columns(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.genres != nil {
		return r.genres, nil
	}

	genres, err := r.readGenreColumns(ctx)
	if err != nil {
		return nil, err
	}
	r.genres = genres
	return genres, nil
}

// SelectFilms returns the films matching sel, sorted and capped. No match
// yields an empty slice.
func (r *FilmRepository) SelectFilms(ctx context.Context, sel models.FilterSelection) ([]models.Film, error) {
	genres, err := r.columns(ctx)
	if err != nil {
		return nil, err
	}
	q, err := buildFilmQuery(sel, genres)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query films: %w", err)
	}
	defer rows.Close()

	films := make([]models.Film, 0)
	for rows.Next() {
		f, err := scanFilm(rows, genres)
		if err != nil {
			return nil, err
		}
		films = append(films, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate films: %w", err)
	}

	return films, nil
}

// GetFilmByID retrieves a single film by its tconst
func (r *FilmRepository) GetFilmByID(ctx context.Context, id string) (*models.Film, error) {
	genres, err := r.columns(ctx)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + filmColumns(genres) + " FROM film_data WHERE tconst = ?"
	f, err := scanFilm(r.db.QueryRowContext(ctx, query, id), genres)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// RandomFilm samples one film uniformly from the whole catalog
func (r *FilmRepository) RandomFilm(ctx context.Context) (*models.Film, error) {
	genres, err := r.columns(ctx)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + filmColumns(genres) + " FROM film_data ORDER BY RANDOM() LIMIT 1"
	f, err := scanFilm(r.db.QueryRowContext(ctx, query), genres)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrEmptySet
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// GenreColumns lists the known genre columns present in film_data, in
// column order. Catalogs built by an older loader may lack some of them.
func (r *FilmRepository) GenreColumns(ctx context.Context) ([]string, error) {
	genres, err := r.columns(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), genres...), nil
}

func (r *FilmRepository) readGenreColumns(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "PRAGMA table_info(film_data)")
	if err != nil {
		return nil, fmt.Errorf("failed to read film_data columns: %w", err)
	}
	defer rows.Close()

	genres := make([]string, 0, len(models.KnownGenres))
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}
		if models.IsKnownGenre(name) {
			genres = append(genres, name)
		}
	}

	return genres, rows.Err()
}

// MinYear returns the premiere year of the oldest film, or 0 when the
// catalog is empty
func (r *FilmRepository) MinYear(ctx context.Context) (int, error) {
	var year sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MIN(startYear) FROM film_data").Scan(&year); err != nil {
		return 0, fmt.Errorf("failed to get min year: %w", err)
	}
	return int(year.Int64), nil
}

// CatalogMeta returns the data version and film count
func (r *FilmRepository) CatalogMeta(ctx context.Context) (models.CatalogMeta, error) {
	var meta models.CatalogMeta
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM film_data").Scan(&meta.FilmCount); err != nil {
		return meta, fmt.Errorf("failed to count films: %w", err)
	}

	var raw string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM catalog_meta WHERE key = ?", metaDataVersion).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("failed to get data version: %w", err)
	}

	version, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return meta, fmt.Errorf("invalid data version %q: %w", raw, err)
	}
	meta.DataVersion = version
	return meta, nil
}

// CatalogStamp returns a token that changes whenever an import commits, or
// "" for a catalog that was never imported
func (r *FilmRepository) CatalogStamp(ctx context.Context) (string, error) {
	var stamp string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM catalog_meta WHERE key = ?", metaLoadedAt).Scan(&stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get catalog stamp: %w", err)
	}
	return stamp, nil
}

// UpsertFilms inserts or replaces films inside tx
func (r *FilmRepository) UpsertFilms(ctx context.Context, tx *sql.Tx, films []models.Film) error {
	if len(films) == 0 {
		return nil
	}

	genres, err := r.columns(ctx)
	if err != nil {
		return err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(baseColumns)+len(genres)), ", ")
	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO film_data ("+filmColumns(genres)+") VALUES ("+placeholders+")")
	if err != nil {
		return fmt.Errorf("failed to prepare film upsert: %w", err)
	}
	defer stmt.Close()

	for i := range films {
		f := &films[i]
		args := []interface{}{
			f.ID, f.Title, f.Year, f.RuntimeMinutes,
			f.MainGenre, f.OtherGenres, f.AverageRating, f.NumVotes,
		}
		for _, g := range genres {
			flag := 0
			if f.HasGenre(g) {
				flag = 1
			}
			args = append(args, flag)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to upsert film %s: %w", f.ID, err)
		}
	}

	return nil
}

// ClearFilms removes every film inside tx ahead of a full reload
func (r *FilmRepository) ClearFilms(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM film_data"); err != nil {
		return fmt.Errorf("failed to clear films: %w", err)
	}
	return nil
}

// SetDataVersion records the IMDb data version inside tx and renews the
// catalog stamp
func (r *FilmRepository) SetDataVersion(ctx context.Context, tx *sql.Tx, version time.Time) error {
	_, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO catalog_meta (key, value) VALUES (?, ?), (?, ?)",
		metaDataVersion, version.Format(time.DateOnly),
		metaLoadedAt, strconv.FormatInt(r.now().UnixNano(), 10))
	if err != nil {
		return fmt.Errorf("failed to set data version: %w", err)
	}
	return nil
}

// DB exposes the connection for callers that need a transaction
func (r *FilmRepository) DB() *sql.DB {
	return r.db
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFilm(row rowScanner, genres []string) (*models.Film, error) {
	var f models.Film
	flags := make([]int64, len(genres))

	dest := []interface{}{
		&f.ID, &f.Title, &f.Year, &f.RuntimeMinutes,
		&f.MainGenre, &f.OtherGenres, &f.AverageRating, &f.NumVotes,
	}
	for i := range flags {
		dest = append(dest, &flags[i])
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan film: %w", err)
	}

	f.Genres = make([]string, 0, 3)
	for i, set := range flags {
		if set != 0 {
			f.Genres = append(f.Genres, genres[i])
		}
	}
	f.IMDbURL = fmt.Sprintf(models.IMDbTitleURL, f.ID)
	return &f, nil
}
