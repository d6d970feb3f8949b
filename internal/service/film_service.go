package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jengzang/filmday-backend-go/internal/logging"
	"github.com/jengzang/filmday-backend-go/internal/models"
)

const filmCachePrefix = "films:"

// FilmCatalog is the read side of the film catalog
type FilmCatalog interface {
	SelectFilms(ctx context.Context, sel models.FilterSelection) ([]models.Film, error)
	GetFilmByID(ctx context.Context, id string) (*models.Film, error)
	RandomFilm(ctx context.Context) (*models.Film, error)
	GenreColumns(ctx context.Context) ([]string, error)
	MinYear(ctx context.Context) (int, error)
	CatalogMeta(ctx context.Context) (models.CatalogMeta, error)
	CatalogStamp(ctx context.Context) (string, error)
}

// FilmService handles film selection and random picks
type FilmService struct {
	catalog  FilmCatalog
	redis    *redis.Client // nil disables result caching
	cacheTTL time.Duration
	now      func() time.Time
	intn     func(n int) int

	mu      sync.Mutex
	genres  []string
	minYear int
	stamp   string
	loaded  bool
}

// NewFilmService creates a new film service. rdb may be nil.
func NewFilmService(catalog FilmCatalog, rdb *redis.Client, cacheTTL time.Duration) *FilmService {
	return &FilmService{
		catalog:  catalog,
		redis:    rdb,
		cacheTTL: cacheTTL,
		now:      time.Now,
		intn:     rand.Intn,
	}
}

// SelectFilms returns the films matching sel in the requested order. An
// empty result is not an error.
func (s *FilmService) SelectFilms(ctx context.Context, sel models.FilterSelection) ([]models.Film, error) {
	stamp, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.ValidateSelection(ctx, sel); err != nil {
		return nil, err
	}
	sel = sel.Normalized()

	cacheKey, err := selectionCacheKey(stamp, sel)
	if err == nil {
		if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
			var films []models.Film
			if json.Unmarshal([]byte(cached), &films) == nil {
				logging.Debug().Str("key", cacheKey).Msg("cache hit")
				return films, nil
			}
		}
	}

	films, err := s.catalog.SelectFilms(ctx, sel)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(films); err == nil && cacheKey != "" {
		s.setCache(ctx, cacheKey, string(data))
	}
	return films, nil
}

// Search wraps SelectFilms with the notices shown next to the list
func (s *FilmService) Search(ctx context.Context, sel models.FilterSelection) (*models.FilmSearchResult, error) {
	films, err := s.SelectFilms(ctx, sel)
	if err != nil {
		return nil, err
	}

	result := &models.FilmSearchResult{Films: films, Count: len(films)}
	if len(films) == 0 {
		result.Notices = append(result.Notices, models.NoticeNoMatches)
	}
	if !sel.Genre.Applied() {
		result.Notices = append(result.Notices, models.NoticeNoGenreFilter)
	}
	return result, nil
}

// ValidateSelection checks sel and that every genre it names exists in the
// catalog
func (s *FilmService) ValidateSelection(ctx context.Context, sel models.FilterSelection) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	names := sel.Genre.Names()
	if len(names) == 0 {
		return nil
	}

	available, err := s.AvailableGenres(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if !contains(available, name) {
			return models.NewValidationError("genre", "genre %q is not available in the catalog", name)
		}
	}
	return nil
}

// PickRandom samples one film from the whole catalog
func (s *FilmService) PickRandom(ctx context.Context) (*models.Film, error) {
	return s.catalog.RandomFilm(ctx)
}

// PickRandomFrom samples one film uniformly from films
func (s *FilmService) PickRandomFrom(films []models.Film) (*models.Film, error) {
	if len(films) == 0 {
		return nil, models.ErrEmptySet
	}
	f := films[s.intn(len(films))]
	return &f, nil
}

// PickRandomMatching selects with sel and samples from the result
func (s *FilmService) PickRandomMatching(ctx context.Context, sel models.FilterSelection) (*models.Film, error) {
	films, err := s.SelectFilms(ctx, sel)
	if err != nil {
		return nil, err
	}
	return s.PickRandomFrom(films)
}

// GetFilm looks up a film by tconst
func (s *FilmService) GetFilm(ctx context.Context, id string) (*models.Film, error) {
	return s.catalog.GetFilmByID(ctx, id)
}

// AvailableGenres returns the genre columns of the catalog. The list is
// kept until Invalidate or until another process imports a new catalog.
func (s *FilmService) AvailableGenres(ctx context.Context) ([]string, error) {
	if _, err := s.load(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.genres...), nil
}

// CatalogInfo describes the catalog version together with filter bounds
// and the default selection
func (s *FilmService) CatalogInfo(ctx context.Context) (*models.CatalogInfo, error) {
	if _, err := s.load(ctx); err != nil {
		return nil, err
	}
	meta, err := s.catalog.CatalogMeta(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	meta.Stale = meta.IsStale(now)

	s.mu.Lock()
	minYear := s.minYear
	s.mu.Unlock()
	if minYear == 0 {
		minYear = now.Year()
	}

	return &models.CatalogInfo{
		CatalogMeta: meta,
		Bounds:      models.DefaultFilterBounds(minYear, now),
		Defaults:    models.DefaultFilterSelection(now),
	}, nil
}

// Invalidate drops memoized lookups and cached results after the catalog
// changed
func (s *FilmService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.loaded = false
	s.genres = nil
	s.minYear = 0
	s.stamp = ""
	s.mu.Unlock()

	if s.redis == nil {
		return
	}
	iter := s.redis.Scan(ctx, 0, filmCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		s.redis.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logging.Warn().Err(err).Msg("failed to invalidate film cache")
		return
	}
	logging.Info().Msg("film cache invalidated")
}

// load refreshes the memoized lookups when the catalog stamp moved, which
// also covers imports committed by filmctl in another process. It returns
// the current stamp.
func (s *FilmService) load(ctx context.Context) (string, error) {
	stamp, err := s.catalog.CatalogStamp(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded && s.stamp == stamp {
		return stamp, nil
	}

	genres, err := s.catalog.GenreColumns(ctx)
	if err != nil {
		return "", err
	}
	minYear, err := s.catalog.MinYear(ctx)
	if err != nil {
		return "", err
	}

	if s.loaded {
		logging.Info().Str("stamp", stamp).Msg("catalog changed, lookups reloaded")
	}
	s.genres = genres
	s.minYear = minYear
	s.stamp = stamp
	s.loaded = true
	return stamp, nil
}

// ---- Redis Helpers ----

// selectionCacheKey scopes the key to the catalog stamp so results cached
// before an import are never served after it
func selectionCacheKey(stamp string, sel models.FilterSelection) (string, error) {
	data, err := json.Marshal(sel)
	if err != nil {
		return "", fmt.Errorf("failed to encode selection: %w", err)
	}
	sum := sha256.Sum256(data)
	return filmCachePrefix + "select:" + stamp + ":" + hex.EncodeToString(sum[:]), nil
}

func (s *FilmService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", errors.New("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *FilmService) setCache(ctx context.Context, key, value string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, s.cacheTTL).Err(); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("failed to set cache")
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
