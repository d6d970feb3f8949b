package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/jengzang/filmday-backend-go/internal/database"
	"github.com/jengzang/filmday-backend-go/internal/imdb"
	"github.com/jengzang/filmday-backend-go/internal/logging"
	"github.com/jengzang/filmday-backend-go/internal/models"
	"github.com/jengzang/filmday-backend-go/internal/repository"
)

const importBatchSize = 1000

// CacheInvalidator is notified after the catalog changed
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// ImportService loads the IMDb datasets into the film catalog
type ImportService struct {
	repo        *repository.FilmRepository
	runs        *repository.ImportRunRepository
	invalidator CacheInvalidator // may be nil
}

// NewImportService creates a new import service
func NewImportService(repo *repository.FilmRepository, runs *repository.ImportRunRepository, invalidator CacheInvalidator) *ImportService {
	return &ImportService{repo: repo, runs: runs, invalidator: invalidator}
}

// History returns the most recent import runs
func (s *ImportService) History(ctx context.Context, limit int) ([]models.ImportRun, error) {
	return s.runs.List(ctx, limit)
}

// Import replaces the catalog with the films read from the basics and
// ratings datasets and records version as the data version. The catalog is
// left untouched when any step fails.
func (s *ImportService) Import(ctx context.Context, basics, ratings io.Reader, version time.Time) (*models.ImportStats, error) {
	run, err := s.runs.Create(ctx, version)
	if err != nil {
		return nil, err
	}

	stats, err := s.load(ctx, basics, ratings, version)
	if err != nil {
		if markErr := s.runs.MarkAsFailed(context.WithoutCancel(ctx), run.ID, err.Error()); markErr != nil {
			logging.Error().Err(markErr).Int64("run", run.ID).Msg("failed to record import failure")
		}
		return nil, err
	}
	if err := s.runs.MarkAsCompleted(ctx, run.ID, stats); err != nil {
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}

	logging.Info().
		Int64("run", run.ID).
		Int64("films", stats.FilmsWritten).
		Int64("skipped", stats.Skipped).
		Str("version", version.Format(time.DateOnly)).
		Dur("duration", stats.Duration).
		Msg("catalog import completed")
	return stats, nil
}

func (s *ImportService) load(ctx context.Context, basics, ratings io.Reader, version time.Time) (*models.ImportStats, error) {
	start := time.Now()

	logging.Info().Msg("reading ratings dataset")
	rated, err := imdb.ReadRatings(ratings)
	if err != nil {
		return nil, err
	}
	stats := &models.ImportStats{
		RatingsRead: int64(len(rated)),
		DataVersion: version,
	}

	err = database.Transaction(s.repo.DB(), func(tx *sql.Tx) error {
		if err := s.repo.ClearFilms(ctx, tx); err != nil {
			return err
		}

		batch := make([]models.Film, 0, importBatchSize)
		flush := func() error {
			if err := s.repo.UpsertFilms(ctx, tx, batch); err != nil {
				return err
			}
			stats.FilmsWritten += int64(len(batch))
			batch = batch[:0]
			return nil
		}

		read, err := imdb.ReadBasics(basics, rated, func(f models.Film) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch = append(batch, f)
			if len(batch) >= importBatchSize {
				if err := flush(); err != nil {
					return err
				}
				logging.Debug().Int64("written", stats.FilmsWritten).Msg("import progress")
			}
			return nil
		})
		if err != nil {
			return err
		}
		if err := flush(); err != nil {
			return err
		}

		stats.BasicsRead = read.Read
		stats.Skipped = read.Skipped
		return s.repo.SetDataVersion(ctx, tx, version)
	})
	if err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
