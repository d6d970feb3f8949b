package service

import (
	"context"
	"errors"
	"time"

	"github.com/jengzang/filmday-backend-go/internal/models"
	"github.com/jengzang/filmday-backend-go/internal/repository"
)

// SelectionValidator checks a selection against the catalog
type SelectionValidator interface {
	ValidateSelection(ctx context.Context, sel models.FilterSelection) error
}

// FiltersService stores the filter selection a user chose to remember
type FiltersService struct {
	repo      *repository.UserRepository
	validator SelectionValidator
	now       func() time.Time
}

// NewFiltersService creates a new saved filters service
func NewFiltersService(repo *repository.UserRepository, validator SelectionValidator) *FiltersService {
	return &FiltersService{repo: repo, validator: validator, now: time.Now}
}

// Get returns the saved selection, or the default selection with a zero
// UpdatedAt when the user never saved one
func (s *FiltersService) Get(ctx context.Context, userID int64) (*models.SavedFilters, error) {
	saved, err := s.repo.GetFilters(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return &models.SavedFilters{UserID: userID, Selection: models.DefaultFilterSelection(s.now())}, nil
	}
	return saved, err
}

// Save validates and stores sel for the user
func (s *FiltersService) Save(ctx context.Context, userID int64, sel models.FilterSelection) (*models.SavedFilters, error) {
	if err := s.validator.ValidateSelection(ctx, sel); err != nil {
		return nil, err
	}
	return s.repo.SaveFilters(ctx, userID, sel.Normalized())
}

// Delete forgets the saved selection
func (s *FiltersService) Delete(ctx context.Context, userID int64) error {
	return s.repo.DeleteFilters(ctx, userID)
}
