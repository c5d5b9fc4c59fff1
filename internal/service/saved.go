package service

import (
	"context"
	"errors"

	"github.com/growthboard/growthboard-go/internal/metrics"
	"github.com/growthboard/growthboard-go/internal/model"
	"github.com/growthboard/growthboard-go/internal/repository"
)

var ErrCountryAlreadySaved = errors.New("country already saved")

// SavedService handles saved-country business logic.
type SavedService struct {
	repo    *repository.SavedCountryRepository
	metrics metrics.Recorder
}

// NewSavedService creates a new SavedService.
func NewSavedService(repo *repository.SavedCountryRepository, rec metrics.Recorder) *SavedService {
	return &SavedService{repo: repo, metrics: rec}
}

// Save persists a country for the user. Saving an already-saved country is a
// conflict, not a no-op.
func (s *SavedService) Save(ctx context.Context, userID int64, req model.SaveCountryRequest) error {
	sc := &model.SavedCountry{
		UserID:           userID,
		Country:          req.Country,
		GrowthGDP:        req.GrowthGDP,
		GrowthPopulation: req.GrowthPopulation,
		GrowthTotal:      req.GrowthTotal,
	}

	if err := s.repo.Save(ctx, sc); err != nil {
		if errors.Is(err, repository.ErrDuplicateCountry) {
			return ErrCountryAlreadySaved
		}
		return err
	}

	s.metrics.RecordCountrySaved()
	return nil
}

// Unsave removes a saved country. Removing a country the user never saved
// succeeds silently.
func (s *SavedService) Unsave(ctx context.Context, userID int64, country string) error {
	if err := s.repo.Unsave(ctx, userID, country); err != nil {
		return err
	}
	s.metrics.RecordCountryUnsaved()
	return nil
}

// List returns the user's saved countries, most recently saved first. The
// result is never nil so an empty listing serializes as [].
func (s *SavedService) List(ctx context.Context, userID int64) ([]model.SavedCountryResponse, error) {
	saved, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.SavedCountryResponse, len(saved))
	for i, sc := range saved {
		result[i] = model.SavedCountryResponse{
			Country:          sc.Country,
			GrowthGDP:        sc.GrowthGDP,
			GrowthPopulation: sc.GrowthPopulation,
			GrowthTotal:      sc.GrowthTotal,
			SavedAt:          sc.SavedAt,
		}
	}
	return result, nil
}
