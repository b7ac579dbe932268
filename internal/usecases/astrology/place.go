package astrology

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

// ValidatePlace resolves the profile's place text through the geocoder and,
// on success, stores the location and canonical name. The revision bump
// supersedes any sign computation still running for the prior location.
func (s *Service) ValidatePlace(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	profile, err := s.ProfileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	place, err := s.Geocoding.ValidatePlace(ctx, profile.PlaceOfBirth)
	if err != nil {
		return nil, err
	}

	profile.PlaceOfBirth = place.CanonicalName
	profile.Location = &domain.BirthLocation{
		Latitude:   place.Latitude,
		Longitude:  place.Longitude,
		TimezoneID: place.TimezoneID,
	}
	profile.Signs = nil
	profile.Revision++
	profile.UpdatedAt = time.Now()

	s.SummaryCache.Invalidate(profile.ID)
	s.clearFocusState(profile.ID)

	if err := s.ProfileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.Log.Info("place validated",
		"profile_id", profile.ID,
		"canonical_name", place.CanonicalName,
		"timezone", place.TimezoneID,
	)

	return profile, nil
}
