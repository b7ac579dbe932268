package astrology

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/pkg/civiltime"
)

// ProfileUpdate carries the fields a client may set. Nil means "leave as is";
// setting any birth-identifying field invalidates derived data.
type ProfileUpdate struct {
	Name         *string              `json:"name,omitempty"`
	Gender       *domain.Gender       `json:"gender,omitempty"`
	BirthDate    *civiltime.Date      `json:"birth_date,omitempty"`
	BirthTime    *civiltime.TimeOfDay `json:"birth_time,omitempty"`
	PlaceOfBirth *string              `json:"place_of_birth,omitempty"`
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	return s.ProfileRepo.GetByID(ctx, id)
}

// UpsertProfile applies the update, creating the profile if needed. Any
// change to name/date/time/place clears the validated location, the signs,
// and the focus-summary cache in the same write, and bumps the revision so
// in-flight lookups against the old profile land nowhere.
func (s *Service) UpsertProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*domain.Profile, error) {
	if update.Gender != nil && !update.Gender.IsValid() {
		return nil, domain.WrapKind(domain.KindValidation, fmt.Errorf("invalid gender: %s", *update.Gender))
	}
	if update.BirthDate != nil {
		if err := update.BirthDate.Validate(); err != nil {
			return nil, domain.WrapKind(domain.KindValidation, err)
		}
	}
	if update.BirthTime != nil {
		if err := update.BirthTime.Validate(); err != nil {
			return nil, domain.WrapKind(domain.KindValidation, err)
		}
	}

	profile, err := s.ProfileRepo.GetByID(ctx, id)
	created := false
	if errors.Is(err, domain.ErrProfileNotFound) {
		now := time.Now()
		profile = &domain.Profile{
			ID:        id,
			Gender:    domain.GenderPreferNotToSay,
			CreatedAt: now,
			UpdatedAt: now,
		}
		created = true
	} else if err != nil {
		return nil, err
	}

	invalidated := applyUpdate(profile, update)

	if invalidated {
		s.invalidateDerived(profile)
	}
	profile.UpdatedAt = time.Now()

	if created {
		if err := s.ProfileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
	} else {
		if err := s.ProfileRepo.Update(ctx, profile); err != nil {
			return nil, err
		}
	}

	return profile, nil
}

// SelectFocus stores the chosen focus area. Focus selection does not touch
// birth data, so nothing derived is invalidated.
func (s *Service) SelectFocus(ctx context.Context, id uuid.UUID, area domain.FocusArea) (*domain.Profile, error) {
	if !area.IsValid() {
		return nil, domain.WrapKind(domain.KindValidation, fmt.Errorf("invalid focus area: %s", area))
	}

	profile, err := s.ProfileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile.FocusArea = &area
	profile.UpdatedAt = time.Now()

	if err := s.ProfileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ResetProfile deletes the profile row and every piece of per-profile state:
// summary cache, focus states, chat session.
func (s *Service) ResetProfile(ctx context.Context, id uuid.UUID) error {
	if err := s.ProfileRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.SummaryCache.Invalidate(id)
	s.clearFocusState(id)
	s.dropChatSession(id)
	return nil
}

// applyUpdate mutates profile in place and reports whether a
// derived-data-invalidating field changed.
func applyUpdate(profile *domain.Profile, update ProfileUpdate) bool {
	invalidated := false

	if update.Name != nil && *update.Name != profile.Name {
		profile.Name = *update.Name
		invalidated = true
	}
	if update.Gender != nil {
		profile.Gender = *update.Gender
	}
	if update.BirthDate != nil && (profile.BirthDate == nil || *update.BirthDate != *profile.BirthDate) {
		d := *update.BirthDate
		profile.BirthDate = &d
		invalidated = true
	}
	if update.BirthTime != nil && (profile.BirthTime == nil || *update.BirthTime != *profile.BirthTime) {
		t := *update.BirthTime
		profile.BirthTime = &t
		invalidated = true
	}
	if update.PlaceOfBirth != nil && *update.PlaceOfBirth != profile.PlaceOfBirth {
		profile.PlaceOfBirth = *update.PlaceOfBirth
		invalidated = true
	}

	return invalidated
}

// invalidateDerived clears everything computed from birth data. Runs
// synchronously with the triggering edit; the revision bump fences any
// lookup still in flight against the old values.
func (s *Service) invalidateDerived(profile *domain.Profile) {
	profile.Location = nil
	profile.Signs = nil
	profile.Revision++

	s.SummaryCache.Invalidate(profile.ID)
	s.clearFocusState(profile.ID)
}
