package astrology

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

// ResolveSigns runs the deterministic moon lookup and the AI sign lookup
// concurrently and stores whatever each produced. The two sources fail
// independently; a fully successful result is cached by birth moment and
// coordinates so re-validation of the same place costs nothing.
func (s *Service) ResolveSigns(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	profile, err := s.ProfileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !profile.IsComplete() {
		return nil, domain.WrapKind(domain.KindValidation, domain.ErrIncompleteProfile)
	}

	instant, err := profile.BirthInstantUTC()
	if err != nil {
		return nil, domain.WrapKind(domain.KindValidation, err)
	}

	snapshot := profile.Revision
	lat, lon := profile.Location.Latitude, profile.Location.Longitude

	result := s.cachedSigns(ctx, instant, lat, lon)
	if result == nil {
		result = s.lookupSigns(ctx, profile, instant, lat, lon)
	}

	// Discard results issued against an edited profile: reload and compare
	// revisions before writing anything derived.
	current, err := s.ProfileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Revision != snapshot {
		s.Log.Info("discarding stale signs result",
			"profile_id", id,
			"issued_revision", snapshot,
			"current_revision", current.Revision,
		)
		return current, nil
	}

	current.Signs = result
	current.UpdatedAt = time.Now()
	if err := s.ProfileRepo.Update(ctx, current); err != nil {
		return nil, err
	}

	return current, nil
}

// lookupSigns fans out both lookups and waits for both; neither blocks or
// blanks the other.
func (s *Service) lookupSigns(ctx context.Context, profile *domain.Profile, instant time.Time, lat, lon float64) *domain.SignsResult {
	result := &domain.SignsResult{}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		moon, err := s.Ephemeris.FetchMoonInfo(ctx, instant, lat, lon, s.zodiac)
		if err != nil {
			s.Log.Error("deterministic moon lookup failed", "error", err, "profile_id", profile.ID)
			result.MoonErr = err.Error()
			return
		}
		result.Moon = moon
	}()

	go func() {
		defer wg.Done()
		signs, err := s.AI.LookupSigns(ctx, profile.Summary(), &instant)
		if err != nil {
			s.Log.Error("ai sign lookup failed", "error", err, "profile_id", profile.ID)
			result.AIErr = err.Error()
			return
		}
		result.AI = signs
	}()

	wg.Wait()

	if result.Moon != nil && result.AI != nil {
		s.storeSigns(ctx, instant, lat, lon, result)
	}

	return result
}

func signsCacheKey(instant time.Time, lat, lon float64) string {
	return fmt.Sprintf("astro:signs:%s:%.4f:%.4f", instant.UTC().Format(time.RFC3339), lat, lon)
}

func (s *Service) cachedSigns(ctx context.Context, instant time.Time, lat, lon float64) *domain.SignsResult {
	if s.SignsCache == nil {
		return nil
	}

	raw, err := s.SignsCache.Get(ctx, signsCacheKey(instant, lat, lon))
	if err != nil {
		return nil
	}

	var result domain.SignsResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.Log.Warn("dropping unreadable cached signs", "error", err)
		return nil
	}
	return &result
}

func (s *Service) storeSigns(ctx context.Context, instant time.Time, lat, lon float64, result *domain.SignsResult) {
	if s.SignsCache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.SignsCache.Set(ctx, signsCacheKey(instant, lat, lon), string(data), signsCacheTTL); err != nil {
		// cache write failure is not worth failing the lookup
		s.Log.Warn("failed to cache signs result", "error", err)
	}
}
