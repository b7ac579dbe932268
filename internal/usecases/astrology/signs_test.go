package astrology

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

func TestResolveSigns_BothSourcesSucceed(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.ephemeris.moon = &domain.MoonInfo{Longitude: 306.0, Sign: "Aquarius", DegreeInSign: 6.0}
	env.ai.signs = &domain.AISigns{SolarSign: "Pisces", VedicMoonSign: "Aquarius", ChineseSign: "Monkey"}

	profile, err := env.svc.ResolveSigns(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, profile.Signs)

	require.NotNil(t, profile.Signs.Moon)
	assert.Equal(t, "Aquarius", profile.Signs.Moon.Sign)
	require.NotNil(t, profile.Signs.AI)
	assert.Equal(t, "Pisces", profile.Signs.AI.SolarSign)
	assert.Empty(t, profile.Signs.MoonErr)
	assert.Empty(t, profile.Signs.AIErr)
}

func TestResolveSigns_SourcesFailIndependently(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.ephemeris.err = errors.New("ephemeris unreachable")
	env.ai.signs = &domain.AISigns{SolarSign: "Pisces", VedicMoonSign: "Aquarius", ChineseSign: "Monkey"}

	profile, err := env.svc.ResolveSigns(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, profile.Signs)

	assert.Nil(t, profile.Signs.Moon)
	assert.NotEmpty(t, profile.Signs.MoonErr)
	require.NotNil(t, profile.Signs.AI, "the AI result must survive a moon failure")
	assert.Equal(t, "Pisces", profile.Signs.AI.SolarSign)

	// Partial results are never cached.
	assert.Zero(t, env.kv.sets)
}

func TestResolveSigns_IncompleteProfile(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	_, err := env.svc.UpsertProfile(context.Background(), id, ProfileUpdate{Name: strPtr("Lena")})
	require.NoError(t, err)

	_, err = env.svc.ResolveSigns(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIncompleteProfile)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Zero(t, env.ephemeris.callCount())
}

func TestResolveSigns_MissingLocation(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	seeded := env.seedProfile(id)
	seeded.Location = nil
	require.NoError(t, env.repo.Update(context.Background(), seeded))

	_, err := env.svc.ResolveSigns(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingLocation)
}

func TestResolveSigns_CachedByBirthMomentAndCoordinates(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.ephemeris.moon = &domain.MoonInfo{Longitude: 306.0, Sign: "Aquarius", DegreeInSign: 6.0}
	env.ai.signs = &domain.AISigns{SolarSign: "Pisces", VedicMoonSign: "Aquarius", ChineseSign: "Monkey"}

	_, err := env.svc.ResolveSigns(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, env.ephemeris.callCount())
	assert.Equal(t, 1, env.kv.sets)

	// A second resolution for the same birth moment and place hits the cache.
	_, err = env.svc.ResolveSigns(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, env.ephemeris.callCount())

	// A different profile with identical birth data shares the cache entry.
	other := uuid.New()
	env.seedProfile(other)
	profile, err := env.svc.ResolveSigns(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, 1, env.ephemeris.callCount())
	require.NotNil(t, profile.Signs)
	assert.Equal(t, "Aquarius", profile.Signs.Moon.Sign)
}

func TestResolveSigns_StaleRevisionDiscarded(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.seedProfile(id)
	env.ephemeris.moon = &domain.MoonInfo{Longitude: 306.0, Sign: "Aquarius", DegreeInSign: 6.0}
	env.ai.signsErr = errors.New("model unavailable")

	// An invalidating edit lands while the lookup is still running.
	env.ephemeris.hook = func() { env.repo.bumpRevision(id) }

	profile, err := env.svc.ResolveSigns(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, profile.Signs, "results issued against the old revision must be discarded")
}
