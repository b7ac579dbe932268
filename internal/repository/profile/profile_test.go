package profileRepo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/pkg/civiltime"
)

func TestRowMapping_FullProfile(t *testing.T) {
	area := domain.FocusCareer
	now := time.Now().Truncate(time.Second)
	profile := &domain.Profile{
		ID:           uuid.New(),
		Name:         "Lena",
		Gender:       domain.GenderFemale,
		BirthDate:    &civiltime.Date{Year: 1992, Month: 3, Day: 14},
		BirthTime:    &civiltime.TimeOfDay{Hour: 4, Minute: 30, Second: 15},
		PlaceOfBirth: "Pune, Maharashtra, India",
		Location: &domain.BirthLocation{
			Latitude:   18.5204,
			Longitude:  73.8567,
			TimezoneID: "Asia/Kolkata",
		},
		FocusArea: &area,
		Signs: &domain.SignsResult{
			Moon: &domain.MoonInfo{Longitude: 306.0, Sign: "Aquarius", DegreeInSign: 6.0},
			AI:   &domain.AISigns{SolarSign: "Pisces", VedicMoonSign: "Aquarius", ChineseSign: "Monkey"},
		},
		Revision:  3,
		CreatedAt: now,
		UpdatedAt: now,
	}

	got := toDomain(fromDomain(profile))
	assert.Equal(t, profile, got)
}

// A profile fresh from onboarding has no birth components yet; the nullable
// columns must round-trip as absent rather than zero values.
func TestRowMapping_EmptyProfile(t *testing.T) {
	profile := &domain.Profile{
		ID:     uuid.New(),
		Gender: domain.GenderPreferNotToSay,
	}

	row := fromDomain(profile)
	assert.Nil(t, row.BirthYear)
	assert.Nil(t, row.BirthHour)
	assert.Nil(t, row.BirthLat)
	assert.Nil(t, row.FocusArea)
	assert.Nil(t, row.Signs)

	got := toDomain(row)
	assert.Nil(t, got.BirthDate)
	assert.Nil(t, got.BirthTime)
	assert.Nil(t, got.Location)
	assert.Nil(t, got.FocusArea)
	assert.False(t, got.IsComplete())
}

// Legacy rows may carry birth times without seconds.
func TestRowMapping_MissingSecondDefaultsToZero(t *testing.T) {
	hour, minute := 4, 30
	row := &profileRow{
		ID:     uuid.New(),
		Gender: string(domain.GenderMale),

		BirthHour:   &hour,
		BirthMinute: &minute,
	}

	got := toDomain(row)
	require.NotNil(t, got.BirthTime)
	assert.Equal(t, civiltime.TimeOfDay{Hour: 4, Minute: 30, Second: 0}, *got.BirthTime)
}
