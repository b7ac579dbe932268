package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/pkg/civiltime"
)

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderNonBinary      Gender = "non_binary"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary, GenderPreferNotToSay:
		return true
	}
	return false
}

func (g Gender) Display() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderNonBinary:
		return "Non-binary"
	default:
		return "Prefer not to say"
	}
}

// BirthLocation is present only after a successful place validation of the
// profile's current birth fields. Any edit to name/date/time/place clears it
// together with all derived signs.
type BirthLocation struct {
	Latitude   float64 `json:"latitude" db:"birth_lat"`
	Longitude  float64 `json:"longitude" db:"birth_lon"`
	TimezoneID string  `json:"timezone_id" db:"birth_tz"`
}

type Profile struct {
	ID           uuid.UUID            `json:"id" db:"id"`
	Name         string               `json:"name" db:"name"`
	Gender       Gender               `json:"gender" db:"gender"`
	BirthDate    *civiltime.Date      `json:"birth_date,omitempty"`
	BirthTime    *civiltime.TimeOfDay `json:"birth_time,omitempty"`
	PlaceOfBirth string               `json:"place_of_birth" db:"birth_place"`
	Location     *BirthLocation       `json:"birth_location,omitempty"`
	FocusArea    *FocusArea           `json:"focus_area,omitempty" db:"focus_area"`
	Signs        *SignsResult         `json:"signs,omitempty" db:"signs"`

	// Revision is bumped on every edit that invalidates derived data. In-flight
	// lookups carry the revision they were issued against and their results are
	// discarded when it no longer matches.
	Revision  int64     `json:"revision" db:"revision"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsComplete reports whether the minimum profile needed for sign resolution
// has been entered. Name is not required.
func (p *Profile) IsComplete() bool {
	return p.BirthDate != nil && p.BirthTime != nil && p.PlaceOfBirth != ""
}

// BirthInstantUTC resolves the profile's civil birth components against the
// validated birth timezone. Fails when no validated location is present.
func (p *Profile) BirthInstantUTC() (time.Time, error) {
	if p.Location == nil {
		return time.Time{}, ErrMissingLocation
	}
	if p.BirthDate == nil || p.BirthTime == nil {
		return time.Time{}, ErrIncompleteProfile
	}
	return civiltime.ToUTCInstant(*p.BirthDate, *p.BirthTime, p.Location.TimezoneID)
}

// Summary renders the profile as stable prompt context.
func (p *Profile) Summary() string {
	name := p.Name
	if name == "" {
		name = "Unknown"
	}
	place := p.PlaceOfBirth
	if place == "" {
		place = "Unknown"
	}
	dob := "Unknown"
	if p.BirthDate != nil {
		dob = fmt.Sprintf("%04d-%02d-%02d", p.BirthDate.Year, p.BirthDate.Month, p.BirthDate.Day)
	}
	tob := "Unknown"
	if p.BirthTime != nil {
		tob = fmt.Sprintf("%02d:%02d", p.BirthTime.Hour, p.BirthTime.Minute)
	}
	focus := "Not selected"
	if p.FocusArea != nil {
		focus = p.FocusArea.Display()
	}

	return fmt.Sprintf(
		"Name: %s\nGender: %s\nDate of Birth: %s\nTime of Birth: %s\nPlace of Birth: %s\nFocus Area: %s",
		name, p.Gender.Display(), dob, tob, place, focus)
}
