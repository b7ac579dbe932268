// Package civiltime converts between civil date/time components and absolute
// UTC instants. Birth data is stored and transmitted as components only; an
// instant exists just long enough to feed the ephemeris and AI lookups, so a
// device or server timezone change can never shift a stored birth moment.
package civiltime

import (
	"errors"
	"fmt"
	"time"
)

var ErrMissingTimezone = errors.New("civiltime: missing timezone")

// Date is a calendar date without a timezone.
type Date struct {
	Year  int `json:"year" db:"birth_year"`
	Month int `json:"month" db:"birth_month"`
	Day   int `json:"day" db:"birth_day"`
}

// TimeOfDay is a wall-clock time without a timezone.
type TimeOfDay struct {
	Hour   int `json:"hour" db:"birth_hour"`
	Minute int `json:"minute" db:"birth_minute"`
	Second int `json:"second" db:"birth_second"`
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("civiltime: month %d out of range", d.Month)
	}
	if d.Day < 1 || d.Day > 31 {
		return fmt.Errorf("civiltime: day %d out of range", d.Day)
	}
	return nil
}

func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 {
		return fmt.Errorf("civiltime: hour %d out of range", t.Hour)
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("civiltime: minute %d out of range", t.Minute)
	}
	if t.Second < 0 || t.Second > 59 {
		return fmt.Errorf("civiltime: second %d out of range", t.Second)
	}
	return nil
}

// ToUTCInstant interprets (date, tod) as wall-clock time in the named
// timezone and returns the corresponding absolute instant in UTC.
func ToUTCInstant(date Date, tod TimeOfDay, tz string) (time.Time, error) {
	if tz == "" {
		return time.Time{}, ErrMissingTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("civiltime: load location %q: %w", tz, err)
	}

	local := time.Date(date.Year, time.Month(date.Month), date.Day,
		tod.Hour, tod.Minute, tod.Second, 0, loc)

	return local.UTC(), nil
}

// ToCivilComponents is the inverse of ToUTCInstant, used for round-tripping
// an instant back into editable components.
func ToCivilComponents(instant time.Time, tz string) (Date, TimeOfDay, error) {
	if tz == "" {
		return Date{}, TimeOfDay{}, ErrMissingTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Date{}, TimeOfDay{}, fmt.Errorf("civiltime: load location %q: %w", tz, err)
	}

	local := instant.In(loc)
	d := Date{Year: local.Year(), Month: int(local.Month()), Day: local.Day()}
	t := TimeOfDay{Hour: local.Hour(), Minute: local.Minute(), Second: local.Second()}
	return d, t, nil
}

// NoonUTC anchors a date-only value at 12:00 UTC. Using noon rather than
// midnight keeps the calendar day stable under any timezone conversion.
func NoonUTC(date Date) time.Time {
	return time.Date(date.Year, time.Month(date.Month), date.Day, 12, 0, 0, 0, time.UTC)
}
