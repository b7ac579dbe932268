package domain

import "errors"

var (
	ErrEmptyQuery            = errors.New("place query is empty")
	ErrNoMatch               = errors.New("no matching place found")
	ErrGeocodingUnavailable  = errors.New("geocoding service unavailable")
	ErrUnparsableModelOutput = errors.New("model output is not parsable")
)

// PlaceResult is the first candidate returned by the geocoder. Taking the
// first result is a deliberate simplicity tradeoff: there is no
// disambiguation step.
type PlaceResult struct {
	CanonicalName string  `json:"canonical_name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	TimezoneID    string  `json:"timezone_id"`
}
