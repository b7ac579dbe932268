package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type ZodiacSystem string

const (
	ZodiacTropical       ZodiacSystem = "tropical"
	ZodiacSiderealLahiri ZodiacSystem = "sidereal_lahiri"
)

func (z ZodiacSystem) IsValid() bool {
	return z == ZodiacTropical || z == ZodiacSiderealLahiri
}

// MoonInfo is the deterministic ephemeris result.
type MoonInfo struct {
	Longitude    float64 `json:"longitude"`      // absolute ecliptic longitude [0,360)
	Sign         string  `json:"sign"`           // e.g. "Aquarius"
	DegreeInSign float64 `json:"degree_in_sign"` // [0,30)
}

// AISigns is the model-derived lookup. Not authoritative.
type AISigns struct {
	SolarSign     string `json:"solarSign"`
	VedicMoonSign string `json:"vedicMoonSign"`
	ChineseSign   string `json:"chineseSign"`
}

// SignsResult holds both lookups plus their feature-scoped errors. The two
// sources are independent: one failing never blanks the other.
type SignsResult struct {
	Moon    *MoonInfo `json:"moon,omitempty"`
	AI      *AISigns  `json:"ai,omitempty"`
	MoonErr string    `json:"moon_error,omitempty"`
	AIErr   string    `json:"ai_error,omitempty"`
}

// Value serializes the result for the jsonb signs column.
func (s SignsResult) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SignsResult) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("signs result: cannot scan %T", src)
	}
}

// SummaryContext renders resolved signs as prompt context; unresolved sources
// are reported as Unknown rather than omitted so prompts keep a fixed shape.
func (s *SignsResult) SummaryContext() string {
	lunar, solar, chinese := "Unknown", "Unknown", "Unknown"
	if s != nil && s.Moon != nil {
		lunar = s.Moon.Sign
	}
	if s != nil && s.AI != nil {
		if s.AI.SolarSign != "" {
			solar = s.AI.SolarSign
		}
		if s.AI.ChineseSign != "" {
			chinese = s.AI.ChineseSign
		}
	}
	return fmt.Sprintf("Lunar (Sidereal): %s\nSun (Western): %s\nChinese: %s", lunar, solar, chinese)
}
