package cache

import (
	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

// ISummaryCache holds per-profile focus summaries for the lifetime of the
// process. Entries are never shared across profiles and are dropped whenever
// the owning profile's derived data is invalidated.
type ISummaryCache interface {
	Get(profileID uuid.UUID, area domain.FocusArea) (string, bool)
	Set(profileID uuid.UUID, area domain.FocusArea, text string)
	Invalidate(profileID uuid.UUID)
}
