package inmemory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/ports/cache"
)

type summaryKey struct {
	profileID uuid.UUID
	area      domain.FocusArea
}

// SummaryCache is the in-memory focus summary store. Entries live for the
// process lifetime and are dropped when the owning profile is invalidated.
type SummaryCache struct {
	mu      sync.RWMutex
	entries map[summaryKey]string
}

func NewSummaryCache() cache.ISummaryCache {
	return &SummaryCache{
		entries: make(map[summaryKey]string),
	}
}

func (c *SummaryCache) Get(profileID uuid.UUID, area domain.FocusArea) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[summaryKey{profileID: profileID, area: area}]
	return text, ok
}

func (c *SummaryCache) Set(profileID uuid.UUID, area domain.FocusArea, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[summaryKey{profileID: profileID, area: area}] = text
}

// Invalidate removes every cached summary belonging to the profile.
func (c *SummaryCache) Invalidate(profileID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.profileID == profileID {
			delete(c.entries, key)
		}
	}
}
