package service

import (
	"context"
	"time"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

// IEphemerisService is the deterministic sign source backed by the
// swiss-ephemeris MCP server.
type IEphemerisService interface {
	FetchMoonInfo(ctx context.Context, instantUTC time.Time, lat, lon float64, zodiac domain.ZodiacSystem) (*domain.MoonInfo, error)

	// ResetSession discards the cached MCP session so the next call runs the
	// full initialize handshake again. Callers decide when to retry; the
	// client never retries on its own.
	ResetSession()
}
