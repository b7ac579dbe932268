package ephemeris

import (
	"context"
	"fmt"
	"time"

	ephemerisAdapter "github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/ephemeris"
	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/ports/service"
)

// Service implements IEphemerisService over the MCP client.
type Service struct {
	client *ephemerisAdapter.Client
}

func New(client *ephemerisAdapter.Client) service.IEphemerisService {
	return &Service{
		client: client,
	}
}

func (s *Service) FetchMoonInfo(ctx context.Context, instantUTC time.Time, lat, lon float64, zodiac domain.ZodiacSystem) (*domain.MoonInfo, error) {
	if !zodiac.IsValid() {
		return nil, fmt.Errorf("invalid zodiac system: %s", zodiac)
	}

	info, err := s.client.FetchMoonInfo(ctx, instantUTC, lat, lon, zodiac)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch moon info: %w", err)
	}
	return info, nil
}

func (s *Service) ResetSession() {
	s.client.ResetSession()
}
