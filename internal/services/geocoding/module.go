package geocoding

import (
	"context"
	"errors"
	"fmt"

	geocodingAdapter "github.com/AmitAMahadik/ExAstra/internal/adapters/secondary/geocoding"
	"github.com/AmitAMahadik/ExAstra/internal/domain"
	"github.com/AmitAMahadik/ExAstra/internal/ports/service"
)

// Service implements IGeocodingService over the geocoding client.
type Service struct {
	client *geocodingAdapter.Client
}

func New(client *geocodingAdapter.Client) service.IGeocodingService {
	return &Service{
		client: client,
	}
}

func (s *Service) ValidatePlace(ctx context.Context, query string) (*domain.PlaceResult, error) {
	place, err := s.client.Search(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) || errors.Is(err, domain.ErrNoMatch) {
			return nil, domain.WrapKind(domain.KindValidation, err)
		}
		return nil, domain.WrapKind(domain.KindTransport, fmt.Errorf("place validation failed: %w", err))
	}

	if place.TimezoneID == "" {
		// A place without a timezone cannot anchor a birth moment.
		return nil, domain.WrapKind(domain.KindValidation, domain.ErrNoMatch)
	}

	return place, nil
}
