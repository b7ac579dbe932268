package service

import (
	"context"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

// IGeocodingService resolves free-text place names to coordinates and a
// timezone identifier.
type IGeocodingService interface {
	ValidatePlace(ctx context.Context, query string) (*domain.PlaceResult, error)
}
