package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

// IProfileRepo persists user profiles. Birth data is stored as civil
// components, never as an absolute instant.
type IProfileRepo interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
}
