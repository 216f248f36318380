package profileservice

import (
	"context"

	"github.com/linagelabs/txos/internal/domain"
)

type IProfileService interface {
	// Snapshot aggregates everything owner holds of the tracked object
	// types into one point-in-time profile.
	Snapshot(ctx context.Context, owner string) (*domain.ProfileSnapshot, error)
}
