package distributors

import (
	"context"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
)

// Repository defines persistence operations for distributor records.
type Repository interface {
	List(ctx context.Context) ([]models.Distributor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Distributor, error)
	FindByPairs(ctx context.Context, pairs []Pair) ([]models.Distributor, error)
	Create(ctx context.Context, distributor *models.Distributor) error
	UpdateCredential(ctx context.Context, id uuid.UUID, encoded *string, updatedBy uuid.UUID) error
}
