package cpl

import (
	"context"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
)

// Repository defines persistence operations for CPL mappings.
type Repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.CplMapping, error)
	FindByContent(ctx context.Context, userID uuid.UUID, contentID string) ([]models.CplMapping, error)
	Upsert(ctx context.Context, mapping *models.CplMapping) error
}
