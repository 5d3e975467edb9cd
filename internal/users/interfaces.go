package users

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
)

// Repository exposes user and role persistence operations.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]UserWithRole, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	GetRole(ctx context.Context, userID uuid.UUID) (enums.AppRole, error)
	SetRole(ctx context.Context, userID uuid.UUID, role enums.AppRole, assignedBy uuid.UUID) error
}
