package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/pagination"
)

// Repository defines persistence operations for the orders table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, orders []models.Order) error
	List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListByContent(ctx context.Context, userID uuid.UUID, contentID string) ([]models.Order, error)
	ListContentIDs(ctx context.Context, userID uuid.UUID) ([]string, error)
	SetBookingRef(ctx context.Context, orderID uuid.UUID, bookingRef string, bookedAt time.Time) error
	DistinctStudioCompanies(ctx context.Context, userID uuid.UUID) ([]StudioCompany, error)
}
