package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// CreateBatch inserts all rows from one upload. Callers wrap this in a
// transaction so a failed upload leaves nothing behind.
func (r *repository) CreateBatch(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&orders).Error
}

func (r *repository) List(ctx context.Context, userID uuid.UUID, params pagination.Params, filters Filters) (*OrderList, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID)

	if filters.ContentID != "" {
		query = query.Where("content_id = ?", filters.ContentID)
	}
	if filters.StudioID != "" {
		query = query.Where("studio_id = ?", filters.StudioID)
	}
	if filters.Operation != nil {
		query = query.Where("operation = ?", filters.Operation.String())
	}
	if filters.Booked != nil {
		if *filters.Booked {
			query = query.Where("booking_ref IS NOT NULL AND booking_ref != ''")
		} else {
			query = query.Where("booking_ref IS NULL OR booking_ref = ''")
		}
	}
	if trimmed := strings.TrimSpace(filters.Query); trimmed != "" {
		pattern := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where(
			"LOWER(theatre_name) LIKE ? OR LOWER(content_title) LIKE ? OR LOWER(theatre_id) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if decodedCursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	var records []models.Order
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limitWithBuffer).
		Find(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	summaries := make([]OrderSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, summaryFromModel(record))
	}

	return &OrderList{Orders: summaries, NextCursor: nextCursor}, nil
}

func (r *repository) ListAll(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var records []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListByContent(ctx context.Context, userID uuid.UUID, contentID string) ([]models.Order, error) {
	var records []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListContentIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Distinct("content_id").
		Where("user_id = ?", userID).
		Order("content_id ASC").
		Pluck("content_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SetBookingRef writes the booking reference back onto a single order. It is
// deliberately per-row: a partially failed submission keeps the references
// that did succeed.
func (r *repository) SetBookingRef(ctx context.Context, orderID uuid.UUID, bookingRef string, bookedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"booking_ref":        bookingRef,
			"booking_created_at": bookedAt,
		}).Error
}

func (r *repository) DistinctStudioCompanies(ctx context.Context, userID uuid.UUID) ([]StudioCompany, error) {
	var pairs []StudioCompany
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("studio_id", "MAX(studio_name) AS studio_name", "qw_company_id", "MAX(qw_company_name) AS qw_company_name").
		Where("user_id = ?", userID).
		Group("studio_id, qw_company_id").
		Order("studio_id ASC").
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	return pairs, nil
}
