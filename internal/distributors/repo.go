package distributors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a distributor repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]models.Distributor, error) {
	var distributors []models.Distributor
	err := r.db.WithContext(ctx).
		Order("studio_name ASC, qw_company_name ASC").
		Find(&distributors).Error
	if err != nil {
		return nil, err
	}
	return distributors, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Distributor, error) {
	var distributor models.Distributor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&distributor).Error
	if err != nil {
		return nil, err
	}
	return &distributor, nil
}

// FindByPairs matches any of the given (studio_id, qw_company_id) pairs in a
// single OR-composed query.
func (r *repository) FindByPairs(ctx context.Context, pairs []Pair) ([]models.Distributor, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Distributor{})
	condition := r.db.Where("studio_id = ? AND qw_company_id = ?", pairs[0].StudioID, pairs[0].QWCompanyID)
	for _, pair := range pairs[1:] {
		condition = condition.Or(r.db.Where("studio_id = ? AND qw_company_id = ?", pair.StudioID, pair.QWCompanyID))
	}

	var distributors []models.Distributor
	if err := query.Where(condition).Find(&distributors).Error; err != nil {
		return nil, err
	}
	return distributors, nil
}

func (r *repository) Create(ctx context.Context, distributor *models.Distributor) error {
	if distributor.ID == uuid.Nil {
		distributor.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(distributor).Error
}

func (r *repository) UpdateCredential(ctx context.Context, id uuid.UUID, encoded *string, updatedBy uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Distributor{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"qw_pat_encrypted": encoded,
			"updated_by":       updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
