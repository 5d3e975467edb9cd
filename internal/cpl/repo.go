package cpl

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a CPL mapping repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, userID uuid.UUID) ([]models.CplMapping, error) {
	var mappings []models.CplMapping
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("content_id ASC, package_uuid ASC").
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *repository) FindByContent(ctx context.Context, userID uuid.UUID, contentID string) ([]models.CplMapping, error) {
	var mappings []models.CplMapping
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

// Upsert writes the mapping keyed by (user_id, content_id, package_uuid) in
// a single ON CONFLICT statement, so concurrent writers race on the unique
// index instead of a find-then-create window. An existing row keeps its id;
// only the descriptive fields and the list move.
func (r *repository) Upsert(ctx context.Context, mapping *models.CplMapping) error {
	if mapping.ID == uuid.Nil {
		mapping.ID = uuid.New()
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "content_id"},
				{Name: "package_uuid"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"content_title", "film_id", "cpl_list", "updated_at"}),
		}).
		Create(mapping).Error
	if err != nil {
		return err
	}

	// On conflict the insert's id loses; re-read so callers always see the
	// stored row.
	var stored models.CplMapping
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ? AND package_uuid = ?",
			mapping.UserID, mapping.ContentID, mapping.PackageUUID).
		First(&stored).Error; err != nil {
		return err
	}
	*mapping = stored
	return nil
}
