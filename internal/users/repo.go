package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every profile joined with its role row. Users without an
// assignment default to viewer.
func (r *repository) List(ctx context.Context) ([]UserWithRole, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("email ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	var roles []models.UserRole
	if err := r.db.WithContext(ctx).Find(&roles).Error; err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID]enums.AppRole, len(roles))
	for _, role := range roles {
		byUser[role.UserID] = role.Role
	}

	joined := make([]UserWithRole, 0, len(users))
	for _, user := range users {
		role, ok := byUser[user.ID]
		if !ok {
			role = enums.AppRoleViewer
		}
		joined = append(joined, UserWithRole{User: user, Role: role})
	}
	return joined, nil
}

func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetRole reads the user's assignment, defaulting to viewer when none exists.
func (r *repository) GetRole(ctx context.Context, userID uuid.UUID) (enums.AppRole, error) {
	var role models.UserRole
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return enums.AppRoleViewer, nil
	}
	if err != nil {
		return "", err
	}
	return role.Role, nil
}

// SetRole upserts the single role row for a user.
func (r *repository) SetRole(ctx context.Context, userID uuid.UUID, role enums.AppRole, assignedBy uuid.UUID) error {
	var existing models.UserRole
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(&models.UserRole{
			ID:         uuid.New(),
			UserID:     userID,
			Role:       role,
			AssignedBy: &assignedBy,
		}).Error
	}
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{"role": role, "assigned_by": assignedBy}).Error
}
