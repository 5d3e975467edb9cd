package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/pkg/enums"
)

// UserRole assigns a single access level to a user. One row per user.
type UserRole struct {
	ID         uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID     `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Role       enums.AppRole `gorm:"column:role;type:text;not null"`
	AssignedBy *uuid.UUID    `gorm:"column:assigned_by;type:uuid"`
	AssignedAt time.Time     `gorm:"column:assigned_at;autoCreateTime"`
}
