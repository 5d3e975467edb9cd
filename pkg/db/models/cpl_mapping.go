package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CplMapping associates a content/package pair with its Composition Playlist
// identifiers. The cpl_list column stores a comma-separated list, matching the
// upstream feed convention.
type CplMapping struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cpl_user_content_package"`
	ContentID    string    `gorm:"column:content_id;not null;uniqueIndex:idx_cpl_user_content_package"`
	ContentTitle *string   `gorm:"column:content_title"`
	FilmID       *string   `gorm:"column:film_id"`
	PackageUUID  string    `gorm:"column:package_uuid;not null;uniqueIndex:idx_cpl_user_content_package"`
	CplList      *string   `gorm:"column:cpl_list"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// CplIDs splits the stored comma-separated list into trimmed identifiers.
func (m CplMapping) CplIDs() []string {
	if m.CplList == nil {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(*m.CplList, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
