package models

import (
	"time"

	"github.com/google/uuid"
)

// Distributor ties a studio to its wire company and the encoded personal
// access token used to call the wire API on its behalf. The token is stored
// base64 encoded and decoded only at call time.
type Distributor struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	StudioID       string     `gorm:"column:studio_id;not null;uniqueIndex:idx_distributor_studio_company"`
	StudioName     string     `gorm:"column:studio_name;not null"`
	QWCompanyID    string     `gorm:"column:qw_company_id;not null;uniqueIndex:idx_distributor_studio_company"`
	QWCompanyName  string     `gorm:"column:qw_company_name;not null"`
	QWPATEncrypted *string    `gorm:"column:qw_pat_encrypted"`
	UpdatedBy      *uuid.UUID `gorm:"column:updated_by;type:uuid"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// HasCredential reports whether a token has been captured for this distributor.
func (d Distributor) HasCredential() bool {
	return d.QWPATEncrypted != nil && *d.QWPATEncrypted != ""
}
