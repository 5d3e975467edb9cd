package distributors

import (
	"time"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
)

// Pair is the composite key a distributor is looked up by.
type Pair struct {
	StudioID    string
	QWCompanyID string
}

// CreateInput carries one new distributor record. QWPAT is the plain token;
// it is encoded before it reaches the store and never written back out.
type CreateInput struct {
	StudioID      string `json:"studio_id" validate:"required,max=500"`
	StudioName    string `json:"studio_name" validate:"required,max=500"`
	QWCompanyID   string `json:"qw_company_id" validate:"required,max=500"`
	QWCompanyName string `json:"qw_company_name" validate:"required,max=500"`
	QWPAT         string `json:"qw_pat" validate:"omitempty,max=2000"`
}

// View is the API shape of a distributor. The credential itself is never
// exposed, only whether one is on file.
type View struct {
	ID            string     `json:"id,omitempty"`
	StudioID      string     `json:"studio_id"`
	StudioName    string     `json:"studio_name"`
	QWCompanyID   string     `json:"qw_company_id"`
	QWCompanyName string     `json:"qw_company_name"`
	HasCredential bool       `json:"has_credential"`
	Configured    bool       `json:"configured"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func viewFromModel(d models.Distributor) View {
	updatedAt := d.UpdatedAt
	return View{
		ID:            d.ID.String(),
		StudioID:      d.StudioID,
		StudioName:    d.StudioName,
		QWCompanyID:   d.QWCompanyID,
		QWCompanyName: d.QWCompanyName,
		HasCredential: d.HasCredential(),
		Configured:    true,
		UpdatedAt:     &updatedAt,
	}
}

// Resolution is the per-partition outcome of credential lookup. Token holds
// the decoded credential for immediate use; it must not be persisted or
// logged. Err explains why this partition cannot submit.
type Resolution struct {
	Distributor *models.Distributor
	Token       string
	Err         error
}
