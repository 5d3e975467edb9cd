package cpl

import (
	"strings"
	"time"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
)

// UpsertInput carries one mapping write. The CPL list arrives as identifiers;
// joining to the stored comma-separated text happens at the store boundary.
type UpsertInput struct {
	ContentID    string   `json:"content_id" validate:"required,max=500"`
	ContentTitle string   `json:"content_title" validate:"omitempty,max=500"`
	FilmID       string   `json:"film_id" validate:"omitempty,max=500"`
	PackageUUID  string   `json:"package_uuid" validate:"required,max=500"`
	CplIDs       []string `json:"cpl_ids" validate:"dive,max=500"`
}

// MappingView is the API shape of one stored mapping.
type MappingView struct {
	ID           string    `json:"id"`
	ContentID    string    `json:"content_id"`
	ContentTitle *string   `json:"content_title,omitempty"`
	FilmID       *string   `json:"film_id,omitempty"`
	PackageUUID  string    `json:"package_uuid"`
	CplIDs       []string  `json:"cpl_ids"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func viewFromModel(m models.CplMapping) MappingView {
	ids := m.CplIDs()
	if ids == nil {
		ids = []string{}
	}
	return MappingView{
		ID:           m.ID.String(),
		ContentID:    m.ContentID,
		ContentTitle: m.ContentTitle,
		FilmID:       m.FilmID,
		PackageUUID:  m.PackageUUID,
		CplIDs:       ids,
		UpdatedAt:    m.UpdatedAt,
	}
}

// joinCplIDs trims, drops empties, de-duplicates preserving order, and joins
// with the feed's comma convention.
func joinCplIDs(ids []string) *string {
	seen := make(map[string]struct{}, len(ids))
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		cleaned = append(cleaned, id)
	}
	if len(cleaned) == 0 {
		return nil
	}
	joined := strings.Join(cleaned, ",")
	return &joined
}
