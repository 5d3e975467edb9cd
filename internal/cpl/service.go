package cpl

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/pkg/db/models"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
)

// Service manages the content-to-CPL mapping store.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logger: logg}
}

// List returns the caller's mappings ordered by content then package.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]MappingView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	mappings, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cpl mappings")
	}
	views := make([]MappingView, 0, len(mappings))
	for _, m := range mappings {
		views = append(views, viewFromModel(m))
	}
	return views, nil
}

// MergedCplIDs collects the de-duplicated CPL identifiers mapped to a content
// id, across all of the user's packages for that content.
func (s *Service) MergedCplIDs(ctx context.Context, userID uuid.UUID, contentID string) ([]string, error) {
	mappings, err := s.repo.FindByContent(ctx, userID, contentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cpl mappings")
	}

	seen := make(map[string]struct{})
	var merged []string
	for _, m := range mappings {
		for _, id := range m.CplIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged, nil
}

// Upsert writes one mapping for the caller, keyed on content and package.
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, input UpsertInput) (*MappingView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	input.ContentID = strings.TrimSpace(input.ContentID)
	input.PackageUUID = strings.TrimSpace(input.PackageUUID)
	if input.ContentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content_id is required")
	}
	if input.PackageUUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "package_uuid is required")
	}

	mapping := models.CplMapping{
		UserID:       userID,
		ContentID:    input.ContentID,
		ContentTitle: optional(input.ContentTitle),
		FilmID:       optional(input.FilmID),
		PackageUUID:  input.PackageUUID,
		CplList:      joinCplIDs(input.CplIDs),
	}
	if err := s.repo.Upsert(ctx, &mapping); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving cpl mapping")
	}

	ctx = s.logger.WithContentID(s.logger.WithUserID(ctx, userID.String()), input.ContentID)
	s.logger.Info(ctx, "cpl mapping saved")

	view := viewFromModel(mapping)
	return &view, nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
