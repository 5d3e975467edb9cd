package controllers

import (
	"net/http"

	"github.com/reelwire/dcpflow-backend/api/middleware"
	"github.com/reelwire/dcpflow-backend/api/responses"
	"github.com/reelwire/dcpflow-backend/api/validators"
	"github.com/reelwire/dcpflow-backend/internal/cpl"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
)

func CplMappingsList(svc *cpl.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())

		mappings, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"mappings": mappings})
	}
}

// CplMappingUpsert creates or replaces the mapping for the caller's
// (content, package) pair.
func CplMappingUpsert(svc *cpl.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())

		var body cpl.UpsertInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mapping, err := svc.Upsert(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, mapping)
	}
}
