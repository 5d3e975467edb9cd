package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reelwire/dcpflow-backend/api/middleware"
	"github.com/reelwire/dcpflow-backend/api/responses"
	"github.com/reelwire/dcpflow-backend/api/validators"
	"github.com/reelwire/dcpflow-backend/internal/distributors"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
)

// DistributorsList merges configured distributors with the (studio, company)
// pairs observed in the caller's feed.
func DistributorsList(svc *distributors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())

		views, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"distributors": views})
	}
}

func DistributorsCreate(svc *distributors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())

		var body distributors.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

type credentialUpdateRequest struct {
	QWPAT string `json:"qw_pat" validate:"max=2000"`
}

// DistributorsUpdateCredential replaces (or clears) the stored PAT. The
// value arrives and is stored base64-encoded; it is never returned.
func DistributorsUpdateCredential(svc *distributors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID := middleware.UserUUIDFromContext(r.Context())

		distributorID, err := uuid.Parse(chi.URLParam(r, "distributorId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid distributor id"))
			return
		}

		var body credentialUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateCredential(r.Context(), actorID, distributorID, body.QWPAT); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}
