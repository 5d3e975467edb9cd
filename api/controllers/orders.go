package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/reelwire/dcpflow-backend/api/middleware"
	"github.com/reelwire/dcpflow-backend/api/responses"
	"github.com/reelwire/dcpflow-backend/api/validators"
	"github.com/reelwire/dcpflow-backend/internal/ingest"
	"github.com/reelwire/dcpflow-backend/internal/orders"
	"github.com/reelwire/dcpflow-backend/pkg/config"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
	"github.com/reelwire/dcpflow-backend/pkg/pagination"
)

// multipart framing allowance on top of the CSV byte cap
const uploadEnvelopeSlack = 64 << 10

// OrdersUpload ingests a booking-order CSV. The whole batch is rejected when
// any row fails validation.
func OrdersUpload(svc *ingest.Service, upload config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())

		// cap the body before the form parser buffers it; the CSV parser
		// enforces the exact per-file limit afterwards
		r.Body = http.MaxBytesReader(w, r.Body, upload.MaxCSVBytes+uploadEnvelopeSlack)

		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "csv exceeds maximum upload size"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "csv file is required"))
			return
		}
		defer file.Close()

		result, err := svc.Upload(r.Context(), userID, header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// OrdersList returns the caller's ingested orders with cursor pagination.
func OrdersList(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := orders.Filters{
			ContentID: strings.TrimSpace(r.URL.Query().Get("content_id")),
			StudioID:  strings.TrimSpace(r.URL.Query().Get("studio_id")),
			Query:     validators.SanitizeString(r.URL.Query().Get("q"), 200),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("operation")); raw != "" {
			op, parseErr := enums.ParseOperation(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid operation filter"))
				return
			}
			filters.Operation = &op
		}

		booked, err := validators.ParseQueryBool(r, "booked")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Booked = booked

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		list, err := svc.List(r.Context(), userID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}
