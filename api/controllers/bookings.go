package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/reelwire/dcpflow-backend/api/middleware"
	"github.com/reelwire/dcpflow-backend/api/responses"
	"github.com/reelwire/dcpflow-backend/internal/bookings"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
)

// BookingsSummary aggregates the caller's orders per content id.
func BookingsSummary(svc *bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())

		summaries, err := svc.Summaries(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"contents": summaries})
	}
}

// BookingsSubmit pushes every pending order for the content to its
// distributor's wire account.
func BookingsSubmit(svc *bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		contentID := strings.TrimSpace(chi.URLParam(r, "contentId"))
		if contentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "content id is required"))
			return
		}

		report, err := svc.Submit(r.Context(), userID, contentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// BookingsDeliveries returns per-theatre delivery statuses for one content.
func BookingsDeliveries(svc *bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())
		contentID := strings.TrimSpace(chi.URLParam(r, "contentId"))
		if contentID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "content id is required"))
			return
		}

		result, err := svc.Deliveries(r.Context(), userID, contentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// BookingsDeliveriesBatch polls several contents at once; each content
// settles independently so one failed poll cannot sink the rest.
func BookingsDeliveriesBatch(svc *bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserUUIDFromContext(r.Context())

		contentIDs := r.URL.Query()["content_id"]
		cleaned := make([]string, 0, len(contentIDs))
		for _, id := range contentIDs {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "at least one content_id is required"))
			return
		}

		results, err := svc.DeliveriesForContents(r.Context(), userID, cleaned)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"contents": results})
	}
}
