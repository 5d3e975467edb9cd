package controllers

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/reelwire/dcpflow-backend/api/responses"
	"github.com/reelwire/dcpflow-backend/api/validators"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
)

// WireHealthChecker is the slice of the wire client used by the settings
// connectivity test.
type WireHealthChecker interface {
	Health(ctx context.Context, token string) error
}

type wireTestRequest struct {
	QWPAT string `json:"qw_pat" validate:"required,max=2000"`
}

// SettingsWireTest checks a PAT against the wire service without storing it.
// The decoded token lives only for the duration of the call.
func SettingsWireTest(wire WireHealthChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body wireTestRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decoded, err := base64.StdEncoding.DecodeString(body.QWPAT)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "credential is not valid base64"))
			return
		}

		if err := wire.Health(r.Context(), string(decoded)); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wire service check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]bool{"connected": true})
	}
}
