package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nordicgeo/geoshop-backend/api/responses"
	"github.com/nordicgeo/geoshop-backend/api/validators"
	trackingsvc "github.com/nordicgeo/geoshop-backend/internal/tracking"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
)

// TrackShipment is the public tracking lookup. No auth; the tracking number
// is the only credential.
func TrackShipment(svc trackingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking service unavailable"))
			return
		}

		number := validators.SanitizeString(chi.URLParam(r, "trackingNumber"), 32)
		result, err := svc.Track(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
