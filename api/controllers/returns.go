package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nordicgeo/geoshop-backend/api/responses"
	"github.com/nordicgeo/geoshop-backend/api/validators"
	returnsvc "github.com/nordicgeo/geoshop-backend/internal/returns"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
)

// ReturnCreate files a return request against a delivered order.
func ReturnCreate(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "return service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body returnsvc.CreateReturnInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

// ReturnList returns the caller's return requests, newest first.
func ReturnList(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "return service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// ReturnGet returns one of the caller's return requests.
func ReturnGet(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "return service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := pathUUID(r, "returnID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.Get(r.Context(), userID, requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, request)
	}
}

// AdminReturnList pages through return requests by pipeline stage.
func AdminReturnList(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "return service unavailable"))
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("status"))
		if raw == "" {
			raw = string(enums.ReturnStatusPending)
		}
		status, err := enums.ParseReturnStatus(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
			return
		}

		rows, err := svc.ListByStatus(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// AdminReturnApprove accepts a pending return and fixes the refund amount.
func AdminReturnApprove(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return returnDecision(svc, logg, returnsvc.Service.Approve)
}

// AdminReturnReject declines a pending return.
func AdminReturnReject(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return returnDecision(svc, logg, returnsvc.Service.Reject)
}

func returnDecision(svc returnsvc.Service, logg *logger.Logger, decide func(returnsvc.Service, context.Context, uuid.UUID) (*returnsvc.ReturnRequestDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "return service unavailable"))
			return
		}

		requestID, err := pathUUID(r, "returnID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := decide(svc, r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, request)
	}
}
