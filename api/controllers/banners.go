package controllers

import (
	"net/http"

	"github.com/nordicgeo/geoshop-backend/api/responses"
	"github.com/nordicgeo/geoshop-backend/api/validators"
	"github.com/nordicgeo/geoshop-backend/internal/banners"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
)

// BannerListActive serves the storefront hero and promo slots.
func BannerListActive(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		rows, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// AdminBannerList returns every banner, active or not.
func AdminBannerList(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// AdminBannerCreate adds a banner.
func AdminBannerCreate(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		var body banners.CreateBannerInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		banner, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, banner)
	}
}

// AdminBannerUpdate applies a partial update to a banner.
func AdminBannerUpdate(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		bannerID, err := pathUUID(r, "bannerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body banners.UpdateBannerInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		banner, err := svc.Update(r.Context(), bannerID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, banner)
	}
}

// AdminBannerSetActive switches which banner fills its placement.
func AdminBannerSetActive(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		bannerID, err := pathUUID(r, "bannerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		banner, err := svc.SetActive(r.Context(), bannerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, banner)
	}
}

// AdminBannerDelete removes a banner.
func AdminBannerDelete(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banner service unavailable"))
			return
		}

		bannerID, err := pathUUID(r, "bannerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), bannerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
