package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nordicgeo/geoshop-backend/api/responses"
	"github.com/nordicgeo/geoshop-backend/api/validators"
	"github.com/nordicgeo/geoshop-backend/internal/posts"
	pkgerrors "github.com/nordicgeo/geoshop-backend/pkg/errors"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
)

// PostList serves published articles. Admin routes pass includeDrafts.
func PostList(svc posts.Service, logg *logger.Logger, includeDrafts bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		rows, err := svc.List(r.Context(), includeDrafts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// PostBySlug serves the public article page.
func PostBySlug(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		post, err := svc.GetBySlug(r.Context(), slug, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// AdminPostCreate adds an article, optionally publishing it immediately.
func AdminPostCreate(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		var body posts.CreatePostInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, post)
	}
}

// AdminPostUpdate applies a partial update to an article.
func AdminPostUpdate(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		postID, err := pathUUID(r, "postID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body posts.UpdatePostInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Update(r.Context(), postID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// AdminPostPublish flips an article live.
func AdminPostPublish(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return postStatusHandler(svc, logg, func(svc posts.Service, r *http.Request) (*posts.PostDTO, error) {
		postID, err := pathUUID(r, "postID")
		if err != nil {
			return nil, err
		}
		return svc.Publish(r.Context(), postID)
	})
}

// AdminPostUnpublish pulls an article back to draft.
func AdminPostUnpublish(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return postStatusHandler(svc, logg, func(svc posts.Service, r *http.Request) (*posts.PostDTO, error) {
		postID, err := pathUUID(r, "postID")
		if err != nil {
			return nil, err
		}
		return svc.Unpublish(r.Context(), postID)
	})
}

// AdminPostDelete removes an article.
func AdminPostDelete(svc posts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		postID, err := pathUUID(r, "postID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), postID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func postStatusHandler(svc posts.Service, logg *logger.Logger, apply func(posts.Service, *http.Request) (*posts.PostDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "post service unavailable"))
			return
		}

		post, err := apply(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}
