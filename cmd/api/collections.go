package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lumiere/internal/catalog"
	"lumiere/internal/importer"
	"lumiere/internal/store"

	"github.com/go-chi/chi/v5"
)

type CreateCollectionPayload struct {
	Name          string  `json:"name" validate:"required,max=120"`
	Slug          string  `json:"slug,omitempty" validate:"omitempty,slug"`
	Description   *string `json:"description,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// adminListCollectionsHandler godoc
//
//	@Summary	List collections for the dashboard
//	@Tags		admin-collections
//	@Produce	json
//	@Success	200	{array}		catalog.Collection
//	@Failure	500	{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/collections [get]
func (app *application) adminListCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	collections, err := app.store.Collections.List(r.Context(), true)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, collections); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createCollectionHandler godoc
//
//	@Summary	Create a collection
//	@Tags		admin-collections
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		CreateCollectionPayload	true	"Collection details"
//	@Success	201		{object}	catalog.Collection
//	@Failure	400		{object}	ErrorBadRequestResponse
//	@Failure	409		{object}	error	"Duplicate slug"
//	@Failure	500		{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/collections [post]
func (app *application) createCollectionHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCollectionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = importer.Slugify(payload.Name)
	}

	user := getUserFromContext(r)

	collection := &catalog.Collection{
		Name:          payload.Name,
		Slug:          slug,
		Description:   payload.Description,
		CoverImageURL: payload.CoverImageURL,
		IsActive:      true,
		CreatedBy:     &user.ID,
	}
	if payload.IsActive != nil {
		collection.IsActive = *payload.IsActive
	}

	created, err := app.store.Collections.Create(r.Context(), collection)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateSlug):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, created); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateCollectionPayload struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Slug          *string `json:"slug,omitempty" validate:"omitempty,slug"`
	Description   *string `json:"description,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// updateCollectionHandler godoc
//
//	@Summary	Update a collection
//	@Tags		admin-collections
//	@Accept		json
//	@Produce	json
//	@Param		collectionID	path		int						true	"Collection ID"
//	@Param		payload			body		UpdateCollectionPayload	true	"Fields to update"
//	@Success	200				{object}	catalog.Collection
//	@Failure	400				{object}	ErrorBadRequestResponse
//	@Failure	404				{object}	error
//	@Failure	500				{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/collections/{collectionID} [patch]
func (app *application) updateCollectionHandler(w http.ResponseWriter, r *http.Request) {
	collectionID, err := strconv.ParseInt(chi.URLParam(r, "collectionID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid collection ID"))
		return
	}

	var payload UpdateCollectionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	collection, err := app.store.Collections.GetByID(ctx, collectionID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if payload.Name != nil {
		collection.Name = *payload.Name
	}
	if payload.Slug != nil {
		collection.Slug = *payload.Slug
	}
	if payload.Description != nil {
		collection.Description = payload.Description
	}
	if payload.CoverImageURL != nil {
		collection.CoverImageURL = payload.CoverImageURL
	}
	if payload.IsActive != nil {
		collection.IsActive = *payload.IsActive
	}

	if err := app.store.Collections.Update(ctx, collection); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateSlug):
			app.conflictResponse(w, r, err)
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, collection); err != nil {
		app.internalServerError(w, r, err)
	}
}

// uploadCollectionCoverHandler godoc
//
//	@Summary	Upload a collection cover image
//	@Tags		admin-collections
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		collectionID	path		int	true	"Collection ID"
//	@Success	200				{object}	map[string]string
//	@Failure	400				{object}	ErrorBadRequestResponse
//	@Failure	404				{object}	error
//	@Failure	500				{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/collections/{collectionID}/cover [post]
func (app *application) uploadCollectionCoverHandler(w http.ResponseWriter, r *http.Request) {
	collectionID, err := strconv.ParseInt(chi.URLParam(r, "collectionID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid collection ID"))
		return
	}

	const maxBytes = 10 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	ctx := r.Context()

	collection, err := app.store.Collections.GetByID(ctx, collectionID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	file, _, err := r.FormFile("cover")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("cover file is required"))
		return
	}
	defer file.Close()

	mime, err := sniffMIME(file)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("sniff mime: %w", err))
		return
	}
	if !allowedImageMIMEs[mime] {
		app.badRequestResponse(w, r, fmt.Errorf("invalid image type: %s", mime))
		return
	}

	publicID := fmt.Sprintf("%s_cover_%d", collection.Slug, time.Now().UnixNano())
	url, err := app.uploadToCloudinaryWithID(ctx, file, "collections", publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	old := collection.CoverImageURL
	collection.CoverImageURL = &url
	if err := app.store.Collections.Update(ctx, collection); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if old != nil && *old != "" {
		if delErr := app.deletePhotoFromCloudinary(*old); delErr != nil {
			app.logger.Errorw("error deleting replaced collection cover", "url", *old, "error", delErr)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"cover_image_url": url}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCollectionHandler godoc
//
//	@Summary	Delete a collection
//	@Description	Deletes a collection; refused while products are still assigned to it
//	@Tags		admin-collections
//	@Produce	json
//	@Param		collectionID	path	int	true	"Collection ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Failure	409	{object}	error	"Collection still has products"
//	@Failure	500	{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/collections/{collectionID} [delete]
func (app *application) deleteCollectionHandler(w http.ResponseWriter, r *http.Request) {
	collectionID, err := strconv.ParseInt(chi.URLParam(r, "collectionID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid collection ID"))
		return
	}

	ctx := r.Context()

	hasProducts, err := app.store.Collections.HasProducts(ctx, collectionID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if hasProducts {
		app.conflictResponse(w, r, store.ErrCollectionHasProducts)
		return
	}

	if err := app.store.Collections.Delete(ctx, collectionID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, store.ErrCollectionHasProducts):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
