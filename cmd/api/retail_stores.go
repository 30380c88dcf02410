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

type CreateRetailStorePayload struct {
	Name     string  `json:"name" validate:"required,max=120"`
	Slug     string  `json:"slug,omitempty" validate:"omitempty,slug"`
	Address  string  `json:"address" validate:"required,max=300"`
	City     string  `json:"city" validate:"required,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	MapURL   *string `json:"map_url,omitempty" validate:"omitempty,url"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// adminListRetailStoresHandler godoc
//
//	@Summary	List retail stores for the dashboard
//	@Tags		admin-stores
//	@Produce	json
//	@Success	200	{array}		catalog.RetailStore
//	@Failure	500	{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/stores [get]
func (app *application) adminListRetailStoresHandler(w http.ResponseWriter, r *http.Request) {
	stores, err := app.store.RetailStores.List(r.Context(), true)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, stores); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createRetailStoreHandler godoc
//
//	@Summary	Create a retail store
//	@Tags		admin-stores
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		CreateRetailStorePayload	true	"Store details"
//	@Success	201		{object}	catalog.RetailStore
//	@Failure	400		{object}	ErrorBadRequestResponse
//	@Failure	409		{object}	error	"Duplicate slug"
//	@Failure	500		{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/stores [post]
func (app *application) createRetailStoreHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateRetailStorePayload
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

	rs := &catalog.RetailStore{
		Name:     payload.Name,
		Slug:     slug,
		Address:  payload.Address,
		City:     payload.City,
		Phone:    payload.Phone,
		MapURL:   payload.MapURL,
		IsActive: true,
	}
	if payload.IsActive != nil {
		rs.IsActive = *payload.IsActive
	}

	created, err := app.store.RetailStores.Create(r.Context(), rs)
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

type UpdateRetailStorePayload struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Slug     *string `json:"slug,omitempty" validate:"omitempty,slug"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=300"`
	City     *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	MapURL   *string `json:"map_url,omitempty" validate:"omitempty,url"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// updateRetailStoreHandler godoc
//
//	@Summary	Update a retail store
//	@Tags		admin-stores
//	@Accept		json
//	@Produce	json
//	@Param		storeID	path		int							true	"Store ID"
//	@Param		payload	body		UpdateRetailStorePayload	true	"Fields to update"
//	@Success	200		{object}	catalog.RetailStore
//	@Failure	400		{object}	ErrorBadRequestResponse
//	@Failure	404		{object}	error
//	@Failure	500		{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/stores/{storeID} [patch]
func (app *application) updateRetailStoreHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid store ID"))
		return
	}

	var payload UpdateRetailStorePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	rs, err := app.store.RetailStores.GetByID(ctx, storeID)
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
		rs.Name = *payload.Name
	}
	if payload.Slug != nil {
		rs.Slug = *payload.Slug
	}
	if payload.Address != nil {
		rs.Address = *payload.Address
	}
	if payload.City != nil {
		rs.City = *payload.City
	}
	if payload.Phone != nil {
		rs.Phone = payload.Phone
	}
	if payload.MapURL != nil {
		rs.MapURL = payload.MapURL
	}
	if payload.IsActive != nil {
		rs.IsActive = *payload.IsActive
	}

	if err := app.store.RetailStores.Update(ctx, rs); err != nil {
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

	if err := app.jsonResponse(w, http.StatusOK, rs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteRetailStoreHandler godoc
//
//	@Summary	Delete a retail store
//	@Tags		admin-stores
//	@Produce	json
//	@Param		storeID	path	int	true	"Store ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Failure	500	{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/stores/{storeID} [delete]
func (app *application) deleteRetailStoreHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid store ID"))
		return
	}

	if err := app.store.RetailStores.Delete(r.Context(), storeID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// uploadStorePhotoHandler godoc
//
//	@Summary	Add a store photo
//	@Tags		admin-stores
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		storeID	path		int	true	"Store ID"
//	@Success	200		{object}	map[string]string
//	@Failure	400		{object}	ErrorBadRequestResponse
//	@Failure	404		{object}	error
//	@Failure	500		{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/stores/{storeID}/photos [post]
func (app *application) uploadStorePhotoHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid store ID"))
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

	rs, err := app.store.RetailStores.GetByID(ctx, storeID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("photo file is required"))
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

	publicID := fmt.Sprintf("%s_photo_%d", rs.Slug, time.Now().UnixNano())
	url, err := app.uploadToCloudinaryWithID(ctx, file, "stores", publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.RetailStores.AddPhotoURL(ctx, storeID, url); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"photo_url": url}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteStorePhotoHandler godoc
//
//	@Summary	Remove a store photo
//	@Tags		admin-stores
//	@Produce	json
//	@Param		storeID		path	int		true	"Store ID"
//	@Param		photo_url	query	string	true	"Photo URL to remove"
//	@Success	204
//	@Failure	400	{object}	ErrorBadRequestResponse
//	@Failure	404	{object}	error
//	@Failure	500	{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/admin/stores/{storeID}/photos [delete]
func (app *application) deleteStorePhotoHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid store ID"))
		return
	}

	photoURL := r.URL.Query().Get("photo_url")
	if photoURL == "" {
		app.badRequestResponse(w, r, fmt.Errorf("photo_url query parameter is required"))
		return
	}

	ctx := r.Context()

	if err := app.store.RetailStores.RemovePhotoURL(ctx, storeID, photoURL); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.deletePhotoFromCloudinary(photoURL); err != nil {
		app.logger.Errorw("error deleting store photo from cloudinary", "url", photoURL, "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
