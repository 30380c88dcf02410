package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lumiere/internal/catalog"
	"lumiere/internal/importer"
	"lumiere/internal/notifications"
	"lumiere/internal/params"
	"lumiere/internal/store"

	"github.com/go-chi/chi/v5"
)

// CreateProductPayload is the "product" JSON part of the multipart create form.
type CreateProductPayload struct {
	Name            string   `json:"name" validate:"required,max=200"`
	Description     *string  `json:"description,omitempty"`
	Type            string   `json:"type" validate:"required,oneof=ring necklace earring bracelet bangle"`
	Material        string   `json:"material" validate:"required,oneof=gold silver platinum rose-gold"`
	Occasion        *string  `json:"occasion,omitempty" validate:"omitempty,oneof=bridal festive daily gifting"`
	CollectionID    *int64   `json:"collection_id,omitempty"`
	Stock           int      `json:"stock" validate:"gte=0"`
	Featured        bool     `json:"featured"`
	MostLoved       bool     `json:"most_loved"`
	NewArrival      bool     `json:"new_arrival"`
	SKU             string   `json:"sku" validate:"required,max=64"`
	Sizes           []string `json:"sizes"`
	MinPriceCents   int64    `json:"min_price_cents" validate:"required,gt=0"`
	MaxPriceCents   int64    `json:"max_price_cents" validate:"required,gt=0,gtefield=MinPriceCents"`
	MetaTitle       *string  `json:"meta_title,omitempty"`
	MetaDescription *string  `json:"meta_description,omitempty"`
	Slug            string   `json:"slug,omitempty" validate:"omitempty,slug"`
}

func (app *application) parseProductForm(w http.ResponseWriter, r *http.Request, data any) ([]*multipart.FileHeader, error) {
	const maxBytes = 25 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	// Decode JSON payload
	if err := json.Unmarshal([]byte(r.FormValue("product")), data); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	// Validate payload
	if err := Validate.Struct(data); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	files := r.MultipartForm.File["images"]
	if len(files) > importer.MaxImagesPerRow {
		return nil, fmt.Errorf("maximum %d images allowed", importer.MaxImagesPerRow)
	}

	return files, nil
}

func (app *application) uploadProductImages(ctx context.Context, files []*multipart.FileHeader, slug string) ([]string, error) {
	var urls []string
	for i, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}

		mime, err := sniffMIME(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("sniff mime: %w", err)
		}
		if !allowedImageMIMEs[mime] {
			file.Close()
			return nil, fmt.Errorf("invalid image type: %s", mime)
		}

		publicID := fmt.Sprintf("%s_image_%d_%d", slug, i, time.Now().UnixNano())
		url, err := app.uploadToCloudinaryWithID(ctx, file, "products", publicID)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("cloudinary upload: %w", err)
		}

		urls = append(urls, url)
	}
	return urls, nil
}

// adminListProductsHandler godoc
//
//	@Summary		List products for the dashboard
//	@Description	Paginated product list including soft-deleted and out-of-stock items
//	@Tags			admin-products
//	@Produce		json
//	@Param			page	query		int	false	"Page number"
//	@Param			limit	query		int	false	"Page size"
//	@Success		200		{object}	map[string]any
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products [get]
func (app *application) adminListProductsHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	products, total, err := app.store.Catalog.ListAdmin(r.Context(), p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	response := map[string]any{
		"products":   products,
		"pagination": p,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminGetProductHandler godoc
//
//	@Summary		Get a product by ID
//	@Tags			admin-products
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	catalog.Product
//	@Failure		404			{object}	error
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID} [get]
func (app *application) adminGetProductHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product ID"))
		return
	}

	product, err := app.store.Catalog.GetByID(r.Context(), productID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createProductHandler godoc
//
//	@Summary		Create a product
//	@Description	Creates a product from a multipart form: a "product" JSON part plus up to 5 "images" files
//	@Tags			admin-products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		201	{object}	catalog.Product
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		409	{object}	error	"Duplicate slug"
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateProductPayload
	files, err := app.parseProductForm(w, r, &payload)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		slug = importer.Slugify(payload.Name)
	}

	ctx := r.Context()

	imageURLs, err := app.uploadProductImages(ctx, files, slug)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	user := getUserFromContext(r)

	product := &catalog.Product{
		Name:            payload.Name,
		Description:     payload.Description,
		ImageURLs:       imageURLs,
		Type:            catalog.ProductType(payload.Type),
		Material:        catalog.Material(payload.Material),
		CollectionID:    payload.CollectionID,
		Stock:           payload.Stock,
		Featured:        payload.Featured,
		MostLoved:       payload.MostLoved,
		NewArrival:      payload.NewArrival,
		SKU:             payload.SKU,
		Sizes:           payload.Sizes,
		MinPriceCents:   payload.MinPriceCents,
		MaxPriceCents:   payload.MaxPriceCents,
		MetaTitle:       payload.MetaTitle,
		MetaDescription: payload.MetaDescription,
		Slug:            slug,
		CreatedBy:       &user.ID,
	}
	if payload.Occasion != nil {
		occ := catalog.Occasion(*payload.Occasion)
		product.Occasion = &occ
	}

	created, err := app.store.Catalog.Create(ctx, product)
	if err != nil {
		// roll back uploads the row will never reference
		for _, u := range imageURLs {
			if delErr := app.deletePhotoFromCloudinary(u); delErr != nil {
				app.logger.Errorw("error deleting orphaned product image", "url", u, "error", delErr)
			}
		}

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

// UpdateProductPayload carries optional fields for a partial product update.
type UpdateProductPayload struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description     *string  `json:"description,omitempty"`
	Type            *string  `json:"type,omitempty" validate:"omitempty,oneof=ring necklace earring bracelet bangle"`
	Material        *string  `json:"material,omitempty" validate:"omitempty,oneof=gold silver platinum rose-gold"`
	Occasion        *string  `json:"occasion,omitempty" validate:"omitempty,oneof=bridal festive daily gifting"`
	CollectionID    *int64   `json:"collection_id,omitempty"`
	Featured        *bool    `json:"featured,omitempty"`
	MostLoved       *bool    `json:"most_loved,omitempty"`
	NewArrival      *bool    `json:"new_arrival,omitempty"`
	SKU             *string  `json:"sku,omitempty" validate:"omitempty,max=64"`
	Sizes           []string `json:"sizes,omitempty"`
	MinPriceCents   *int64   `json:"min_price_cents,omitempty" validate:"omitempty,gt=0"`
	MaxPriceCents   *int64   `json:"max_price_cents,omitempty" validate:"omitempty,gt=0"`
	MetaTitle       *string  `json:"meta_title,omitempty"`
	MetaDescription *string  `json:"meta_description,omitempty"`
	Slug            *string  `json:"slug,omitempty" validate:"omitempty,slug"`
}

// updateProductHandler godoc
//
//	@Summary		Update a product
//	@Description	Partially updates product fields; stock has its own endpoint
//	@Tags			admin-products
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int						true	"Product ID"
//	@Param			payload		body		UpdateProductPayload	true	"Fields to update"
//	@Success		200			{object}	catalog.Product
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID} [patch]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product ID"))
		return
	}

	var payload UpdateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	product, err := app.store.Catalog.GetByID(ctx, productID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if payload.Name != nil {
		product.Name = *payload.Name
	}
	if payload.Description != nil {
		product.Description = payload.Description
	}
	if payload.Type != nil {
		product.Type = catalog.ProductType(*payload.Type)
	}
	if payload.Material != nil {
		product.Material = catalog.Material(*payload.Material)
	}
	if payload.Occasion != nil {
		occ := catalog.Occasion(*payload.Occasion)
		product.Occasion = &occ
	}
	if payload.CollectionID != nil {
		product.CollectionID = payload.CollectionID
	}
	if payload.Featured != nil {
		product.Featured = *payload.Featured
	}
	if payload.MostLoved != nil {
		product.MostLoved = *payload.MostLoved
	}
	if payload.NewArrival != nil {
		product.NewArrival = *payload.NewArrival
	}
	if payload.SKU != nil {
		product.SKU = *payload.SKU
	}
	if payload.Sizes != nil {
		product.Sizes = payload.Sizes
	}
	if payload.MinPriceCents != nil {
		product.MinPriceCents = *payload.MinPriceCents
	}
	if payload.MaxPriceCents != nil {
		product.MaxPriceCents = *payload.MaxPriceCents
	}
	if payload.MetaTitle != nil {
		product.MetaTitle = payload.MetaTitle
	}
	if payload.MetaDescription != nil {
		product.MetaDescription = payload.MetaDescription
	}
	if payload.Slug != nil {
		product.Slug = *payload.Slug
	}

	if product.MinPriceCents > product.MaxPriceCents {
		app.badRequestResponse(w, r, fmt.Errorf("min price cannot exceed max price"))
		return
	}

	if err := app.store.Catalog.Update(ctx, product); err != nil {
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

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateStockPayload struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// updateStockHandler godoc
//
//	@Summary		Update product stock
//	@Description	Sets the stock level; crossing from zero to positive notifies wishlist users
//	@Tags			admin-products
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int					true	"Product ID"
//	@Param			payload		body		UpdateStockPayload	true	"New stock level"
//	@Success		200			{object}	map[string]int
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID}/stock [patch]
func (app *application) updateStockHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product ID"))
		return
	}

	var payload UpdateStockPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	previous, err := app.store.Catalog.UpdateStock(ctx, productID, payload.Stock)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, store.ErrStockConflict):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// back-in-stock fanout
	if previous == 0 && payload.Stock > 0 {
		product, err := app.store.Catalog.GetByID(ctx, productID)
		if err != nil {
			app.logger.Errorw("error loading product for restock push", "product_id", productID, "error", err)
		} else {
			go func() {
				pushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := notifications.SendBackInStock(pushCtx, app.push, &app.store, product.ID, product.Name, product.Slug); err != nil {
					app.logger.Errorw("error sending back-in-stock push", "product_id", product.ID, "error", err)
				}
			}()
		}
	}

	response := map[string]int{
		"previous_stock": previous,
		"stock":          payload.Stock,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteProductHandler godoc
//
//	@Summary		Delete a product
//	@Description	Soft-deletes a product; it disappears from the storefront but stays in the dashboard
//	@Tags			admin-products
//	@Produce		json
//	@Param			productID	path	int	true	"Product ID"
//	@Success		204
//	@Failure		404	{object}	error
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product ID"))
		return
	}

	if err := app.store.Catalog.SoftDelete(r.Context(), productID); err != nil {
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

// uploadProductImageHandler godoc
//
//	@Summary		Add a product image
//	@Description	Uploads one image and appends its URL to the product
//	@Tags			admin-products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	map[string]string
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID}/images [post]
func (app *application) uploadProductImageHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product ID"))
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

	product, err := app.store.Catalog.GetByID(ctx, productID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("image file is required"))
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

	publicID := fmt.Sprintf("%s_image_%d", product.Slug, time.Now().UnixNano())
	url, err := app.uploadToCloudinaryWithID(ctx, file, "products", publicID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.store.Catalog.AddImageURL(ctx, productID, url); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"image_url": url}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteProductImageHandler godoc
//
//	@Summary		Remove a product image
//	@Description	Removes the image URL from the product and deletes the asset from Cloudinary
//	@Tags			admin-products
//	@Produce		json
//	@Param			productID	path	int		true	"Product ID"
//	@Param			image_url	query	string	true	"Image URL to remove"
//	@Success		204
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		404	{object}	error
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID}/images [delete]
func (app *application) deleteProductImageHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product ID"))
		return
	}

	imageURL := r.URL.Query().Get("image_url")
	if imageURL == "" {
		app.badRequestResponse(w, r, fmt.Errorf("image_url query parameter is required"))
		return
	}

	ctx := r.Context()

	if err := app.store.Catalog.RemoveImageURL(ctx, productID, imageURL); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.deletePhotoFromCloudinary(imageURL); err != nil {
		app.logger.Errorw("error deleting product image from cloudinary", "url", imageURL, "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
