package main

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"lumiere/internal/catalog"
	"lumiere/internal/params"
	"lumiere/internal/store"

	"github.com/go-chi/chi/v5"
)

// parseFilterState builds the browse state from query parameters. Unknown
// enum values are dropped rather than rejected so stale storefront links
// still resolve to a sensible page.
func (app *application) parseFilterState(q url.Values, priceFloor, priceCeil int64) catalog.FilterState {
	f := catalog.DefaultFilterState(priceFloor, priceCeil)

	f.Search = strings.TrimSpace(q.Get("search"))

	for _, raw := range splitCSV(q.Get("materials")) {
		if m := catalog.Material(raw); m.Valid() {
			f.Materials = append(f.Materials, m)
		}
	}
	for _, raw := range splitCSV(q.Get("types")) {
		if t := catalog.ProductType(raw); t.Valid() {
			f.Types = append(f.Types, t)
		}
	}
	for _, raw := range splitCSV(q.Get("occasions")) {
		if o := catalog.Occasion(raw); o.Valid() {
			f.Occasions = append(f.Occasions, o)
		}
	}
	for _, raw := range splitCSV(q.Get("collections")) {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.Collections = append(f.Collections, id)
		}
	}

	if v := q.Get("price_min"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.PriceFloor = n
		}
	}
	if v := q.Get("price_max"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.PriceCeil = n
		}
	}

	if k := catalog.SortKey(q.Get("sort")); k.Valid() {
		f.Sort = k
	}
	if q.Get("view") == string(catalog.ViewCompact) {
		f.View = catalog.ViewCompact
	}

	return f
}

func splitCSV(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// browseProductsHandler godoc
//
//	@Summary		Browse the catalog
//	@Description	Lists active products filtered by search, material, type, occasion, collection and price range
//	@Tags			catalog
//	@Produce		json
//	@Param			search		query		string	false	"Free-text search"
//	@Param			materials	query		string	false	"Comma separated materials"
//	@Param			types		query		string	false	"Comma separated product types"
//	@Param			occasions	query		string	false	"Comma separated occasions"
//	@Param			collections	query		string	false	"Comma separated collection IDs"
//	@Param			price_min	query		int		false	"Price floor in cents"
//	@Param			price_max	query		int		false	"Price ceiling in cents"
//	@Param			sort		query		string	false	"featured | newest | popular | price-low | price-high"
//	@Param			page		query		int		false	"Page number"
//	@Param			limit		query		int		false	"Page size"
//	@Success		200			{object}	map[string]any
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Router			/catalog/products [get]
func (app *application) browseProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	floor, ceil, err := app.store.Catalog.PriceBounds(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	products, err := app.store.Catalog.ListActive(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	state := app.parseFilterState(r.URL.Query(), floor, ceil)
	visible := catalog.Apply(products, state)

	p := params.ParsePagination(r.URL.Query())
	p.ComputeMeta(len(visible))

	start := p.Offset
	if start > len(visible) {
		start = len(visible)
	}
	end := start + p.Limit
	if end > len(visible) {
		end = len(visible)
	}

	response := map[string]any{
		"products":   visible[start:end],
		"filter":     state,
		"pagination": p,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getProductBySlugHandler godoc
//
//	@Summary		Get a product
//	@Description	Fetches one active product by its slug
//	@Tags			catalog
//	@Produce		json
//	@Param			slug	path		string	true	"Product slug"
//	@Success		200		{object}	catalog.Product
//	@Failure		404		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/catalog/products/{slug} [get]
func (app *application) getProductBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := app.store.Catalog.GetBySlug(r.Context(), slug)
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

// getPriceRangeHandler godoc
//
//	@Summary		Catalog price range
//	@Description	Returns the min and max price across active products, used to seed the storefront price slider
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	map[string]int64
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/catalog/price-range [get]
func (app *application) getPriceRangeHandler(w http.ResponseWriter, r *http.Request) {
	floor, ceil, err := app.store.Catalog.PriceBounds(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]int64{
		"min_price_cents": floor,
		"max_price_cents": ceil,
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listCollectionsHandler godoc
//
//	@Summary		List collections
//	@Description	Lists active collections for the storefront
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}		catalog.Collection
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/catalog/collections [get]
func (app *application) listCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	collections, err := app.store.Collections.List(r.Context(), false)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, collections); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getCollectionHandler godoc
//
//	@Summary		Get a collection
//	@Description	Fetches one collection by slug along with its active products
//	@Tags			catalog
//	@Produce		json
//	@Param			slug	path		string	true	"Collection slug"
//	@Success		200		{object}	map[string]any
//	@Failure		404		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/catalog/collections/{slug} [get]
func (app *application) getCollectionHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx := r.Context()

	collection, err := app.store.Collections.GetBySlug(ctx, slug)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	products, err := app.store.Catalog.ListActive(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	floor, ceil, err := app.store.Catalog.PriceBounds(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	state := catalog.DefaultFilterState(floor, ceil)
	state.Collections = []int64{collection.ID}

	response := map[string]any{
		"collection": collection,
		"products":   catalog.Apply(products, state),
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listRetailStoresHandler godoc
//
//	@Summary		List retail stores
//	@Description	Lists active showrooms for the store locator page
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}		catalog.RetailStore
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/catalog/stores [get]
func (app *application) listRetailStoresHandler(w http.ResponseWriter, r *http.Request) {
	stores, err := app.store.RetailStores.List(r.Context(), false)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, stores); err != nil {
		app.internalServerError(w, r, err)
	}
}
