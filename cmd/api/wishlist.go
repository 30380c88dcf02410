package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"lumiere/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/speps/go-hashids/v2"
)

func (app *application) shareHashID() (*hashids.HashID, error) {
	hd := hashids.NewData()
	hd.Salt = app.config.share.salt
	hd.MinLength = 10
	return hashids.NewWithData(hd)
}

// listWishlistHandler godoc
//
//	@Summary	List the wishlist
//	@Tags		wishlist
//	@Produce	json
//	@Success	200	{array}		catalog.Product
//	@Failure	500	{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/users/wishlist [get]
func (app *application) listWishlistHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	products, err := app.store.Wishlists.ListProducts(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, products); err != nil {
		app.internalServerError(w, r, err)
	}
}

// addToWishlistHandler godoc
//
//	@Summary	Add a product to the wishlist
//	@Tags		wishlist
//	@Produce	json
//	@Param		productID	path	int	true	"Product ID"
//	@Success	204
//	@Failure	400	{object}	ErrorBadRequestResponse
//	@Failure	404	{object}	error
//	@Failure	409	{object}	error	"Already wishlisted"
//	@Failure	500	{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/users/wishlist/{productID} [put]
func (app *application) addToWishlistHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product ID"))
		return
	}

	if err := app.store.Wishlists.Add(r.Context(), user.ID, productID); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			app.conflictResponse(w, r, err)
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// removeFromWishlistHandler godoc
//
//	@Summary	Remove a product from the wishlist
//	@Tags		wishlist
//	@Produce	json
//	@Param		productID	path	int	true	"Product ID"
//	@Success	204
//	@Failure	400	{object}	ErrorBadRequestResponse
//	@Failure	404	{object}	error
//	@Failure	500	{object}	ErrorInternalServerResponse
//	@Security	ApiKeyAuth
//	@Router		/users/wishlist/{productID} [delete]
func (app *application) removeFromWishlistHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid product ID"))
		return
	}

	if err := app.store.Wishlists.Remove(r.Context(), user.ID, productID); err != nil {
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

// shareWishlistHandler godoc
//
//	@Summary		Share the wishlist
//	@Description	Returns an opaque token that resolves the wishlist without authentication
//	@Tags			wishlist
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/users/wishlist/share [post]
func (app *application) shareWishlistHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	h, err := app.shareHashID()
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	token, err := h.EncodeInt64([]int64{user.ID})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	response := map[string]string{
		"token":     token,
		"share_url": fmt.Sprintf("%s/wishlists/shared/%s", app.config.frontendURL, token),
	}

	if err := app.jsonResponse(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getSharedWishlistHandler godoc
//
//	@Summary		View a shared wishlist
//	@Description	Resolves a share token to the owner's wishlist; no authentication required
//	@Tags			wishlist
//	@Produce		json
//	@Param			token	path		string	true	"Share token"
//	@Success		200		{array}		catalog.Product
//	@Failure		404		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/wishlists/shared/{token} [get]
func (app *application) getSharedWishlistHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	h, err := app.shareHashID()
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	ids, err := h.DecodeInt64WithError(token)
	if err != nil || len(ids) != 1 {
		app.notFoundResponse(w, r, fmt.Errorf("invalid share token"))
		return
	}

	products, err := app.store.Wishlists.ListProducts(r.Context(), ids[0])
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, products); err != nil {
		app.internalServerError(w, r, err)
	}
}
