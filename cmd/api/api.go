package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lumiere/docs" //this is required to generate swagger docs
	"lumiere/internal/auth"
	"lumiere/internal/mailer"
	"lumiere/internal/notifications"
	"lumiere/internal/ratelimiter"
	"lumiere/internal/store"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	authenticator auth.Authenticator
	push          notifications.PushSender
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	share       shareConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	mailtrap  mailTrapConfig
}

type mailTrapConfig struct {
	apiKey string
}

// shareConfig salts the hashid used for public wishlist share links.
type shareConfig struct {
	salt string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public storefront
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", app.browseProductsHandler)
			r.Get("/products/{slug}", app.getProductBySlugHandler)
			r.Get("/price-range", app.getPriceRangeHandler)
			r.Get("/collections", app.listCollectionsHandler)
			r.Get("/collections/{slug}", app.getCollectionHandler)
			r.Get("/stores", app.listRetailStoresHandler)
		})

		r.Get("/wishlists/shared/{token}", app.getSharedWishlistHandler)

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/logout", app.logoutHandler)
			r.Post("/push-tokens", app.savePushTokenHandler)
			r.Delete("/push-tokens", app.removePushTokenHandler)

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", app.listWishlistHandler)
				r.Post("/share", app.shareWishlistHandler)
				r.Put("/{productID}", app.addToWishlistHandler)
				r.Delete("/{productID}", app.removeFromWishlistHandler)
			})
		})

		// Admin dashboard
		r.Route("/admin", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.CheckAdmin)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", app.adminListProductsHandler)
				r.Post("/", app.createProductHandler)

				r.Route("/{productID}", func(r chi.Router) {
					r.Get("/", app.adminGetProductHandler)
					r.Patch("/", app.updateProductHandler)
					r.Delete("/", app.deleteProductHandler)
					r.Patch("/stock", app.updateStockHandler)
					r.Post("/images", app.uploadProductImageHandler)
					r.Delete("/images", app.deleteProductImageHandler) // DELETE /admin/products/{productID}/images?image_url={url}
				})
			})

			r.Route("/collections", func(r chi.Router) {
				r.Get("/", app.adminListCollectionsHandler)
				r.Post("/", app.createCollectionHandler)
				r.Patch("/{collectionID}", app.updateCollectionHandler)
				r.Delete("/{collectionID}", app.deleteCollectionHandler)
				r.Post("/{collectionID}/cover", app.uploadCollectionCoverHandler)
			})

			r.Route("/stores", func(r chi.Router) {
				r.Get("/", app.adminListRetailStoresHandler)
				r.Post("/", app.createRetailStoreHandler)
				r.Patch("/{storeID}", app.updateRetailStoreHandler)
				r.Delete("/{storeID}", app.deleteRetailStoreHandler)
				r.Post("/{storeID}/photos", app.uploadStorePhotoHandler)
				r.Delete("/{storeID}/photos", app.deleteStorePhotoHandler) // DELETE /admin/stores/{storeID}/photos?photo_url={url}
			})

			r.Route("/import", func(r chi.Router) {
				r.Post("/", app.bulkImportHandler)
				r.Get("/template.csv", app.downloadCSVTemplateHandler)
				r.Get("/template.xlsx", app.downloadXLSXTemplateHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
