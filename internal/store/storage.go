package store

import (
	"context"
	"errors"
	"time"

	"lumiere/internal/catalog"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	ErrDuplicateSlug     = errors.New("slug already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Catalog interface {
		Create(context.Context, *catalog.Product) (*catalog.Product, error)
		GetByID(context.Context, int64) (*catalog.Product, error)
		GetBySlug(context.Context, string) (*catalog.Product, error)
		ListActive(context.Context) ([]catalog.Product, error)
		ListAdmin(context.Context, int, int) ([]catalog.Product, int, error)
		Update(context.Context, *catalog.Product) error
		UpdateStock(ctx context.Context, id int64, stock int) (previous int, err error)
		SoftDelete(context.Context, int64) error
		AddImageURL(ctx context.Context, id int64, url string) error
		RemoveImageURL(ctx context.Context, id int64, url string) error
		PriceBounds(context.Context) (min, max int64, err error)
	}
	Collections interface {
		Create(context.Context, *catalog.Collection) (*catalog.Collection, error)
		GetByID(context.Context, int64) (*catalog.Collection, error)
		GetBySlug(context.Context, string) (*catalog.Collection, error)
		List(ctx context.Context, includeInactive bool) ([]catalog.Collection, error)
		Update(context.Context, *catalog.Collection) error
		Delete(context.Context, int64) error
		HasProducts(context.Context, int64) (bool, error)
	}
	RetailStores interface {
		Create(context.Context, *catalog.RetailStore) (*catalog.RetailStore, error)
		GetByID(context.Context, int64) (*catalog.RetailStore, error)
		List(ctx context.Context, includeInactive bool) ([]catalog.RetailStore, error)
		Update(context.Context, *catalog.RetailStore) error
		Delete(context.Context, int64) error
		AddPhotoURL(ctx context.Context, id int64, url string) error
		RemovePhotoURL(ctx context.Context, id int64, url string) error
	}
	Wishlists interface {
		Add(ctx context.Context, userID, productID int64) error
		Remove(ctx context.Context, userID, productID int64) error
		ListProducts(ctx context.Context, userID int64) ([]catalog.Product, error)
		UserIDsWithProduct(ctx context.Context, productID int64) ([]int64, error)
	}
	Users interface {
		Create(context.Context, *User) error
		GetByID(context.Context, int64) (*User, error)
		GetByEmail(context.Context, string) (*User, error)
		SetRefreshToken(ctx context.Context, userID int64, token string) error
		ClearRefreshToken(ctx context.Context, userID int64) error
	}
	PushTokens interface {
		AddOrUpdate(ctx context.Context, userID int64, token string, deviceInfo []byte) error
		Remove(ctx context.Context, userID int64, token string) error
		GetTokensByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Catalog:      &CatalogStore{db},
		Collections:  &CollectionsStore{db},
		RetailStores: &RetailStoresStore{db},
		Wishlists:    &WishlistsStore{db},
		Users:        &UsersStore{db},
		PushTokens:   &PushTokensStore{db},
	}
}
