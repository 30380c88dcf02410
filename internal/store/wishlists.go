package store

import (
	"context"
	"errors"
	"fmt"

	"lumiere/internal/catalog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WishlistsStore struct {
	db *pgxpool.Pool
}

func (s *WishlistsStore) Add(ctx context.Context, userID, productID int64) error {
	query := `INSERT INTO wishlists (user_id, product_id) VALUES ($1, $2)`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx, query, userID, productID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("add wishlist entry: %w", err)
	}
	return nil
}

func (s *WishlistsStore) Remove(ctx context.Context, userID, productID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx,
		`DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove wishlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListProducts returns the user's wishlisted products in the order they were
// saved, skipping anything soft-deleted since.
func (s *WishlistsStore) ListProducts(ctx context.Context, userID int64) ([]catalog.Product, error) {
	query := `
	SELECT` + productColumns + `
	FROM wishlists w
	JOIN products p ON p.id = w.product_id AND p.is_deleted = FALSE
	LEFT JOIN collections c ON c.id = p.collection_id
	WHERE w.user_id = $1
	ORDER BY w.created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	var items []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// UserIDsWithProduct feeds the back-in-stock notification fanout.
func (s *WishlistsStore) UserIDsWithProduct(ctx context.Context, productID int64) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx,
		`SELECT user_id FROM wishlists WHERE product_id = $1`, productID)
	if err != nil {
		return nil, fmt.Errorf("wishlist user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
