package store

import (
	"context"
	"errors"
	"fmt"

	"lumiere/internal/catalog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RetailStoresStore struct {
	db *pgxpool.Pool
}

func (s *RetailStoresStore) Create(ctx context.Context, rs *catalog.RetailStore) (*catalog.RetailStore, error) {
	query := `
	INSERT INTO retail_stores (name, slug, address, city, phone, map_url, photo_urls, is_active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		rs.Name, rs.Slug, rs.Address, rs.City, rs.Phone, rs.MapURL, rs.PhotoURLs, rs.IsActive,
	).Scan(&rs.ID, &rs.CreatedAt, &rs.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("insert retail store: %w", err)
	}
	return rs, nil
}

func (s *RetailStoresStore) GetByID(ctx context.Context, id int64) (*catalog.RetailStore, error) {
	query := `
	SELECT id, name, slug, address, city, phone, map_url, photo_urls, is_active, created_at, updated_at
	FROM retail_stores WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var rs catalog.RetailStore
	err := s.db.QueryRow(ctx, query, id).Scan(
		&rs.ID, &rs.Name, &rs.Slug, &rs.Address, &rs.City, &rs.Phone,
		&rs.MapURL, &rs.PhotoURLs, &rs.IsActive, &rs.CreatedAt, &rs.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rs, nil
}

func (s *RetailStoresStore) List(ctx context.Context, includeInactive bool) ([]catalog.RetailStore, error) {
	query := `
	SELECT id, name, slug, address, city, phone, map_url, photo_urls, is_active, created_at, updated_at
	FROM retail_stores
	WHERE is_active = TRUE OR $1
	ORDER BY city, name`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list retail stores: %w", err)
	}
	defer rows.Close()

	var items []catalog.RetailStore
	for rows.Next() {
		var rs catalog.RetailStore
		if err := rows.Scan(
			&rs.ID, &rs.Name, &rs.Slug, &rs.Address, &rs.City, &rs.Phone,
			&rs.MapURL, &rs.PhotoURLs, &rs.IsActive, &rs.CreatedAt, &rs.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, rs)
	}
	return items, rows.Err()
}

func (s *RetailStoresStore) Update(ctx context.Context, rs *catalog.RetailStore) error {
	query := `
	UPDATE retail_stores SET
		name = $2, slug = $3, address = $4, city = $5, phone = $6,
		map_url = $7, photo_urls = $8, is_active = $9, updated_at = now()
	WHERE id = $1
	RETURNING updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		rs.ID, rs.Name, rs.Slug, rs.Address, rs.City, rs.Phone,
		rs.MapURL, rs.PhotoURLs, rs.IsActive,
	).Scan(&rs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update retail store: %w", err)
	}
	return nil
}

func (s *RetailStoresStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM retail_stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete retail store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RetailStoresStore) AddPhotoURL(ctx context.Context, id int64, url string) error {
	query := `UPDATE retail_stores SET photo_urls = array_append(photo_urls, $2), updated_at = now() WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("add store photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RetailStoresStore) RemovePhotoURL(ctx context.Context, id int64, url string) error {
	query := `UPDATE retail_stores SET photo_urls = array_remove(photo_urls, $2), updated_at = now() WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("remove store photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
