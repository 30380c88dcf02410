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

var ErrCollectionHasProducts = errors.New("collection still has products assigned")

type CollectionsStore struct {
	db *pgxpool.Pool
}

func (s *CollectionsStore) Create(ctx context.Context, c *catalog.Collection) (*catalog.Collection, error) {
	query := `
	INSERT INTO collections (name, slug, description, cover_image_url, is_active, created_by)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		c.Name, c.Slug, c.Description, c.CoverImageURL, c.IsActive, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("insert collection: %w", err)
	}
	return c, nil
}

func (s *CollectionsStore) GetByID(ctx context.Context, id int64) (*catalog.Collection, error) {
	query := `
	SELECT id, name, slug, description, cover_image_url, is_active, created_by, created_at, updated_at
	FROM collections WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var c catalog.Collection
	err := s.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.CoverImageURL,
		&c.IsActive, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CollectionsStore) GetBySlug(ctx context.Context, slug string) (*catalog.Collection, error) {
	query := `
	SELECT id, name, slug, description, cover_image_url, is_active, created_by, created_at, updated_at
	FROM collections WHERE slug = $1 AND is_active = TRUE`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var c catalog.Collection
	err := s.db.QueryRow(ctx, query, slug).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.CoverImageURL,
		&c.IsActive, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CollectionsStore) List(ctx context.Context, includeInactive bool) ([]catalog.Collection, error) {
	query := `
	SELECT id, name, slug, description, cover_image_url, is_active, created_by, created_at, updated_at
	FROM collections
	WHERE is_active = TRUE OR $1
	ORDER BY name`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var items []catalog.Collection
	for rows.Next() {
		var c catalog.Collection
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.CoverImageURL,
			&c.IsActive, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (s *CollectionsStore) Update(ctx context.Context, c *catalog.Collection) error {
	query := `
	UPDATE collections SET
		name = $2, slug = $3, description = $4, cover_image_url = $5,
		is_active = $6, updated_at = now()
	WHERE id = $1
	RETURNING updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		c.ID, c.Name, c.Slug, c.Description, c.CoverImageURL, c.IsActive,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update collection: %w", err)
	}
	return nil
}

func (s *CollectionsStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrCollectionHasProducts
		}
		return fmt.Errorf("delete collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CollectionsStore) HasProducts(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE collection_id = $1 AND is_deleted = FALSE)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check collection products: %w", err)
	}
	return exists, nil
}
