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

var ErrStockConflict = errors.New("stock cannot go negative")

type CatalogStore struct {
	db *pgxpool.Pool
}

const productColumns = `
	p.id, p.name, p.description, p.image_urls, p.type, p.material, p.occasion,
	p.collection_id, c.name, p.stock, p.featured, p.most_loved, p.new_arrival,
	p.sku, p.sizes, p.min_price_cents, p.max_price_cents, p.meta_title,
	p.meta_description, p.slug, p.is_deleted, p.created_by, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.ImageURLs, &p.Type, &p.Material, &p.Occasion,
		&p.CollectionID, &p.CollectionName, &p.Stock, &p.Featured, &p.MostLoved, &p.NewArrival,
		&p.SKU, &p.Sizes, &p.MinPriceCents, &p.MaxPriceCents, &p.MetaTitle,
		&p.MetaDescription, &p.Slug, &p.IsDeleted, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	return &p, nil
}

func (s *CatalogStore) Create(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	query := `
	INSERT INTO products
		(name, description, image_urls, type, material, occasion, collection_id,
		 stock, featured, most_loved, new_arrival, sku, sizes, min_price_cents,
		 max_price_cents, meta_title, meta_description, slug, created_by)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	RETURNING id, created_at, updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		p.Name, p.Description, p.ImageURLs, p.Type, p.Material, p.Occasion, p.CollectionID,
		p.Stock, p.Featured, p.MostLoved, p.NewArrival, p.SKU, p.Sizes, p.MinPriceCents,
		p.MaxPriceCents, p.MetaTitle, p.MetaDescription, p.Slug, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *CatalogStore) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	query := `
	SELECT` + productColumns + `
	FROM products p
	LEFT JOIN collections c ON c.id = p.collection_id
	WHERE p.id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	p, err := scanProduct(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *CatalogStore) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	query := `
	SELECT` + productColumns + `
	FROM products p
	LEFT JOIN collections c ON c.id = p.collection_id
	WHERE p.slug = $1 AND p.is_deleted = FALSE`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	p, err := scanProduct(s.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// ListActive returns every non-deleted product with its collection name.
// The storefront filter engine works over this list in memory.
func (s *CatalogStore) ListActive(ctx context.Context) ([]catalog.Product, error) {
	query := `
	SELECT` + productColumns + `
	FROM products p
	LEFT JOIN collections c ON c.id = p.collection_id
	WHERE p.is_deleted = FALSE
	ORDER BY p.id`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
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

// ListAdmin pages through every product, soft-deleted ones included, newest
// first, with the total count for pagination metadata.
func (s *CatalogStore) ListAdmin(ctx context.Context, limit, offset int) ([]catalog.Product, int, error) {
	query := `
	SELECT` + productColumns + `, COUNT(*) OVER() AS total
	FROM products p
	LEFT JOIN collections c ON c.id = p.collection_id
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list admin products: %w", err)
	}
	defer rows.Close()

	var items []catalog.Product
	total := 0
	for rows.Next() {
		var p catalog.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.ImageURLs, &p.Type, &p.Material, &p.Occasion,
			&p.CollectionID, &p.CollectionName, &p.Stock, &p.Featured, &p.MostLoved, &p.NewArrival,
			&p.SKU, &p.Sizes, &p.MinPriceCents, &p.MaxPriceCents, &p.MetaTitle,
			&p.MetaDescription, &p.Slug, &p.IsDeleted, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (s *CatalogStore) Update(ctx context.Context, p *catalog.Product) error {
	query := `
	UPDATE products SET
		name = $2, description = $3, image_urls = $4, type = $5, material = $6,
		occasion = $7, collection_id = $8, stock = $9, featured = $10,
		most_loved = $11, new_arrival = $12, sku = $13, sizes = $14,
		min_price_cents = $15, max_price_cents = $16, meta_title = $17,
		meta_description = $18, slug = $19, updated_at = now()
	WHERE id = $1 AND is_deleted = FALSE
	RETURNING updated_at`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.ImageURLs, p.Type, p.Material,
		p.Occasion, p.CollectionID, p.Stock, p.Featured,
		p.MostLoved, p.NewArrival, p.SKU, p.Sizes,
		p.MinPriceCents, p.MaxPriceCents, p.MetaTitle,
		p.MetaDescription, p.Slug,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock sets the absolute stock count and reports the previous value so
// callers can detect a back-in-stock transition. The CHECK constraint keeps
// stock non-negative; a violation maps to ErrStockConflict.
func (s *CatalogStore) UpdateStock(ctx context.Context, id int64, stock int) (int, error) {
	query := `
	UPDATE products x SET stock = $2, updated_at = now()
	FROM products y
	WHERE x.id = y.id AND x.id = $1 AND x.is_deleted = FALSE
	RETURNING y.stock`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var previous int
	err := s.db.QueryRow(ctx, query, id, stock).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return 0, ErrStockConflict
		}
		return 0, fmt.Errorf("update stock: %w", err)
	}
	return previous, nil
}

func (s *CatalogStore) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE products SET is_deleted = TRUE, updated_at = now() WHERE id = $1 AND is_deleted = FALSE`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogStore) AddImageURL(ctx context.Context, id int64, url string) error {
	query := `
	UPDATE products SET image_urls = array_append(image_urls, $2), updated_at = now()
	WHERE id = $1 AND is_deleted = FALSE`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("add image url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogStore) RemoveImageURL(ctx context.Context, id int64, url string) error {
	query := `
	UPDATE products SET image_urls = array_remove(image_urls, $2), updated_at = now()
	WHERE id = $1 AND is_deleted = FALSE`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("remove image url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PriceBounds returns the lowest min price and highest max price across the
// live catalog. They seed the storefront's default price-range slider.
func (s *CatalogStore) PriceBounds(ctx context.Context) (int64, int64, error) {
	query := `
	SELECT COALESCE(MIN(min_price_cents), 0), COALESCE(MAX(max_price_cents), 0)
	FROM products WHERE is_deleted = FALSE`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var lo, hi int64
	if err := s.db.QueryRow(ctx, query).Scan(&lo, &hi); err != nil {
		return 0, 0, fmt.Errorf("price bounds: %w", err)
	}
	return lo, hi, nil
}
