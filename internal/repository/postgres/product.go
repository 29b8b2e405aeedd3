package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kervela/product_catalog/internal/domain"
)

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = "id, name, code, stock_quantity, created_at, updated_at, deleted_at"

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, code, stock_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.Name,
		product.Code,
		product.StockQuantity,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(
		&product.ID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// GetAll retrieves all non-deleted products
func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE deleted_at IS NULL
	`

	var products []*domain.Product
	err := r.db.SelectContext(ctx, &products, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}

	return products, nil
}

// GetPaginated retrieves up to limit non-deleted products with id greater than cursor
func (r *ProductRepository) GetPaginated(ctx context.Context, limit int, cursor int64) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE deleted_at IS NULL AND id > $1
		ORDER BY id
		LIMIT $2
	`

	var products []*domain.Product
	err := r.db.SelectContext(ctx, &products, query, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select product page: %w", err)
	}

	return products, nil
}

// GetByID retrieves a non-deleted product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select product: %w", err)
	}

	return &product, nil
}

// UpdateByID applies a partial update to a non-deleted product.
// The update is a single conditional statement so concurrent requests
// cannot both pass a separate existence check.
func (r *ProductRepository) UpdateByID(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	query := `
		UPDATE products
		SET name = COALESCE($1, name),
		    stock_quantity = COALESCE($2, stock_quantity),
		    updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
		RETURNING ` + productColumns + `
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, patch.Name, patch.StockQuantity, time.Now(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return &product, nil
}

// DeleteByID soft-deletes a product and returns the stamped row.
// Re-deleting an already-deleted product returns ErrNotFound; the
// deleted_at timestamp is never overwritten.
func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		UPDATE products
		SET deleted_at = $1
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING ` + productColumns + `
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, time.Now(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	return &product, nil
}
