package domain

import (
	"context"
	"time"
)

// Product represents a product in the catalog
type Product struct {
	ID            int64      `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Code          string     `json:"code" db:"code"`
	StockQuantity int        `json:"stock_quantity" db:"stock_quantity"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"-" db:"deleted_at"`
}

// ProductPatch holds the optional fields of a partial update.
// A nil field leaves the stored value untouched.
type ProductPatch struct {
	Name          *string
	StockQuantity *int
}

// ProductPage is one page of a cursor-paginated listing.
// NextCursor is nil when the listing is exhausted.
type ProductPage struct {
	Items      []*Product `json:"items"`
	NextCursor *int64     `json:"next_cursor"`
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create inserts a new product and fills in the generated fields
	Create(ctx context.Context, product *Product) error

	// GetAll retrieves all products (excludes soft-deleted)
	GetAll(ctx context.Context) ([]*Product, error)

	// GetPaginated retrieves up to limit products with id greater than cursor,
	// ordered by id (excludes soft-deleted)
	GetPaginated(ctx context.Context, limit int, cursor int64) ([]*Product, error)

	// GetByID retrieves a product by ID (excludes soft-deleted)
	GetByID(ctx context.Context, id int64) (*Product, error)

	// UpdateByID applies a partial update to a non-deleted product
	UpdateByID(ctx context.Context, id int64, patch ProductPatch) (*Product, error)

	// DeleteByID soft-deletes a product and returns the stamped row
	DeleteByID(ctx context.Context, id int64) (*Product, error)
}
