package graphql

import (
	"context"
	"errors"
	"time"

	"github.com/kervela/product_catalog/internal/domain"
	"github.com/kervela/product_catalog/internal/pkg/logger"
	"github.com/kervela/product_catalog/internal/usecase/product"
)

// resolverError is a GraphQL error carrying a machine-readable code in
// its extensions, rendered by the graphql-go error formatter.
type resolverError struct {
	code    string
	message string
}

func (e resolverError) Error() string {
	return e.message
}

func (e resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func badRequest(message string) error {
	return resolverError{code: "BAD_REQUEST", message: message}
}

func notFound() error {
	return resolverError{code: "NOT_FOUND", message: "not found"}
}

func internalServerError() error {
	return resolverError{code: "INTERNAL_SERVER_ERROR", message: "internal server error"}
}

// Resolver is the root query resolver
type Resolver struct {
	service *product.Service
	logger  *logger.Logger
}

// NewResolver creates a new root resolver
func NewResolver(service *product.Service, log *logger.Logger) *Resolver {
	return &Resolver{
		service: service,
		logger:  log,
	}
}

// GetProduct resolves the getProduct query
func (r *Resolver) GetProduct(ctx context.Context, args struct{ ID int32 }) (*ProductResolver, error) {
	if args.ID <= 0 {
		return nil, badRequest("id must be a positive integer")
	}

	found, err := r.service.GetByID(ctx, int64(args.ID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, notFound()
		}
		r.logger.Error("Internal error in getProduct resolver", err)
		return nil, internalServerError()
	}

	return &ProductResolver{product: found}, nil
}

// ProductResolver resolves the Product type. The deletion timestamp is
// never part of the exposed shape.
type ProductResolver struct {
	product *domain.Product
}

func (r *ProductResolver) ID() int32 {
	return int32(r.product.ID)
}

func (r *ProductResolver) Name() string {
	return r.product.Name
}

func (r *ProductResolver) Code() string {
	return r.product.Code
}

func (r *ProductResolver) StockQuantity() int32 {
	return int32(r.product.StockQuantity)
}

func (r *ProductResolver) CreatedAt() string {
	return r.product.CreatedAt.Format(time.RFC3339)
}

func (r *ProductResolver) UpdatedAt() string {
	return r.product.UpdatedAt.Format(time.RFC3339)
}
