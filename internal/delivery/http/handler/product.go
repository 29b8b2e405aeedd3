package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/kervela/product_catalog/internal/delivery/http/request"
	"github.com/kervela/product_catalog/internal/delivery/http/response"
	"github.com/kervela/product_catalog/internal/domain"
	"github.com/kervela/product_catalog/internal/pkg/logger"
	"github.com/kervela/product_catalog/internal/pkg/validator"
	"github.com/kervela/product_catalog/internal/usecase/product"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *product.Service
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  log,
	}
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name          string `json:"name" validate:"required"`
	StockQuantity int    `json:"stock_quantity" validate:"required,gt=0"`
}

// UpdateProductRequest represents the request body for updating a product.
// Both fields are optional; absent fields keep their stored value.
type UpdateProductRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1"`
	StockQuantity *int    `json:"stock_quantity,omitempty" validate:"omitempty,gt=0"`
}

// ProductResponse is the projection of a product exposed to clients.
// It never carries the deletion timestamp.
type ProductResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProductPageResponse is the projection of one page of products
type ProductPageResponse struct {
	Items      []ProductResponse `json:"items"`
	NextCursor *int64            `json:"next_cursor"`
}

func mapProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Code:          p.Code,
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func mapProducts(products []*domain.Product) []ProductResponse {
	items := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, mapProduct(p))
	}
	return items
}

// Create handles POST /api/v1/products
// @Summary Create a new product
// @Description Create a new product with name and stock quantity; the product code is generated server-side
// @Tags Products
// @Accept json
// @Produce json
// @Param product body CreateProductRequest true "Product details"
// @Success 201 {object} response.Envelope "Product created"
// @Failure 400 {object} response.Envelope "Invalid request body"
// @Failure 500 {object} response.Envelope "Internal server error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, []string{"invalid request body"})
		return
	}

	if err := validator.Get().Struct(req); err != nil {
		response.BadRequest(w, validator.Messages(err))
		return
	}

	created, err := h.service.Create(r.Context(), req.Name, req.StockQuantity)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, mapProduct(created))
}

// List handles GET /api/v1/products.
// With limit or cursor query parameters it returns one page and the next
// cursor; without them it returns the whole active listing.
// @Summary List products
// @Description List all products, or one cursor-paginated page when limit/cursor are given
// @Tags Products
// @Accept json
// @Produce json
// @Param limit query int false "Page size (1-100, out-of-range values replaced by 10)"
// @Param cursor query int false "Return products with id greater than this cursor"
// @Success 200 {object} response.Envelope "Product listing"
// @Failure 400 {object} response.Envelope "Invalid query parameters"
// @Failure 500 {object} response.Envelope "Internal server error"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if request.HasPaginationParams(r) {
		h.listPaginated(w, r)
		return
	}

	products, err := h.service.GetAll(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, mapProducts(products))
}

func (h *ProductHandler) listPaginated(w http.ResponseWriter, r *http.Request) {
	var errs []string

	limit, err := request.GetIntQuery(r, "limit", 0)
	if err != nil {
		errs = append(errs, "limit must be an integer")
	}

	cursor, err := request.GetIntQuery(r, "cursor", 0)
	if err != nil {
		errs = append(errs, "cursor must be an integer")
	} else if cursor < 0 {
		errs = append(errs, "cursor must be a positive integer")
	}

	if len(errs) > 0 {
		response.BadRequest(w, errs)
		return
	}

	page, err := h.service.GetPaginated(r.Context(), int(limit), cursor)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, ProductPageResponse{
		Items:      mapProducts(page.Items),
		NextCursor: page.NextCursor,
	})
}

// GetByID handles GET /api/v1/products/{id}
// @Summary Get a product by ID
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Envelope "Product details"
// @Failure 400 {object} response.Envelope "Invalid product ID"
// @Failure 404 {object} response.Envelope "Product not found"
// @Failure 500 {object} response.Envelope "Internal server error"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, []string{"id must be a positive integer"})
		return
	}

	found, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, mapProduct(found))
}

// Update handles PUT /api/v1/products/{id}
// @Summary Update a product
// @Description Partially update a product's name and/or stock quantity
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body UpdateProductRequest true "Fields to update"
// @Success 200 {object} response.Envelope "Updated product"
// @Failure 400 {object} response.Envelope "Invalid request"
// @Failure 404 {object} response.Envelope "Product not found"
// @Failure 500 {object} response.Envelope "Internal server error"
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, []string{"id must be a positive integer"})
		return
	}

	var req UpdateProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, []string{"invalid request body"})
		return
	}

	if err := validator.Get().Struct(req); err != nil {
		response.BadRequest(w, validator.Messages(err))
		return
	}

	updated, err := h.service.UpdateByID(r.Context(), id, domain.ProductPatch{
		Name:          req.Name,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, mapProduct(updated))
}

// Delete handles DELETE /api/v1/products/{id}
// @Summary Delete a product
// @Description Soft delete a product; the row stays in storage
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 204 "Product deleted"
// @Failure 400 {object} response.Envelope "Invalid product ID"
// @Failure 404 {object} response.Envelope "Product not found"
// @Failure 500 {object} response.Envelope "Internal server error"
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetIDParam(r, "id")
	if err != nil {
		response.BadRequest(w, []string{"id must be a positive integer"})
		return
	}

	if _, err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError maps service layer errors to HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "not found")
	default:
		h.logger.Error("Internal error in product handler", err)
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
