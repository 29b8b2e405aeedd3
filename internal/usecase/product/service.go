package product

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kervela/product_catalog/internal/domain"
	"github.com/kervela/product_catalog/internal/pkg/logger"
)

const (
	// DefaultLimit replaces any page limit outside 1..MaxLimit
	DefaultLimit = 10

	// MaxLimit is the largest accepted page size
	MaxLimit = 100

	eventsSubject = "products.events"
)

// ProductCache defines the interface for product read caching
type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	InvalidateProduct(ctx context.Context, id int64) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// ProductEvent represents a lifecycle event for a product
type ProductEvent struct {
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Product   *domain.Product `json:"product"`
}

// Service handles product business logic
type Service struct {
	repo      domain.ProductRepository
	cache     ProductCache
	publisher EventPublisher
	logger    *logger.Logger
}

// NewService creates a new product service
func NewService(
	repo domain.ProductRepository,
	cache ProductCache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    log,
	}
}

// Create creates a new product with a freshly generated unique code.
// Uniqueness is not re-verified against storage; the random UUID makes
// a collision negligible and the unique index catches the rest.
func (s *Service) Create(ctx context.Context, name string, stockQuantity int) (*domain.Product, error) {
	product := &domain.Product{
		Name:          name,
		Code:          uuid.NewString(),
		StockQuantity: stockQuantity,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return nil, err
	}

	s.publishEvent(ctx, "product.created", product)

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"code":       product.Code,
	}).Info("Product created successfully")

	return product, nil
}

// GetAll retrieves all products
func (s *Service) GetAll(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", err)
		return nil, err
	}

	return products, nil
}

// GetPaginated retrieves one page of products. Limits outside 1..MaxLimit
// are replaced with DefaultLimit. The next cursor is the id of the last
// returned item, or nil when the page is empty.
func (s *Service) GetPaginated(ctx context.Context, limit int, cursor int64) (*domain.ProductPage, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	items, err := s.repo.GetPaginated(ctx, limit, cursor)
	if err != nil {
		s.logger.Error("Failed to list product page", err)
		return nil, err
	}

	page := &domain.ProductPage{Items: items}
	if len(items) > 0 {
		page.NextCursor = &items[len(items)-1].ID
	}

	return page, nil
}

// GetByID retrieves a product by ID with read-through caching
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	cached, err := s.cache.GetProduct(ctx, id)
	if err == nil {
		s.logger.Debugf("Cache hit for product %d", id)
		return cached, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warnf("Cache lookup failed for product %d: %v", id, err)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product not found: %d", id)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		s.logger.Warnf("Failed to cache product %d: %v", id, err)
	}

	return product, nil
}

// UpdateByID applies a partial update to a product
func (s *Service) UpdateByID(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product not found for update: %d", id)
		} else {
			s.logger.Error("Failed to update product", err)
		}
		return nil, err
	}

	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %d: %v", id, err)
	}

	s.publishEvent(ctx, "product.updated", product)

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
	}).Info("Product updated successfully")

	return product, nil
}

// DeleteByID soft-deletes a product
func (s *Service) DeleteByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product not found for deletion: %d", id)
		} else {
			s.logger.Error("Failed to delete product", err)
		}
		return nil, err
	}

	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %d: %v", id, err)
	}

	s.publishEvent(ctx, "product.deleted", product)

	s.logger.WithFields(map[string]interface{}{
		"product_id": id,
	}).Info("Product deleted successfully")

	return product, nil
}

// publishEvent publishes a product event (non-blocking)
func (s *Service) publishEvent(ctx context.Context, eventType string, product *domain.Product) {
	event := ProductEvent{
		EventType: eventType,
		Timestamp: time.Now(),
		Product:   product,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for product %d", product.ID)
		return
	}

	// Publish in background to avoid blocking the request
	go func() {
		if err := s.publisher.Publish(context.Background(), eventsSubject, data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for product %d", product.ID)
		}
	}()
}
