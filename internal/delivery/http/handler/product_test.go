package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kervela/product_catalog/internal/domain"
	"github.com/kervela/product_catalog/internal/pkg/logger"
	"github.com/kervela/product_catalog/internal/usecase/product"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, prod *domain.Product) error {
	args := m.Called(ctx, prod)
	return args.Error(0)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetPaginated(ctx context.Context, limit int, cursor int64) ([]*domain.Product, error) {
	args := m.Called(ctx, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateByID(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) DeleteByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

// MockProductCache is a mock implementation of product.ProductCache
type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductCache) SetProduct(ctx context.Context, prod *domain.Product) error {
	args := m.Called(ctx, prod)
	return args.Error(0)
}

func (m *MockProductCache) InvalidateProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of product.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func newTestHandler() (*ProductHandler, *MockProductRepository, *MockProductCache) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPub := new(MockEventPublisher)
	mockPub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	mockCache.On("InvalidateProduct", mock.Anything, mock.Anything).Return(nil).Maybe()
	mockCache.On("SetProduct", mock.Anything, mock.Anything).Return(nil).Maybe()

	log := logger.New("test")
	service := product.NewService(mockRepo, mockCache, mockPub, log)
	return NewProductHandler(service, log), mockRepo, mockCache
}

// newRequestWithID builds a request carrying a chi id route parameter
func newRequestWithID(method, id string, body []byte) *http.Request {
	req := httptest.NewRequest(method, fmt.Sprintf("/api/v1/products/%s", id), bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err)
	return body
}

func TestProductHandler_Create_Success(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name == "Keyboard" && p.StockQuantity == 5 && p.Code != ""
	})).Run(func(args mock.Arguments) {
		p := args.Get(1).(*domain.Product)
		p.ID = 1
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
	}).Return(nil)

	body, _ := json.Marshal(CreateProductRequest{Name: "Keyboard", StockQuantity: 5})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockRepo.AssertExpectations(t)

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "created", envelope["message"])

	data := envelope["data"].(map[string]any)
	assert.Equal(t, "Keyboard", data["name"])
	assert.EqualValues(t, 5, data["stock_quantity"])
	assert.NotEmpty(t, data["code"])
	assert.NotContains(t, data, "deleted_at")
}

func TestProductHandler_Create_InvalidJSON(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestProductHandler_Create_ZeroStockQuantity(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	body, _ := json.Marshal(CreateProductRequest{Name: "Keyboard", StockQuantity: 0})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "Create")

	envelope := decodeEnvelope(t, w)
	assert.Equal(t, "invalid request parameters", envelope["message"])
	assert.NotEmpty(t, envelope["errors"])
}

func TestProductHandler_Create_NegativeStockQuantity(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	body := []byte(`{"name":"Keyboard","stock_quantity":-3}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestProductHandler_Create_MissingName(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	body := []byte(`{"stock_quantity":5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestProductHandler_List_All(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	products := []*domain.Product{
		{ID: 1, Name: "Keyboard", Code: "c1", StockQuantity: 5},
		{ID: 2, Name: "Mouse", Code: "c2", StockQuantity: 9},
	}
	mockRepo.On("GetAll", mock.Anything).Return(products, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data := envelope["data"].([]any)
	assert.Len(t, data, 2)
}

func TestProductHandler_List_Paginated(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	products := []*domain.Product{{ID: 1, Name: "Keyboard"}, {ID: 2, Name: "Mouse"}}
	mockRepo.On("GetPaginated", mock.Anything, 2, int64(0)).Return(products, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=2", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]any)
	assert.Len(t, data["items"], 2)
	assert.EqualValues(t, 2, data["next_cursor"])
}

func TestProductHandler_List_PaginatedLastPage(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	mockRepo.On("GetPaginated", mock.Anything, 2, int64(5)).Return([]*domain.Product{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=2&cursor=5", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]any)
	assert.Empty(t, data["items"])
	assert.Nil(t, data["next_cursor"])
}

func TestProductHandler_List_InvalidQuery(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=abc", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "GetPaginated")
}

func TestProductHandler_GetByID_Success(t *testing.T) {
	handler, mockRepo, mockCache := newTestHandler()

	stored := &domain.Product{ID: 1, Name: "Keyboard", Code: "c1", StockQuantity: 5}
	mockCache.On("GetProduct", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByID", mock.Anything, int64(1)).Return(stored, nil)

	req := newRequestWithID(http.MethodGet, "1", nil)
	w := httptest.NewRecorder()

	handler.GetByID(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]any)
	assert.EqualValues(t, 1, data["id"])
	assert.NotContains(t, data, "deleted_at")
}

func TestProductHandler_GetByID_InvalidID(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	for _, id := range []string{"abc", "-1", "0"} {
		req := newRequestWithID(http.MethodGet, id, nil)
		w := httptest.NewRecorder()

		handler.GetByID(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	handler, mockRepo, mockCache := newTestHandler()

	mockCache.On("GetProduct", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound)

	req := newRequestWithID(http.MethodGet, "42", nil)
	w := httptest.NewRecorder()

	handler.GetByID(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_Update_NameOnly(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	updated := &domain.Product{ID: 1, Name: "Ergonomic Keyboard", Code: "c1", StockQuantity: 5}
	mockRepo.On("UpdateByID", mock.Anything, int64(1), mock.MatchedBy(func(p domain.ProductPatch) bool {
		return p.Name != nil && *p.Name == "Ergonomic Keyboard" && p.StockQuantity == nil
	})).Return(updated, nil)

	body := []byte(`{"name":"Ergonomic Keyboard"}`)
	req := newRequestWithID(http.MethodPut, "1", body)
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)

	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "Ergonomic Keyboard", data["name"])
	assert.EqualValues(t, 5, data["stock_quantity"])
}

func TestProductHandler_Update_StockOnly(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	updated := &domain.Product{ID: 1, Name: "Keyboard", Code: "c1", StockQuantity: 7}
	mockRepo.On("UpdateByID", mock.Anything, int64(1), mock.MatchedBy(func(p domain.ProductPatch) bool {
		return p.Name == nil && p.StockQuantity != nil && *p.StockQuantity == 7
	})).Return(updated, nil)

	body := []byte(`{"stock_quantity":7}`)
	req := newRequestWithID(http.MethodPut, "1", body)
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestProductHandler_Update_InvalidStockQuantity(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	body := []byte(`{"stock_quantity":-1}`)
	req := newRequestWithID(http.MethodPut, "1", body)
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "UpdateByID")
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	mockRepo.On("UpdateByID", mock.Anything, int64(42), mock.Anything).Return(nil, domain.ErrNotFound)

	body := []byte(`{"name":"Keyboard"}`)
	req := newRequestWithID(http.MethodPut, "42", body)
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_Delete_Success(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	deleted := &domain.Product{ID: 1, Name: "Keyboard"}
	mockRepo.On("DeleteByID", mock.Anything, int64(1)).Return(deleted, nil)

	req := newRequestWithID(http.MethodDelete, "1", nil)
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestProductHandler_Delete_AlreadyDeleted(t *testing.T) {
	handler, mockRepo, _ := newTestHandler()

	mockRepo.On("DeleteByID", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)

	req := newRequestWithID(http.MethodDelete, "1", nil)
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_InternalErrorIsNotLeaked(t *testing.T) {
	handler, mockRepo, mockCache := newTestHandler()

	mockCache.On("GetProduct", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByID", mock.Anything, int64(1)).Return(nil, fmt.Errorf("connection refused"))

	req := newRequestWithID(http.MethodGet, "1", nil)
	w := httptest.NewRecorder()

	handler.GetByID(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
