package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdmitry/inventory-service/internal/inventory/apperr"
	"github.com/avdmitry/inventory-service/internal/inventory/filter"
	"github.com/avdmitry/inventory-service/internal/inventory/paging"
	"github.com/avdmitry/inventory-service/internal/inventory/service"
)

// mockInventoryService is a mock implementation of the InventoryService interface
type mockInventoryService struct {
	list    []service.ProductDto
	product *service.ProductDto
	page    *paging.PagedList[service.ProductDto]
	error   error

	addCalled      bool
	updateCalled   bool
	deleteCalled   bool
	filteredCalled bool
	lastFilter     filter.Filter
}

func (m *mockInventoryService) FindAll(_ context.Context) ([]service.ProductDto, error) {
	return m.list, m.error
}

func (m *mockInventoryService) FindByID(_ context.Context, _ int64) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockInventoryService) ListPaged(_ context.Context, params paging.Params) (*paging.PagedList[service.ProductDto], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return m.page, m.error
}

func (m *mockInventoryService) ListFiltered(_ context.Context, f filter.Filter, params paging.Params) (*paging.PagedList[service.ProductDto], error) {
	m.filteredCalled = true
	m.lastFilter = f
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return m.page, m.error
}

func (m *mockInventoryService) Add(_ context.Context, p service.ProductDto) (*service.ProductDto, error) {
	m.addCalled = true
	if m.error != nil {
		return nil, m.error
	}
	return &p, nil
}

func (m *mockInventoryService) Update(_ context.Context, _ service.ProductDto) error {
	m.updateCalled = true
	return m.error
}

func (m *mockInventoryService) DeleteByID(_ context.Context, _ int64) error {
	m.deleteCalled = true
	return m.error
}

func newTestRouter(svc service.InventoryService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := chi.NewRouter()
	NewHandler(svc, logger).RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, mux *chi.Mux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func price(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func laptopDto() service.ProductDto {
	return service.ProductDto{ID: 1, Name: "Laptop", Brand: "HP", Price: price("1500")}
}

func Test_Handler_FindAll(t *testing.T) {
	mock := &mockInventoryService{list: []service.ProductDto{laptopDto()}}
	mux := newTestRouter(mock)

	rec := doRequest(t, mux, http.MethodGet, "/products", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var list []service.ProductDto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Laptop", list[0].Name)
}

func Test_Handler_FindByID(t *testing.T) {
	dto := laptopDto()
	testCases := []struct {
		name          string
		mockService   *mockInventoryService
		target        string
		expectedCode  int
		expectedError string
	}{
		{
			name:         "Success - product found",
			mockService:  &mockInventoryService{product: &dto},
			target:       "/products/by-id?id=1",
			expectedCode: http.StatusOK,
		},
		{
			name:          "Error - product not found",
			mockService:   &mockInventoryService{error: apperr.NotFound()},
			target:        "/products/by-id?id=99",
			expectedCode:  http.StatusNotFound,
			expectedError: apperr.MsgNotFound,
		},
		{
			name:          "Error - invalid id",
			mockService:   &mockInventoryService{},
			target:        "/products/by-id?id=abc",
			expectedCode:  http.StatusBadRequest,
			expectedError: `Invalid id parameter: "abc"`,
		},
		{
			name:          "Error - missing id",
			mockService:   &mockInventoryService{},
			target:        "/products/by-id",
			expectedCode:  http.StatusBadRequest,
			expectedError: `Invalid id parameter: ""`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(tc.mockService)
			rec := doRequest(t, mux, http.MethodGet, tc.target, "")

			require.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeErrorBody(t, rec).Error)
			}
		})
	}
}

func Test_Handler_ListPaged(t *testing.T) {
	page := paging.NewPagedList([]service.ProductDto{laptopDto()}, paging.Params{PageNumber: 1, PageSize: 10})
	testCases := []struct {
		name          string
		target        string
		expectedCode  int
		expectedError string
	}{
		{
			name:         "Success",
			target:       "/products/paged?pageNumber=1&pageSize=10",
			expectedCode: http.StatusOK,
		},
		{
			name:          "Error - both params missing",
			target:        "/products/paged",
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgNullParameter,
		},
		{
			name:          "Error - pageSize missing",
			target:        "/products/paged?pageNumber=1",
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgNullParameter,
		},
		{
			name:          "Error - non-numeric pageNumber",
			target:        "/products/paged?pageNumber=x&pageSize=10",
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgInvalidPaging,
		},
		{
			name:          "Error - zero pageSize",
			target:        "/products/paged?pageNumber=1&pageSize=0",
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgInvalidPaging,
		},
		{
			name:          "Error - negative pageNumber",
			target:        "/products/paged?pageNumber=-1&pageSize=10",
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgInvalidPaging,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(&mockInventoryService{page: &page})
			rec := doRequest(t, mux, http.MethodGet, tc.target, "")

			require.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeErrorBody(t, rec).Error)
			}
		})
	}
}

func Test_Handler_ListFiltered(t *testing.T) {
	page := paging.NewPagedList([]service.ProductDto{laptopDto()}, paging.Params{PageNumber: 1, PageSize: 10})
	testCases := []struct {
		name          string
		target        string
		expectedCode  int
		expectedError string
		expectCalled  bool
	}{
		{
			name:         "Success - brand filter",
			target:       "/products/filtered?brand=HP&pageNumber=1&pageSize=10",
			expectedCode: http.StatusOK,
			expectCalled: true,
		},
		{
			name:         "Success - empty name still counts as a filter",
			target:       "/products/filtered?name=&pageNumber=1&pageSize=10",
			expectedCode: http.StatusOK,
			expectCalled: true,
		},
		{
			name:          "Error - no filter fields",
			target:        "/products/filtered?pageNumber=1&pageSize=10",
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgNullParameter,
		},
		{
			name:          "Error - paging params missing",
			target:        "/products/filtered?brand=HP",
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgNullParameter,
		},
		{
			name:          "Error - invalid minPrice",
			target:        "/products/filtered?minPrice=abc&pageNumber=1&pageSize=10",
			expectedCode:  http.StatusBadRequest,
			expectedError: `Invalid minPrice parameter: "abc"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockInventoryService{page: &page}
			mux := newTestRouter(mock)
			rec := doRequest(t, mux, http.MethodGet, tc.target, "")

			require.Equal(t, tc.expectedCode, rec.Code)
			assert.Equal(t, tc.expectCalled, mock.filteredCalled)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeErrorBody(t, rec).Error)
			}
		})
	}
}

func Test_Handler_ListFiltered_EmptyNameIsPresent(t *testing.T) {
	page := paging.NewPagedList([]service.ProductDto{}, paging.Params{PageNumber: 1, PageSize: 10})
	mock := &mockInventoryService{page: &page}
	mux := newTestRouter(mock)

	rec := doRequest(t, mux, http.MethodGet, "/products/filtered?name=&pageNumber=1&pageSize=10", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, mock.lastFilter.Name)
	assert.Equal(t, "", *mock.lastFilter.Name)
	assert.Nil(t, mock.lastFilter.Brand)
}

func Test_Handler_Add(t *testing.T) {
	testCases := []struct {
		name          string
		mockService   *mockInventoryService
		body          string
		expectedCode  int
		expectedError string
		expectCalled  bool
	}{
		{
			name:         "Success - product created",
			mockService:  &mockInventoryService{},
			body:         `{"id":1,"name":"Laptop","brand":"HP","price":1500}`,
			expectedCode: http.StatusCreated,
			expectCalled: true,
		},
		{
			name:          "Error - empty body",
			mockService:   &mockInventoryService{},
			body:          "",
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgNullObject,
		},
		{
			name:          "Error - malformed body",
			mockService:   &mockInventoryService{},
			body:          "{",
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgNullObject,
		},
		{
			name:         "Error - missing name",
			mockService:  &mockInventoryService{},
			body:         `{"id":1,"brand":"HP","price":1500}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:          "Error - duplicate",
			mockService:   &mockInventoryService{error: apperr.Validation(apperr.MsgDuplication)},
			body:          `{"id":2,"name":"laptop","brand":"hp","price":999}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgDuplication,
			expectCalled:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(tc.mockService)
			rec := doRequest(t, mux, http.MethodPost, "/products", tc.body)

			require.Equal(t, tc.expectedCode, rec.Code)
			assert.Equal(t, tc.expectCalled, tc.mockService.addCalled)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeErrorBody(t, rec).Error)
			}
		})
	}
}

func Test_Handler_Add_SetsLocation(t *testing.T) {
	mux := newTestRouter(&mockInventoryService{})

	rec := doRequest(t, mux, http.MethodPost, "/products", `{"id":7,"name":"Keyboard","brand":"Logitech","price":99}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/products/by-id?id=7", rec.Header().Get("Location"))
	var created service.ProductDto
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(7), created.ID)
}

func Test_Handler_Update(t *testing.T) {
	testCases := []struct {
		name          string
		mockService   *mockInventoryService
		target        string
		body          string
		expectedCode  int
		expectedError string
		expectCalled  bool
	}{
		{
			name:         "Success - product updated",
			mockService:  &mockInventoryService{},
			target:       "/products?id=1",
			body:         `{"id":1,"name":"Laptop","brand":"HP","price":1800}`,
			expectedCode: http.StatusNoContent,
			expectCalled: true,
		},
		{
			name:          "Error - empty body",
			mockService:   &mockInventoryService{},
			target:        "/products?id=1",
			body:          "",
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgNullObject,
		},
		{
			name:          "Error - id mismatch checked before the service is reached",
			mockService:   &mockInventoryService{},
			target:        "/products?id=1",
			body:          `{"id":2,"name":"Laptop","brand":"HP","price":1800}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: apperr.MsgInvalidID,
		},
		{
			name:          "Error - product not found",
			mockService:   &mockInventoryService{error: apperr.NotFound()},
			target:        "/products?id=99",
			body:          `{"id":99,"name":"Laptop","brand":"HP","price":1800}`,
			expectedCode:  http.StatusNotFound,
			expectedError: apperr.MsgNotFound,
			expectCalled:  true,
		},
		{
			name:          "Error - invalid id parameter",
			mockService:   &mockInventoryService{},
			target:        "/products?id=abc",
			body:          `{"id":1,"name":"Laptop","brand":"HP","price":1800}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: `Invalid id parameter: "abc"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(tc.mockService)
			rec := doRequest(t, mux, http.MethodPut, tc.target, tc.body)

			require.Equal(t, tc.expectedCode, rec.Code)
			assert.Equal(t, tc.expectCalled, tc.mockService.updateCalled)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeErrorBody(t, rec).Error)
			}
		})
	}
}

func Test_Handler_DeleteByID(t *testing.T) {
	testCases := []struct {
		name          string
		mockService   *mockInventoryService
		target        string
		expectedCode  int
		expectedError string
		expectCalled  bool
	}{
		{
			name:         "Success - product deleted",
			mockService:  &mockInventoryService{},
			target:       "/products?id=1",
			expectedCode: http.StatusNoContent,
			expectCalled: true,
		},
		{
			name:          "Error - product not found",
			mockService:   &mockInventoryService{error: apperr.NotFound()},
			target:        "/products?id=99",
			expectedCode:  http.StatusNotFound,
			expectedError: apperr.MsgNotFound,
			expectCalled:  true,
		},
		{
			name:          "Error - invalid id",
			mockService:   &mockInventoryService{},
			target:        "/products?id=",
			expectedCode:  http.StatusBadRequest,
			expectedError: `Invalid id parameter: ""`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := newTestRouter(tc.mockService)
			rec := doRequest(t, mux, http.MethodDelete, tc.target, "")

			require.Equal(t, tc.expectedCode, rec.Code)
			assert.Equal(t, tc.expectCalled, tc.mockService.deleteCalled)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeErrorBody(t, rec).Error)
			}
		})
	}
}

func Test_Handler_ErrorBodyHasStackTrace(t *testing.T) {
	mux := newTestRouter(&mockInventoryService{error: apperr.NotFound()})

	rec := doRequest(t, mux, http.MethodGet, "/products/by-id?id=99", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, apperr.MsgNotFound, body.Error)
	assert.NotEmpty(t, body.StackTrace)
}

func Test_Handler_HealthCheck(t *testing.T) {
	mux := newTestRouter(&mockInventoryService{})

	rec := doRequest(t, mux, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
