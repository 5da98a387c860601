// Package rest provides the HTTP handlers for the inventory API.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/avdmitry/inventory-service/internal/inventory/apperr"
	"github.com/avdmitry/inventory-service/internal/inventory/service"
	"github.com/avdmitry/inventory-service/pkg/web"
)

// Handler serves the inventory API. Each request runs independently; the
// handler keeps no state across calls.
type Handler struct {
	service  service.InventoryService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new inventory API handler with the provided service.
func NewHandler(service service.InventoryService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the inventory service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Add)
		r.Put("/", h.Update)
		r.Delete("/", h.DeleteByID)
		r.Get("/by-id", h.FindByID)
		r.Get("/paged", h.ListPaged)
		r.Get("/filtered", h.ListFiltered)
	})

	r.Get("/healthz", h.HealthCheck)
}

// errorBody is the response shape for every failure.
type errorBody struct {
	Error      string `json:"error"`
	StackTrace string `json:"stackTrace"`
}

// respondError logs the failure with its fixed message and renders the
// structured error body with the status mapped from the error kind.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	message := apperr.MessageOf(err)
	status := apperr.HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		mLogger.ErrorContext(r.Context(), message, "error", err)
	} else {
		mLogger.WarnContext(r.Context(), message)
	}
	web.RespondJSON(w, mLogger, status, errorBody{
		Error:      message,
		StackTrace: apperr.Diagnostic(err),
	})
}

// FindAll returns the full product list.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to list all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID returns the product with the given id query parameter.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, err := parseID(r)
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// ListPaged returns one page of the full product set.
func (h *Handler) ListPaged(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	params, err := parsePaging(r.URL.Query())
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to list paged products",
		"pageNumber", params.PageNumber, "pageSize", params.PageSize)
	page, err := h.service.ListPaged(r.Context(), params)
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved page", "count", len(page.Items), "totalCount", page.TotalCount)
	web.RespondJSON(w, mLogger, http.StatusOK, page)
}

// ListFiltered returns one page of the products matching the filter. Both the
// filter and the paging parameters must be present.
func (h *Handler) ListFiltered(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	q := r.URL.Query()
	f, err := parseFilter(q)
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	if f.Empty() {
		h.respondError(w, r, mLogger, apperr.Validation(apperr.MsgNullParameter))
		return
	}
	params, err := parsePaging(q)
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to list filtered products",
		"pageNumber", params.PageNumber, "pageSize", params.PageSize)
	page, err := h.service.ListFiltered(r.Context(), f, params)
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved filtered page", "count", len(page.Items), "totalCount", page.TotalCount)
	web.RespondJSON(w, mLogger, http.StatusOK, page)
}

// Add inserts a new product and answers 201 with a Location reference to the
// by-id lookup.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	dto, ok := h.decodeProduct(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to add product", "ID", dto.ID, "Name", dto.Name)
	created, err := h.service.Add(r.Context(), *dto)
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product added successfully", "ID", created.ID, "Name", created.Name)
	w.Header().Set("Location", fmt.Sprintf("/products/by-id?id=%d", created.ID))
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Update replaces the product whose id is given in the query. The id in the
// path must match the one in the body; the mismatch check runs before any
// store access.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, err := parseID(r)
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	var dto service.ProductDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.respondError(w, r, mLogger, apperr.Validation(apperr.MsgNullObject))
		return
	}
	if id != dto.ID {
		h.respondError(w, r, mLogger, apperr.Validation(apperr.MsgInvalidID))
		return
	}
	if err := h.validateProduct(dto); err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	if err := h.service.Update(r.Context(), dto); err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteByID deletes the product with the given id query parameter.
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, err := parseID(r)
	if err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeProduct reads and validates the product body. An unreadable or empty
// body counts as the null product.
func (h *Handler) decodeProduct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger) (*service.ProductDto, bool) {
	var dto service.ProductDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.respondError(w, r, mLogger, apperr.Validation(apperr.MsgNullObject))
		return nil, false
	}
	if err := h.validateProduct(dto); err != nil {
		h.respondError(w, r, mLogger, err)
		return nil, false
	}
	return &dto, true
}

// validateProduct turns struct validation failures into a single validation
// error listing the offending fields.
func (h *Handler) validateProduct(dto service.ProductDto) error {
	err := h.validate.Struct(dto)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		parts := make([]string, len(validationErrors))
		for i, fieldErr := range validationErrors {
			parts[i] = fmt.Sprintf("%s failed on rule: %s", fieldErr.Field(), fieldErr.Tag())
		}
		return apperr.Validation("Validation Error: " + strings.Join(parts, "; "))
	}
	return apperr.Validation(apperr.MsgNullObject)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
