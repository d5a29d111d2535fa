package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"crm-service/internal/api/handler/dto"
	"crm-service/internal/domain/customer"
	"crm-service/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field, code := http.StatusInternalServerError, "An unexpected error occurred.", "", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, customer.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Invalid credentials."
	case errors.Is(err, apperrors.ErrForbidden):
		status, message = http.StatusForbidden, "Access denied."
	case errors.Is(err, apperrors.ErrDatabase), errors.Is(err, apperrors.ErrAlreadyExists):
		// Storage failures surface the underlying message, untranslated.
		message = err.Error()
		if errors.As(err, &appErr) {
			code = appErr.Code
			message = fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
	case errors.As(err, &appErr):
		message, code = appErr.Message, appErr.Code
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// ListCustomers handles GET /api/customer
// @Summary List customers
// @Description Retrieves a page of customers, optionally filtered by a search term matched against name, email and phone number.
// @Tags Customers
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Records per page" default(10)
// @Param search query string false "Case-insensitive search term"
// @Success 200 {object} dto.CustomerListResponse "Page of customers plus filtered total"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customer [get]
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received list customers request")

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "pageSize", 10)
	search := r.URL.Query().Get("search")

	customers, total, err := h.service.ListCustomers(r.Context(), page, pageSize, search)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerListResponse(customers, total)

	h.logger.InfoContext(r.Context(), "Customers listed successfully", slog.Int("count", len(resp.Data)), slog.Int("total", total))
	respondJSON(w, http.StatusOK, resp)
}

// GetCustomer handles GET /api/customer/{customerID}
// @Summary Retrieve customer details
// @Description Retrieves a specific customer by id.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customer/{customerID} [get]
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received get customer request")

	domainCustomer, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) && !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerResponse(domainCustomer)
	h.logger.InfoContext(r.Context(), "Customer retrieved successfully")
	respondJSON(w, http.StatusOK, resp)
}

// CreateCustomer handles POST /api/customer
// @Summary Create a new customer
// @Description Creates a customer record with name, email and phone number. The id is assigned by the store.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer creation request"
// @Success 201 {object} dto.CustomerResponse "Customer successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload (missing or malformed field)"
// @Failure 500 {object} dto.ErrorResponse "Internal server error during creation"
// @Router /customer [post]
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}
	h.logger.DebugContext(r.Context(), "Request validation passed")

	createdCustomer, err := h.service.CreateCustomer(r.Context(), req.Name, req.Email, req.PhoneNumber)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerResponse(createdCustomer)
	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.Int64("customerID", resp.ID))
	w.Header().Set("Location", fmt.Sprintf("/api/customer/%d", resp.ID))
	respondJSON(w, http.StatusCreated, resp)
}

// UpdateCustomer handles PUT /api/customer/{customerID}
// @Summary Partially update a customer
// @Description Updates the supplied subset of name, email and phoneNumber. Absent fields are left unchanged; the first invalid field aborts the request.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.UpdateCustomerRequest true "Fields to update"
// @Success 204 "Customer successfully updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID, empty body, invalid field, or no fields supplied"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customer/{customerID} [put]
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received update customer request")

	var req dto.UpdateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: no data provided: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	err = h.service.UpdateCustomer(r.Context(), customerID, req.ToUpdate())
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to update customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer updated successfully")
	respondJSON(w, http.StatusNoContent, nil)
}

// DeleteCustomer handles DELETE /api/customer/{customerID}
// @Summary Delete a customer
// @Description Removes the customer record. Deleting an id that does not exist still succeeds.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 204 "Customer deleted (or was already absent)"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customer/{customerID} [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Received delete customer request")

	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to delete customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer delete completed")
	respondJSON(w, http.StatusNoContent, nil)
}
