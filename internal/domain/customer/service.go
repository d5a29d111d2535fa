package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"crm-service/internal/pkg/apperrors"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// CustomerUpdate carries the optional fields of a partial update. A nil
// pointer means the field was absent from the request.
type CustomerUpdate struct {
	Name        *string
	Email       *string
	PhoneNumber *string
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, name, email, phoneNumber string) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context, page, pageSize int, search string) ([]*Customer, int, error)
	UpdateCustomer(ctx context.Context, customerID int64, update CustomerUpdate) error
	DeleteCustomer(ctx context.Context, customerID int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, name, email, phoneNumber string) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		s.logger.WarnContext(ctx, "Validation failed: name is empty")
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		s.logger.WarnContext(ctx, "Validation failed: invalid email", slog.String("email", email))
		return nil, err
	}
	if err := ValidatePhoneNumber(phoneNumber); err != nil {
		s.logger.WarnContext(ctx, "Validation failed: invalid phone number", slog.String("phoneNumber", phoneNumber))
		return nil, err
	}

	cust := NewCustomer(name, email, phoneNumber)

	if err := s.repo.Save(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save new customer", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "Customer created successfully", slog.Int64("customerID", cust.ID))
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository", slog.Int64("customerID", customerID))
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		s.logger.ErrorContext(ctx, "Failed to find customer", slog.Any("error", err))
		return nil, err
	}
	return cust, nil
}

// ListCustomers fetches the full record set and applies search filtering and
// pagination in memory. The returned total is the filtered count before the
// page window is applied.
func (s *customerService) ListCustomers(ctx context.Context, page, pageSize int, search string) ([]*Customer, int, error) {
	s.logger.InfoContext(ctx, "Attempting to list customers",
		slog.Int("page", page), slog.Int("pageSize", pageSize), slog.String("search", search))

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list customers", slog.Any("error", err))
		return nil, 0, err
	}

	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		filtered := make([]*Customer, 0, len(customers))
		for _, cust := range customers {
			if cust.Matches(term) {
				filtered = append(filtered, cust)
			}
		}
		customers = filtered
	}

	total := len(customers)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	s.logger.InfoContext(ctx, "Customers listed", slog.Int("total", total), slog.Int("returned", end-start))
	return customers[start:end], total, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, update CustomerUpdate) error {
	s.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository", slog.Int64("customerID", customerID))
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		s.logger.ErrorContext(ctx, "Failed to load customer for update", slog.Any("error", err))
		return err
	}

	// Fields apply independently in a fixed order; the first invalid one
	// aborts the whole request before anything is persisted.
	updated := false
	if update.Name != nil {
		if err := ValidateName(*update.Name); err != nil {
			s.logger.WarnContext(ctx, "Validation failed: name is empty")
			return err
		}
		cust.Name = *update.Name
		updated = true
	}
	if update.Email != nil {
		if err := ValidateEmail(*update.Email); err != nil {
			s.logger.WarnContext(ctx, "Validation failed: invalid email")
			return err
		}
		cust.Email = *update.Email
		updated = true
	}
	if update.PhoneNumber != nil {
		if err := ValidatePhoneNumber(*update.PhoneNumber); err != nil {
			s.logger.WarnContext(ctx, "Validation failed: invalid phone number")
			return err
		}
		cust.PhoneNumber = *update.PhoneNumber
		updated = true
	}

	if !updated {
		s.logger.WarnContext(ctx, "Update request contained no fields")
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrNoFieldsToUpdate)
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save updated customer", slog.Any("error", err))
		return err
	}

	s.logger.InfoContext(ctx, "Customer updated successfully", slog.Int64("customerID", customerID))
	return nil
}

// DeleteCustomer removes the record unconditionally. Deleting an id that does
// not exist succeeds.
func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	s.logger.InfoContext(ctx, "Attempting to delete customer", slog.Int64("customerID", customerID))

	if err := s.repo.Delete(ctx, customerID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete customer", slog.Any("error", err))
		return err
	}

	s.logger.InfoContext(ctx, "Customer delete completed", slog.Int64("customerID", customerID))
	return nil
}
