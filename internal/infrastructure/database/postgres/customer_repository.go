package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"crm-service/internal/domain/customer"
	"crm-service/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	if cust.ID == 0 {
		return r.createCustomer(ctx, cust)
	}
	return r.updateCustomer(ctx, cust)
}

func (r *CustomerRepository) createCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("name", cust.Name))

	query := `
        INSERT INTO customers (name, email, phone_number)
        VALUES ($1, $2, $3)
        RETURNING id`

	err := r.db.QueryRow(ctx, query,
		cust.Name,
		cust.Email,
		cust.PhoneNumber,
	).Scan(&cust.ID)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation", slog.Any("error", err))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to insert customer")
	}

	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) error {
	r.logger.InfoContext(ctx, "Attempting to update customer", slog.Int64("customerID", cust.ID))

	query := `
        UPDATE customers
        SET name = $1,
            email = $2,
            phone_number = $3
        WHERE id = $4`

	cmdTag, err := r.db.Exec(ctx, query,
		cust.Name,
		cust.Email,
		cust.PhoneNumber,
		cust.ID,
	)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to update customer due to unique constraint violation", slog.Any("error", err))
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to update customer")
	}

	if cmdTag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Update affected zero rows, customer likely not found")
		return apperrors.ErrNotFound
	}

	r.logger.InfoContext(ctx, "Customer updated successfully")
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to find customer by ID")

	query := `
        SELECT id, name, email, phone_number
        FROM customers
        WHERE id = $1`

	var cust customer.Customer
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&cust.ID,
		&cust.Name,
		&cust.Email,
		&cust.PhoneNumber,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found")
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to query/scan customer by ID", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to get customer by ID")
	}

	r.logger.InfoContext(ctx, "Customer found successfully")
	return &cust, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	r.logger.InfoContext(ctx, "Attempting to find all customers")

	query := `
        SELECT id, name, email, phone_number
        FROM customers
        ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to query customers")
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		err := rows.Scan(
			&cust.ID,
			&cust.Name,
			&cust.Email,
			&cust.PhoneNumber,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, apperrors.WrapDatabaseError(err, "failed to scan customer row")
		}
		customers = append(customers, &cust)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "error iterating customer rows")
	}

	r.logger.InfoContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	r.logger.InfoContext(ctx, "Attempting to delete customer")

	query := `DELETE FROM customers WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to execute delete customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to delete customer")
	}

	if cmdTag.RowsAffected() == 0 {
		// Absence is not an error for delete. The caller sees success
		// either way.
		r.logger.WarnContext(ctx, "Delete affected zero rows, customer did not exist")
	} else {
		r.logger.InfoContext(ctx, "Customer deleted successfully")
	}
	return nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {

		if pgErr.Code == "23505" {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
