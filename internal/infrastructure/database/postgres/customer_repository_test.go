package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"crm-service/internal/domain/customer"
	"crm-service/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

const pgxmockExpectationsNotMetMsg = "there were unfulfilled pgxmock expectations"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var customerTest *customer.Customer = &customer.Customer{
	ID:          1,
	Name:        "John Doe",
	Email:       "john.doe@example.com",
	PhoneNumber: "555-0100",
}

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewCustomerRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func TestCreateCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        INSERT INTO customers (name, email, phone_number)
        VALUES ($1, $2, $3)
        RETURNING id`

	cust := &customer.Customer{
		Name:        customerTest.Name,
		Email:       customerTest.Email,
		PhoneNumber: customerTest.PhoneNumber,
	}

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(
		cust.Name,
		cust.Email,
		cust.PhoneNumber,
	).WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	err := repo.Save(ctx, cust)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), cust.ID, "Save should populate the assigned id")
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveExistingCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        UPDATE customers
        SET name = $1,
            email = $2,
            phone_number = $3
        WHERE id = $4`

	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(
		customerTest.Name,
		customerTest.Email,
		customerTest.PhoneNumber,
		customerTest.ID,
	).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Save(ctx, customerTest)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveExistingCustomerWhenMissing(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        UPDATE customers
        SET name = $1,
            email = $2,
            phone_number = $3
        WHERE id = $4`

	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(
		customerTest.Name,
		customerTest.Email,
		customerTest.PhoneNumber,
		customerTest.ID,
	).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Save(ctx, customerTest)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDReturnOne(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        SELECT id, name, email, phone_number
        FROM customers
        WHERE id = $1`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(customerTest.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone_number"}).
			AddRow(customerTest.ID, customerTest.Name, customerTest.Email, customerTest.PhoneNumber))

	customerResult, err := repo.FindByID(ctx, customerTest.ID)
	assert.NoError(t, err)
	assert.Equal(t, customerTest.ID, customerResult.ID)
	assert.Equal(t, customerTest.Email, customerResult.Email)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDReturnNone(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        SELECT id, name, email, phone_number
        FROM customers
        WHERE id = $1`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(customerTest.ID).WillReturnError(pgx.ErrNoRows)

	customerResult, err := repo.FindByID(ctx, customerTest.ID)
	assert.Error(t, err)
	assert.Nil(t, customerResult)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllCustomers(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        SELECT id, name, email, phone_number
        FROM customers
        ORDER BY id ASC`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone_number"}).
			AddRow(int64(1), "John Doe", "john.doe@example.com", "555-0100").
			AddRow(int64(2), "Jane Doe", "jane.doe@example.com", "555-0101"))

	customers, err := repo.FindAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, customers, 2)
	assert.Equal(t, int64(1), customers[0].ID)
	assert.Equal(t, int64(2), customers[1].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllCustomersWhenEmpty(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        SELECT id, name, email, phone_number
        FROM customers
        ORDER BY id ASC`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "phone_number"}))

	customers, err := repo.FindAll(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, customers)
	assert.Empty(t, customers)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllCustomersWhenQueryFails(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        SELECT id, name, email, phone_number
        FROM customers
        ORDER BY id ASC`

	cause := errors.New("connection reset")
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(cause)

	customers, err := repo.FindAll(ctx)
	assert.Nil(t, customers)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.ErrorIs(t, err, cause)

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DB_ERROR", appErr.Code)
	assert.Equal(t, "failed to query customers", appErr.Message)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `DELETE FROM customers WHERE id = $1`

	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(customerTest.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(ctx, customerTest.ID)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomerWhenAbsent(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `DELETE FROM customers WHERE id = $1`

	mockPool.ExpectExec(regexp.QuoteMeta(query)).WithArgs(int64(999)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(ctx, int64(999))
	assert.NoError(t, err, "deleting an absent id must not be an error")
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
