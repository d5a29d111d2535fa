package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrNoFieldsToUpdate = errors.New("no valid fields provided for update")
)

type CustomerRepository interface {
	// Save inserts the customer when ID is zero and updates it otherwise.
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindAll(ctx context.Context) ([]*Customer, error)

	// Delete removes the record if present. Deleting an absent id is not
	// an error.
	Delete(ctx context.Context, customerID int64) error
}
