package dto

import (
	"crm-service/internal/domain/customer"
)

// CreateCustomerRequest accepts an id so a fetched record can be posted
// back unchanged, but the store assigns the real id.
type CreateCustomerRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func (r *CreateCustomerRequest) Validate() error {
	if err := customer.ValidateName(r.Name); err != nil {
		return err
	}
	if err := customer.ValidateEmail(r.Email); err != nil {
		return err
	}
	return customer.ValidatePhoneNumber(r.PhoneNumber)
}

// UpdateCustomerRequest is a partial update. Nil pointers mean the field was
// absent from the body and must be left unchanged.
type UpdateCustomerRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}

func (r *UpdateCustomerRequest) ToUpdate() customer.CustomerUpdate {
	return customer.CustomerUpdate{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
}

type CustomerResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		ID:          cust.ID,
		Name:        cust.Name,
		Email:       cust.Email,
		PhoneNumber: cust.PhoneNumber,
	}
}

// CustomerListResponse is the pagination envelope: the requested page of
// records plus the filtered total.
type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int                `json:"total"`
}

func NewCustomerListResponse(customers []*customer.Customer, total int) CustomerListResponse {
	data := make([]CustomerResponse, len(customers))
	for i, cust := range customers {
		data[i] = NewCustomerResponse(cust)
	}
	return CustomerListResponse{Data: data, Total: total}
}
