package customer

import (
	"regexp"
	"strings"

	"crm-service/internal/pkg/apperrors"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// Optional leading +, then digits with common separators.
	phonePattern = regexp.MustCompile(`^\+?[0-9 ().\-]{3,30}$`)
)

type Customer struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

func NewCustomer(name, email, phoneNumber string) *Customer {
	return &Customer{
		Name:        name,
		Email:       email,
		PhoneNumber: phoneNumber,
	}
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("name", "name cannot be empty")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperrors.NewValidationError("email", "invalid email format")
	}
	return nil
}

func ValidatePhoneNumber(phoneNumber string) error {
	if !phonePattern.MatchString(phoneNumber) || !strings.ContainsAny(phoneNumber, "0123456789") {
		return apperrors.NewValidationError("phoneNumber", "invalid phone number format")
	}
	return nil
}

// Validate checks every field the way a persisted record must hold them.
func (c *Customer) Validate() error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	return ValidatePhoneNumber(c.PhoneNumber)
}

// Matches reports whether the lower-cased term appears in name, email or
// phone number.
func (c *Customer) Matches(loweredTerm string) bool {
	return strings.Contains(strings.ToLower(c.Name), loweredTerm) ||
		strings.Contains(strings.ToLower(c.Email), loweredTerm) ||
		strings.Contains(strings.ToLower(c.PhoneNumber), loweredTerm)
}
