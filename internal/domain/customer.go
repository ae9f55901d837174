package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// phonePattern accepts loose international formats such as +1-234-567-8900 or 1 (234) 567 8900.
var phonePattern = regexp.MustCompile(`^\+?\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}$`)

var validate = validator.New()

// Customer represents a CRM customer
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidPhone reports whether phone matches the accepted phone pattern.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidEmail reports whether email is a well-formed address.
func ValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// ValidateCustomer checks the customer fields that can be verified without the store.
// An empty phone means no phone and is always accepted.
func ValidateCustomer(name, email, phone string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if phone != "" && !ValidPhone(phone) {
		return ErrInvalidPhone
	}
	return nil
}
