package customer

import "errors"

var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCustomerAlreadyExists = errors.New("customer already exists")
	ErrMissingUserID         = errors.New("user id is required")
	ErrMissingCustomerID     = errors.New("billing customer id is required")
	ErrInvalidMembership     = errors.New("invalid membership tier")
	ErrStoreUnavailable      = errors.New("customer store unavailable")
)
