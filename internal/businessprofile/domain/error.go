package domain

import "errors"

var (
	ErrNotFound        = errors.New("business_profile_not_found")
	ErrInvalidCurrency = errors.New("invalid_currency")
)
