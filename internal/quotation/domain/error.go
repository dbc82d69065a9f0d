package domain

import "errors"

var (
	ErrNotFound          = errors.New("quotation_not_found")
	ErrItemNotFound      = errors.New("quotation_item_not_found")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrTemplateNotFound  = errors.New("template_not_found")
	ErrProfileNotFound   = errors.New("business_profile_not_found")
	ErrNoBusinessProfile = errors.New("no_business_profile")
	ErrMissingRecipient  = errors.New("missing_recipient")
)
