package domain

import (
	"github.com/dovepeak/quotemaster/internal/validation"
)

const validationMessage = "Please fill in client name, email, and select a template and business profile."

// Validate checks the fields a quotation needs before it may be persisted.
func Validate(q Quotation) error {
	return validation.Struct(q, validationMessage)
}
