package domain

import "errors"

var ErrNotFound = errors.New("template_not_found")
