package models

import "errors"

// ErrValidation marks input rejected before any backend call is made.
var ErrValidation = errors.New("validation failed")
