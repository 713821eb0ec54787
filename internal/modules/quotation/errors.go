package quotation

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("quotation not found")
	ErrApproved   = errors.New("quotation is approved and immutable")
)
