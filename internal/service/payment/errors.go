package payment

import "errors"

var (
	ErrPatientRequired = errors.New("patient is required")
	ErrInvalidAmount   = errors.New("payment amount must be greater than zero")
)
