package patient

import "errors"

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrNameRequired    = errors.New("patient name is required")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidDOB      = errors.New("date of birth must be YYYY-MM-DD")
)
