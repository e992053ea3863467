package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPatientRequired     = errors.New("patient is required")
	ErrUnknownPatient      = errors.New("patient does not exist")
	ErrDatetimeRequired    = errors.New("appointment datetime is required")
	ErrInvalidStatus       = errors.New("invalid appointment status")
)
