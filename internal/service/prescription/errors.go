package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrPatientRequired      = errors.New("patient is required")
	ErrNoItems              = errors.New("prescription needs at least one item")
	ErrAlreadyPickedUp      = errors.New("prescription already picked up")
)
