package medrecord

import "errors"

var (
	ErrPatientRequired = errors.New("patient is required")
	ErrNotesRequired   = errors.New("medical record notes are required")
)
