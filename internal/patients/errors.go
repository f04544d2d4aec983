package patients

import "errors"

var (
	// ErrPatientNotFound is returned when no patient with the id is stored
	ErrPatientNotFound = errors.New("patient not found")

	// ErrInvalidPatientRecord is returned when an upstream patient record is
	// missing its id; ids are externally assigned, so such a record can never
	// be stored
	ErrInvalidPatientRecord = errors.New("invalid patient record")
)
