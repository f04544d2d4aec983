package appointments

import "errors"

var (
	// ErrAppointmentNotFound is returned when no appointment with the id is stored
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrUnrecognizedStatus is returned for a status outside the closed enumeration
	ErrUnrecognizedStatus = errors.New("unrecognized appointment status")

	// ErrInvalidStatusChange is returned when a staff status-change request
	// names a status outside the allow-list
	ErrInvalidStatusChange = errors.New("invalid status change")
)
