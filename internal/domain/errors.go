package domain

import "errors"

// Sentinel errors shared across services. Repositories translate driver
// errors into these; controllers map them onto HTTP status codes.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is authenticated but not
	// allowed to act on the entity (e.g. not the event owner).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput is returned for requests that fail domain validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateRegistration is returned by Register when the user already
	// holds an active (confirmed or waitlisted) registration for the event.
	ErrDuplicateRegistration = errors.New("already registered for event")

	// ErrDeadlinePassed is returned by Register after the event's
	// registration deadline.
	ErrDeadlinePassed = errors.New("registration deadline has passed")

	// ErrRegistrationNotFound is returned by Cancel when the user has no
	// active registration for the event.
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrConcurrencyConflict is returned when a unit of work could not be
	// committed because of a write conflict, after one internal retry.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")

	// ErrActiveRegistrations is returned when an event cannot be deleted
	// because confirmed or waitlisted registrations still exist.
	ErrActiveRegistrations = errors.New("event has active registrations")

	// ErrInsufficientStock is returned when a sale would take a product's
	// stock below zero.
	ErrInsufficientStock = errors.New("insufficient product stock")
)
