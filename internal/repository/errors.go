// Package repository implements the persistence layer of the
// reservation engine: the account store, the reservation store and the
// refresh-token store, all backed by MySQL.  This file defines the
// sentinel errors shared across repositories.  Handlers translate each
// sentinel into a specific HTTP status and error code so the
// presentation layer can render a precise message; none of these
// conditions should ever crash the process.
package repository

import "errors"

// ErrValidation is returned for malformed input the engine refuses to
// persist: bad date or slot, a seat that is not on the lab grid, a
// short password, a missing field.  Handlers map it to HTTP 400.
var ErrValidation = errors.New("validation failed")

// ErrDuplicateEmail is returned when registration collides with an
// existing account's email (case-insensitive).
var ErrDuplicateEmail = errors.New("email already registered")

// ErrDuplicateStudentID is returned when registration collides with an
// existing account's student number.
var ErrDuplicateStudentID = errors.New("student id already registered")

// ErrInvalidStudentID is returned when a walk-in student number does
// not match the 8-digit format.
var ErrInvalidStudentID = errors.New("invalid student id")

// ErrInvalidSeatFormat is returned when a walk-in seat label is not a
// row letter followed by a one or two digit column number.
var ErrInvalidSeatFormat = errors.New("invalid seat format")

// ErrPastDate is returned when a walk-in targets a date that has
// already passed.
var ErrPastDate = errors.New("date is in the past")

// ErrSeatUnavailable is returned when the target seat is occupied or
// already carries an upcoming reservation for the requested slot.
// Handlers map it to HTTP 409.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrInvalidState is returned for an illegal status transition, such
// as cancelling a reservation that is already completed or cancelled.
var ErrInvalidState = errors.New("invalid reservation state")

// ErrNotYetEligible is returned when a no-show removal is attempted
// outside the grace window after the slot's start.
var ErrNotYetEligible = errors.New("not yet eligible for no-show removal")

// ErrForbidden is returned when the caller lacks the role or ownership
// an operation requires.  Handlers map it to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when the referenced account or reservation
// does not exist.  Handlers map it to HTTP 404.
var ErrNotFound = errors.New("not found")
