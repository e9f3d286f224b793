// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to act on a booking that belongs to someone else, while
// ErrDuplicateSlot signals that a requested field slot was taken by a
// concurrent booking.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because
// of conflicting state, such as confirming a booking that was already
// cancelled. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrDuplicateSlot is returned when an insert collides with an active
// booking for the same field, date and hour. The unique key on the
// bookings table raises this for exactly one of two concurrent
// submissions; the loser sees this error and nothing is written.
var ErrDuplicateSlot = errors.New("slot already booked")

// ErrNotFound is returned when a lookup matches no rows. It wraps the
// more general sql.ErrNoRows so handlers need not import database/sql.
var ErrNotFound = errors.New("not found")
