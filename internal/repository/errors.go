// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrSlotTaken indicates that a requested slot has already
// been booked by someone else.
package repository

import "errors"

// ErrSlotNotFound is returned when a slot referenced by id does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotTaken is returned when a slot covered by the requested
// booking is already booked, whether detected by the availability
// pre-check or by a guarded update affecting fewer rows than
// expected. Handlers should translate this into an HTTP 409
// response.
var ErrSlotTaken = errors.New("slot already booked")

// ErrCodeExhausted is returned when visitor code generation fails to
// find an unused code within the retry bound. The enclosing booking
// transaction must be rolled back.
var ErrCodeExhausted = errors.New("visitor code generation exhausted")
