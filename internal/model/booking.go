package model

import "time"

// Booking records a visitor's reservation of one or more contiguous
// availability slots.  The covered slots are not referenced by id;
// they are re-derived from the [StartTime, EndTime) range when
// needed.  A visitor is identified by the friend code they supply,
// and the system-issued booking code is stable across all bookings
// made with the same friend code.
//
// Fields:
//  ID                 – primary key identifier.
//  VisitorBookingCode – system-issued 6-character confirmation code,
//                       unique across bookings, minted on the
//                       visitor's first booking and reused after.
//  VisitorFriendCode  – visitor-supplied opaque identity string used
//                       as the lookup key for code reuse.
//  VisitorMessage     – optional free-text note.
//  StartTime          – UTC start of the reserved block.
//  EndTime            – UTC end of the reserved block.
//  CreatedAt          – server-assigned creation timestamp.
type Booking struct {
    ID                 uint64    // bookings.id
    VisitorBookingCode string    // bookings.visitor_booking_code
    VisitorFriendCode  string    // bookings.visitor_friend_code
    VisitorMessage     *string   // bookings.visitor_message (nullable)
    StartTime          time.Time // bookings.booking_start_time
    EndTime            time.Time // bookings.booking_end_time
    CreatedAt          time.Time // bookings.booking_timestamp
}
