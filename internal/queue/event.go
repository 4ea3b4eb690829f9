// Package queue defines the message payloads exchanged over the
// broker and the background consumer that records confirmed bookings.
package queue

// BookingConfirmedEvent is published when a booking commits. It
// carries enough information for downstream consumers to log or
// notify without querying the primary database. Timestamps are
// RFC3339 UTC strings.
type BookingConfirmedEvent struct {
    EventID            string `json:"event_id"`
    BookingID          uint64 `json:"booking_id"`
    VisitorBookingCode string `json:"visitor_booking_code"`
    VisitorFriendCode  string `json:"visitor_friend_code"`
    StartTime          string `json:"start_time"`
    EndTime            string `json:"end_time"`
    SlotCount          int    `json:"slot_count"`
    ConfirmedAt        string `json:"confirmed_at"`
}
