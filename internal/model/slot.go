package model

import "time"

// AvailabilitySlot is a fixed 30-minute bookable unit of the host's
// published free time.  Slots are created in bulk when the host
// publishes an availability block and are booked at most once; there
// is no cancellation flow, so IsBooked never transitions back to
// false.  All timestamps are stored and compared in UTC.
//
// Fields:
//  ID        – primary key identifier.
//  StartTime – inclusive start of the slot; globally unique.
//  EndTime   – exclusive end of the slot, exactly 30 minutes after
//              StartTime.
//  IsBooked  – set exactly once by a successful booking.
type AvailabilitySlot struct {
    ID        uint64    // availability_slots.id
    StartTime time.Time // availability_slots.start_time
    EndTime   time.Time // availability_slots.end_time
    IsBooked  bool      // availability_slots.is_booked
}
