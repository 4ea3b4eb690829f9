// Package timeslot implements the time arithmetic shared by the slot
// generator and the booking transactor: parsing caller-supplied
// wall-clock timestamps as UTC and partitioning a range into fixed
// 30-minute units.
package timeslot

import (
    "errors"
    "time"
)

// Duration is the width of a single bookable slot.
const Duration = 30 * time.Minute

// ErrRangeTooShort is returned by Partition when the requested range
// does not contain a single full slot.
var ErrRangeTooShort = errors.New("range shorter than one slot")

// wallClockLayouts are the accepted input formats, most specific
// first.  The datetime-local form ("2006-01-02T15:04") is what the
// host's form submits.
var wallClockLayouts = []string{
    time.RFC3339,
    "2006-01-02T15:04:05",
    "2006-01-02T15:04",
}

// ParseWallClock parses a caller-supplied timestamp, interpreting a
// zone-less value as UTC wall-clock time.  No timezone conversion is
// performed beyond that literal interpretation.
func ParseWallClock(s string) (time.Time, error) {
    var lastErr error
    for _, layout := range wallClockLayouts {
        t, err := time.Parse(layout, s)
        if err == nil {
            return t.UTC(), nil
        }
        lastErr = err
    }
    return time.Time{}, lastErr
}

// Range is a half-open [Start, End) interval.
type Range struct {
    Start time.Time
    End   time.Time
}

// Partition slices [start, end) into consecutive Duration-wide ranges
// beginning at start.  A trailing partial interval is discarded.  It
// returns ErrRangeTooShort when not even one full slot fits.
func Partition(start, end time.Time) ([]Range, error) {
    var out []Range
    for cur := start; !cur.Add(Duration).After(end); cur = cur.Add(Duration) {
        out = append(out, Range{Start: cur, End: cur.Add(Duration)})
    }
    if len(out) == 0 {
        return nil, ErrRangeTooShort
    }
    return out, nil
}

// Count returns the number of full slots spanned by [start, end) and
// whether the range is an exact multiple of the slot duration.
func Count(start, end time.Time) (int, bool) {
    d := end.Sub(start)
    if d <= 0 {
        return 0, false
    }
    return int(d / Duration), d%Duration == 0
}
