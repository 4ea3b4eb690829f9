package timeslot

import (
    "testing"
    "time"
)

func mustParse(t *testing.T, s string) time.Time {
    t.Helper()
    ts, err := ParseWallClock(s)
    if err != nil {
        t.Fatalf("ParseWallClock(%q): %v", s, err)
    }
    return ts
}

func TestParseWallClock(t *testing.T) {
    cases := []struct {
        in   string
        want string
        ok   bool
    }{
        {"2024-07-29T10:00", "2024-07-29T10:00:00Z", true},
        {"2024-07-29T10:00:00", "2024-07-29T10:00:00Z", true},
        {"2024-07-29T10:00:00Z", "2024-07-29T10:00:00Z", true},
        {"2024-07-29T12:00:00+02:00", "2024-07-29T10:00:00Z", true},
        {"29/07/2024 10:00", "", false},
        {"", "", false},
    }
    for _, tc := range cases {
        got, err := ParseWallClock(tc.in)
        if tc.ok != (err == nil) {
            t.Errorf("ParseWallClock(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
            continue
        }
        if err == nil && got.Format(time.RFC3339) != tc.want {
            t.Errorf("ParseWallClock(%q) = %s, want %s", tc.in, got.Format(time.RFC3339), tc.want)
        }
    }
}

func TestPartitionExactHour(t *testing.T) {
    start := mustParse(t, "2024-07-29T10:00")
    end := mustParse(t, "2024-07-29T11:00")
    ranges, err := Partition(start, end)
    if err != nil {
        t.Fatalf("Partition: %v", err)
    }
    if len(ranges) != 2 {
        t.Fatalf("got %d slots, want 2", len(ranges))
    }
    if !ranges[0].Start.Equal(start) || !ranges[0].End.Equal(start.Add(Duration)) {
        t.Errorf("first slot = [%v, %v)", ranges[0].Start, ranges[0].End)
    }
    if !ranges[1].Start.Equal(start.Add(Duration)) || !ranges[1].End.Equal(end) {
        t.Errorf("second slot = [%v, %v)", ranges[1].Start, ranges[1].End)
    }
}

func TestPartitionDiscardsPartialTail(t *testing.T) {
    start := mustParse(t, "2024-07-29T10:00")
    end := mustParse(t, "2024-07-29T10:45")
    ranges, err := Partition(start, end)
    if err != nil {
        t.Fatalf("Partition: %v", err)
    }
    if len(ranges) != 1 {
        t.Fatalf("got %d slots, want 1", len(ranges))
    }
    if ranges[0].End.After(end) {
        t.Errorf("slot extends past requested end: %v > %v", ranges[0].End, end)
    }
}

func TestPartitionProperties(t *testing.T) {
    start := mustParse(t, "2024-07-29T09:10")
    for _, mins := range []int{30, 45, 60, 90, 125, 240} {
        end := start.Add(time.Duration(mins) * time.Minute)
        ranges, err := Partition(start, end)
        if err != nil {
            t.Fatalf("Partition(%d min): %v", mins, err)
        }
        if want := mins / 30; len(ranges) != want {
            t.Errorf("%d min: got %d slots, want %d", mins, len(ranges), want)
        }
        prev := start
        for i, r := range ranges {
            if r.End.Sub(r.Start) != Duration {
                t.Errorf("%d min: slot %d width %v", mins, i, r.End.Sub(r.Start))
            }
            if !r.Start.Equal(prev) {
                t.Errorf("%d min: slot %d not contiguous", mins, i)
            }
            if r.End.After(end) {
                t.Errorf("%d min: slot %d extends past end", mins, i)
            }
            prev = r.End
        }
    }
}

func TestPartitionTooShort(t *testing.T) {
    start := mustParse(t, "2024-07-29T10:00")
    for _, mins := range []int{1, 15, 29} {
        if _, err := Partition(start, start.Add(time.Duration(mins)*time.Minute)); err != ErrRangeTooShort {
            t.Errorf("%d min: err = %v, want ErrRangeTooShort", mins, err)
        }
    }
}

func TestCount(t *testing.T) {
    start := mustParse(t, "2024-07-29T10:00")
    cases := []struct {
        mins    int
        n       int
        aligned bool
    }{
        {30, 1, true},
        {60, 2, true},
        {90, 3, true},
        {45, 1, false},
        {0, 0, false},
        {-30, 0, false},
    }
    for _, tc := range cases {
        n, aligned := Count(start, start.Add(time.Duration(tc.mins)*time.Minute))
        if n != tc.n || aligned != tc.aligned {
            t.Errorf("Count(%d min) = (%d, %v), want (%d, %v)", tc.mins, n, aligned, tc.n, tc.aligned)
        }
    }
}
