package handler

import (
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/labstack/gommon/log"

    "github.com/grizzco/salmon-run-scheduler/internal/repository"
    "github.com/grizzco/salmon-run-scheduler/internal/timeslot"
)

// AvailabilityHandler exposes the host-facing availability endpoints:
// publishing a block of free time and listing the slots that remain
// unbooked.
type AvailabilityHandler struct {
    SlotRepo *repository.SlotRepo
}

// NewAvailabilityHandler constructs an AvailabilityHandler. The slot
// repository must be non-nil.
func NewAvailabilityHandler(slotRepo *repository.SlotRepo) *AvailabilityHandler {
    if slotRepo == nil {
        panic("nil repository passed to NewAvailabilityHandler")
    }
    return &AvailabilityHandler{SlotRepo: slotRepo}
}

// publishRequest is the payload for POST /api/availability. The
// timestamps are wall-clock strings interpreted as UTC.
type publishRequest struct {
    StartTime string `json:"startTime" validate:"required,wallclock"`
    EndTime   string `json:"endTime" validate:"required,wallclock"`
}

// slotResponse mirrors the shape the frontend consumes for a single
// available slot. Times are RFC3339 UTC.
type slotResponse struct {
    ID        uint64 `json:"id"`
    StartTime string `json:"start_time"`
    EndTime   string `json:"end_time"`
}

// Publish handles POST /api/availability. It slices the requested
// block into 30-minute slots and registers each one, silently
// skipping starts that are already published so the host can re-post
// overlapping blocks without error. A trailing partial slot is
// discarded. Responds 201 with the number of slots processed.
func (h *AvailabilityHandler) Publish(c echo.Context) error {
    var body publishRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.StartTime == "" || body.EndTime == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Start and end times required."})
    }
    if err := c.Validate(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format provided."})
    }
    start, _ := timeslot.ParseWallClock(body.StartTime)
    end, _ := timeslot.ParseWallClock(body.EndTime)
    if !end.After(start) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "End time must be after start time."})
    }

    ranges, err := timeslot.Partition(start, end)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error": "No full 30-minute slots could be generated for the provided time range.",
        })
    }

    n, err := h.SlotRepo.PublishRanges(c.Request().Context(), ranges)
    if err != nil {
        log.Errorf("failed to publish availability %s..%s: %v", body.StartTime, body.EndTime, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store availability slots."})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message":        fmt.Sprintf("Successfully processed availability block. %d potential 30-minute slots processed.", n),
        "slotsProcessed": n,
    })
}

// List handles GET /api/availability. It returns every unbooked slot
// ordered by start time ascending; booked slots are never exposed.
func (h *AvailabilityHandler) List(c echo.Context) error {
    slots, err := h.SlotRepo.ListAvailable(c.Request().Context())
    if err != nil {
        log.Errorf("failed to list available slots: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch availability slots."})
    }
    out := make([]slotResponse, 0, len(slots))
    for _, s := range slots {
        out = append(out, slotResponse{
            ID:        s.ID,
            StartTime: s.StartTime.UTC().Format(time.RFC3339),
            EndTime:   s.EndTime.UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, out)
}
