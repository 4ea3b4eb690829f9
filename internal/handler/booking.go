package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "github.com/labstack/gommon/log"

    "github.com/grizzco/salmon-run-scheduler/internal/model"
    "github.com/grizzco/salmon-run-scheduler/internal/queue"
    "github.com/grizzco/salmon-run-scheduler/internal/repository"
    queue_publisher "github.com/grizzco/salmon-run-scheduler/internal/service"
    "github.com/grizzco/salmon-run-scheduler/internal/timeslot"
)

// BookingHandler implements the booking transactor. Both request
// shapes run their critical DB operations inside a single
// transaction: either every covered slot is marked booked and the
// booking row inserted, or nothing is.
type BookingHandler struct {
    SlotRepo    *repository.SlotRepo
    BookingRepo *repository.BookingRepo
    // PublishEvents enables best-effort booking.confirmed events
    // after a successful commit.
    PublishEvents bool
}

// NewBookingHandler constructs a BookingHandler with the provided
// repositories. All dependencies must be non-nil.
func NewBookingHandler(slotRepo *repository.SlotRepo, bookingRepo *repository.BookingRepo, publishEvents bool) *BookingHandler {
    if slotRepo == nil || bookingRepo == nil {
        panic("nil repository passed to NewBookingHandler")
    }
    return &BookingHandler{SlotRepo: slotRepo, BookingRepo: bookingRepo, PublishEvents: publishEvents}
}

// bookingRequest covers both supported shapes of POST /api/bookings:
// a single slot id, or a start/end range spanning one or more
// contiguous slots. friendCode is required in either shape.
type bookingRequest struct {
    SlotID           *uint64 `json:"slotId"`
    BookingStartTime string  `json:"bookingStartTime"`
    BookingEndTime   string  `json:"bookingEndTime"`
    FriendCode       string  `json:"friendCode" validate:"required,max=64"`
    Message          *string `json:"message" validate:"omitempty,max=500"`
}

// Create handles POST /api/bookings. The presence of slotId selects
// the single-slot variant; otherwise bookingStartTime and
// bookingEndTime select the range variant.
func (h *BookingHandler) Create(c echo.Context) error {
    var body bookingRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Friend code is required."})
    }
    if body.SlotID != nil {
        return h.createBySlotID(c, body)
    }
    return h.createByRange(c, body)
}

// createBySlotID books exactly one slot identified by id.
func (h *BookingHandler) createBySlotID(c echo.Context, body bookingRequest) error {
    if *body.SlotID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid Slot ID provided (must be a positive number)."})
    }
    slotID := *body.SlotID
    ctx := c.Request().Context()

    tx, err := h.SlotRepo.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    slot, err := h.SlotRepo.GetTx(ctx, tx, slotID)
    if err != nil {
        if errors.Is(err, repository.ErrSlotNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Availability slot not found."})
        }
        log.Errorf("failed to load slot %d: %v", slotID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error checking slot availability."})
    }
    if slot.IsBooked {
        return c.JSON(http.StatusConflict, echo.Map{"error": "Sorry, the time slot is no longer available."})
    }

    code, err := h.BookingRepo.ResolveVisitorCodeTx(ctx, tx, body.FriendCode)
    if err != nil {
        if errors.Is(err, repository.ErrCodeExhausted) {
            log.Errorf("visitor code generation exhausted for friend code %q", body.FriendCode)
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate unique visitor code. Please try again."})
        }
        log.Errorf("failed to resolve visitor code: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error checking visitor history."})
    }

    // Guarded update: the read above said the slot was free, but only
    // the affected-row count decides who wins a race.
    if err := h.SlotRepo.BookByIDTx(ctx, tx, slotID); err != nil {
        if errors.Is(err, repository.ErrSlotTaken) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "Booking conflict detected during update. The slot may have just been booked by someone else. Please try again."})
        }
        log.Errorf("failed to book slot %d: %v", slotID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error updating slot status."})
    }

    booking := &model.Booking{
        VisitorBookingCode: code,
        VisitorFriendCode:  body.FriendCode,
        VisitorMessage:     body.Message,
        StartTime:          slot.StartTime,
        EndTime:            slot.EndTime,
    }
    if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
        log.Errorf("failed to insert booking for slot %d: %v", slotID, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error creating booking record."})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error finalizing booking."})
    }
    committed = true

    h.publishConfirmed(booking, 1)
    return c.JSON(http.StatusCreated, echo.Map{
        "message":            "Booking successful!",
        "visitorBookingCode": code,
    })
}

// createByRange books every slot whose start time falls in the
// requested [start, end) range, all or nothing.
func (h *BookingHandler) createByRange(c echo.Context, body bookingRequest) error {
    if body.BookingStartTime == "" || body.BookingEndTime == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking start time, end time, and friend code are required."})
    }
    start, err := timeslot.ParseWallClock(body.BookingStartTime)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format provided for booking."})
    }
    end, err := timeslot.ParseWallClock(body.BookingEndTime)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format provided for booking."})
    }
    if !end.After(start) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking end time must be after start time."})
    }
    expected, aligned := timeslot.Count(start, end)
    if !aligned {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Booking range must be a multiple of 30 minutes."})
    }
    span := timeslot.Range{Start: start, End: end}
    ctx := c.Request().Context()

    tx, err := h.SlotRepo.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // The whole request fails if even one covered slot is taken; no
    // partial booking.
    booked, err := h.SlotRepo.AnyBookedInRangeTx(ctx, tx, span)
    if err != nil {
        log.Errorf("failed to check range availability: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error checking availability."})
    }
    if booked {
        return c.JSON(http.StatusConflict, echo.Map{"error": "Time slot conflict. At least part of the requested time is already booked."})
    }

    ids, err := h.SlotRepo.FreeSlotIDsInRangeTx(ctx, tx, span)
    if err != nil {
        log.Errorf("failed to fetch slots to book: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error fetching slots to book."})
    }
    // A shortfall here means part of the range was never published.
    if len(ids) != expected {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "The requested time range is not fully available or doesn't align with existing 30-min slots."})
    }

    code, err := h.BookingRepo.ResolveVisitorCodeTx(ctx, tx, body.FriendCode)
    if err != nil {
        if errors.Is(err, repository.ErrCodeExhausted) {
            log.Errorf("visitor code generation exhausted for friend code %q", body.FriendCode)
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to generate unique visitor code. Please try again."})
        }
        log.Errorf("failed to resolve visitor code: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error checking visitor history."})
    }

    if err := h.SlotRepo.BookByIDsTx(ctx, tx, ids); err != nil {
        if errors.Is(err, repository.ErrSlotTaken) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "Booking conflict detected during update. Please try again."})
        }
        log.Errorf("failed to book slots %v: %v", ids, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error updating slot status."})
    }

    booking := &model.Booking{
        VisitorBookingCode: code,
        VisitorFriendCode:  body.FriendCode,
        VisitorMessage:     body.Message,
        StartTime:          start,
        EndTime:            end,
    }
    if err := h.BookingRepo.CreateTx(ctx, tx, booking); err != nil {
        log.Errorf("failed to insert booking: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error creating booking record."})
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error finalizing booking."})
    }
    committed = true

    h.publishConfirmed(booking, expected)
    return c.JSON(http.StatusCreated, echo.Map{
        "message":            "Booking successful!",
        "visitorBookingCode": code,
        "bookingId":          booking.ID,
    })
}

// publishConfirmed emits a booking.confirmed event after commit.
// Failures are logged inside the publisher and ignored: the booking
// is already durable.
func (h *BookingHandler) publishConfirmed(b *model.Booking, slotCount int) {
    if !h.PublishEvents {
        return
    }
    ev := queue.BookingConfirmedEvent{
        EventID:            uuid.NewString(),
        BookingID:          b.ID,
        VisitorBookingCode: b.VisitorBookingCode,
        VisitorFriendCode:  b.VisitorFriendCode,
        StartTime:          b.StartTime.UTC().Format(time.RFC3339),
        EndTime:            b.EndTime.UTC().Format(time.RFC3339),
        SlotCount:          slotCount,
        ConfirmedAt:        time.Now().UTC().Format(time.RFC3339),
    }
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = queue_publisher.PublishBookingConfirmed(ctx, ev)
}
