package repository

import (
    "context"
    "database/sql"

    "github.com/grizzco/salmon-run-scheduler/internal/model"
    "github.com/grizzco/salmon-run-scheduler/internal/utils"
)

// codeAttempts bounds how many candidate codes are tried before the
// booking is failed with ErrCodeExhausted.
const codeAttempts = 5

// BookingRepo provides data access to the bookings ledger and the
// visitor code issuance scheme.  A booking's covered slots are not
// stored; they are derived from the booking's time range when
// needed, so this repository never touches availability_slots.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a booking within an existing transaction.  It
// populates the generated ID and server-assigned creation timestamp
// on the provided record.  The caller must commit or roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings
               (visitor_booking_code, visitor_friend_code, visitor_message, booking_start_time, booking_end_time)
               VALUES (?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, b.VisitorBookingCode, b.VisitorFriendCode, b.VisitorMessage, b.StartTime, b.EndTime)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Query back the row to pick up the DB-assigned timestamp.
    const sel = `SELECT booking_timestamp FROM bookings WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt)
}

// CodeForFriendCodeTx returns the visitor booking code previously
// minted for the given friend code, or "" when the visitor has no
// bookings yet.
func (r *BookingRepo) CodeForFriendCodeTx(ctx context.Context, tx *sql.Tx, friendCode string) (string, error) {
    const q = `SELECT visitor_booking_code FROM bookings WHERE visitor_friend_code = ? LIMIT 1`
    var code string
    err := tx.QueryRowContext(ctx, q, friendCode).Scan(&code)
    if err == sql.ErrNoRows {
        return "", nil
    }
    if err != nil {
        return "", err
    }
    return code, nil
}

// codeInUseTx reports whether any booking already carries the given
// visitor booking code.
func (r *BookingRepo) codeInUseTx(ctx context.Context, tx *sql.Tx, code string) (bool, error) {
    const q = `SELECT id FROM bookings WHERE visitor_booking_code = ? LIMIT 1`
    var id uint64
    err := tx.QueryRowContext(ctx, q, code).Scan(&id)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// ResolveVisitorCodeTx returns the confirmation code to use for a
// booking by the given friend code.  A visitor's first booking mints
// a fresh code; every later booking reuses it, making the code a
// durable identity token rather than a per-booking secret.  Minting
// retries on collision up to codeAttempts times and then fails with
// ErrCodeExhausted.
func (r *BookingRepo) ResolveVisitorCodeTx(ctx context.Context, tx *sql.Tx, friendCode string) (string, error) {
    existing, err := r.CodeForFriendCodeTx(ctx, tx, friendCode)
    if err != nil {
        return "", err
    }
    if existing != "" {
        return existing, nil
    }
    for attempt := 0; attempt < codeAttempts; attempt++ {
        candidate, err := utils.GenerateBookingCode()
        if err != nil {
            return "", err
        }
        taken, err := r.codeInUseTx(ctx, tx, candidate)
        if err != nil {
            return "", err
        }
        if !taken {
            return candidate, nil
        }
    }
    return "", ErrCodeExhausted
}
