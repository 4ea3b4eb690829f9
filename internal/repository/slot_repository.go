package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/grizzco/salmon-run-scheduler/internal/model"
    "github.com/grizzco/salmon-run-scheduler/internal/timeslot"
)

// SlotRepo provides data access to the availability_slots table.
// Slots are written in bulk by the availability publisher and flipped
// to booked by the booking flow.  All timestamps are stored in UTC;
// the connection must be opened with loc=UTC so DATETIME values scan
// into UTC time.Time values.
type SlotRepo struct {
    db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning both slot and booking updates.
func (r *SlotRepo) DB() *sql.DB { return r.db }

// PublishRanges inserts one availability_slots row per range in a
// single INSERT IGNORE statement.  A row whose start_time collides
// with an existing slot is silently skipped, which makes republishing
// an overlapping block idempotent: existing rows, including their
// is_booked flag, are never touched.  The multi-row statement is
// atomic, so a storage error leaves no partial batch behind.  It
// returns the number of ranges processed.
func (r *SlotRepo) PublishRanges(ctx context.Context, ranges []timeslot.Range) (int, error) {
    if len(ranges) == 0 {
        return 0, nil
    }
    query := `INSERT IGNORE INTO availability_slots (start_time, end_time, is_booked) VALUES `
    args := make([]interface{}, 0, len(ranges)*2)
    for i, rg := range ranges {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, FALSE)"
        args = append(args, rg.Start, rg.End)
    }
    if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
        return 0, err
    }
    return len(ranges), nil
}

// ListAvailable returns every unbooked slot ordered by start time
// ascending.  When no slots are free, an empty slice is returned.
func (r *SlotRepo) ListAvailable(ctx context.Context) ([]model.AvailabilitySlot, error) {
    const q = `SELECT id, start_time, end_time
               FROM availability_slots
               WHERE is_booked = FALSE
               ORDER BY start_time ASC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    slots := make([]model.AvailabilitySlot, 0)
    for rows.Next() {
        var s model.AvailabilitySlot
        if err := rows.Scan(&s.ID, &s.StartTime, &s.EndTime); err != nil {
            return nil, err
        }
        slots = append(slots, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return slots, nil
}

// GetTx loads a single slot by id within a transaction.  It returns
// ErrSlotNotFound when no slot with that id exists.
func (r *SlotRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.AvailabilitySlot, error) {
    const q = `SELECT id, start_time, end_time, is_booked FROM availability_slots WHERE id = ?`
    var s model.AvailabilitySlot
    err := tx.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.StartTime, &s.EndTime, &s.IsBooked)
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, ErrSlotNotFound
        }
        return nil, err
    }
    return &s, nil
}

// BookByIDTx marks one slot as booked with a guarded update.  The
// is_booked = FALSE predicate re-verifies availability at write time;
// when zero rows are affected another request won the slot between
// the caller's read and this write, and ErrSlotTaken is returned.
func (r *SlotRepo) BookByIDTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    const q = `UPDATE availability_slots SET is_booked = TRUE WHERE id = ? AND is_booked = FALSE`
    res, err := tx.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n != 1 {
        return ErrSlotTaken
    }
    return nil
}

// AnyBookedInRangeTx reports whether any slot with a start time in
// [start, end) is already booked.  The half-open comparison matches
// the slot intervals: a booking from 10:00 to 11:00 covers the 10:00
// and 10:30 slots but not the one starting at 11:00.
func (r *SlotRepo) AnyBookedInRangeTx(ctx context.Context, tx *sql.Tx, rg timeslot.Range) (bool, error) {
    const q = `SELECT id FROM availability_slots
               WHERE start_time >= ? AND start_time < ? AND is_booked = TRUE
               LIMIT 1`
    var id uint64
    err := tx.QueryRowContext(ctx, q, rg.Start, rg.End).Scan(&id)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// FreeSlotIDsInRangeTx returns the ids of all unbooked slots whose
// start time falls in [start, end), ordered by start time.
func (r *SlotRepo) FreeSlotIDsInRangeTx(ctx context.Context, tx *sql.Tx, rg timeslot.Range) ([]uint64, error) {
    const q = `SELECT id FROM availability_slots
               WHERE start_time >= ? AND start_time < ? AND is_booked = FALSE
               ORDER BY start_time ASC`
    rows, err := tx.QueryContext(ctx, q, rg.Start, rg.End)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return ids, nil
}

// BookByIDsTx marks every listed slot as booked in one guarded
// update and returns ErrSlotTaken unless exactly len(ids) rows were
// affected.  A shortfall means a concurrent booking claimed part of
// the range after the caller's availability read.
func (r *SlotRepo) BookByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
    if len(ids) == 0 {
        return nil
    }
    placeholders := make([]string, len(ids))
    args := make([]interface{}, len(ids))
    for i, id := range ids {
        placeholders[i] = "?"
        args[i] = id
    }
    query := `UPDATE availability_slots SET is_booked = TRUE
              WHERE id IN (` + strings.Join(placeholders, ",") + `) AND is_booked = FALSE`
    res, err := tx.ExecContext(ctx, query, args...)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n != int64(len(ids)) {
        return ErrSlotTaken
    }
    return nil
}
