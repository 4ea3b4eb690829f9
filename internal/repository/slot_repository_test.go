package repository

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/grizzco/salmon-run-scheduler/internal/timeslot"
)

func newMock(t *testing.T) (*SlotRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock.New: %v", err)
    }
    t.Cleanup(func() { db.Close() })
    return NewSlotRepo(db), mock
}

func testRanges(n int) []timeslot.Range {
    start := time.Date(2024, 7, 29, 10, 0, 0, 0, time.UTC)
    out := make([]timeslot.Range, n)
    for i := range out {
        s := start.Add(time.Duration(i) * timeslot.Duration)
        out[i] = timeslot.Range{Start: s, End: s.Add(timeslot.Duration)}
    }
    return out
}

func TestPublishRanges(t *testing.T) {
    repo, mock := newMock(t)
    ranges := testRanges(2)
    mock.ExpectExec("INSERT IGNORE INTO availability_slots").
        WithArgs(ranges[0].Start, ranges[0].End, ranges[1].Start, ranges[1].End).
        WillReturnResult(sqlmock.NewResult(0, 2))
    n, err := repo.PublishRanges(context.Background(), ranges)
    if err != nil {
        t.Fatalf("PublishRanges: %v", err)
    }
    if n != 2 {
        t.Errorf("processed = %d, want 2", n)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Error(err)
    }
}

func TestPublishRangesAllDuplicates(t *testing.T) {
    // Republishing an already published block affects zero rows but
    // still reports the full batch as processed.
    repo, mock := newMock(t)
    ranges := testRanges(2)
    mock.ExpectExec("INSERT IGNORE INTO availability_slots").
        WillReturnResult(sqlmock.NewResult(0, 0))
    n, err := repo.PublishRanges(context.Background(), ranges)
    if err != nil {
        t.Fatalf("PublishRanges: %v", err)
    }
    if n != 2 {
        t.Errorf("processed = %d, want 2", n)
    }
}

func TestPublishRangesEmpty(t *testing.T) {
    repo, _ := newMock(t)
    n, err := repo.PublishRanges(context.Background(), nil)
    if err != nil || n != 0 {
        t.Errorf("PublishRanges(nil) = (%d, %v), want (0, nil)", n, err)
    }
}

func TestPublishRangesStorageError(t *testing.T) {
    repo, mock := newMock(t)
    boom := errors.New("connection lost")
    mock.ExpectExec("INSERT IGNORE INTO availability_slots").WillReturnError(boom)
    if _, err := repo.PublishRanges(context.Background(), testRanges(1)); !errors.Is(err, boom) {
        t.Errorf("err = %v, want %v", err, boom)
    }
}

func TestListAvailable(t *testing.T) {
    repo, mock := newMock(t)
    s1 := time.Date(2024, 7, 29, 10, 0, 0, 0, time.UTC)
    rows := sqlmock.NewRows([]string{"id", "start_time", "end_time"}).
        AddRow(1, s1, s1.Add(timeslot.Duration)).
        AddRow(2, s1.Add(timeslot.Duration), s1.Add(2*timeslot.Duration))
    mock.ExpectQuery("SELECT id, start_time, end_time").WillReturnRows(rows)
    slots, err := repo.ListAvailable(context.Background())
    if err != nil {
        t.Fatalf("ListAvailable: %v", err)
    }
    if len(slots) != 2 {
        t.Fatalf("got %d slots, want 2", len(slots))
    }
    if slots[0].ID != 1 || !slots[0].StartTime.Equal(s1) {
        t.Errorf("first slot = %+v", slots[0])
    }
}

func TestGetTxNotFound(t *testing.T) {
    repo, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectQuery("SELECT id, start_time, end_time, is_booked FROM availability_slots").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "start_time", "end_time", "is_booked"}))
    tx, _ := repo.DB().Begin()
    if _, err := repo.GetTx(context.Background(), tx, 7); !errors.Is(err, ErrSlotNotFound) {
        t.Errorf("err = %v, want ErrSlotNotFound", err)
    }
}

func TestBookByIDTx(t *testing.T) {
    repo, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectExec("UPDATE availability_slots SET is_booked = TRUE").
        WithArgs(uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    tx, _ := repo.DB().Begin()
    if err := repo.BookByIDTx(context.Background(), tx, 3); err != nil {
        t.Errorf("BookByIDTx: %v", err)
    }
}

func TestBookByIDTxConflict(t *testing.T) {
    // The guarded predicate catches a race: the read said free, the
    // update found it already booked.
    repo, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectExec("UPDATE availability_slots SET is_booked = TRUE").
        WithArgs(uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    tx, _ := repo.DB().Begin()
    if err := repo.BookByIDTx(context.Background(), tx, 3); !errors.Is(err, ErrSlotTaken) {
        t.Errorf("err = %v, want ErrSlotTaken", err)
    }
}

func TestBookByIDsTxShortfall(t *testing.T) {
    repo, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectExec("UPDATE availability_slots SET is_booked = TRUE").
        WithArgs(uint64(1), uint64(2)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    tx, _ := repo.DB().Begin()
    if err := repo.BookByIDsTx(context.Background(), tx, []uint64{1, 2}); !errors.Is(err, ErrSlotTaken) {
        t.Errorf("err = %v, want ErrSlotTaken", err)
    }
}

func TestAnyBookedInRangeTx(t *testing.T) {
    repo, mock := newMock(t)
    rg := testRanges(2)
    span := timeslot.Range{Start: rg[0].Start, End: rg[1].End}

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT id FROM availability_slots").
        WithArgs(span.Start, span.End).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
    tx, _ := repo.DB().Begin()
    booked, err := repo.AnyBookedInRangeTx(context.Background(), tx, span)
    if err != nil || !booked {
        t.Errorf("AnyBookedInRangeTx = (%v, %v), want (true, nil)", booked, err)
    }

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT id FROM availability_slots").
        WithArgs(span.Start, span.End).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
    tx2, _ := repo.DB().Begin()
    booked, err = repo.AnyBookedInRangeTx(context.Background(), tx2, span)
    if err != nil || booked {
        t.Errorf("AnyBookedInRangeTx = (%v, %v), want (false, nil)", booked, err)
    }
}
