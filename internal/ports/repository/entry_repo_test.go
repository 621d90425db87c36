package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"timesheet.service/internal/core/model"
	"timesheet.service/internal/core/timerange"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: ErrDuplicateEntry},
		{name: "other constraint", err: &pgconn.PgError{Code: "23503"}},
		{name: "plain error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			want := tt.want
			if want == nil {
				want = tt.err
			}
			if !errors.Is(got, want) {
				t.Errorf("translateError(%v) = %v, want %v", tt.err, got, want)
			}
		})
	}
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r) {
		return errors.New("column count mismatch")
	}
	for i, v := range r {
		switch d := dest[i].(type) {
		case *int64:
			*d = v.(int64)
		case *int:
			*d = v.(int)
		case *string:
			*d = v.(string)
		case *time.Time:
			*d = v.(time.Time)
		case *model.ProcessingStatus:
			*d = model.ProcessingStatus(v.(string))
		default:
			if err := scanNullable(dest[i], v); err != nil {
				return err
			}
		}
	}
	return nil
}

func scanNullable(dest, v any) error {
	type scanner interface{ Scan(any) error }
	s, ok := dest.(scanner)
	if !ok {
		return errors.New("unsupported destination")
	}
	return s.Scan(v)
}

func TestScanEntry(t *testing.T) {
	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	row := fakeRow{
		int64(3), "emp-1", date, 540, 1050, 30, "WKDAY",
		"late finish", int64(2), 480, "PENDING", 1, "COMPLETED", 0,
	}

	e, err := scanEntry(row)
	if err != nil {
		t.Fatalf("scanEntry failed: %v", err)
	}
	if e.ID != 3 || e.DayType != timerange.DayWork || e.WorkedMinutes != 480 {
		t.Errorf("unexpected entry %+v", e)
	}
	if e.LinkID == nil || *e.LinkID != 2 {
		t.Errorf("LinkID = %v, want 2", e.LinkID)
	}
	if e.OvertimeStatus != model.StatusPending || e.EmailStatus != model.StatusCompleted {
		t.Errorf("statuses = %s/%s", e.OvertimeStatus, e.EmailStatus)
	}
	if e.Start().String() != "09:00" || e.End().String() != "17:30" {
		t.Errorf("times = %s-%s", e.Start(), e.End())
	}

	row[8] = nil
	e, err = scanEntry(row)
	if err != nil {
		t.Fatalf("scanEntry failed: %v", err)
	}
	if e.LinkID != nil {
		t.Errorf("LinkID = %v, want nil", *e.LinkID)
	}
}

type fakeResult int64

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return int64(r), nil }

func TestExpectRow(t *testing.T) {
	if err := expectRow(fakeResult(1)); err != nil {
		t.Errorf("expectRow(1) = %v", err)
	}
	if err := expectRow(fakeResult(0)); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("expectRow(0) = %v, want ErrEntryNotFound", err)
	}
}
