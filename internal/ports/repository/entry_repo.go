package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"timesheet.service/internal/core/model"
	"timesheet.service/internal/core/timerange"
)

var (
	ErrDuplicateEntry = errors.New("there is a duplicate entry for this value")
	ErrEntryNotFound  = errors.New("entry not found")
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// Repository contract
type Repository interface {
	CreateEntry(ctx context.Context, e *model.TrackingEntry) (int64, error)
	UpdateEntry(ctx context.Context, e *model.TrackingEntry) error
	DeleteEntry(ctx context.Context, employeeID string, id int64) error
	GetEntry(ctx context.Context, id int64) (*model.TrackingEntry, error)
	FindEntryByDate(ctx context.Context, employeeID string, date time.Time) (*model.TrackingEntry, error)
	ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]model.TrackingEntry, error)
	UpdateOvertimeStatus(ctx context.Context, id int64, status model.ProcessingStatus, retryCount int) error
	UpdateEmailStatus(ctx context.Context, id int64, status model.ProcessingStatus, retryCount int) error
}

// EntryRepository is the concrete implementation for a PostgreSQL database.
type EntryRepository struct {
	DB *sql.DB
}

// NewEntryRepository create new instance
func NewEntryRepository(db *sql.DB) Repository {
	return &EntryRepository{DB: db}
}

const entryColumns = `id, employee_id, entry_date, start_minute, end_minute, break_minutes, daytype,
	comments, link_id, worked_minutes, overtime_status, overtime_retry_count, email_status, email_retry_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.TrackingEntry, error) {
	var (
		e       model.TrackingEntry
		daytype string
		linkID  sql.NullInt64
	)
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.EntryDate, &e.StartMinute, &e.EndMinute, &e.BreakMinutes, &daytype,
		&e.Comments, &linkID, &e.WorkedMinutes, &e.OvertimeStatus, &e.OvertimeRetryCount, &e.EmailStatus, &e.EmailRetryCount,
	)
	if err != nil {
		return nil, err
	}
	e.DayType = timerange.DayType(daytype)
	if linkID.Valid {
		id := linkID.Int64
		e.LinkID = &id
	}
	return &e, nil
}

func tagEmployee(ctx context.Context, employeeID string) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.employeeId", employeeID))
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEntry
	}
	return err
}

// CreateEntry inserts a tracking entry and returns its id.
func (r *EntryRepository) CreateEntry(ctx context.Context, e *model.TrackingEntry) (int64, error) {
	tagEmployee(ctx, e.EmployeeID)

	var id int64
	query := `INSERT INTO tracking_entries (employee_id, entry_date, start_minute, end_minute, break_minutes,
	              daytype, comments, link_id, worked_minutes, overtime_status, overtime_retry_count, email_status, email_retry_count)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, 0) RETURNING id`

	err := r.DB.QueryRowContext(ctx, query,
		e.EmployeeID, e.EntryDate, e.StartMinute, e.EndMinute, e.BreakMinutes,
		string(e.DayType), e.Comments, e.LinkID, e.WorkedMinutes, e.OvertimeStatus, e.EmailStatus,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}

	return id, nil
}

// UpdateEntry overwrites the editable fields of an entry owned by e.EmployeeID.
func (r *EntryRepository) UpdateEntry(ctx context.Context, e *model.TrackingEntry) error {
	tagEmployee(ctx, e.EmployeeID)

	query := `UPDATE tracking_entries
              SET entry_date = $1,
                  start_minute = $2,
                  end_minute = $3,
                  break_minutes = $4,
                  daytype = $5,
                  comments = $6,
                  link_id = $7,
                  worked_minutes = $8,
                  overtime_status = $9,
                  email_status = $10
              WHERE id = $11 AND employee_id = $12`

	res, err := r.DB.ExecContext(ctx, query,
		e.EntryDate, e.StartMinute, e.EndMinute, e.BreakMinutes, string(e.DayType), e.Comments,
		e.LinkID, e.WorkedMinutes, e.OvertimeStatus, e.EmailStatus, e.ID, e.EmployeeID,
	)
	if err != nil {
		return translateError(err)
	}
	return expectRow(res)
}

// DeleteEntry removes an entry; only the owning employee may delete it.
func (r *EntryRepository) DeleteEntry(ctx context.Context, employeeID string, id int64) error {
	tagEmployee(ctx, employeeID)

	res, err := r.DB.ExecContext(ctx, `DELETE FROM tracking_entries WHERE id = $1 AND employee_id = $2`, id, employeeID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// GetEntry fetches a complete tracking_entries record by its ID.
func (r *EntryRepository) GetEntry(ctx context.Context, id int64) (*model.TrackingEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM tracking_entries WHERE id = $1`

	e, err := scanEntry(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	return e, err
}

// FindEntryByDate returns the employee's entry for a date, or nil if there is none.
func (r *EntryRepository) FindEntryByDate(ctx context.Context, employeeID string, date time.Time) (*model.TrackingEntry, error) {
	tagEmployee(ctx, employeeID)

	query := `SELECT ` + entryColumns + ` FROM tracking_entries WHERE employee_id = $1 AND entry_date = $2`

	e, err := scanEntry(r.DB.QueryRowContext(ctx, query, employeeID, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// ListEntries returns the employee's entries with from <= entry_date < to, ordered by date.
func (r *EntryRepository) ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]model.TrackingEntry, error) {
	tagEmployee(ctx, employeeID)

	query := `SELECT ` + entryColumns + `
              FROM tracking_entries
              WHERE employee_id = $1 AND entry_date >= $2 AND entry_date < $3
              ORDER BY entry_date`

	rows, err := r.DB.QueryContext(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.TrackingEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// UpdateOvertimeStatus updates the status and retry count for an overtime job.
func (r *EntryRepository) UpdateOvertimeStatus(ctx context.Context, id int64, status model.ProcessingStatus, retryCount int) error {
	query := `UPDATE tracking_entries
              SET overtime_status = $1,
                  overtime_retry_count = $2
              WHERE id = $3`

	_, err := r.DB.ExecContext(ctx, query, status, retryCount, id)
	return err
}

// UpdateEmailStatus updates the status and retry count for an email-related job.
func (r *EntryRepository) UpdateEmailStatus(ctx context.Context, id int64, status model.ProcessingStatus, retryCount int) error {
	query := `UPDATE tracking_entries SET email_status = $1, email_retry_count = $2 WHERE id = $3`
	_, err := r.DB.ExecContext(ctx, query, status, retryCount, id)
	return err
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEntryNotFound
	}
	return nil
}
