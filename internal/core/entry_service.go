package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"timesheet.service/internal/core/model"
	"timesheet.service/internal/core/timerange"
	"timesheet.service/internal/ports/messaging"
	"timesheet.service/internal/ports/repository"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate     = errors.New("invalid entry date")
	ErrMissingEmployee = errors.New("employee id is required")
	ErrSelfLink        = errors.New("you cannot link to the same day")
	ErrLinkNotFound    = errors.New("linked day has no entry")
)

type EntryService struct {
	repo     repository.Repository
	producer messaging.Publisher
	policy   OvertimePolicy
	now      func() time.Time
}

// NewEntryService creates the application service, wiring up the database
// repository, the message queue producer and the overtime policy.
func NewEntryService(repo repository.Repository, p messaging.Publisher, policy OvertimePolicy) *EntryService {
	return &EntryService{
		repo:     repo,
		producer: p,
		policy:   policy,
		now:      time.Now,
	}
}

// notifications records which follow-up messages a saved entry triggers.
// The skip flags leave out a message that was already published.
type notifications struct {
	holiday      bool
	overtime     bool
	undertime    bool
	diffHours    float64
	skipEmail    bool
	skipOvertime bool
}

// approvalRequired reports whether the entry waits for an approver before
// any message is published.
func (n notifications) approvalRequired() bool {
	return n.overtime || n.undertime
}

// AddEntry validates a submission, stores it and publishes its notifications.
func (s *EntryService) AddEntry(ctx context.Context, in model.EntryInput) (*model.TrackingEntry, error) {
	entry, notes, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			log.Ctx(ctx).Info().Str("employee_id", entry.EmployeeID).Msg("Duplicate entry")
			return nil, err
		}
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	entry.ID = id

	if notes.approvalRequired() {
		log.Ctx(ctx).Info().Int64("entry_id", id).Msg("Entry awaiting approval")
		return entry, nil
	}
	if err := s.notify(ctx, entry, notes); err != nil {
		return entry, err
	}
	return entry, nil
}

// ChangeEntry replaces the contents of an existing entry owned by the employee.
func (s *EntryService) ChangeEntry(ctx context.Context, id int64, in model.EntryInput) (*model.TrackingEntry, error) {
	entry, notes, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) || errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	if notes.approvalRequired() {
		log.Ctx(ctx).Info().Int64("entry_id", id).Msg("Entry awaiting approval")
		return entry, nil
	}
	if err := s.notify(ctx, entry, notes); err != nil {
		return entry, err
	}
	return entry, nil
}

// DeleteEntry removes one of the employee's entries.
func (s *EntryService) DeleteEntry(ctx context.Context, employeeID string, id int64) error {
	if employeeID == "" {
		return ErrMissingEmployee
	}
	return s.repo.DeleteEntry(ctx, employeeID, id)
}

// ListMonth returns the employee's entries for a calendar month.
func (s *EntryService) ListMonth(ctx context.Context, employeeID string, year, month int) ([]model.TrackingEntry, error) {
	if employeeID == "" {
		return nil, ErrMissingEmployee
	}
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("%w: %04d-%02d", ErrInvalidDate, year, month)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return s.repo.ListEntries(ctx, employeeID, from, from.AddDate(0, 1, 0))
}

// prepare turns raw form input into an entry ready to be stored.
func (s *EntryService) prepare(ctx context.Context, in model.EntryInput) (*model.TrackingEntry, notifications, error) {
	var notes notifications

	if in.EmployeeID == "" {
		return nil, notes, ErrMissingEmployee
	}
	date, err := time.Parse(dateLayout, in.EntryDate)
	if err != nil {
		return nil, notes, fmt.Errorf("%w: %q", ErrInvalidDate, in.EntryDate)
	}

	ev, err := EvaluateTimes(in.DayType, in.StartTime, in.EndTime, in.Breaks)
	if err != nil {
		return nil, notes, err
	}

	dayType := ev.DayType
	if dayType == timerange.DayWork && isWeekend(date) {
		dayType = timerange.DaySaturday
	}

	entry := &model.TrackingEntry{
		EmployeeID:     in.EmployeeID,
		EntryDate:      date,
		StartMinute:    ev.Start.Minutes(),
		EndMinute:      ev.End.Minutes(),
		BreakMinutes:   ev.Break.Minutes(),
		DayType:        dayType,
		Comments:       in.Comments,
		WorkedMinutes:  ev.Worked.TotalMinutes(),
		OvertimeStatus: model.StatusNone,
		EmailStatus:    model.StatusNone,
	}

	if in.LinkDate != "" {
		linkID, err := s.resolveLink(ctx, in.EmployeeID, date, in.LinkDate)
		if err != nil {
			return nil, notes, err
		}
		entry.LinkID = &linkID
	}

	notes, err = s.classify(entry)
	if err != nil {
		return nil, notes, err
	}
	switch {
	case notes.approvalRequired():
		entry.OvertimeStatus = model.StatusAwaitingApproval
	case notes.holiday:
		entry.EmailStatus = model.StatusPending
	}
	return entry, notes, nil
}

// classify works out the notifications of a stored or prepared entry.
// Public holiday work, weekend work and linked days always count as overtime.
func (s *EntryService) classify(entry *model.TrackingEntry) (notifications, error) {
	var notes notifications

	leave, err := timerange.IsLeaveType(entry.DayType)
	if err != nil {
		return notes, err
	}
	if leave {
		notes.holiday = entry.DayType == timerange.DayHoliday
		return notes, nil
	}

	start, end, brk := entry.Start(), entry.End(), entry.Break()
	over, under, err := s.policy.Classify(entry.DayType, start, end, brk)
	if err != nil {
		return notes, err
	}
	switch entry.DayType {
	case timerange.DayPublicHolWorked, timerange.DaySaturday, timerange.DayLinked:
		over = true
	}
	notes.overtime = over
	notes.undertime = under && s.policy.UndertimeEnabled
	if notes.overtime || notes.undertime {
		notes.diffHours, _ = s.policy.TimeDifference(start, end, brk)
	}
	return notes, nil
}

func (s *EntryService) resolveLink(ctx context.Context, employeeID string, date time.Time, linkDate string) (int64, error) {
	target, err := time.Parse(dateLayout, linkDate)
	if err != nil {
		return 0, fmt.Errorf("%w: link date %q", ErrInvalidDate, linkDate)
	}
	if target.Equal(date) {
		return 0, ErrSelfLink
	}
	linked, err := s.repo.FindEntryByDate(ctx, employeeID, target)
	if err != nil {
		return 0, fmt.Errorf("failed to look up linked entry: %w", err)
	}
	if linked == nil {
		return 0, fmt.Errorf("%w: %s", ErrLinkNotFound, linkDate)
	}
	return linked.ID, nil
}

// notify publishes the follow-up messages for a stored entry. A holiday
// only sends its approval mail; overtime takes precedence over undertime.
func (s *EntryService) notify(ctx context.Context, entry *model.TrackingEntry, notes notifications) error {
	now := s.now()
	date := entry.EntryDate.Format(dateLayout)
	worked := entry.Worked()

	email := messaging.EmailEvent{
		EntryID:    entry.ID,
		EmployeeID: entry.EmployeeID,
		EntryDate:  date,
		Duration:   worked.String(),
		OccurredAt: now,
	}

	switch {
	case notes.holiday:
		email.Kind = messaging.EmailHolidayApproved
	case notes.overtime:
		email.Kind = messaging.EmailOvertime
	case notes.undertime:
		email.Kind = messaging.EmailUndertime
	default:
		return nil
	}

	if !notes.skipEmail {
		if err := s.producer.PublishEmail(ctx, email); err != nil {
			log.Ctx(ctx).Error().Err(err).Int64("entry_id", entry.ID).Msg("Failed to publish email event")
			s.markFailed(ctx, entry, s.repo.UpdateEmailStatus)
			entry.EmailStatus = model.StatusFailed
		}
	}

	if !notes.overtime || notes.skipOvertime {
		return nil
	}

	err := s.producer.PublishOvertime(ctx, messaging.OvertimeEvent{
		EntryID:       entry.ID,
		EmployeeID:    entry.EmployeeID,
		EntryDate:     date,
		DayType:       string(entry.DayType),
		HoursWorked:   worked.InHours(),
		Duration:      worked.String(),
		DifferenceHrs: notes.diffHours,
		OccurredAt:    now,
	})
	if err != nil {
		s.markFailed(ctx, entry, s.repo.UpdateOvertimeStatus)
		entry.OvertimeStatus = model.StatusFailed
		return fmt.Errorf("failed to publish overtime event to queue: %w", err)
	}
	return nil
}

// markFailed records that a message for the entry was never queued, so an
// approver can publish it again with ApproveEntry.
func (s *EntryService) markFailed(ctx context.Context, entry *model.TrackingEntry,
	update func(ctx context.Context, id int64, status model.ProcessingStatus, retryCount int) error) {
	if err := update(ctx, entry.ID, model.StatusFailed, 0); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("entry_id", entry.ID).Msg("Failed to mark entry as failed")
	}
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
