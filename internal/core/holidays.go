package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"timesheet.service/internal/core/model"
	"timesheet.service/internal/core/timerange"
	"timesheet.service/internal/ports/repository"
)

// ErrNotLeaveType rejects a working day type in a holiday plan.
var ErrNotLeaveType = errors.New("day type is not a leave type")

// dayRemove in a holiday plan deletes the day's entry.
const dayRemove timerange.DayType = "EMPTY"

// HolidayChanges counts what MassHolidays did to the month.
type HolidayChanges struct {
	Added   int `json:"added"`
	Changed int `json:"changed"`
	Removed int `json:"removed"`
}

// MassHolidays applies a month's holiday plan. Each day of the month maps to
// a leave type, or to "" or EMPTY to clear the day. A day that already has an
// entry is turned into the given leave. The whole plan is validated before
// anything is written, and no notifications are published.
func (s *EntryService) MassHolidays(ctx context.Context, employeeID string, year, month int, days map[int]timerange.DayType) (HolidayChanges, error) {
	var changes HolidayChanges

	if employeeID == "" {
		return changes, ErrMissingEmployee
	}
	if month < 1 || month > 12 || year < 1 {
		return changes, fmt.Errorf("%w: %04d-%02d", ErrInvalidDate, year, month)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()

	plan := make(map[int]timerange.DayType, len(days))
	order := make([]int, 0, len(days))
	for day, code := range days {
		if day < 1 || day > last {
			return changes, fmt.Errorf("%w: day %d of %04d-%02d", ErrInvalidDate, day, year, month)
		}
		dt, err := planDayType(code)
		if err != nil {
			return changes, fmt.Errorf("day %d: %w", day, err)
		}
		plan[day] = dt
		order = append(order, day)
	}
	sort.Ints(order)

	start, end, brk := timerange.LeaveSentinel()
	for _, day := range order {
		date := first.AddDate(0, 0, day-1)
		dt := plan[day]

		if dt == dayRemove {
			existing, err := s.repo.FindEntryByDate(ctx, employeeID, date)
			if err != nil {
				return changes, fmt.Errorf("failed to look up %s: %w", date.Format(dateLayout), err)
			}
			if existing == nil {
				continue
			}
			if err := s.repo.DeleteEntry(ctx, employeeID, existing.ID); err != nil {
				return changes, fmt.Errorf("failed to delete %s: %w", date.Format(dateLayout), err)
			}
			changes.Removed++
			continue
		}

		entry := &model.TrackingEntry{
			EmployeeID:     employeeID,
			EntryDate:      date,
			StartMinute:    start.Minutes(),
			EndMinute:      end.Minutes(),
			BreakMinutes:   brk.Minutes(),
			DayType:        dt,
			OvertimeStatus: model.StatusNone,
			EmailStatus:    model.StatusNone,
		}
		_, err := s.repo.CreateEntry(ctx, entry)
		if err == nil {
			changes.Added++
			continue
		}
		if !errors.Is(err, repository.ErrDuplicateEntry) {
			return changes, fmt.Errorf("failed to create %s: %w", date.Format(dateLayout), err)
		}

		existing, err := s.repo.FindEntryByDate(ctx, employeeID, date)
		if err != nil {
			return changes, fmt.Errorf("failed to look up %s: %w", date.Format(dateLayout), err)
		}
		if existing == nil {
			return changes, fmt.Errorf("%w: %s", repository.ErrEntryNotFound, date.Format(dateLayout))
		}
		entry.ID = existing.ID
		entry.Comments = existing.Comments
		if err := s.repo.UpdateEntry(ctx, entry); err != nil {
			return changes, fmt.Errorf("failed to update %s: %w", date.Format(dateLayout), err)
		}
		changes.Changed++
	}

	log.Ctx(ctx).Info().
		Str("employee_id", employeeID).
		Int("added", changes.Added).
		Int("changed", changes.Changed).
		Int("removed", changes.Removed).
		Msg("Holiday plan applied")
	return changes, nil
}

func planDayType(code timerange.DayType) (timerange.DayType, error) {
	raw := strings.TrimSpace(string(code))
	if raw == "" || strings.EqualFold(raw, string(dayRemove)) {
		return dayRemove, nil
	}
	dt, err := timerange.ParseDayType(raw)
	if err != nil {
		return "", err
	}
	leave, _ := timerange.IsLeaveType(dt)
	if !leave {
		return "", fmt.Errorf("%w: %s", ErrNotLeaveType, dt)
	}
	return dt, nil
}
