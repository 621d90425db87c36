package core

import (
	"timesheet.service/internal/core/timerange"
)

// Evaluation is the validated time portion of a form submission.
type Evaluation struct {
	DayType timerange.DayType
	Leave   bool
	Start   timerange.ClockTime
	End     timerange.ClockTime
	Break   timerange.BreakLength
	Worked  timerange.Duration
}

// EvaluateTimes validates the raw time fields of a submission. Leave day
// types ignore the supplied fields and take the fixed sentinel values with a
// zero worked duration; every other type must carry a valid start, end and
// break.
func EvaluateTimes(dayType, start, end, breaks string) (Evaluation, error) {
	code, err := timerange.ParseDayType(dayType)
	if err != nil {
		return Evaluation{}, err
	}
	leave, err := timerange.IsLeaveType(code)
	if err != nil {
		return Evaluation{}, err
	}

	ev := Evaluation{DayType: code, Leave: leave}
	if leave {
		ev.Start, ev.End, ev.Break = timerange.LeaveSentinel()
		return ev, nil
	}

	if ev.Start, err = timerange.ParseClockTime(start); err != nil {
		return Evaluation{}, err
	}
	if ev.End, err = timerange.ParseClockTime(end); err != nil {
		return Evaluation{}, err
	}
	if ev.Break, err = timerange.ParseBreakLength(breaks); err != nil {
		return Evaluation{}, err
	}
	if ev.Worked, err = timerange.ComputeDuration(ev.Start, ev.End, ev.Break); err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}
