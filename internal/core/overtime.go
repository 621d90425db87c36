package core

import (
	"fmt"
	"math"

	"timesheet.service/internal/core/timerange"
)

// OvertimePolicy decides whether a working entry deviates enough from the
// contracted shift to need approval.
type OvertimePolicy struct {
	ShiftLength      timerange.Duration
	RegularBreak     timerange.BreakLength
	ThresholdHours   float64
	UndertimeEnabled bool
}

// NewOvertimePolicy builds a policy from "HH:MM" shift and break strings.
func NewOvertimePolicy(shift, regularBreak string, thresholdHours float64, undertime bool) (OvertimePolicy, error) {
	s, err := timerange.ParseBreakLength(shift)
	if err != nil {
		return OvertimePolicy{}, fmt.Errorf("parsing shift length: %w", err)
	}
	b, err := timerange.ParseBreakLength(regularBreak)
	if err != nil {
		return OvertimePolicy{}, fmt.Errorf("parsing regular break: %w", err)
	}
	if thresholdHours < 0 {
		return OvertimePolicy{}, fmt.Errorf("%w: negative overtime threshold", timerange.ErrInvalidInput)
	}
	shiftLength, _ := timerange.DurationFromMinutes(s.Minutes())
	return OvertimePolicy{
		ShiftLength:      shiftLength,
		RegularBreak:     b,
		ThresholdHours:   thresholdHours,
		UndertimeEnabled: undertime,
	}, nil
}

// NormalizedBreak returns the shorter of the actual break and the regular one.
// Extra break time taken beyond the regular allowance does not reduce
// working time for overtime purposes.
func (p OvertimePolicy) NormalizedBreak(actual timerange.BreakLength) timerange.BreakLength {
	if actual.Minutes() > p.RegularBreak.Minutes() {
		return p.RegularBreak
	}
	return actual
}

// TimeDifference returns working hours, rounded down to the half hour,
// minus the shift length.
func (p OvertimePolicy) TimeDifference(start, end timerange.ClockTime, actual timerange.BreakLength) (float64, error) {
	worked, err := timerange.ComputeDuration(start, end, p.NormalizedBreak(actual))
	if err != nil {
		return 0, err
	}
	return RoundDown(worked.InHours(), 0.5) - p.ShiftLength.InHours(), nil
}

// Classify reports whether an entry of the given type is overtime or undertime.
// Only ordinary work days are compared against the shift length.
func (p OvertimePolicy) Classify(dayType timerange.DayType, start, end timerange.ClockTime, actual timerange.BreakLength) (overtime, undertime bool, err error) {
	if dayType != timerange.DayWork {
		return false, false, nil
	}
	diff, err := p.TimeDifference(start, end, actual)
	if err != nil {
		return false, false, err
	}
	return diff >= p.ThresholdHours, diff <= -p.ThresholdHours, nil
}

// RoundDown rounds num down to a multiple of step, towards zero for negatives.
func RoundDown(num, step float64) float64 {
	if num < 0 {
		return -math.Floor(-num/step) * step
	}
	return math.Floor(num/step) * step
}
