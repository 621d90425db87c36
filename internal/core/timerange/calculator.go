package timerange

import (
	"fmt"
	"strconv"
)

// Duration is a computed worked length of time.
type Duration struct {
	Hours   int
	Minutes int
}

// DurationFromMinutes splits a non-negative minute count into hours and minutes.
func DurationFromMinutes(total int) (Duration, error) {
	if total < 0 {
		return Duration{}, fmt.Errorf("%w: negative duration %d minutes", ErrInvalidRange, total)
	}
	return Duration{Hours: total / minutesPerHour, Minutes: total % minutesPerHour}, nil
}

// TotalMinutes returns the duration in minutes.
func (d Duration) TotalMinutes() int {
	return d.Hours*minutesPerHour + d.Minutes
}

// InHours returns the duration as fractional hours.
func (d Duration) InHours() float64 {
	return float64(d.TotalMinutes()) / minutesPerHour
}

// String renders the duration as zero-padded HH:MM.
func (d Duration) String() string {
	return Pad(d.Hours) + ":" + Pad(d.Minutes)
}

// ComputeDuration returns end minus start minus the break. The start and end
// must be on the same day with end strictly after start, and the break may not
// exceed the interval.
func ComputeDuration(start, end ClockTime, brk BreakLength) (Duration, error) {
	raw := end.Minutes() - start.Minutes()
	if raw <= 0 {
		return Duration{}, fmt.Errorf("%w: end %s is not after start %s", ErrInvalidRange, end, start)
	}

	net := raw - brk.Minutes()
	if net < 0 {
		return Duration{}, fmt.Errorf("%w: %s is longer than %s-%s", ErrBreakExceedsInterval, brk, start, end)
	}

	return Duration{Hours: net / minutesPerHour, Minutes: net % minutesPerHour}, nil
}

// ValidateTimePair reports whether end strictly follows start on the same day.
func ValidateTimePair(start, end ClockTime) bool {
	return end.Minutes() > start.Minutes()
}

// Pad left-pads n with zeros to two digits.
func Pad(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}
