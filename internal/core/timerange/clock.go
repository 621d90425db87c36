// Package timerange computes worked durations between two clock times with
// break deduction, and classifies day types.
package timerange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validation errors.
var (
	ErrInvalidRange   = errors.New("invalid time range")
	ErrInvalidInput   = errors.New("invalid time input")
	ErrUnknownDayType = errors.New("unknown day type")

	// ErrBreakExceedsInterval is the ErrInvalidRange returned when the break
	// is longer than the time between start and end.
	ErrBreakExceedsInterval = fmt.Errorf("%w: break exceeds interval", ErrInvalidRange)
)

const minutesPerHour = 60

// ClockTime is a wall-clock time of day with no date component.
type ClockTime struct {
	hour   int
	minute int
}

// NewClockTime returns the clock time hour:minute.
func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 {
		return ClockTime{}, fmt.Errorf("%w: hour %d out of range", ErrInvalidInput, hour)
	}
	if minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: minute %d out of range", ErrInvalidInput, minute)
	}
	return ClockTime{hour: hour, minute: minute}, nil
}

// ParseClockTime parses "HH:MM" or "HH:MM:SS". Seconds are accepted and dropped.
func ParseClockTime(s string) (ClockTime, error) {
	h, m, err := splitHM(s)
	if err != nil {
		return ClockTime{}, err
	}
	return NewClockTime(h, m)
}

func (c ClockTime) Hour() int   { return c.hour }
func (c ClockTime) Minute() int { return c.minute }

// Minutes returns the minutes elapsed since midnight.
func (c ClockTime) Minutes() int {
	return c.hour*minutesPerHour + c.minute
}

func (c ClockTime) String() string {
	return Pad(c.hour) + ":" + Pad(c.minute)
}

// BreakLength is unpaid time inside a shift.
type BreakLength struct {
	hours   int
	minutes int
}

// NewBreakLength returns a break of hours:minutes.
func NewBreakLength(hours, minutes int) (BreakLength, error) {
	if hours < 0 {
		return BreakLength{}, fmt.Errorf("%w: negative break hours %d", ErrInvalidInput, hours)
	}
	if minutes < 0 || minutes > 59 {
		return BreakLength{}, fmt.Errorf("%w: break minute %d out of range", ErrInvalidInput, minutes)
	}
	return BreakLength{hours: hours, minutes: minutes}, nil
}

// ParseBreakLength parses "HH:MM" or "HH:MM:SS". An empty string is no break.
func ParseBreakLength(s string) (BreakLength, error) {
	if strings.TrimSpace(s) == "" {
		return BreakLength{}, nil
	}
	h, m, err := splitHM(s)
	if err != nil {
		return BreakLength{}, err
	}
	return NewBreakLength(h, m)
}

// BreakFromMinutes builds a break from a total minute count.
func BreakFromMinutes(total int) (BreakLength, error) {
	if total < 0 {
		return BreakLength{}, fmt.Errorf("%w: negative break %d minutes", ErrInvalidInput, total)
	}
	return BreakLength{hours: total / minutesPerHour, minutes: total % minutesPerHour}, nil
}

// Minutes returns the total length of the break in minutes.
func (b BreakLength) Minutes() int {
	return b.hours*minutesPerHour + b.minutes
}

func (b BreakLength) String() string {
	return Pad(b.hours) + ":" + Pad(b.minutes)
}

func splitHM(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidInput, s)
	}
	vals := make([]int, len(parts))
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 || !allDigits(p) {
			return 0, 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidInput, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidInput, s)
		}
		vals[i] = n
	}
	if len(vals) == 3 && vals[2] > 59 {
		return 0, 0, fmt.Errorf("%w: second %d out of range", ErrInvalidInput, vals[2])
	}
	return vals[0], vals[1], nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
