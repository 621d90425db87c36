package core

import (
	"errors"
	"testing"

	"timesheet.service/internal/core/timerange"
)

func TestRoundDown(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{8.0, 8.0},
		{8.25, 8.0},
		{8.5, 8.5},
		{8.99, 8.5},
		{-0.25, 0},
		{-0.7, -0.5},
		{-1.0, -1.0},
	}
	for _, tt := range tests {
		if got := RoundDown(tt.in, 0.5); got != tt.want {
			t.Errorf("RoundDown(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOvertimePolicyClassify(t *testing.T) {
	policy, err := NewOvertimePolicy("08:00", "00:30", 1.0, false)
	if err != nil {
		t.Fatalf("NewOvertimePolicy failed: %v", err)
	}

	tests := []struct {
		name       string
		daytype    timerange.DayType
		start, end string
		breaks     string
		wantOver   bool
		wantUnder  bool
	}{
		{name: "exact shift", daytype: timerange.DayWork, start: "09:00", end: "17:30", breaks: "00:30"},
		{name: "half hour over rounds below threshold", daytype: timerange.DayWork, start: "09:00", end: "18:15", breaks: "00:30"},
		{name: "one hour over", daytype: timerange.DayWork, start: "09:00", end: "18:30", breaks: "00:30", wantOver: true},
		{name: "long break is normalized", daytype: timerange.DayWork, start: "08:00", end: "18:30", breaks: "01:30", wantOver: true},
		{name: "short day", daytype: timerange.DayWork, start: "09:00", end: "15:00", breaks: "00:30", wantUnder: true},
		{name: "only work days are compared", daytype: timerange.DayWorkFromHome, start: "07:00", end: "20:00", breaks: "00:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := timerange.ParseClockTime(tt.start)
			end, _ := timerange.ParseClockTime(tt.end)
			brk, _ := timerange.ParseBreakLength(tt.breaks)

			over, under, err := policy.Classify(tt.daytype, start, end, brk)
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if over != tt.wantOver || under != tt.wantUnder {
				t.Errorf("Classify = (%v, %v), want (%v, %v)", over, under, tt.wantOver, tt.wantUnder)
			}
		})
	}
}

func TestNormalizedBreak(t *testing.T) {
	policy, _ := NewOvertimePolicy("08:00", "00:30", 1.0, false)

	long, _ := timerange.ParseBreakLength("01:00")
	short, _ := timerange.ParseBreakLength("00:15")

	if got := policy.NormalizedBreak(long); got.Minutes() != 30 {
		t.Errorf("NormalizedBreak(01:00) = %s, want 00:30", got)
	}
	if got := policy.NormalizedBreak(short); got.Minutes() != 15 {
		t.Errorf("NormalizedBreak(00:15) = %s, want 00:15", got)
	}
}

func TestNewOvertimePolicyErrors(t *testing.T) {
	if _, err := NewOvertimePolicy("8h", "00:30", 1, false); !errors.Is(err, timerange.ErrInvalidInput) {
		t.Errorf("bad shift: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewOvertimePolicy("08:00", "00:99", 1, false); !errors.Is(err, timerange.ErrInvalidInput) {
		t.Errorf("bad break: expected ErrInvalidInput, got %v", err)
	}
	if _, err := NewOvertimePolicy("08:00", "00:30", -1, false); !errors.Is(err, timerange.ErrInvalidInput) {
		t.Errorf("negative threshold: expected ErrInvalidInput, got %v", err)
	}
}
