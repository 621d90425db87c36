package model

import (
	"time"

	"timesheet.service/internal/core/timerange"
)

// ProcessingStatus defines the state of an asynchronous job attached to an entry.
type ProcessingStatus string

const (
	StatusNone       ProcessingStatus = "NONE"
	StatusPending    ProcessingStatus = "PENDING"
	StatusProcessing ProcessingStatus = "PROCESSING"
	StatusCompleted  ProcessingStatus = "COMPLETED"
	StatusFailed     ProcessingStatus = "FAILED"

	// StatusAwaitingApproval holds an overtime or undertime entry until an
	// approver accepts or denies it. Nothing is published before that.
	StatusAwaitingApproval ProcessingStatus = "AWAITING"
)

// TrackingEntry is one employee's working log for a single date.
type TrackingEntry struct {
	ID                 int64             `json:"id"`
	EmployeeID         string            `json:"employeeId"`
	EntryDate          time.Time         `json:"entryDate"`
	StartMinute        int               `json:"startMinute"`
	EndMinute          int               `json:"endMinute"`
	BreakMinutes       int               `json:"breakMinutes"`
	DayType            timerange.DayType `json:"daytype"`
	Comments           string            `json:"comments,omitempty"`
	LinkID             *int64            `json:"linkId,omitempty"`
	WorkedMinutes      int               `json:"workedMinutes"`
	OvertimeStatus     ProcessingStatus  `json:"overtimeStatus"`
	OvertimeRetryCount int               `json:"overtimeRetryCount"`
	EmailStatus        ProcessingStatus  `json:"emailStatus"`
	EmailRetryCount    int               `json:"emailRetryCount"`
}

// Start returns the entry's start time.
func (e *TrackingEntry) Start() timerange.ClockTime {
	c, _ := timerange.NewClockTime(e.StartMinute/60, e.StartMinute%60)
	return c
}

// End returns the entry's end time.
func (e *TrackingEntry) End() timerange.ClockTime {
	c, _ := timerange.NewClockTime(e.EndMinute/60, e.EndMinute%60)
	return c
}

// Break returns the entry's break length.
func (e *TrackingEntry) Break() timerange.BreakLength {
	b, _ := timerange.BreakFromMinutes(e.BreakMinutes)
	return b
}

// Worked returns the stored worked duration.
func (e *TrackingEntry) Worked() timerange.Duration {
	d, _ := timerange.DurationFromMinutes(e.WorkedMinutes)
	return d
}

// EntryInput is the raw form submission for an entry. Time fields are
// "HH:MM" strings and may be empty for leave day types.
type EntryInput struct {
	EmployeeID string
	EntryDate  string
	StartTime  string
	EndTime    string
	Breaks     string
	DayType    string
	Comments   string
	LinkDate   string
}
