package messaging

import "time"

// EventOvertimeRecorded is the event type attribute of an OvertimeEvent.
const EventOvertimeRecorded = "overtime.recorded"

// OvertimeEvent is the JSON payload sent via SQS for the overtime queue
type OvertimeEvent struct {
	EntryID       int64     `json:"entryId"`
	EmployeeID    string    `json:"employeeId"`
	EntryDate     string    `json:"entryDate"`
	DayType       string    `json:"daytype"`
	HoursWorked   float64   `json:"hoursWorked"`
	Duration      string    `json:"duration"`
	DifferenceHrs float64   `json:"differenceHours"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// EmailKind selects the notification template the email worker renders.
type EmailKind string

const (
	EmailHolidayApproved EmailKind = "holiday_approved"
	EmailOvertime        EmailKind = "overtime"
	EmailUndertime       EmailKind = "undertime"

	// EmailOvertimeDenied is sent after the entry is deleted, so the worker
	// does not track its delivery on the entry.
	EmailOvertimeDenied EmailKind = "overtime_denied"
)

// EventType is the event type attribute of an EmailEvent of this kind.
func (k EmailKind) EventType() string {
	return "email." + string(k)
}

// EmailEvent is the JSON payload sent via SQS for email queue
type EmailEvent struct {
	EntryID    int64     `json:"entryId"`
	EmployeeID string    `json:"employeeId"`
	Kind       EmailKind `json:"kind"`
	EntryDate  string    `json:"entryDate"`
	Duration   string    `json:"duration"`
	OccurredAt time.Time `json:"occurredAt"`
}
