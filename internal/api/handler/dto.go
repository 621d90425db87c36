package handler

import (
	"timesheet.service/internal/core"
	"timesheet.service/internal/core/model"
	"timesheet.service/internal/core/timerange"
)

// FormType selects the action of a POST to the ajax endpoint.
type FormType string

const (
	FormAdd        FormType = "add"
	FormChange     FormType = "change"
	FormDelete     FormType = "delete"
	FormGetEntries FormType = "get_entries"
	FormCompute    FormType = "compute"

	FormMassHolidays FormType = "mass_holidays"
	FormApprove      FormType = "approve_overtime"
	FormDeny         FormType = "deny_overtime"
)

// AjaxRequest is the union of the fields every form may send.
type AjaxRequest struct {
	FormType  FormType `json:"form_type"`
	ID        int64    `json:"id,omitempty"`
	EntryDate string   `json:"entry_date,omitempty"`
	StartTime string   `json:"start_time,omitempty"`
	EndTime   string   `json:"end_time,omitempty"`
	Breaks    string   `json:"breaks,omitempty"`
	DayType   string   `json:"daytype,omitempty"`
	Comments  string   `json:"comments,omitempty"`
	LinkDate  string   `json:"link,omitempty"`
	Year      int      `json:"year,omitempty"`
	Month     int      `json:"month,omitempty"`

	// Holidays maps a day of Month to a leave type, or to "empty" to clear it.
	Holidays map[int]string `json:"holiday_data,omitempty"`
}

func (r AjaxRequest) holidayPlan() map[int]timerange.DayType {
	plan := make(map[int]timerange.DayType, len(r.Holidays))
	for day, code := range r.Holidays {
		plan[day] = timerange.DayType(code)
	}
	return plan
}

func (r AjaxRequest) entryInput(employeeID string) model.EntryInput {
	return model.EntryInput{
		EmployeeID: employeeID,
		EntryDate:  r.EntryDate,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Breaks:     r.Breaks,
		DayType:    r.DayType,
		Comments:   r.Comments,
		LinkDate:   r.LinkDate,
	}
}

type AjaxResponse struct {
	Success  bool       `json:"success"`
	Error    string     `json:"error,omitempty"`
	Entries  []EntryDTO `json:"entries,omitempty"`
	Entry    *EntryDTO  `json:"entry,omitempty"`
	Duration string     `json:"duration,omitempty"`

	Changes *core.HolidayChanges `json:"changes,omitempty"`
}

// EntryDTO is a tracking entry in the shape the calendar page renders.
type EntryDTO struct {
	ID        int64  `json:"id"`
	EntryDate string `json:"entry_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Breaks    string `json:"breaks"`
	DayType   string `json:"daytype"`
	Label     string `json:"label"`
	Comments  string `json:"comments,omitempty"`
	LinkID    *int64 `json:"link_id,omitempty"`
	Worked    string `json:"worked"`
	Approval  string `json:"approval"`
}

func toEntryDTO(e *model.TrackingEntry) EntryDTO {
	return EntryDTO{
		ID:        e.ID,
		EntryDate: e.EntryDate.Format("2006-01-02"),
		StartTime: e.Start().String(),
		EndTime:   e.End().String(),
		Breaks:    e.Break().String(),
		DayType:   string(e.DayType),
		Label:     e.DayType.Label(),
		Comments:  e.Comments,
		LinkID:    e.LinkID,
		Worked:    e.Worked().String(),
		Approval:  string(e.OvertimeStatus),
	}
}

type DurationRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Breaks    string `json:"breaks"`
	DayType   string `json:"daytype"`
}

type DurationResponse struct {
	Duration string `json:"duration"`
	Minutes  int    `json:"minutes"`
	Leave    bool   `json:"leave"`
}

type DayTypeDTO struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Leave bool   `json:"leave"`
}

func dayTypeList() []DayTypeDTO {
	out := make([]DayTypeDTO, 0, len(timerange.DayTypes))
	for _, d := range timerange.DayTypes {
		leave, _ := timerange.IsLeaveType(d)
		out = append(out, DayTypeDTO{Code: string(d), Label: d.Label(), Leave: leave})
	}
	return out
}

type errorResponse struct {
	Error string `json:"error"`
}
