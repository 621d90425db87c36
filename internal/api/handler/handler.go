package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"timesheet.service/internal/core"
	"timesheet.service/internal/core/model"
	"timesheet.service/internal/core/timerange"
	"timesheet.service/internal/ports/repository"
)

// EmployeeHeader carries the id of the authenticated employee, set by the gateway.
const EmployeeHeader = "X-Employee-ID"

// EntryService is the part of the core service the HTTP layer calls.
type EntryService interface {
	AddEntry(ctx context.Context, in model.EntryInput) (*model.TrackingEntry, error)
	ChangeEntry(ctx context.Context, id int64, in model.EntryInput) (*model.TrackingEntry, error)
	DeleteEntry(ctx context.Context, employeeID string, id int64) error
	ListMonth(ctx context.Context, employeeID string, year, month int) ([]model.TrackingEntry, error)
	MassHolidays(ctx context.Context, employeeID string, year, month int, days map[int]timerange.DayType) (core.HolidayChanges, error)
	ApproveEntry(ctx context.Context, approverID string, id int64) (*model.TrackingEntry, error)
	DenyEntry(ctx context.Context, approverID string, id int64) error
}

type EntryHandler struct {
	Service EntryService
}

// Ajax dispatches a calendar form submission on its form_type.
func (h *EntryHandler) Ajax(w http.ResponseWriter, r *http.Request) {
	var req AjaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AjaxResponse{Error: "Invalid request body"})
		return
	}

	if req.FormType == "" {
		writeJSON(w, http.StatusBadRequest, AjaxResponse{Error: "Missing Form"})
		return
	}

	employeeID := r.Header.Get(EmployeeHeader)
	if req.FormType != FormCompute && employeeID == "" {
		writeJSON(w, http.StatusUnauthorized, AjaxResponse{Error: "EmployeeID is required"})
		return
	}

	ctx := r.Context()
	switch req.FormType {
	case FormAdd:
		entry, err := h.Service.AddEntry(ctx, req.entryInput(employeeID))
		h.respondEntry(w, r, entry, err)
	case FormChange:
		entry, err := h.Service.ChangeEntry(ctx, req.ID, req.entryInput(employeeID))
		h.respondEntry(w, r, entry, err)
	case FormDelete:
		if err := h.Service.DeleteEntry(ctx, employeeID, req.ID); err != nil {
			h.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, AjaxResponse{Success: true})
	case FormGetEntries:
		entries, err := h.Service.ListMonth(ctx, employeeID, req.Year, req.Month)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		resp := AjaxResponse{Success: true, Entries: make([]EntryDTO, 0, len(entries))}
		for i := range entries {
			resp.Entries = append(resp.Entries, toEntryDTO(&entries[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	case FormMassHolidays:
		changes, err := h.Service.MassHolidays(ctx, employeeID, req.Year, req.Month, req.holidayPlan())
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, AjaxResponse{Success: true, Changes: &changes})
	case FormApprove:
		entry, err := h.Service.ApproveEntry(ctx, employeeID, req.ID)
		h.respondEntry(w, r, entry, err)
	case FormDeny:
		if err := h.Service.DenyEntry(ctx, employeeID, req.ID); err != nil {
			h.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, AjaxResponse{Success: true})
	case FormCompute:
		if req.DayType == "" {
			req.DayType = string(timerange.DayWork)
		}
		ev, err := core.EvaluateTimes(req.DayType, req.StartTime, req.EndTime, req.Breaks)
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, AjaxResponse{Success: true, Duration: ev.Worked.String()})
	default:
		writeJSON(w, http.StatusBadRequest, AjaxResponse{Error: "Unknown Form"})
	}
}

// respondEntry writes a saved entry. An entry returned alongside an error
// was stored but some of its notifications were not published.
func (h *EntryHandler) respondEntry(w http.ResponseWriter, r *http.Request, entry *model.TrackingEntry, err error) {
	if err != nil && entry == nil {
		h.respondError(w, r, err)
		return
	}
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("entry_id", entry.ID).Msg("Entry saved without notifications")
	}
	dto := toEntryDTO(entry)
	writeJSON(w, http.StatusOK, AjaxResponse{Success: true, Entry: &dto})
}

func (h *EntryHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Msg("Service error processing form")
	}
	writeJSON(w, status, AjaxResponse{Error: msg})
}

// errorStatus maps service errors to a status code and a message fit for the user.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, timerange.ErrBreakExceedsInterval):
		return http.StatusBadRequest, "Break is longer than the time worked"
	case errors.Is(err, timerange.ErrInvalidRange):
		return http.StatusBadRequest, "Start time after end time"
	case errors.Is(err, repository.ErrDuplicateEntry):
		return http.StatusConflict, "There is a duplicate entry for this value"
	case errors.Is(err, repository.ErrEntryNotFound):
		return http.StatusNotFound, "Entry not found"
	case errors.Is(err, core.ErrSelfLink):
		return http.StatusBadRequest, "You cannot link to the same day"
	case errors.Is(err, core.ErrSelfApproval):
		return http.StatusForbidden, "You cannot approve your own entry"
	case errors.Is(err, core.ErrNotAwaitingApproval):
		return http.StatusConflict, "Entry is not awaiting approval"
	case errors.Is(err, timerange.ErrInvalidInput),
		errors.Is(err, timerange.ErrUnknownDayType),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrLinkNotFound),
		errors.Is(err, core.ErrNotLeaveType),
		errors.Is(err, core.ErrMissingEmployee):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Service error processing form"
}

// Duration computes worked time for a start, end and break without storing anything.
func Duration(w http.ResponseWriter, r *http.Request) {
	var req DurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if req.DayType == "" {
		req.DayType = string(timerange.DayWork)
	}

	ev, err := core.EvaluateTimes(req.DayType, req.StartTime, req.EndTime, req.Breaks)
	if err != nil {
		status, msg := errorStatus(err)
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, DurationResponse{
		Duration: ev.Worked.String(),
		Minutes:  ev.Worked.TotalMinutes(),
		Leave:    ev.Leave,
	})
}

// DayTypes lists the day types with their labels.
func DayTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dayTypeList())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
