package timerange

import (
	"fmt"
	"strings"
)

// DayType classifies a calendar day for an employee.
type DayType string

const (
	DayWork            DayType = "WKDAY"
	DaySaturday        DayType = "SATUR"
	DayWorkFromHome    DayType = "WKHOM"
	DayPublicHolWorked DayType = "PUWRK"
	DayReturnOvertime  DayType = "ROVER"
	DayLinked          DayType = "LINKD"
	DayOther           DayType = "OTHER"

	DayHoliday       DayType = "HOLIS"
	DaySick          DayType = "SICKD"
	DayMedical       DayType = "MEDIC"
	DayPublicAbsence DayType = "PUABS"
	DaySpecialLeave  DayType = "SPECI"
	DayReturnPublic  DayType = "RETRN"
	DayTraining      DayType = "TRAIN"
	DayOnDemand      DayType = "DAYOD"
	DayPending       DayType = "PENDI"
)

type dayTypeInfo struct {
	label string
	leave bool
}

var dayTypes = map[DayType]dayTypeInfo{
	DayWork:            {"Work Day", false},
	DaySaturday:        {"Work on Saturday", false},
	DayWorkFromHome:    {"Work at home", false},
	DayPublicHolWorked: {"Work on Public Holiday", false},
	DayReturnOvertime:  {"Return for overtime", false},
	DayLinked:          {"Linked day", false},
	DayOther:           {"Other", false},

	DayHoliday:       {"Vacation", true},
	DaySick:          {"Sickness Absence", true},
	DayMedical:       {"Medical Appointment", true},
	DayPublicAbsence: {"Public Holiday", true},
	DaySpecialLeave:  {"Special Leave", true},
	DayReturnPublic:  {"Return for Public Holiday", true},
	DayTraining:      {"Training", true},
	DayOnDemand:      {"Day on demand", true},
	DayPending:       {"Pending approval", true},
}

// DayTypes lists every known day type in display order.
var DayTypes = []DayType{
	DayWork, DayHoliday, DaySick, DayMedical, DayPublicAbsence, DayPublicHolWorked,
	DayReturnPublic, DaySpecialLeave, DayTraining, DayOnDemand, DaySaturday,
	DayWorkFromHome, DayReturnOvertime, DayLinked, DayOther, DayPending,
}

// ParseDayType normalizes and validates a day type code.
func ParseDayType(s string) (DayType, error) {
	code := DayType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := dayTypes[code]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDayType, s)
	}
	return code, nil
}

// IsLeaveType reports whether the employee is not expected to report work
// times on a day of this type.
func IsLeaveType(code DayType) (bool, error) {
	info, ok := dayTypes[code]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownDayType, string(code))
	}
	return info.leave, nil
}

// Label returns the human readable name, or the raw code if unknown.
func (d DayType) Label() string {
	if info, ok := dayTypes[d]; ok {
		return info.label
	}
	return string(d)
}

// Valid reports whether d is a known day type.
func (d DayType) Valid() bool {
	_, ok := dayTypes[d]
	return ok
}

// LeaveSentinel returns the fixed start, end and break a form puts in the
// disabled fields of a leave day.
func LeaveSentinel() (ClockTime, ClockTime, BreakLength) {
	return ClockTime{}, ClockTime{hour: 0, minute: 1}, BreakLength{}
}
