/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model in requests/ and schedule/ from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request bodies carry go-playground/validator tags and are checked by
  decodeAndValidate in handlers.go before they reach the service. Domain
  rules (week bounds, day limits) are still enforced by the service.

DATES:
  All dates are "YYYY-MM-DD" strings. Timestamps are RFC 3339 UTC.

SEE ALSO:
  - handlers.go: Uses these types
  - requests/types.go: Domain records
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID           string          `json:"id"`
	FullName     string          `json:"fullName"`
	Code         string          `json:"code"`
	Email        string          `json:"email,omitempty"`
	LeaveBalance decimal.Decimal `json:"leaveBalance"`
	CreatedAt    string          `json:"createdAt,omitempty"`
}

// CreateEmployeeRequest is the body of POST /api/employees.
type CreateEmployeeRequest struct {
	ID           string           `json:"id" validate:"omitempty,max=64"`
	FullName     string           `json:"fullName" validate:"required,max=200"`
	Code         string           `json:"code" validate:"required,max=32"`
	Email        string           `json:"email" validate:"omitempty,email"`
	LeaveBalance *decimal.Decimal `json:"leaveBalance"`
}

// UpdateEmployeeRequest is the body of PUT /api/employees/{id}.
type UpdateEmployeeRequest struct {
	FullName     string           `json:"fullName" validate:"required,max=200"`
	Code         string           `json:"code" validate:"required,max=32"`
	Email        string           `json:"email" validate:"omitempty,email"`
	LeaveBalance *decimal.Decimal `json:"leaveBalance"`
}

func toEmployeeDTO(e requests.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:           e.ID,
		FullName:     e.FullName,
		Code:         e.Code,
		Email:        e.Email,
		LeaveBalance: e.LeaveBalance,
		CreatedAt:    formatTimestamp(e.CreatedAt),
	}
}

// =============================================================================
// REQUESTS
// =============================================================================

// PeriodDTO is an inclusive date range.
type PeriodDTO struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// SubmitRequestRequest is the body of POST /api/employees/{id}/requests.
type SubmitRequestRequest struct {
	Type    string      `json:"type" validate:"required,oneof=WFH LEAVE"`
	Periods []PeriodDTO `json:"periods" validate:"required,min=1,dive"`
	Reason  string      `json:"reason" validate:"max=500"`
}

// ReviewRequest is the body of the approve and reject endpoints.
type ReviewRequest struct {
	ReviewedBy string `json:"reviewedBy" validate:"omitempty,max=100"`
	Reason     string `json:"reason" validate:"max=500"`
}

// RequestDTO represents a leave or WFH request in API responses.
type RequestDTO struct {
	ID              string      `json:"id"`
	EmployeeID      string      `json:"employeeId"`
	Type            string      `json:"type"`
	Periods         []PeriodDTO `json:"periods"`
	StartDate       string      `json:"startDate"`
	EndDate         string      `json:"endDate"`
	NumberOfDays    int         `json:"numberOfDays"`
	Status          string      `json:"status"`
	Source          string      `json:"source"`
	Reason          string      `json:"reason,omitempty"`
	ReviewedBy      string      `json:"reviewedBy,omitempty"`
	ReviewedAt      string      `json:"reviewedAt,omitempty"`
	RejectionReason string      `json:"rejectionReason,omitempty"`
	CreatedAt       string      `json:"createdAt"`
	UpdatedAt       string      `json:"updatedAt"`
}

func toRequestDTO(r requests.Request) RequestDTO {
	periods := make([]PeriodDTO, len(r.Periods))
	for i, p := range r.Periods {
		periods[i] = PeriodDTO{Start: p.Start.String(), End: p.End.String()}
	}
	dto := RequestDTO{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Type:            string(r.Type),
		Periods:         periods,
		StartDate:       r.StartDate.String(),
		EndDate:         r.EndDate.String(),
		NumberOfDays:    r.NumberOfDays,
		Status:          string(r.Status),
		Source:          string(r.Source),
		Reason:          r.Reason,
		ReviewedBy:      r.ReviewedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       formatTimestamp(r.CreatedAt),
		UpdatedAt:       formatTimestamp(r.UpdatedAt),
	}
	if r.ReviewedAt != nil {
		dto.ReviewedAt = formatTimestamp(*r.ReviewedAt)
	}
	return dto
}

func toRequestDTOs(reqs []requests.Request) []RequestDTO {
	out := make([]RequestDTO, len(reqs))
	for i, r := range reqs {
		out[i] = toRequestDTO(r)
	}
	return out
}

// =============================================================================
// SCHEDULE
// =============================================================================

// RangeDTO is the {start, end} pair of a week.
type RangeDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeekDayDTO is one column header of the weekly grid.
type WeekDayDTO struct {
	Date      string `json:"date"`
	DayShort  string `json:"dayShort"`
	IsHoliday bool   `json:"isHoliday"`
}

// ScheduleDayDTO is one employee on one day.
type ScheduleDayDTO struct {
	Date      string  `json:"date"`
	IsWFH     bool    `json:"isWFH"`
	Type      *string `json:"type"`
	IsHoliday bool    `json:"isHoliday"`
	RequestID string  `json:"requestId,omitempty"`
}

// EmployeeScheduleDTO is one row of the weekly grid.
type EmployeeScheduleDTO struct {
	EmployeeID   string           `json:"employeeId"`
	EmployeeName string           `json:"employeeName"`
	EmployeeCode string           `json:"employeeCode"`
	WeekSchedule []ScheduleDayDTO `json:"weekSchedule"`
}

// WeekScheduleResponse is the body of GET /api/schedule/week.
type WeekScheduleResponse struct {
	WeekRange RangeDTO              `json:"weekRange"`
	WeekDays  []WeekDayDTO          `json:"weekDays"`
	Employees []EmployeeScheduleDTO `json:"employees"`
}

func weekRange(w schedule.WeekWindow) RangeDTO {
	return RangeDTO{Start: w.Start.String(), End: w.End.String()}
}

func toWeekScheduleResponse(ws *requests.WeekSchedule) WeekScheduleResponse {
	resp := WeekScheduleResponse{
		WeekRange: weekRange(ws.Window),
		WeekDays:  make([]WeekDayDTO, len(ws.Window.Days)),
		Employees: make([]EmployeeScheduleDTO, len(ws.Employees)),
	}
	for i, d := range ws.Window.Days {
		resp.WeekDays[i] = WeekDayDTO{Date: d.Date.String(), DayShort: d.ShortName, IsHoliday: d.IsHoliday}
	}
	for i, row := range ws.Employees {
		days := make([]ScheduleDayDTO, len(row.Days))
		for j, d := range row.Days {
			day := ScheduleDayDTO{
				Date:      d.Date.String(),
				IsWFH:     d.IsWFH,
				IsHoliday: d.IsHoliday,
				RequestID: d.RequestID,
			}
			if d.Type != "" {
				t := string(d.Type)
				day.Type = &t
			}
			days[j] = day
		}
		resp.Employees[i] = EmployeeScheduleDTO{
			EmployeeID:   row.Employee.ID,
			EmployeeName: row.Employee.FullName,
			EmployeeCode: row.Employee.Code,
			WeekSchedule: days,
		}
	}
	return resp
}

// RandomWFHRequest is the body of POST /api/schedule/random-wfh.
type RandomWFHRequest struct {
	Date            string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	WeekOffset      int      `json:"weekOffset" validate:"min=-5200,max=5200"`
	DaysPerEmployee int      `json:"daysPerEmployee" validate:"required"`
	EmployeeIDs     []string `json:"employeeIds" validate:"omitempty,dive,required"`
	Seed            *int64   `json:"seed"`
}

// RandomWFHResponse reports what a generation run created.
type RandomWFHResponse struct {
	WeekRange       RangeDTO     `json:"weekRange"`
	DaysPerEmployee int          `json:"daysPerEmployee"`
	Created         int          `json:"created"`
	Requests        []RequestDTO `json:"requests"`
	Remaining       int          `json:"remaining,omitempty"`
	Error           string       `json:"error,omitempty"`
}

// =============================================================================
// DEMO
// =============================================================================

// ScenarioDTO describes a loadable demo roster.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Employees   int    `json:"employees"`
}

// LoadDemoRequest is the body of POST /api/demo/load.
type LoadDemoRequest struct {
	Scenario     string `json:"scenario" validate:"required"`
	GenerateWeek bool   `json:"generateWeek"`
	Seed         *int64 `json:"seed"`
}

// LoadDemoResponse reports what a demo load created.
type LoadDemoResponse struct {
	Scenario  string        `json:"scenario"`
	Employees []EmployeeDTO `json:"employees"`
	Created   int           `json:"created"`
	Requests  int           `json:"requests"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
