/*
Package requests implements the leave / work-from-home request service.

PURPOSE:
  Owns employee records and request records, and turns the pure planning
  output of the schedule package into persisted requests:
  1. Manual submission: one request covering one or more date ranges
  2. Bulk generation: random WFH days for a roster, one request per day
  3. Review: pending -> approved | rejected
  4. Views: weekly schedule, approved-request export rows

REQUEST FLOW:
  ┌──────────────────────────────────────────────────────────────┐
  │                                                              │
  │  Submit / GenerateRandomWFH ──▶ pending ──▶ approved         │
  │                                    │                         │
  │                                    └─────▶ rejected          │
  │                                                              │
  └──────────────────────────────────────────────────────────────┘

  Approving a LEAVE request deducts its days from the employee's leave
  balance in the same store transaction as the status change.

BULK GENERATION IS NOT ATOMIC:
  GenerateRandomWFH issues one create per (employee, date). If the store
  fails partway, the records already created stay and the caller gets a
  *PartialFailureError listing them. Re-query before retrying.

SEE ALSO:
  - service.go: Service operations
  - store.go: Store interfaces
  - schedule/planner.go: The planner used for bulk generation
*/
package requests

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/hr-scheduler/schedule"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is an employee record.
type Employee struct {
	ID           string
	FullName     string
	Code         string
	Email        string
	LeaveBalance decimal.Decimal // remaining annual leave, in days
	CreatedAt    time.Time
}

// Ref returns the planning identity of the employee.
func (e Employee) Ref() schedule.EmployeeRef {
	return schedule.EmployeeRef{ID: e.ID, FullName: e.FullName, Code: e.Code}
}

// =============================================================================
// REQUEST
// =============================================================================

// Status is where a request is in its review lifecycle.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Source tells individually-submitted requests from generated ones.
type Source string

const (
	SourceManual        Source = "manual"
	SourceBulkGenerated Source = "bulk-generated"
)

// Request is a leave or WFH request.
type Request struct {
	ID         string
	EmployeeID string
	Type       schedule.AssignmentType

	// Periods as entered; StartDate/EndDate span them
	Periods      []schedule.Range
	StartDate    schedule.Date
	EndDate      schedule.Date
	NumberOfDays int

	Status Status
	Source Source
	Reason string

	// Review tracking
	ReviewedBy      string
	ReviewedAt      *time.Time
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Covers reports whether any period of the request includes d.
func (r Request) Covers(d schedule.Date) bool {
	for _, p := range r.Periods {
		if p.Contains(d) {
			return true
		}
	}
	return false
}

// Span returns [StartDate, EndDate].
func (r Request) Span() schedule.Range {
	return schedule.Range{Start: r.StartDate, End: r.EndDate}
}

// Submission is a manually entered request.
type Submission struct {
	EmployeeID string
	Type       schedule.AssignmentType
	Periods    []schedule.Range
	Reason     string
}

// GenerateInput configures a bulk WFH generation run.
type GenerateInput struct {
	ReferenceDate   schedule.Date
	WeekOffset      int
	DaysPerEmployee int
	EmployeeIDs     []string // empty = every employee
	Seed            *int64   // nil = the service's planner
}

// GenerateResult is what a generation run produced.
type GenerateResult struct {
	Window  schedule.WeekWindow
	Plan    *schedule.AssignmentPlan
	Created []Request
}

// RequestFilter narrows ListRequests. Zero fields match everything.
// From/To select requests whose span overlaps [From, To].
type RequestFilter struct {
	EmployeeID string
	Status     Status
	Type       schedule.AssignmentType
	Source     Source
	From       schedule.Date
	To         schedule.Date
}

// Matches reports whether r passes the filter.
func (f RequestFilter) Matches(r Request) bool {
	if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	if f.Source != "" && r.Source != f.Source {
		return false
	}
	if f.From.IsZero() && f.To.IsZero() {
		return true
	}

	// An open bound takes the request's own end, so only the set bounds bite.
	bounds := schedule.Range{Start: f.From, End: f.To}
	if bounds.Start.IsZero() {
		bounds.Start = r.StartDate
	}
	if bounds.End.IsZero() {
		bounds.End = r.EndDate
	}
	return r.Span().Overlaps(bounds)
}
