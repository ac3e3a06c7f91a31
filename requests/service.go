package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/hr-scheduler/schedule"
)

// =============================================================================
// SERVICE - Employee records and request lifecycle
// =============================================================================

// Service owns employee and request records on top of a TxStore.
type Service struct {
	Store   TxStore
	Planner *schedule.Planner
	Logger  *zap.Logger

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string
}

// NewService returns a service with a clock-seeded planner.
func NewService(store TxStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Store:   store,
		Planner: schedule.NewRandomPlanner(),
		Logger:  logger,
		Now:     func() time.Time { return time.Now().UTC() },
		NewID:   uuid.NewString,
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// CreateEmployee validates and stores a new employee. An empty ID is
// replaced with a generated one; a taken ID fails with ErrEmployeeExists.
func (s *Service) CreateEmployee(ctx context.Context, emp Employee) (*Employee, error) {
	if strings.TrimSpace(emp.ID) == "" {
		emp.ID = s.NewID()
	}
	if err := validateEmployee(emp); err != nil {
		return nil, err
	}
	emp.CreatedAt = s.Now()

	err := s.Store.WithTx(ctx, func(tx Store) error {
		existing, err := tx.GetEmployee(ctx, emp.ID)
		if err != nil {
			return fmt.Errorf("failed to get employee: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: %s", ErrEmployeeExists, emp.ID)
		}
		if err := tx.SaveEmployee(ctx, emp); err != nil {
			return fmt.Errorf("failed to save employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// UpdateEmployee replaces the mutable fields of an existing employee.
func (s *Service) UpdateEmployee(ctx context.Context, emp Employee) (*Employee, error) {
	existing, err := s.GetEmployee(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	if err := validateEmployee(emp); err != nil {
		return nil, err
	}
	emp.CreatedAt = existing.CreatedAt

	if err := s.Store.SaveEmployee(ctx, emp); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}
	return &emp, nil
}

// GetEmployee returns an employee or ErrEmployeeNotFound.
func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	emp, err := s.Store.GetEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, id)
	}
	return emp, nil
}

// ListEmployees returns every employee ordered by name.
func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	emps, err := s.Store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return emps, nil
}

// DeleteEmployee removes an employee. Their requests are kept.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return err
	}
	if err := s.Store.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

// Roster returns planning refs for the given employees, or for everyone
// when ids is empty. Repeated ids are passed through so the planner can
// reject them.
func (s *Service) Roster(ctx context.Context, ids ...string) ([]schedule.EmployeeRef, error) {
	if len(ids) == 0 {
		emps, err := s.ListEmployees(ctx)
		if err != nil {
			return nil, err
		}
		refs := make([]schedule.EmployeeRef, len(emps))
		for i, e := range emps {
			refs[i] = e.Ref()
		}
		return refs, nil
	}

	refs := make([]schedule.EmployeeRef, 0, len(ids))
	for _, id := range ids {
		emp, err := s.GetEmployee(ctx, id)
		if err != nil {
			return nil, err
		}
		refs = append(refs, emp.Ref())
	}
	return refs, nil
}

func validateEmployee(emp Employee) error {
	switch {
	case strings.TrimSpace(emp.FullName) == "":
		return &schedule.ValidationError{Field: "full_name", Message: "is required"}
	case strings.TrimSpace(emp.Code) == "":
		return &schedule.ValidationError{Field: "code", Message: "is required"}
	case emp.LeaveBalance.IsNegative():
		return &schedule.ValidationError{Field: "leave_balance", Message: "must not be negative"}
	}
	return nil
}

// =============================================================================
// MANUAL SUBMISSION
// =============================================================================

// Submit records a manually entered request as pending.
// NumberOfDays counts every period in full, overlaps included.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Request, error) {
	if !sub.Type.Valid() {
		return nil, &schedule.ValidationError{Field: "type", Message: fmt.Sprintf("unknown request type %q", sub.Type)}
	}
	if len(sub.Periods) == 0 {
		return nil, &schedule.ValidationError{Field: "periods", Message: "at least one period is required"}
	}
	for _, p := range sub.Periods {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	if _, err := s.GetEmployee(ctx, sub.EmployeeID); err != nil {
		return nil, err
	}

	req := s.newRequest(sub.EmployeeID, sub.Type, sub.Periods, SourceManual, sub.Reason)
	if err := s.Store.SaveRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	s.Logger.Info("request submitted",
		zap.String("request_id", req.ID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("type", string(req.Type)),
		zap.Int("days", req.NumberOfDays),
	)
	return &req, nil
}

func (s *Service) newRequest(employeeID string, typ schedule.AssignmentType, periods []schedule.Range, source Source, reason string) Request {
	span, _ := schedule.Span(periods)
	now := s.Now()
	return Request{
		ID:           s.NewID(),
		EmployeeID:   employeeID,
		Type:         typ,
		Periods:      append([]schedule.Range(nil), periods...),
		StartDate:    span.Start,
		EndDate:      span.End,
		NumberOfDays: schedule.TotalDays(periods),
		Status:       StatusPending,
		Source:       source,
		Reason:       reason,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// =============================================================================
// BULK GENERATION
// =============================================================================

// GenerateRandomWFH plans random WFH days for a roster in the resolved week
// and creates one pending, bulk-generated request per (employee, date).
//
// Validation happens before any write. A store failure stops the run; the
// requests created so far are returned in the result AND in a
// *PartialFailureError. Nothing is rolled back.
func (s *Service) GenerateRandomWFH(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	roster, err := s.Roster(ctx, in.EmployeeIDs...)
	if err != nil {
		return nil, err
	}

	planner := s.Planner
	if in.Seed != nil {
		planner = schedule.NewSeededPlanner(*in.Seed)
	}

	window := schedule.ResolveWeek(in.ReferenceDate, in.WeekOffset)
	plan, err := planner.Plan(roster, in.DaysPerEmployee, window)
	if err != nil {
		return nil, err
	}

	result := &GenerateResult{Window: window, Plan: plan}
	assignments := plan.Assignments()
	for i, a := range assignments {
		req := s.newRequest(a.EmployeeID, a.Type, []schedule.Range{schedule.SingleDay(a.Date)}, SourceBulkGenerated, "")
		if err := s.Store.SaveRequest(ctx, req); err != nil {
			s.Logger.Error("bulk generation stopped",
				zap.String("week_start", window.Start.String()),
				zap.Int("created", len(result.Created)),
				zap.Int("remaining", len(assignments)-i),
				zap.Error(err),
			)
			return result, &PartialFailureError{
				Created:   result.Created,
				Remaining: assignments[i:],
				Err:       err,
			}
		}
		result.Created = append(result.Created, req)
	}

	s.Logger.Info("random WFH days generated",
		zap.String("week_start", window.Start.String()),
		zap.Int("employees", len(roster)),
		zap.Int("days_per_employee", in.DaysPerEmployee),
		zap.Int("created", len(result.Created)),
	)
	return result, nil
}

// =============================================================================
// REVIEW
// =============================================================================

// Approve approves a pending request. Approving LEAVE deducts its days
// from the employee's balance atomically with the status change.
func (s *Service) Approve(ctx context.Context, id, reviewer string) (*Request, error) {
	var approved Request
	err := s.Store.WithTx(ctx, func(tx Store) error {
		req, err := s.pendingRequest(ctx, tx, id, StatusApproved)
		if err != nil {
			return err
		}

		if req.Type == schedule.AssignmentLeave {
			if err := deductLeave(ctx, tx, req); err != nil {
				return err
			}
		}

		now := s.Now()
		req.Status = StatusApproved
		req.ReviewedBy = reviewer
		req.ReviewedAt = &now
		req.UpdatedAt = now
		if err := tx.SaveRequest(ctx, *req); err != nil {
			return fmt.Errorf("failed to save request: %w", err)
		}
		approved = *req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("request approved", zap.String("request_id", id), zap.String("reviewer", reviewer))
	return &approved, nil
}

// Reject rejects a pending request.
func (s *Service) Reject(ctx context.Context, id, reviewer, reason string) (*Request, error) {
	var rejected Request
	err := s.Store.WithTx(ctx, func(tx Store) error {
		req, err := s.pendingRequest(ctx, tx, id, StatusRejected)
		if err != nil {
			return err
		}

		now := s.Now()
		req.Status = StatusRejected
		req.ReviewedBy = reviewer
		req.ReviewedAt = &now
		req.RejectionReason = reason
		req.UpdatedAt = now
		if err := tx.SaveRequest(ctx, *req); err != nil {
			return fmt.Errorf("failed to save request: %w", err)
		}
		rejected = *req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("request rejected", zap.String("request_id", id), zap.String("reviewer", reviewer))
	return &rejected, nil
}

func (s *Service) pendingRequest(ctx context.Context, st Store, id string, to Status) (*Request, error) {
	req, err := st.GetRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	if req.Status != StatusPending {
		return nil, &TransitionError{RequestID: id, From: req.Status, To: to}
	}
	return req, nil
}

func deductLeave(ctx context.Context, st Store, req *Request) error {
	emp, err := st.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if emp == nil {
		return fmt.Errorf("%w: %s", ErrEmployeeNotFound, req.EmployeeID)
	}

	requested := decimal.NewFromInt(int64(req.NumberOfDays))
	if emp.LeaveBalance.LessThan(requested) {
		return &InsufficientBalanceError{
			EmployeeID: emp.ID,
			Available:  emp.LeaveBalance,
			Requested:  requested,
		}
	}

	emp.LeaveBalance = emp.LeaveBalance.Sub(requested)
	if err := st.SaveEmployee(ctx, *emp); err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// GetRequest returns a request or ErrRequestNotFound.
func (s *Service) GetRequest(ctx context.Context, id string) (*Request, error) {
	req, err := s.Store.GetRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	return req, nil
}

// ListRequests returns the requests matching filter. An unknown status or
// type in the filter is a validation error.
func (s *Service) ListRequests(ctx context.Context, filter RequestFilter) ([]Request, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &schedule.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", filter.Status)}
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, &schedule.ValidationError{Field: "type", Message: fmt.Sprintf("unknown request type %q", filter.Type)}
	}
	reqs, err := s.Store.ListRequests(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return reqs, nil
}

// PendingRequests returns the review queue.
func (s *Service) PendingRequests(ctx context.Context) ([]Request, error) {
	return s.ListRequests(ctx, RequestFilter{Status: StatusPending})
}

// ExportRow is one approved request joined with its employee.
type ExportRow struct {
	Request  Request
	Employee Employee
}

// ApprovedForExport returns approved requests overlapping [from, to] (zero
// bounds are open). Requests of deleted employees keep an employee with
// only the ID set.
func (s *Service) ApprovedForExport(ctx context.Context, from, to schedule.Date) ([]ExportRow, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, &schedule.ValidationError{Field: "to", Message: "is before from"}
	}

	reqs, err := s.ListRequests(ctx, RequestFilter{Status: StatusApproved, From: from, To: to})
	if err != nil {
		return nil, err
	}

	employees := map[string]Employee{}
	rows := make([]ExportRow, 0, len(reqs))
	for _, r := range reqs {
		emp, ok := employees[r.EmployeeID]
		if !ok {
			found, err := s.GetEmployee(ctx, r.EmployeeID)
			switch {
			case errors.Is(err, ErrEmployeeNotFound):
				emp = Employee{ID: r.EmployeeID}
			case err != nil:
				return nil, err
			default:
				emp = *found
			}
			employees[r.EmployeeID] = emp
		}
		rows = append(rows, ExportRow{Request: r, Employee: emp})
	}
	return rows, nil
}
