package requests

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/hr-scheduler/schedule"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrEmployeeExists is returned when creating an employee whose ID is
	// already taken.
	ErrEmployeeExists = errors.New("employee already exists")

	// ErrRequestNotFound is returned when a referenced request doesn't exist.
	ErrRequestNotFound = errors.New("request not found")

	// ErrInvalidTransition is returned when reviewing a request that is
	// no longer pending.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInsufficientBalance is returned when approving leave exceeds the
	// employee's remaining balance.
	ErrInsufficientBalance = errors.New("insufficient leave balance")

	// ErrPartialFailure is returned when bulk generation stopped midway.
	ErrPartialFailure = errors.New("bulk generation partially persisted")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError provides details about a leave balance shortage.
type InsufficientBalanceError struct {
	EmployeeID string
	Available  decimal.Decimal
	Requested  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance for %s: available %s, requested %s",
		e.EmployeeID, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// TransitionError names the rejected transition.
type TransitionError struct {
	RequestID string
	From      Status
	To        Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("request %s: cannot move from %s to %s", e.RequestID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PartialFailureError reports a bulk generation run that failed after some
// records were created. Created records are NOT rolled back.
type PartialFailureError struct {
	Created   []Request
	Remaining []schedule.Assignment
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%v: %d created, %d not created: %v",
		ErrPartialFailure, len(e.Created), len(e.Remaining), e.Err)
}

func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, schedule.ErrValidation)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}

// IsConflict returns true if the request conflicts with current state.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrEmployeeExists)
}
