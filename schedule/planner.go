package schedule

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// RANDOM ASSIGNMENT PLANNER - WFH days per employee within a week window
// =============================================================================

// MaxDaysPerEmployee is the number of non-holiday slots in a week window.
const MaxDaysPerEmployee = DaysPerWeek - 1

// AssignmentType distinguishes work-from-home from leave.
type AssignmentType string

const (
	AssignmentWFH   AssignmentType = "WFH"
	AssignmentLeave AssignmentType = "LEAVE"
)

// Valid reports whether t is a known assignment type.
func (t AssignmentType) Valid() bool {
	return t == AssignmentWFH || t == AssignmentLeave
}

// EmployeeRef identifies an employee in a planning run.
type EmployeeRef struct {
	ID       string
	FullName string
	Code     string
}

// Assignment is one employee on one day.
type Assignment struct {
	EmployeeID string
	Date       Date
	Type       AssignmentType
}

// PlanEntry holds the days chosen for one employee, ascending.
type PlanEntry struct {
	Employee EmployeeRef
	Dates    []Date
}

// AssignmentPlan is the in-memory result of a planning run, in roster order.
type AssignmentPlan struct {
	Window  WeekWindow
	Entries []PlanEntry
}

// DatesFor returns the planned dates for an employee, or nil.
func (p *AssignmentPlan) DatesFor(employeeID string) []Date {
	for _, e := range p.Entries {
		if e.Employee.ID == employeeID {
			return e.Dates
		}
	}
	return nil
}

// Assignments flattens the plan into WFH assignments, employee by employee.
func (p *AssignmentPlan) Assignments() []Assignment {
	var out []Assignment
	for _, e := range p.Entries {
		for _, d := range e.Dates {
			out = append(out, Assignment{EmployeeID: e.Employee.ID, Date: d, Type: AssignmentWFH})
		}
	}
	return out
}

// Size returns the total number of (employee, date) pairs.
func (p *AssignmentPlan) Size() int {
	n := 0
	for _, e := range p.Entries {
		n += len(e.Dates)
	}
	return n
}

// Planner draws WFH days. It is safe for concurrent use.
type Planner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlanner returns a planner drawing from src.
func NewPlanner(src rand.Source) *Planner {
	return &Planner{rng: rand.New(src)}
}

// NewSeededPlanner returns a planner whose output is reproducible for seed.
func NewSeededPlanner(seed int64) *Planner {
	return NewPlanner(rand.NewSource(seed))
}

// NewRandomPlanner returns a planner seeded from the clock.
func NewRandomPlanner() *Planner {
	return NewSeededPlanner(time.Now().UnixNano())
}

// Plan picks daysPerEmployee distinct non-holiday days of window for every
// employee of roster. Draws are independent per employee, so two employees
// may share a day. Input is fully validated before anything is drawn.
func (p *Planner) Plan(roster []EmployeeRef, daysPerEmployee int, window WeekWindow) (*AssignmentPlan, error) {
	working := window.WorkingDays()
	if err := validatePlanInput(roster, daysPerEmployee, len(working)); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	plan := &AssignmentPlan{Window: window, Entries: make([]PlanEntry, 0, len(roster))}
	for _, emp := range roster {
		plan.Entries = append(plan.Entries, PlanEntry{
			Employee: emp,
			Dates:    p.sample(working, daysPerEmployee),
		})
	}
	return plan, nil
}

// sample is a partial Fisher-Yates shuffle over a copy of slots.
// Caller holds p.mu.
func (p *Planner) sample(slots []DaySlot, k int) []Date {
	pool := make([]Date, len(slots))
	for i, s := range slots {
		pool[i] = s.Date
	}
	for i := 0; i < k; i++ {
		j := i + p.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	picked := pool[:k:k]
	sort.Slice(picked, func(a, b int) bool { return picked[a].Before(picked[b]) })
	return picked
}

func validatePlanInput(roster []EmployeeRef, daysPerEmployee, available int) error {
	if len(roster) == 0 {
		return invalid("roster", "at least one employee is required")
	}

	seen := make(map[string]bool, len(roster))
	for _, emp := range roster {
		id := strings.TrimSpace(emp.ID)
		if id == "" {
			return invalid("roster", "employee id is required")
		}
		if seen[id] {
			return invalid("roster", "duplicate employee id %q", id)
		}
		seen[id] = true
	}

	if daysPerEmployee < 1 || daysPerEmployee > MaxDaysPerEmployee {
		return invalid("days_per_employee", "must be between 1 and %d, got %d", MaxDaysPerEmployee, daysPerEmployee)
	}
	if daysPerEmployee > available {
		return invalid("days_per_employee", "%d requested but the week has only %d working days", daysPerEmployee, available)
	}
	return nil
}
