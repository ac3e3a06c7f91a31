// Package memory provides an in-memory requests.TxStore (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees map[string]requests.Employee
	requests  map[string]requests.Request
}

var _ requests.TxStore = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		employees: make(map[string]requests.Employee),
		requests:  make(map[string]requests.Request),
	}
}

func (m *Memory) SaveEmployee(_ context.Context, emp requests.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveEmployeeLocked(emp)
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (*requests.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getEmployeeLocked(id), nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]requests.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listEmployeesLocked(), nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.employees, id)
	return nil
}

func (m *Memory) SaveRequest(_ context.Context, r requests.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveRequestLocked(r)
	return nil
}

func (m *Memory) GetRequest(_ context.Context, id string) (*requests.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getRequestLocked(id), nil
}

func (m *Memory) ListRequests(_ context.Context, filter requests.RequestFilter) ([]requests.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listRequestsLocked(filter), nil
}

// =============================================================================
// LOCKED HELPERS - caller holds m.mu
// =============================================================================

func (m *Memory) saveEmployeeLocked(emp requests.Employee) {
	if existing, ok := m.employees[emp.ID]; ok && emp.CreatedAt.IsZero() {
		emp.CreatedAt = existing.CreatedAt
	}
	m.employees[emp.ID] = emp
}

func (m *Memory) getEmployeeLocked(id string) *requests.Employee {
	emp, ok := m.employees[id]
	if !ok {
		return nil
	}
	return &emp
}

func (m *Memory) listEmployeesLocked() []requests.Employee {
	out := make([]requests.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName != out[j].FullName {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *Memory) saveRequestLocked(r requests.Request) {
	m.requests[r.ID] = copyRequest(r)
}

func (m *Memory) getRequestLocked(id string) *requests.Request {
	r, ok := m.requests[id]
	if !ok {
		return nil
	}
	r = copyRequest(r)
	return &r
}

func (m *Memory) listRequestsLocked(filter requests.RequestFilter) []requests.Request {
	var out []requests.Request
	for _, r := range m.requests {
		if filter.Matches(r) {
			out = append(out, copyRequest(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].StartDate.Compare(out[j].StartDate); c != 0 {
			return c < 0
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func copyRequest(r requests.Request) requests.Request {
	r.Periods = append([]schedule.Range(nil), r.Periods...)
	if r.ReviewedAt != nil {
		t := *r.ReviewedAt
		r.ReviewedAt = &t
	}
	return r
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a transaction.
// For the memory store, this is simulated with a snapshot + rollback on error.
func (m *Memory) WithTx(ctx context.Context, fn func(requests.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()

	if err := fn(&txView{parent: m}); err != nil {
		m.employees = snapshot.employees
		m.requests = snapshot.requests
		return err
	}
	return nil
}

type memorySnapshot struct {
	employees map[string]requests.Employee
	requests  map[string]requests.Request
}

func (m *Memory) snapshot() memorySnapshot {
	emps := make(map[string]requests.Employee, len(m.employees))
	for k, v := range m.employees {
		emps[k] = v
	}
	reqs := make(map[string]requests.Request, len(m.requests))
	for k, v := range m.requests {
		reqs[k] = copyRequest(v)
	}
	return memorySnapshot{employees: emps, requests: reqs}
}

// txView runs against the parent while WithTx holds its lock.
type txView struct {
	parent *Memory
}

func (tv *txView) SaveEmployee(_ context.Context, emp requests.Employee) error {
	tv.parent.saveEmployeeLocked(emp)
	return nil
}

func (tv *txView) GetEmployee(_ context.Context, id string) (*requests.Employee, error) {
	return tv.parent.getEmployeeLocked(id), nil
}

func (tv *txView) ListEmployees(_ context.Context) ([]requests.Employee, error) {
	return tv.parent.listEmployeesLocked(), nil
}

func (tv *txView) DeleteEmployee(_ context.Context, id string) error {
	delete(tv.parent.employees, id)
	return nil
}

func (tv *txView) SaveRequest(_ context.Context, r requests.Request) error {
	tv.parent.saveRequestLocked(r)
	return nil
}

func (tv *txView) GetRequest(_ context.Context, id string) (*requests.Request, error) {
	return tv.parent.getRequestLocked(id), nil
}

func (tv *txView) ListRequests(_ context.Context, filter requests.RequestFilter) ([]requests.Request, error) {
	return tv.parent.listRequestsLocked(filter), nil
}
