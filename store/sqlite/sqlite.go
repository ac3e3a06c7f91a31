/*
Package sqlite provides a SQLite-backed implementation of requests.TxStore.

PURPOSE:
  Persists employees and leave/WFH requests. The schema is auto-migrated
  on New().

KEY TABLES:
  employees: Employee records, leave balance stored as decimal text
  requests:  Leave/WFH requests; periods kept as a JSON array

DATES:
  Calendar dates are stored as YYYY-MM-DD text and compared as text, which
  sorts correctly. Timestamps are fixed-width RFC3339 (nanosecond) UTC text.

INDEXES:
  - idx_requests_employee: Per-employee listings
  - idx_requests_status:   Pending queue, export
  - idx_requests_span:     Week / export range overlap queries

CONCURRENCY:
  Uses sync.RWMutex plus a single open connection, so ":memory:" databases
  are shared by every caller and WithTx cannot deadlock against the pool.

USAGE:
  store, err := sqlite.New("./data/hr.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := requests.NewService(store, logger)

SEE ALSO:
  - requests/store.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
)

// Store implements requests.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
	queries
}

var _ requests.TxStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, queries: queries{q: db}}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		code TEXT NOT NULL,
		email TEXT,
		leave_balance TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_name
		ON employees(full_name);

	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		type TEXT NOT NULL,
		periods_json TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		number_of_days INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		source TEXT NOT NULL DEFAULT 'manual',
		reason TEXT,
		reviewed_by TEXT,
		reviewed_at TEXT,
		rejection_reason TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_employee
		ON requests(employee_id);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON requests(status);
	CREATE INDEX IF NOT EXISTS idx_requests_span
		ON requests(start_date, end_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LOCKED ENTRY POINTS
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, emp requests.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries.SaveEmployee(ctx, emp)
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*requests.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries.GetEmployee(ctx, id)
}

func (s *Store) ListEmployees(ctx context.Context) ([]requests.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries.ListEmployees(ctx)
}

func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries.DeleteEmployee(ctx, id)
}

func (s *Store) SaveRequest(ctx context.Context, r requests.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries.SaveRequest(ctx, r)
}

func (s *Store) GetRequest(ctx context.Context, id string) (*requests.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries.GetRequest(ctx, id)
}

func (s *Store) ListRequests(ctx context.Context, filter requests.RequestFilter) ([]requests.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queries.ListRequests(ctx, filter)
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(requests.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if err := fn(&queries{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// =============================================================================
// QUERIES - shared by the store and its transactions
// =============================================================================

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	q dbtx
}

const employeeColumns = "id, full_name, code, email, leave_balance, created_at"

func (qs *queries) SaveEmployee(ctx context.Context, emp requests.Employee) error {
	query := `
		INSERT INTO employees (id, full_name, code, email, leave_balance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			code = excluded.code,
			email = excluded.email,
			leave_balance = excluded.leave_balance
	`

	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := qs.q.ExecContext(ctx, query,
		emp.ID, emp.FullName, emp.Code, nullString(emp.Email),
		emp.LeaveBalance.String(), formatTime(createdAt),
	)
	return err
}

func (qs *queries) GetEmployee(ctx context.Context, id string) (*requests.Employee, error) {
	row := qs.q.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (qs *queries) ListEmployees(ctx context.Context) ([]requests.Employee, error) {
	rows, err := qs.q.QueryContext(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY full_name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []requests.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (qs *queries) DeleteEmployee(ctx context.Context, id string) error {
	_, err := qs.q.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return err
}

const requestColumns = `id, employee_id, type, periods_json, start_date, end_date, number_of_days,
	status, source, reason, reviewed_by, reviewed_at, rejection_reason, created_at, updated_at`

func (qs *queries) SaveRequest(ctx context.Context, r requests.Request) error {
	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			reviewed_by = excluded.reviewed_by,
			reviewed_at = excluded.reviewed_at,
			rejection_reason = excluded.rejection_reason,
			updated_at = excluded.updated_at
	`

	periodsJSON, err := json.Marshal(r.Periods)
	if err != nil {
		return fmt.Errorf("failed to encode periods: %w", err)
	}

	var reviewedAt sql.NullString
	if r.ReviewedAt != nil {
		reviewedAt = sql.NullString{String: formatTime(*r.ReviewedAt), Valid: true}
	}

	_, err = qs.q.ExecContext(ctx, query,
		r.ID, r.EmployeeID, string(r.Type), string(periodsJSON),
		r.StartDate.String(), r.EndDate.String(), r.NumberOfDays,
		string(r.Status), string(r.Source), nullString(r.Reason),
		nullString(r.ReviewedBy), reviewedAt, nullString(r.RejectionReason),
		formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
	)
	return err
}

func (qs *queries) GetRequest(ctx context.Context, id string) (*requests.Request, error) {
	row := qs.q.QueryRowContext(ctx, "SELECT "+requestColumns+" FROM requests WHERE id = ?", id)

	r, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (qs *queries) ListRequests(ctx context.Context, filter requests.RequestFilter) ([]requests.Request, error) {
	var where []string
	var args []any

	if filter.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Source != "" {
		where = append(where, "source = ?")
		args = append(args, string(filter.Source))
	}
	if !filter.From.IsZero() {
		where = append(where, "end_date >= ?")
		args = append(args, filter.From.String())
	}
	if !filter.To.IsZero() {
		where = append(where, "start_date <= ?")
		args = append(args, filter.To.String())
	}

	query := "SELECT " + requestColumns + " FROM requests"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_date, created_at, id"

	rows, err := qs.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []requests.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// SCANNING
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (requests.Employee, error) {
	var emp requests.Employee
	var email sql.NullString
	var balance, createdAt string

	if err := row.Scan(&emp.ID, &emp.FullName, &emp.Code, &email, &balance, &createdAt); err != nil {
		return emp, err
	}

	lb, err := decimal.NewFromString(balance)
	if err != nil {
		return emp, fmt.Errorf("employee %s: invalid leave balance %q: %w", emp.ID, balance, err)
	}
	if emp.CreatedAt, err = parseTime(createdAt); err != nil {
		return emp, fmt.Errorf("employee %s: created_at: %w", emp.ID, err)
	}
	emp.Email = email.String
	emp.LeaveBalance = lb
	return emp, nil
}

func scanRequest(row scanner) (requests.Request, error) {
	var r requests.Request
	var typ, periodsJSON, startDate, endDate, status, source, createdAt, updatedAt string
	var reason, reviewedBy, reviewedAt, rejectionReason sql.NullString

	if err := row.Scan(
		&r.ID, &r.EmployeeID, &typ, &periodsJSON, &startDate, &endDate, &r.NumberOfDays,
		&status, &source, &reason, &reviewedBy, &reviewedAt, &rejectionReason,
		&createdAt, &updatedAt,
	); err != nil {
		return r, err
	}

	if err := json.Unmarshal([]byte(periodsJSON), &r.Periods); err != nil {
		return r, fmt.Errorf("request %s: invalid periods: %w", r.ID, err)
	}
	var err error
	if r.StartDate, err = schedule.ParseDate(startDate); err != nil {
		return r, fmt.Errorf("request %s: %w", r.ID, err)
	}
	if r.EndDate, err = schedule.ParseDate(endDate); err != nil {
		return r, fmt.Errorf("request %s: %w", r.ID, err)
	}

	r.Type = schedule.AssignmentType(typ)
	r.Status = requests.Status(status)
	r.Source = requests.Source(source)
	r.Reason = reason.String
	r.ReviewedBy = reviewedBy.String
	r.RejectionReason = rejectionReason.String
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return r, fmt.Errorf("request %s: created_at: %w", r.ID, err)
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return r, fmt.Errorf("request %s: updated_at: %w", r.ID, err)
	}
	if reviewedAt.Valid {
		t, err := parseTime(reviewedAt.String)
		if err != nil {
			return r, fmt.Errorf("request %s: reviewed_at: %w", r.ID, err)
		}
		r.ReviewedAt = &t
	}
	return r, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timeLayout is fixed-width so timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
