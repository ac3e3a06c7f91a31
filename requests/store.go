package requests

import "context"

// =============================================================================
// STORE - Interface for employee and request persistence
// =============================================================================

// Store persists employees and requests.
// Get methods return (nil, nil) when the record does not exist.
type Store interface {
	SaveEmployee(ctx context.Context, emp Employee) error
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	// SaveRequest inserts or updates a request by ID.
	SaveRequest(ctx context.Context, r Request) error
	GetRequest(ctx context.Context, id string) (*Request, error)

	// ListRequests returns matching requests ordered by StartDate, then CreatedAt.
	ListRequests(ctx context.Context, filter RequestFilter) ([]Request, error)
}

// TxStore wraps Store with transaction support.
// Use this when several writes must land together (e.g. approving leave).
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, the transaction is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
