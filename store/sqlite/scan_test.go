package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
)

func TestScan_CorruptTimestampsAreReported(t *testing.T) {
	// GIVEN: Rows whose timestamp columns no longer parse
	// WHEN: Reading them back
	// THEN: The read fails instead of yielding a zero time

	store, err := New(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	day := schedule.MustParseDate("2024-06-09")
	require.NoError(t, store.SaveEmployee(ctx, requests.Employee{ID: "emp-1", FullName: "A", Code: "E1", CreatedAt: now}))
	require.NoError(t, store.SaveRequest(ctx, requests.Request{
		ID: "req-1", EmployeeID: "emp-1", Type: schedule.AssignmentWFH,
		Periods: []schedule.Range{schedule.SingleDay(day)}, StartDate: day, EndDate: day,
		NumberOfDays: 1, Status: requests.StatusApproved, Source: requests.SourceManual,
		ReviewedAt: &now, CreatedAt: now, UpdatedAt: now,
	}))

	_, err = store.db.Exec("UPDATE employees SET created_at = 'yesterday' WHERE id = 'emp-1'")
	require.NoError(t, err)

	_, err = store.GetEmployee(ctx, "emp-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at")

	_, err = store.ListEmployees(ctx)
	assert.Error(t, err)

	for _, column := range []string{"updated_at", "reviewed_at", "created_at"} {
		t.Run(column, func(t *testing.T) {
			_, err := store.db.Exec("UPDATE requests SET " + column + " = 'not-a-time' WHERE id = 'req-1'")
			require.NoError(t, err)
			t.Cleanup(func() {
				_, err := store.db.Exec("UPDATE requests SET "+column+" = ? WHERE id = 'req-1'", formatTime(now))
				require.NoError(t, err)
			})

			_, err = store.GetRequest(ctx, "req-1")
			require.Error(t, err)
			assert.Contains(t, err.Error(), column)
		})
	}
}
