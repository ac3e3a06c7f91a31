package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
	"github.com/warp/hr-scheduler/store/memory"
)

func TestWithTx_RollbackRestoresState(t *testing.T) {
	// GIVEN: A stored pending request
	// WHEN: A transaction approves it and then fails
	// THEN: The request is still pending and the new employee is gone

	store := memory.New()
	ctx := context.Background()
	day := schedule.MustParseDate("2024-06-09")

	require.NoError(t, store.SaveRequest(ctx, requests.Request{
		ID:        "req-1",
		Periods:   []schedule.Range{schedule.SingleDay(day)},
		StartDate: day,
		EndDate:   day,
		Status:    requests.StatusPending,
	}))

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx requests.Store) error {
		r, err := tx.GetRequest(ctx, "req-1")
		require.NoError(t, err)
		r.Status = requests.StatusApproved
		require.NoError(t, tx.SaveRequest(ctx, *r))
		require.NoError(t, tx.SaveEmployee(ctx, requests.Employee{ID: "emp-9"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	r, err := store.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, requests.StatusPending, r.Status)

	emp, err := store.GetEmployee(ctx, "emp-9")
	require.NoError(t, err)
	assert.Nil(t, emp)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	day := schedule.MustParseDate("2024-06-09")
	reviewed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveRequest(ctx, requests.Request{
		ID:         "req-1",
		Periods:    []schedule.Range{schedule.SingleDay(day)},
		ReviewedAt: &reviewed,
	}))

	r, err := store.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	r.Periods[0] = schedule.SingleDay(day.AddDays(1))
	*r.ReviewedAt = reviewed.Add(time.Hour)

	again, err := store.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, day, again.Periods[0].Start)
	assert.True(t, reviewed.Equal(*again.ReviewedAt))
}

func TestSaveEmployee_KeepsCreatedAt(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveEmployee(ctx, requests.Employee{ID: "emp-1", FullName: "B", CreatedAt: created}))
	require.NoError(t, store.SaveEmployee(ctx, requests.Employee{ID: "emp-1", FullName: "B2"}))
	require.NoError(t, store.SaveEmployee(ctx, requests.Employee{ID: "emp-2", FullName: "A"}))

	list, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "emp-2", list[0].ID)
	assert.Equal(t, created, list[1].CreatedAt)
}
