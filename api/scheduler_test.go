package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-scheduler/api"
	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
	"github.com/warp/hr-scheduler/store/memory"
)

func TestWeeklyPlanScheduler_RunNow(t *testing.T) {
	// GIVEN: A service whose clock reads Wednesday 2024-06-12
	// WHEN: Running the planner check repeatedly
	// THEN: Next week (06-15..06-21) is planned once, then left alone

	svc := newService(memory.New())
	ctx := context.Background()
	sched := api.NewWeeklyPlanScheduler(svc, 2, nil)

	run := sched.RunNow(ctx)
	assert.Equal(t, api.PlanNoEmployees, run.Outcome)
	assert.Equal(t, schedule.MustParseDate("2024-06-15"), run.WeekStart)

	for _, id := range []string{"emp-1", "emp-2", "emp-3"} {
		_, err := svc.CreateEmployee(ctx, requests.Employee{ID: id, FullName: id, Code: id})
		require.NoError(t, err)
	}

	run = sched.RunNow(ctx)
	require.NoError(t, run.Err)
	assert.Equal(t, api.PlanCreated, run.Outcome)
	assert.Equal(t, 6, run.Created)

	created, err := svc.ListRequests(ctx, requests.RequestFilter{Source: requests.SourceBulkGenerated})
	require.NoError(t, err)
	require.Len(t, created, 6)
	for _, r := range created {
		assert.False(t, r.StartDate.Before(schedule.MustParseDate("2024-06-15")))
		assert.False(t, r.StartDate.After(schedule.MustParseDate("2024-06-20")), "Friday 06-21 is never assigned")
	}

	run = sched.RunNow(ctx)
	assert.Equal(t, api.PlanAlreadyDone, run.Outcome)
	assert.Equal(t, 0, run.Created)

	last := sched.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, api.PlanAlreadyDone, last.Outcome)
}

func TestWeeklyPlanScheduler_StartStop(t *testing.T) {
	svc := newService(memory.New())
	_, err := svc.CreateEmployee(context.Background(), requests.Employee{ID: "emp-1", FullName: "A", Code: "A"})
	require.NoError(t, err)

	sched := api.NewWeeklyPlanScheduler(svc, 1, nil)
	sched.CheckInterval = time.Hour
	require.True(t, sched.Enabled())

	// Start runs one check immediately; Stop waits for it.
	sched.Start()
	sched.Stop()

	last := sched.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, api.PlanCreated, last.Outcome)
	assert.Equal(t, 1, last.Created)

	// Stopping twice is a no-op
	sched.Stop()
}

func TestWeeklyPlanScheduler_Disabled(t *testing.T) {
	sched := api.NewWeeklyPlanScheduler(newService(memory.New()), 0, nil)
	assert.False(t, sched.Enabled())

	sched.Start()
	sched.Stop()
	assert.Nil(t, sched.LastRun())
}
