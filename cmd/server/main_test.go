package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/store/sqlite"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seedDB creates a SQLite file with the given employees.
func seedDB(t *testing.T, ids ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hr.db")
	store, err := sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()

	svc := requests.NewService(store, nil)
	for _, id := range ids {
		_, err := svc.CreateEmployee(context.Background(), requests.Employee{ID: id, FullName: "Name " + id, Code: id})
		require.NoError(t, err)
	}
	return path
}

func TestWeekCommand(t *testing.T) {
	out, err := execute(t, "week", "--date", "2024-06-12")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Week 2024-06-08 .. 2024-06-14", lines[0])
	assert.Equal(t, "  Sat 2024-06-08", lines[1])
	assert.Equal(t, "  Fri 2024-06-14  (holiday)", lines[7])

	out, err = execute(t, "week", "--date", "2024-06-12", "--offset", "-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Week 2024-06-01 .. 2024-06-07"))

	_, err = execute(t, "week", "--date", "June 12")
	assert.Error(t, err)
}

func TestPlanCommand_DryRunWritesNothing(t *testing.T) {
	db := seedDB(t, "emp-1", "emp-2")

	out, err := execute(t, "plan", "--db", db, "--log-level", "error", "--date", "2024-06-12", "--days", "2", "--seed", "42")
	require.NoError(t, err)
	assert.Contains(t, out, "Week 2024-06-08 .. 2024-06-14")
	assert.Contains(t, out, "Name emp-1")
	assert.Contains(t, out, "Dry run")

	// Same seed, same plan
	again, err := execute(t, "plan", "--db", db, "--log-level", "error", "--date", "2024-06-12", "--days", "2", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, out, again)

	store, err := sqlite.New(db)
	require.NoError(t, err)
	defer store.Close()
	reqs, err := store.ListRequests(context.Background(), requests.RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestPlanCommand_Apply(t *testing.T) {
	db := seedDB(t, "emp-1", "emp-2", "emp-3")

	out, err := execute(t, "plan", "--db", db, "--log-level", "error", "--date", "2024-06-12", "--days", "3", "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 9 requests")

	store, err := sqlite.New(db)
	require.NoError(t, err)
	defer store.Close()
	reqs, err := store.ListRequests(context.Background(), requests.RequestFilter{Source: requests.SourceBulkGenerated})
	require.NoError(t, err)
	assert.Len(t, reqs, 9)
}

func TestPlanCommand_Invalid(t *testing.T) {
	db := seedDB(t, "emp-1")

	_, err := execute(t, "plan", "--db", db, "--log-level", "error", "--days", "7")
	assert.Error(t, err)

	_, err = execute(t, "plan", "--db", db, "--log-level", "error")
	assert.Error(t, err, "--days is required")

	_, err = execute(t, "plan", "--db", seedDB(t), "--log-level", "error", "--days", "1")
	assert.Error(t, err, "empty roster")
}
