package requests_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
)

func TestRequestFilter_MatchesSpanOverlap(t *testing.T) {
	// Request spans 2024-06-10 .. 2024-06-12
	r := requests.Request{
		EmployeeID: "emp-1",
		Type:       schedule.AssignmentLeave,
		Status:     requests.StatusPending,
		Source:     requests.SourceManual,
		StartDate:  date("2024-06-10"),
		EndDate:    date("2024-06-12"),
	}

	tests := []struct {
		name   string
		filter requests.RequestFilter
		want   bool
	}{
		{"no bounds", requests.RequestFilter{}, true},
		{"window covers it", requests.RequestFilter{From: date("2024-06-08"), To: date("2024-06-14")}, true},
		{"touches last day", requests.RequestFilter{From: date("2024-06-12"), To: date("2024-06-20")}, true},
		{"touches first day", requests.RequestFilter{From: date("2024-06-01"), To: date("2024-06-10")}, true},
		{"before it", requests.RequestFilter{From: date("2024-06-01"), To: date("2024-06-09")}, false},
		{"after it", requests.RequestFilter{From: date("2024-06-13"), To: date("2024-06-20")}, false},
		{"open end, from inside", requests.RequestFilter{From: date("2024-06-11")}, true},
		{"open end, from after", requests.RequestFilter{From: date("2024-06-13")}, false},
		{"open start, to inside", requests.RequestFilter{To: date("2024-06-10")}, true},
		{"open start, to before", requests.RequestFilter{To: date("2024-06-09")}, false},
		{"other employee", requests.RequestFilter{EmployeeID: "emp-2"}, false},
		{"other status", requests.RequestFilter{Status: requests.StatusApproved}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(r))
		})
	}
}
