package requests

import (
	"context"

	"github.com/warp/hr-scheduler/schedule"
)

// =============================================================================
// WEEKLY SCHEDULE VIEW
// =============================================================================

// ScheduleDay is one employee on one day of the week.
type ScheduleDay struct {
	Date      schedule.Date
	IsHoliday bool
	IsWFH     bool
	Type      schedule.AssignmentType // empty when nothing is booked
	RequestID string
}

// EmployeeWeek is one row of the weekly schedule.
type EmployeeWeek struct {
	Employee Employee
	Days     []ScheduleDay
}

// WeekSchedule is the weekly WFH/leave grid.
type WeekSchedule struct {
	Window    schedule.WeekWindow
	Employees []EmployeeWeek
}

// WeeklySchedule builds the grid for the week containing ref, shifted by
// offset weeks. Pending and approved requests are shown; rejected ones are
// not. When two requests cover the same day the latest created wins.
func (s *Service) WeeklySchedule(ctx context.Context, ref schedule.Date, offset int) (*WeekSchedule, error) {
	window := schedule.ResolveWeek(ref, offset)

	emps, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := s.ListRequests(ctx, RequestFilter{From: window.Start, To: window.End})
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string][]Request)
	for _, r := range reqs {
		if r.Status == StatusRejected {
			continue
		}
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	out := &WeekSchedule{Window: window, Employees: make([]EmployeeWeek, 0, len(emps))}
	for _, emp := range emps {
		row := EmployeeWeek{Employee: emp, Days: make([]ScheduleDay, len(window.Days))}
		for i, slot := range window.Days {
			day := ScheduleDay{Date: slot.Date, IsHoliday: slot.IsHoliday}
			if r := latestCovering(byEmployee[emp.ID], slot.Date); r != nil {
				day.Type = r.Type
				day.IsWFH = r.Type == schedule.AssignmentWFH
				day.RequestID = r.ID
			}
			row.Days[i] = day
		}
		out.Employees = append(out.Employees, row)
	}
	return out, nil
}

func latestCovering(reqs []Request, d schedule.Date) *Request {
	var latest *Request
	for i := range reqs {
		r := &reqs[i]
		if !r.Covers(d) {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return latest
}
