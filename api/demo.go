/*
demo.go - Demo roster loaders for testing and demonstrations

PURPOSE:
  Populates the store with a realistic roster so the weekly grid, review
  queue and export have something to show. Optionally generates random WFH
  days for the current week on top.

AVAILABLE SCENARIOS:
  small-team:   4 employees, 21 days of leave each
  engineering:  8 employees with mixed balances

HOW SCENARIOS WORK:
 1. Look up each roster employee by ID
 2. Create the ones that do not exist yet (existing ones are left alone)
 3. If generateWeek is set, run random WFH generation (2 days each)
    for the week containing today

USAGE VIA API:

	POST /api/demo/load
	{"scenario": "small-team", "generateWeek": true, "seed": 42}

NOTE:
  Loading is additive. Nothing is reset or deleted.

SEE ALSO:
  - handlers.go: Route handlers
  - requests/service.go: GenerateRandomWFH
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
)

// demoDaysPerEmployee is the WFH allowance used when generateWeek is set.
const demoDaysPerEmployee = 2

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	info   ScenarioDTO
	roster []requests.Employee
}

func demoEmployee(id, name, code string, balance int64) requests.Employee {
	return requests.Employee{
		ID:           id,
		FullName:     name,
		Code:         code,
		Email:        fmt.Sprintf("%s@example.com", code),
		LeaveBalance: decimal.NewFromInt(balance),
	}
}

var scenarios = []scenario{
	{
		info: ScenarioDTO{
			ID:          "small-team",
			Name:        "Small Team",
			Description: "Four employees with a full annual leave balance",
		},
		roster: []requests.Employee{
			demoEmployee("demo-01", "Ahmed Hassan", "e001", 21),
			demoEmployee("demo-02", "Sara Mahmoud", "e002", 21),
			demoEmployee("demo-03", "Youssef Nabil", "e003", 21),
			demoEmployee("demo-04", "Nour Khaled", "e004", 21),
		},
	},
	{
		info: ScenarioDTO{
			ID:          "engineering",
			Name:        "Engineering Department",
			Description: "Eight engineers, some with most of their leave already used",
		},
		roster: []requests.Employee{
			demoEmployee("demo-eng-01", "Omar Farouk", "eng01", 21),
			demoEmployee("demo-eng-02", "Laila Samir", "eng02", 14),
			demoEmployee("demo-eng-03", "Mostafa Adel", "eng03", 3),
			demoEmployee("demo-eng-04", "Hana Tarek", "eng04", 21),
			demoEmployee("demo-eng-05", "Karim Said", "eng05", 0),
			demoEmployee("demo-eng-06", "Mariam Ali", "eng06", 10),
			demoEmployee("demo-eng-07", "Ziad Hamdy", "eng07", 21),
			demoEmployee("demo-eng-08", "Salma Ezzat", "eng08", 7),
		},
	},
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.info.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns the available demo rosters.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	out := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.info
		out[i].Employees = len(s.roster)
	}
	writeJSON(w, http.StatusOK, out)
}

// LoadDemo creates a demo roster and optionally a week of WFH days.
func (h *Handler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	var req LoadDemoRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	sc, ok := findScenario(req.Scenario)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown scenario", fmt.Errorf("scenario %q not found", req.Scenario))
		return
	}

	resp, err := h.loadScenario(r.Context(), sc, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.Logger.Info("demo scenario loaded",
		zap.String("scenario", sc.info.ID),
		zap.Int("employees_created", resp.Created),
		zap.Int("requests_created", resp.Requests),
	)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) loadScenario(ctx context.Context, sc scenario, req LoadDemoRequest) (*LoadDemoResponse, error) {
	resp := &LoadDemoResponse{Scenario: sc.info.ID}
	ids := make([]string, 0, len(sc.roster))

	for _, emp := range sc.roster {
		ids = append(ids, emp.ID)

		existing, err := h.Service.GetEmployee(ctx, emp.ID)
		switch {
		case err == nil:
			resp.Employees = append(resp.Employees, toEmployeeDTO(*existing))
			continue
		case !requests.IsNotFound(err):
			return nil, err
		}

		created, err := h.Service.CreateEmployee(ctx, emp)
		if err != nil {
			return nil, fmt.Errorf("failed to create demo employee %s: %w", emp.ID, err)
		}
		resp.Employees = append(resp.Employees, toEmployeeDTO(*created))
		resp.Created++
	}

	if req.GenerateWeek {
		result, err := h.Service.GenerateRandomWFH(ctx, requests.GenerateInput{
			ReferenceDate:   schedule.DateOf(h.Service.Now()),
			DaysPerEmployee: demoDaysPerEmployee,
			EmployeeIDs:     ids,
			Seed:            req.Seed,
		})
		if err != nil {
			return nil, err
		}
		resp.Requests = len(result.Created)
	}
	return resp, nil
}
