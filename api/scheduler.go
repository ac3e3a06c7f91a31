/*
scheduler.go - Automated weekly WFH planning

PURPOSE:
  Periodically makes sure next week has a WFH plan. When no bulk-generated
  requests exist in next week's window, it runs random WFH generation for
  every employee, exactly as POST /api/schedule/random-wfh would.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - "Next week" is the Saturday-Friday window one week after today
  - Skips the week when any bulk-generated request already falls inside it
    (whatever its status), so re-runs and restarts never double-plan
  - Skips when there are no employees

CONFIGURATION:
  - CheckInterval:   How often to check (HR_AUTO_PLAN_INTERVAL, default 1h)
  - DaysPerEmployee: WFH days per employee (HR_AUTO_PLAN_DAYS, 0 = disabled)

USAGE:
  scheduler := NewWeeklyPlanScheduler(svc, 2, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GenerateRandomWFH endpoint (manual generation)
  - requests/service.go: GenerateRandomWFH
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
)

// PlanOutcome describes what one check did.
type PlanOutcome string

const (
	PlanCreated     PlanOutcome = "created"
	PlanAlreadyDone PlanOutcome = "already-planned"
	PlanNoEmployees PlanOutcome = "no-employees"
	PlanFailed      PlanOutcome = "failed"
)

// PlanRun records one scheduler check.
type PlanRun struct {
	At        time.Time
	WeekStart schedule.Date
	Outcome   PlanOutcome
	Created   int
	Err       error
}

// WeeklyPlanScheduler generates next week's WFH days in the background.
type WeeklyPlanScheduler struct {
	Service         *requests.Service
	Logger          *zap.Logger
	CheckInterval   time.Duration
	DaysPerEmployee int

	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	lastRun *PlanRun
}

// NewWeeklyPlanScheduler creates a scheduler checking hourly.
// daysPerEmployee <= 0 leaves it disabled.
func NewWeeklyPlanScheduler(svc *requests.Service, daysPerEmployee int, logger *zap.Logger) *WeeklyPlanScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeeklyPlanScheduler{
		Service:         svc,
		Logger:          logger.Named("planner"),
		CheckInterval:   time.Hour,
		DaysPerEmployee: daysPerEmployee,
	}
}

// Enabled reports whether Start will launch the loop.
func (s *WeeklyPlanScheduler) Enabled() bool {
	return s.DaysPerEmployee > 0 && s.CheckInterval > 0
}

// Start begins the scheduler.
func (s *WeeklyPlanScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled() {
		s.Logger.Info("weekly planning disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.CheckInterval)
	s.stop = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.ticker, s.stop)

	s.Logger.Info("weekly planning started",
		zap.Duration("interval", s.CheckInterval),
		zap.Int("days_per_employee", s.DaysPerEmployee),
	)
}

// Stop stops the scheduler and waits for an in-flight check.
func (s *WeeklyPlanScheduler) Stop() {
	s.mu.Lock()
	if s.ticker == nil {
		s.mu.Unlock()
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.ticker = nil
	s.mu.Unlock()

	s.wg.Wait()
	s.Logger.Info("weekly planning stopped")
}

func (s *WeeklyPlanScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	// Run immediately on start
	s.RunNow(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunNow(context.Background())
		case <-stop:
			return
		}
	}
}

// RunNow performs one check immediately.
func (s *WeeklyPlanScheduler) RunNow(ctx context.Context) PlanRun {
	now := s.Service.Now()
	window := schedule.ResolveWeek(schedule.DateOf(now), 1)
	run := PlanRun{At: now, WeekStart: window.Start}

	run.Outcome, run.Created, run.Err = s.planWeek(ctx, window)
	if run.Err != nil {
		s.Logger.Error("weekly planning failed",
			zap.String("week_start", window.Start.String()),
			zap.Int("created", run.Created),
			zap.Error(run.Err),
		)
	} else {
		s.Logger.Debug("weekly planning checked",
			zap.String("week_start", window.Start.String()),
			zap.String("outcome", string(run.Outcome)),
			zap.Int("created", run.Created),
		)
	}

	s.mu.Lock()
	s.lastRun = &run
	s.mu.Unlock()
	return run
}

func (s *WeeklyPlanScheduler) planWeek(ctx context.Context, window schedule.WeekWindow) (PlanOutcome, int, error) {
	existing, err := s.Service.ListRequests(ctx, requests.RequestFilter{
		Source: requests.SourceBulkGenerated,
		From:   window.Start,
		To:     window.End,
	})
	if err != nil {
		return PlanFailed, 0, err
	}
	if len(existing) > 0 {
		return PlanAlreadyDone, 0, nil
	}

	emps, err := s.Service.ListEmployees(ctx)
	if err != nil {
		return PlanFailed, 0, err
	}
	if len(emps) == 0 {
		return PlanNoEmployees, 0, nil
	}

	result, err := s.Service.GenerateRandomWFH(ctx, requests.GenerateInput{
		ReferenceDate:   window.Start,
		DaysPerEmployee: s.DaysPerEmployee,
	})
	if err != nil {
		created := 0
		if result != nil {
			created = len(result.Created)
		}
		return PlanFailed, created, err
	}
	return PlanCreated, len(result.Created), nil
}

// LastRun returns the most recent check, or nil before the first one.
func (s *WeeklyPlanScheduler) LastRun() *PlanRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun == nil {
		return nil
	}
	run := *s.lastRun
	return &run
}
