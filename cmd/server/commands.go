package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/hr-scheduler/api"
	"github.com/warp/hr-scheduler/config"
	"github.com/warp/hr-scheduler/logging"
	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
	"github.com/warp/hr-scheduler/store/sqlite"
)

const shutdownTimeout = 30 * time.Second

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hr-scheduler",
		Short:        "HR leave and work-from-home scheduler",
		SilenceUsage: true,
		RunE:         runServe,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE:  runServe,
		},
		newWeekCmd(),
		newPlanCmd(),
	)
	return root
}

// =============================================================================
// SHARED SETUP
// =============================================================================

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *sqlite.Store
	service *requests.Service
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		service: requests.NewService(store, logger),
	}, nil
}

// =============================================================================
// SERVE
// =============================================================================

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := api.NewHandler(a.service, a.logger)
	router := api.NewRouter(handler, api.RouterOptions{
		CORSOrigins:     a.cfg.CORSOrigins,
		RateLimitPerMin: a.cfg.RateLimitPerMin,
	})

	planner := api.NewWeeklyPlanScheduler(a.service, a.cfg.AutoPlanDays, a.logger)
	planner.CheckInterval = a.cfg.AutoPlanInterval
	planner.Start()
	defer planner.Stop()

	server := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", a.cfg.DBPath),
			zap.String("env", a.cfg.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}

// =============================================================================
// WEEK
// =============================================================================

func newWeekCmd() *cobra.Command {
	var (
		date   string
		offset int
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the Saturday-Friday week window",
		Long: `Print the week window containing --date (default today), shifted by
--offset weeks. Friday is the weekly holiday.

Examples:
  hr-scheduler week                     # This week
  hr-scheduler week --offset 1          # Next week
  hr-scheduler week --date 2024-06-12`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := refDate(date)
			if err != nil {
				return err
			}
			printWeek(cmd.OutOrStdout(), schedule.ResolveWeek(ref, offset))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reference date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&offset, "offset", 0, "week offset from the reference week")
	return cmd
}

func printWeek(w io.Writer, window schedule.WeekWindow) {
	fmt.Fprintf(w, "Week %s .. %s\n", window.Start, window.End)
	for _, d := range window.Days {
		marker := ""
		if d.IsHoliday {
			marker = "  (holiday)"
		}
		fmt.Fprintf(w, "  %s %s%s\n", d.ShortName, d.Date, marker)
	}
}

// =============================================================================
// PLAN
// =============================================================================

func newPlanCmd() *cobra.Command {
	var (
		date      string
		offset    int
		days      int
		seed      int64
		employees []string
		apply     bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview or create random WFH days for a week",
		Long: `Pick --days random working days per employee in the resolved week.
Without --apply nothing is written. With --apply one pending,
bulk-generated request is created per (employee, day).

Examples:
  hr-scheduler plan --days 2 --offset 1
  hr-scheduler plan --days 3 --seed 42 --employee emp-1 --employee emp-2
  hr-scheduler plan --days 2 --offset 1 --apply`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := refDate(date)
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var seedPtr *int64
			if cmd.Flags().Changed("seed") {
				seedPtr = &seed
			}
			out := cmd.OutOrStdout()

			if apply {
				result, err := a.service.GenerateRandomWFH(cmd.Context(), requests.GenerateInput{
					ReferenceDate:   ref,
					WeekOffset:      offset,
					DaysPerEmployee: days,
					EmployeeIDs:     employees,
					Seed:            seedPtr,
				})
				if result != nil {
					printPlan(out, result.Plan)
					fmt.Fprintf(out, "Created %d requests\n", len(result.Created))
				}
				return err
			}

			roster, err := a.service.Roster(cmd.Context(), employees...)
			if err != nil {
				return err
			}
			planner := schedule.NewRandomPlanner()
			if seedPtr != nil {
				planner = schedule.NewSeededPlanner(*seedPtr)
			}
			plan, err := planner.Plan(roster, days, schedule.ResolveWeek(ref, offset))
			if err != nil {
				return err
			}
			printPlan(out, plan)
			fmt.Fprintln(out, "Dry run: nothing written (use --apply)")
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reference date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&offset, "offset", 0, "week offset from the reference week")
	cmd.Flags().IntVar(&days, "days", 0, "WFH days per employee (1-6)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for a reproducible plan")
	cmd.Flags().StringSliceVar(&employees, "employee", nil, "employee ID to include (repeatable, default all)")
	cmd.Flags().BoolVar(&apply, "apply", false, "create the requests")
	_ = cmd.MarkFlagRequired("days")
	return cmd
}

func printPlan(w io.Writer, plan *schedule.AssignmentPlan) {
	if plan == nil {
		return
	}
	fmt.Fprintf(w, "Week %s .. %s\n", plan.Window.Start, plan.Window.End)
	for _, entry := range plan.Entries {
		dates := make([]string, len(entry.Dates))
		for i, d := range entry.Dates {
			dates[i] = fmt.Sprintf("%s %s", d.Weekday().String()[:3], d)
		}
		name := entry.Employee.FullName
		if name == "" {
			name = entry.Employee.ID
		}
		fmt.Fprintf(w, "  %-24s %s\n", name, strings.Join(dates, ", "))
	}
}

func refDate(s string) (schedule.Date, error) {
	if s == "" {
		return schedule.Today(), nil
	}
	return schedule.ParseDate(s)
}
