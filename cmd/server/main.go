/*
main.go - Application entry point

PURPOSE:
  Starts the HR leave / WFH scheduler server and offers two offline
  commands for HR staff working from a terminal.

COMMANDS:
  serve (default)  Run the HTTP API
  week             Print the Saturday-Friday window for a date
  plan             Preview random WFH days for the roster (--apply to save)

STARTUP SEQUENCE (serve):
  1. Load configuration (.env, HR_* env vars, flags)
  2. Build the zap logger
  3. Open the SQLite store
  4. Create the request service, API handler and router
  5. Start the weekly planning scheduler (if HR_AUTO_PLAN_DAYS > 0)
  6. Start the server with graceful shutdown

GLOBAL FLAGS:
  --port       HTTP server port (default: 8080)
  --db         SQLite database path (default: hr.db)
               Use ":memory:" for in-memory database
  --env        development | production
  --log-level  debug | info | warn | error

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the planning scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  # Run with file database
  ./server --db=./data/hr.db

  # Next week's window
  ./server week --offset 1

  # Preview 2 WFH days each for next week, reproducibly
  ./server plan --days 2 --offset 1 --seed 42

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
