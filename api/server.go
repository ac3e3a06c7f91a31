/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK (outermost first):
  1. RequestID:  Unique ID per request, echoed in logs
  2. RealIP:     Client IP from X-Forwarded-For / X-Real-IP
  3. Logger:     zap access log (method, path, status, duration)
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. RateLimit:  Per-IP token bucket, 429 when exhausted (disabled at 0)
  6. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/employees/*      Employees and their requests
  /api/requests/*       Review queue
  /api/schedule/*       Weekly grid, random WFH generation
  /api/export/*         XLSX export
  /api/demo/*           Demo rosters
  /health               Liveness check

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Logging and rate limiting
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	CORSOrigins     []string
	RateLimitPerMin int // 0 disables rate limiting
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	if opts.RateLimitPerMin > 0 {
		r.Use(RateLimit(NewIPRateLimiter(opts.RateLimitPerMin), h.Logger))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Get("/{id}/requests", h.ListEmployeeRequests)
			r.Post("/{id}/requests", h.SubmitRequest)
		})

		// Request review routes
		r.Route("/requests", func(r chi.Router) {
			r.Get("/", h.ListRequests)
			r.Get("/pending", h.ListPendingRequests)
			r.Get("/{id}", h.GetRequest)
			r.Post("/{id}/approve", h.ApproveRequest)
			r.Post("/{id}/reject", h.RejectRequest)
		})

		// Schedule routes
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/week", h.WeekSchedule)
			r.Post("/random-wfh", h.GenerateRandomWFH)
		})

		r.Get("/export/approved", h.ExportApproved)

		// Demo routes
		r.Route("/demo", func(r chi.Router) {
			r.Get("/scenarios", h.ListScenarios)
			r.Post("/load", h.LoadDemo)
		})
	})

	return r
}
