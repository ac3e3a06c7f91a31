/*
handlers.go - HTTP API handlers for the leave / WFH scheduler

PURPOSE:
  Exposes the request service via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to requests.Service.

ENDPOINTS:
  Employees:
    GET    /api/employees                  List all employees
    POST   /api/employees                  Create employee
    GET    /api/employees/{id}             Get employee
    PUT    /api/employees/{id}             Update employee
    DELETE /api/employees/{id}             Delete employee (requests are kept)
    GET    /api/employees/{id}/requests    Requests of one employee
    POST   /api/employees/{id}/requests    Submit a leave / WFH request

  Requests:
    GET    /api/requests                   List (status, type, source, employeeId, from, to)
    GET    /api/requests/pending           Pending requests
    GET    /api/requests/{id}              Get request
    POST   /api/requests/{id}/approve      Approve (LEAVE deducts balance)
    POST   /api/requests/{id}/reject       Reject

  Schedule:
    GET    /api/schedule/week              Weekly grid (?date=YYYY-MM-DD&offset=N)
    POST   /api/schedule/random-wfh        Generate random WFH days for a week

  Export:
    GET    /api/export/approved            XLSX of approved requests (?from=&to=)

  Demo:
    GET    /api/demo/scenarios             List demo rosters
    POST   /api/demo/load                  Load a demo roster

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Employee or request not found
  - 409: Employee ID taken, request not pending, insufficient leave balance
  - 207: Bulk generation stopped partway (body lists what was created)
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - demo.go: Demo roster loader
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/warp/hr-scheduler/export"
	"github.com/warp/hr-scheduler/requests"
	"github.com/warp/hr-scheduler/schedule"
)

// defaultReviewer is recorded when a review body names nobody.
const defaultReviewer = "hr"

// maxWeekOffset bounds ?offset and weekOffset to about a century either way.
const maxWeekOffset = 5200

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *requests.Service
	Logger   *zap.Logger
	validate *validator.Validate
}

// NewHandler creates a handler around the request service.
func NewHandler(svc *requests.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{Service: svc, Logger: logger, validate: v}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	emp := requests.Employee{
		ID:       strings.TrimSpace(req.ID),
		FullName: strings.TrimSpace(req.FullName),
		Code:     strings.TrimSpace(req.Code),
		Email:    strings.TrimSpace(req.Email),
	}
	if req.LeaveBalance != nil {
		emp.LeaveBalance = *req.LeaveBalance
	}
	created, err := h.Service.CreateEmployee(r.Context(), emp)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*created))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// UpdateEmployee replaces an employee's name, code, email and balance.
// A missing leaveBalance keeps the current one.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateEmployeeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	current, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	balance := current.LeaveBalance
	if req.LeaveBalance != nil {
		balance = *req.LeaveBalance
	}
	updated, err := h.Service.UpdateEmployee(r.Context(), requests.Employee{
		ID:           id,
		FullName:     strings.TrimSpace(req.FullName),
		Code:         strings.TrimSpace(req.Code),
		Email:        strings.TrimSpace(req.Email),
		LeaveBalance: balance,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*updated))
}

// DeleteEmployee removes an employee.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListEmployeeRequests returns the requests of one employee.
func (h *Handler) ListEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Service.GetEmployee(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	reqs, err := h.Service.ListRequests(r.Context(), requests.RequestFilter{EmployeeID: id})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

// SubmitRequest records a manual leave or WFH request.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequestRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	periods := make([]schedule.Range, len(req.Periods))
	for i, p := range req.Periods {
		start, err := schedule.ParseDate(p.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid period start", err)
			return
		}
		end, err := schedule.ParseDate(p.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid period end", err)
			return
		}
		periods[i] = schedule.Range{Start: start, End: end}
	}

	created, err := h.Service.Submit(r.Context(), requests.Submission{
		EmployeeID: chi.URLParam(r, "id"),
		Type:       schedule.AssignmentType(req.Type),
		Periods:    periods,
		Reason:     strings.TrimSpace(req.Reason),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(*created))
}

// =============================================================================
// REQUEST HANDLERS
// =============================================================================

// ListRequests returns requests matching the query filters.
func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := dateParam(r, "from")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	to, err := dateParam(r, "to")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	reqs, err := h.Service.ListRequests(r.Context(), requests.RequestFilter{
		EmployeeID: q.Get("employeeId"),
		Status:     requests.Status(q.Get("status")),
		Type:       schedule.AssignmentType(q.Get("type")),
		Source:     requests.Source(q.Get("source")),
		From:       from,
		To:         to,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

// ListPendingRequests returns requests awaiting review.
func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Service.PendingRequests(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(reqs))
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.GetRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*req))
}

// ApproveRequest approves a pending request.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	body, ok := h.reviewBody(w, r)
	if !ok {
		return
	}

	approved, err := h.Service.Approve(r.Context(), chi.URLParam(r, "id"), body.ReviewedBy)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*approved))
}

// RejectRequest rejects a pending request.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	body, ok := h.reviewBody(w, r)
	if !ok {
		return
	}

	rejected, err := h.Service.Reject(r.Context(), chi.URLParam(r, "id"), body.ReviewedBy, strings.TrimSpace(body.Reason))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*rejected))
}

// reviewBody accepts an empty body as "reviewed by hr".
func (h *Handler) reviewBody(w http.ResponseWriter, r *http.Request) (ReviewRequest, bool) {
	var body ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return body, false
	}
	if !h.validateStruct(w, &body) {
		return body, false
	}
	body.ReviewedBy = strings.TrimSpace(body.ReviewedBy)
	if body.ReviewedBy == "" {
		body.ReviewedBy = defaultReviewer
	}
	return body, true
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// WeekSchedule returns the Saturday-Friday grid for ?date (default today)
// shifted by ?offset weeks.
func (h *Handler) WeekSchedule(w http.ResponseWriter, r *http.Request) {
	ref, err := dateParam(r, "date")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if ref.IsZero() {
		ref = schedule.DateOf(h.Service.Now())
	}
	offset, err := weekOffsetParam(r, "offset")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	ws, err := h.Service.WeeklySchedule(r.Context(), ref, offset)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeekScheduleResponse(ws))
}

// GenerateRandomWFH creates random WFH days for a week.
// A store failure midway answers 207 with the requests created so far.
func (h *Handler) GenerateRandomWFH(w http.ResponseWriter, r *http.Request) {
	var req RandomWFHRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ref := schedule.DateOf(h.Service.Now())
	if req.Date != "" {
		parsed, err := schedule.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		ref = parsed
	}

	result, err := h.Service.GenerateRandomWFH(r.Context(), requests.GenerateInput{
		ReferenceDate:   ref,
		WeekOffset:      req.WeekOffset,
		DaysPerEmployee: req.DaysPerEmployee,
		EmployeeIDs:     req.EmployeeIDs,
		Seed:            req.Seed,
	})

	var partial *requests.PartialFailureError
	switch {
	case errors.As(err, &partial):
		h.Logger.Error("random WFH generation incomplete",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int("created", len(partial.Created)),
			zap.Int("remaining", len(partial.Remaining)),
			zap.Error(partial.Err),
		)
		writeJSON(w, http.StatusMultiStatus, RandomWFHResponse{
			WeekRange:       weekRange(result.Window),
			DaysPerEmployee: req.DaysPerEmployee,
			Created:         len(partial.Created),
			Requests:        toRequestDTOs(partial.Created),
			Remaining:       len(partial.Remaining),
			Error:           partial.Err.Error(),
		})
		return
	case err != nil:
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, RandomWFHResponse{
		WeekRange:       weekRange(result.Window),
		DaysPerEmployee: req.DaysPerEmployee,
		Created:         len(result.Created),
		Requests:        toRequestDTOs(result.Created),
	})
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportApproved streams approved requests as an XLSX workbook.
func (h *Handler) ExportApproved(w http.ResponseWriter, r *http.Request) {
	from, err := dateParam(r, "from")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	to, err := dateParam(r, "to")
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	rows, err := h.Service.ApprovedForExport(r.Context(), from, to)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	// Buffer so a workbook error can still produce a JSON 500.
	var buf bytes.Buffer
	if err := export.WriteApproved(&buf, rows); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(from.String(), to.String())))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. On failure it writes a 400 and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return h.validateStruct(w, dst)
}

func (h *Handler) validateStruct(w http.ResponseWriter, dst any) bool {
	if err := h.validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]string, len(ve))
			for i, fe := range ve {
				fields[i] = fmt.Sprintf("%s: %s", fieldPath(fe), describeTag(fe))
			}
			writeError(w, http.StatusBadRequest, "Validation failed", errors.New(strings.Join(fields, "; ")))
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// fieldPath drops the struct name: "periods[0].start".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "email":
		return "must be a valid email"
	case "max":
		if isNumber(fe.Kind()) {
			return "must be at most " + fe.Param()
		}
		return "must be at most " + fe.Param() + " long"
	case "min":
		if isNumber(fe.Kind()) {
			return "must be at least " + fe.Param()
		}
		return "must have at least " + fe.Param() + " entries"
	default:
		return "failed " + fe.Tag()
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// writeServiceError maps service errors to HTTP status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case requests.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case requests.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case requests.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	default:
		h.Logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func dateParam(r *http.Request, name string) (schedule.Date, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return schedule.Date{}, nil
	}
	d, err := schedule.ParseDate(raw)
	if err != nil {
		return schedule.Date{}, &schedule.ValidationError{Field: name, Message: "must be a date in YYYY-MM-DD format"}
	}
	return d, nil
}

func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &schedule.ValidationError{Field: name, Message: "must be an integer"}
	}
	return n, nil
}

func weekOffsetParam(r *http.Request, name string) (int, error) {
	n, err := intParam(r, name)
	if err != nil {
		return 0, err
	}
	if n < -maxWeekOffset || n > maxWeekOffset {
		return 0, &schedule.ValidationError{
			Field:   name,
			Message: fmt.Sprintf("must be between %d and %d", -maxWeekOffset, maxWeekOffset),
		}
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
