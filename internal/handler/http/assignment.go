package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gigline/gigline-backend-go/internal/domain/assignment"
	"github.com/gigline/gigline-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AssignmentHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	MyAssignments(w http.ResponseWriter, r *http.Request)
}

type assignmentHandlerImpl struct {
	attendanceService assignment.AttendanceService
}

func NewAssignmentHandler(attendanceService assignment.AttendanceService) AssignmentHandler {
	return &assignmentHandlerImpl{attendanceService: attendanceService}
}

// ClockIn implements AssignmentHandler. Policy rejections come back as a
// structured result with success=false and a stable rejection code; only
// integrity conflicts and infrastructure failures map to error statuses.
func (h *assignmentHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req assignment.ClockInRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ClockIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ClockOut implements AssignmentHandler.
func (h *assignmentHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req assignment.ClockOutRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ClockOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements AssignmentHandler.
func (h *assignmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignmentID")

	a, err := h.attendanceService.Get(r.Context(), assignmentID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, a)
}

// MyAssignments implements AssignmentHandler.
func (h *assignmentHandlerImpl) MyAssignments(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	assignments, err := h.attendanceService.MyAssignments(r.Context(), page, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, assignments.Assignments, &response.Meta{
		Page:       assignments.Page,
		Limit:      assignments.Limit,
		TotalItems: assignments.TotalCount,
		TotalPages: assignments.TotalPages,
	})
}
