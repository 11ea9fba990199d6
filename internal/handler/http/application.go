package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gigline/gigline-backend-go/internal/domain/matching"
	"github.com/gigline/gigline-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ApplicationHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	ListForShift(w http.ResponseWriter, r *http.Request)
	MyApplications(w http.ResponseWriter, r *http.Request)
}

type applicationHandlerImpl struct {
	applicationService matching.ApplicationService
}

func NewApplicationHandler(applicationService matching.ApplicationService) ApplicationHandler {
	return &applicationHandlerImpl{applicationService: applicationService}
}

// Apply implements ApplicationHandler.
func (h *applicationHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	var req matching.ApplyRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Apply decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	app, err := h.applicationService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Application submitted", app)
}

// Withdraw implements ApplicationHandler.
func (h *applicationHandlerImpl) Withdraw(w http.ResponseWriter, r *http.Request) {
	applicationID := chi.URLParam(r, "applicationID")

	if err := h.applicationService.Withdraw(r.Context(), applicationID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Application withdrawn", nil)
}

// Accept implements ApplicationHandler.
func (h *applicationHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	applicationID := chi.URLParam(r, "applicationID")

	app, err := h.applicationService.Accept(r.Context(), applicationID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Application accepted", app)
}

// ListForShift implements ApplicationHandler.
func (h *applicationHandlerImpl) ListForShift(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "shiftID")

	apps, err := h.applicationService.ListForShift(r.Context(), shiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, apps)
}

// MyApplications implements ApplicationHandler.
func (h *applicationHandlerImpl) MyApplications(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	apps, err := h.applicationService.MyApplications(r.Context(), limit, offset)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, apps)
}
