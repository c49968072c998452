package corehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/core"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

type EmployeeService interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
	ListEmployees(ctx context.Context, filter core.EmployeeFilter, limit, offset int) ([]core.Employee, int, error)
	CreateEmployee(ctx context.Context, emp core.Employee) (core.Employee, error)
}

type Handler struct {
	Service EmployeeService
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service EmployeeService, perms middleware.PermissionStore, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreateEmployee)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGetEmployee)
	})
}

type employeeRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Designation string `json:"designation"`
	Status      string `json:"status"`
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r)
	filter := core.EmployeeFilter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	out, total, err := h.Service.ListEmployees(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		slog.Error("employee list failed", "requestId", middleware.GetRequestID(r.Context()), "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	if out == nil {
		out = []core.Employee{}
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if !shared.ValidID(employeeID) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.GetEmployee(r.Context(), employeeID)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		slog.Error("employee get failed", "requestId", middleware.GetRequestID(r.Context()), "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload employeeRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Enum("status", payload.Status, core.EmployeeStatuses, "must be active or inactive")
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Service.CreateEmployee(r.Context(), core.Employee{
		Name:        payload.Name,
		Email:       payload.Email,
		Designation: payload.Designation,
		Status:      payload.Status,
	})
	switch {
	case errors.Is(err, core.ErrEmployeeNameMissing):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "name", Reason: "is required"}})
		return
	case errors.Is(err, core.ErrEmployeeEmailTaken):
		api.Fail(w, http.StatusConflict, "employee_exists", "employee email already exists", requestID)
		return
	case err != nil:
		slog.Error("employee create failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "core.employee.create", "employee", emp.ID, requestID, shared.ClientIP(r), nil, emp); err != nil {
		slog.Warn("audit core.employee.create failed", "err", err)
	}

	api.Created(w, emp, requestID)
}
