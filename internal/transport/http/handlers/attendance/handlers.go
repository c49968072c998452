package attendancehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/attendance"
	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/core"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

type AttendanceService interface {
	Record(ctx context.Context, rec attendance.Record) (attendance.Record, error)
	List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error)
}

type Handler struct {
	Service AttendanceService
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service AttendanceService, perms middleware.PermissionStore, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)).Post("/", h.handleRecord)
	})
}

type recordRequest struct {
	EmployeeID string `json:"employeeId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	IsHoliday  bool   `json:"isHoliday"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	v := shared.NewValidator()
	filter := attendance.Filter{EmployeeID: query.Get("employeeId")}
	v.ID("employeeId", filter.EmployeeID)
	if raw := query.Get("from"); raw != "" {
		filter.From, _ = v.Date("from", raw)
	}
	if raw := query.Get("to"); raw != "" {
		filter.To, _ = v.Date("to", raw)
	}
	v.DateOrder("from", filter.From, "to", filter.To)
	if v.Reject(w, requestID) {
		return
	}

	out, err := h.Service.List(r.Context(), filter)
	if err != nil {
		slog.Error("attendance list failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", requestID)
		return
	}
	if out == nil {
		out = []attendance.Record{}
	}
	api.Success(w, out, requestID)
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload recordRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.ID("employeeId", payload.EmployeeID)
	checkIn, errIn := time.Parse(time.RFC3339, payload.CheckIn)
	if errIn != nil {
		v.Add("checkIn", "must be an RFC3339 timestamp")
	}
	checkOut, errOut := time.Parse(time.RFC3339, payload.CheckOut)
	if errOut != nil {
		v.Add("checkOut", "must be an RFC3339 timestamp")
	}
	if errIn == nil && errOut == nil && !checkOut.After(checkIn) {
		v.Add("checkOut", "must be after checkIn")
	}
	if v.Reject(w, requestID) {
		return
	}

	rec, err := h.Service.Record(r.Context(), attendance.Record{
		EmployeeID: payload.EmployeeID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		IsHoliday:  payload.IsHoliday,
	})
	switch {
	case errors.Is(err, attendance.ErrInvalidShift), errors.Is(err, attendance.ErrEmployeeRequired):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
		return
	case errors.Is(err, core.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	case err != nil:
		slog.Error("attendance record failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "attendance_create_failed", "failed to record attendance", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "attendance.record", "attendance", rec.ID, requestID, shared.ClientIP(r), nil, rec); err != nil {
		slog.Warn("audit attendance.record failed", "err", err)
	}

	api.Created(w, rec, requestID)
}
