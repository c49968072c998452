package loanhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/core"
	"backoffice/internal/domain/loans"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

type LoanService interface {
	Get(ctx context.Context, loanID string) (loans.Loan, error)
	List(ctx context.Context, filter loans.Filter) ([]loans.Loan, error)
	Create(ctx context.Context, d loans.Draft) (loans.Loan, error)
	Update(ctx context.Context, loanID string, p loans.Patch) (loans.Loan, error)
	Delete(ctx context.Context, loanID string) error
}

type Handler struct {
	Service LoanService
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service LoanService, perms middleware.PermissionStore, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/loans", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLoansRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLoansWrite, h.Perms)).Post("/", h.handleCreate)
		r.Route("/{loanID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermLoansRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermLoansWrite, h.Perms)).Put("/", h.handleUpdate)
			r.With(middleware.RequirePermission(auth.PermLoansWrite, h.Perms)).Delete("/", h.handleDelete)
		})
	})
}

type createRequest struct {
	EmployeeID        string   `json:"employeeId"`
	Principal         float64  `json:"principal"`
	InstallmentAmount float64  `json:"installmentAmount"`
	Remaining         *float64 `json:"remaining"`
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate"`
	Status            string   `json:"status"`
}

type updateRequest struct {
	Principal         *float64 `json:"principal"`
	InstallmentAmount *float64 `json:"installmentAmount"`
	Remaining         *float64 `json:"remaining"`
	StartDate         *string  `json:"startDate"`
	EndDate           *string  `json:"endDate"`
	Status            *string  `json:"status"`
}

// writeLoanError maps service errors onto responses. It reports false when
// err is nil.
func writeLoanError(w http.ResponseWriter, requestID string, err error) bool {
	switch {
	case err == nil:
		return false
	case loans.IsValidationError(err):
		api.Fail(w, http.StatusBadRequest, "validation_error", err.Error(), requestID)
	case errors.Is(err, loans.ErrActiveLoanExists):
		api.Fail(w, http.StatusConflict, "active_loan_exists", err.Error(), requestID)
	case errors.Is(err, loans.ErrLoanNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "loan not found", requestID)
	case errors.Is(err, core.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	default:
		slog.Error("loan request failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "loan_failed", "loan request failed", requestID)
	}
	return true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	filter := loans.Filter{
		EmployeeID:   query.Get("employeeId"),
		EmployeeName: query.Get("employeeName"),
		Status:       query.Get("status"),
	}
	v := shared.NewValidator()
	v.ID("employeeId", filter.EmployeeID)
	v.Enum("status", filter.Status, loans.Statuses, "must be active or complete")
	if v.Reject(w, requestID) {
		return
	}

	out, err := h.Service.List(r.Context(), filter)
	if writeLoanError(w, requestID, err) {
		return
	}
	if out == nil {
		out = []loans.Loan{}
	}
	api.Success(w, out, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	loanID := chi.URLParam(r, "loanID")
	if !shared.ValidID(loanID) {
		api.Fail(w, http.StatusNotFound, "not_found", "loan not found", requestID)
		return
	}

	loan, err := h.Service.Get(r.Context(), loanID)
	if writeLoanError(w, requestID, err) {
		return
	}
	api.Success(w, loan, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.ID("employeeId", payload.EmployeeID)
	v.Enum("status", payload.Status, loans.Statuses, "must be active or complete")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	if v.Reject(w, requestID) {
		return
	}

	loan, err := h.Service.Create(r.Context(), loans.Draft{
		EmployeeID:        payload.EmployeeID,
		Principal:         payload.Principal,
		InstallmentAmount: payload.InstallmentAmount,
		Remaining:         payload.Remaining,
		StartDate:         start,
		EndDate:           end,
		Status:            payload.Status,
	})
	if writeLoanError(w, requestID, err) {
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "loans.create", loans.AuditEntityLoan, loan.ID, requestID, shared.ClientIP(r), nil, loan); err != nil {
		slog.Warn("audit loans.create failed", "err", err)
	}
	api.Created(w, loan, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	loanID := chi.URLParam(r, "loanID")
	if !shared.ValidID(loanID) {
		api.Fail(w, http.StatusNotFound, "not_found", "loan not found", requestID)
		return
	}

	var payload updateRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}

	v := shared.NewValidator()
	patch := loans.Patch{
		Principal:         payload.Principal,
		InstallmentAmount: payload.InstallmentAmount,
		Remaining:         payload.Remaining,
		Status:            payload.Status,
	}
	if payload.StartDate != nil {
		if start, ok := v.Date("startDate", *payload.StartDate); ok {
			patch.StartDate = &start
		}
	}
	if payload.EndDate != nil {
		if end, ok := v.Date("endDate", *payload.EndDate); ok {
			patch.EndDate = &end
		}
	}
	if payload.Status != nil {
		v.Enum("status", *payload.Status, loans.Statuses, "must be active or complete")
	}
	if v.Reject(w, requestID) {
		return
	}

	before, err := h.Service.Get(r.Context(), loanID)
	if writeLoanError(w, requestID, err) {
		return
	}
	loan, err := h.Service.Update(r.Context(), loanID, patch)
	if writeLoanError(w, requestID, err) {
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "loans.update", loans.AuditEntityLoan, loan.ID, requestID, shared.ClientIP(r), before, loan); err != nil {
		slog.Warn("audit loans.update failed", "err", err)
	}
	api.Success(w, loan, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	loanID := chi.URLParam(r, "loanID")
	if !shared.ValidID(loanID) {
		api.Fail(w, http.StatusNotFound, "not_found", "loan not found", requestID)
		return
	}

	before, err := h.Service.Get(r.Context(), loanID)
	if writeLoanError(w, requestID, err) {
		return
	}
	if writeLoanError(w, requestID, h.Service.Delete(r.Context(), loanID)) {
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "loans.delete", loans.AuditEntityLoan, loanID, requestID, shared.ClientIP(r), before, nil); err != nil {
		slog.Warn("audit loans.delete failed", "err", err)
	}
	api.Success(w, map[string]any{"id": loanID, "deletedAt": time.Now().UTC()}, requestID)
}
