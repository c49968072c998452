package reportshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/payroll"
	"backoffice/internal/domain/reports"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

type ReportService interface {
	Dashboard(ctx context.Context) (reports.Dashboard, error)
	ExpenseBreakdown(ctx context.Context) (reports.ExpenseBreakdown, error)
	ProfitLossPDF(ctx context.Context, month string) (reports.Document, error)
	BalanceSheetPDF(ctx context.Context, month string) (reports.Document, error)
}

type Handler struct {
	Service ReportService
	Perms   middleware.PermissionStore
}

func NewHandler(service ReportService, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/dashboard", h.handleDashboard)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/expenses", h.handleExpenses)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/profit-loss", h.statement("profit and loss", h.Service.ProfitLossPDF))
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/balance-sheet", h.statement("balance sheet", h.Service.BalanceSheetPDF))
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.Dashboard(r.Context())
	if err != nil {
		slog.Error("dashboard failed", "requestId", middleware.GetRequestID(r.Context()), "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to load dashboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExpenses(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.ExpenseBreakdown(r.Context())
	if err != nil {
		slog.Error("expense breakdown failed", "requestId", middleware.GetRequestID(r.Context()), "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to load expense breakdown", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

// statement serves a monthly PDF statement for ?month=.
func (h *Handler) statement(name string, render func(context.Context, string) (reports.Document, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetRequestID(r.Context())
		month := r.URL.Query().Get("month")

		v := shared.NewValidator()
		v.Required("month", month, "is required")
		if v.Reject(w, requestID) {
			return
		}

		doc, err := render(r.Context(), month)
		switch {
		case errors.Is(err, payroll.ErrInvalidMonth):
			shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "month", Reason: err.Error()}})
			return
		case err != nil:
			slog.Error(name+" statement failed", "requestId", requestID, "month", month, "err", err)
			api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to generate "+name+" statement", requestID)
			return
		}
		api.Attachment(w, "application/pdf", doc.Filename, doc.Data)
	}
}
