package payrollhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/core"
	"backoffice/internal/domain/payroll"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

const idempotencyEndpointCreate = "salaries.create"

type SalaryService interface {
	List(ctx context.Context, filter payroll.Filter, limit, offset int) ([]payroll.SalaryRecord, int, error)
	Get(ctx context.Context, id string) (payroll.SalaryRecord, error)
	Create(ctx context.Context, in payroll.CreateInput) (payroll.SalaryRecord, error)
	Update(ctx context.Context, id string, in payroll.UpdateInput) (payroll.SalaryRecord, error)
	Delete(ctx context.Context, id string) error
	Payslip(ctx context.Context, id string) (payroll.PayslipDocument, error)
	EmailPayslip(ctx context.Context, id string) (payroll.SalaryRecord, error)
	Register(ctx context.Context, month string) ([]payroll.SalaryRecord, error)
}

type Handler struct {
	Service     SalaryService
	Perms       middleware.PermissionStore
	Audit       audit.Recorder
	Idempotency middleware.Idempotency
	Metrics     *metrics.Collector
}

func NewHandler(service SalaryService, perms middleware.PermissionStore, recorder audit.Recorder, idem middleware.Idempotency, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder, Idempotency: idem, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermPayrollRead, h.Perms)
	write := middleware.RequirePermission(auth.PermPayrollWrite, h.Perms)

	r.Route("/salaries", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(write).Post("/", h.handleCreate)
		r.With(read).Get("/export/register", h.handleExportRegister)
		r.Route("/{recordID}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGet)
			r.With(write).Put("/", h.handleUpdate)
			r.With(write).Delete("/", h.handleDelete)
			r.With(read).Get("/slip", h.handlePayslip)
			r.With(write).Post("/email", h.handleEmailPayslip)
		})
	})
}

type createRequest struct {
	EmployeeID  string   `json:"employeeId"`
	Month       string   `json:"month"`
	BasicSalary *float64 `json:"basicSalary"`
	Allowances  float64  `json:"allowances"`
}

type updateRequest struct {
	EmployeeID    *string  `json:"employeeId"`
	Month         *string  `json:"month"`
	BasicSalary   *float64 `json:"basicSalary"`
	Allowances    *float64 `json:"allowances"`
	PaymentStatus *string  `json:"paymentStatus"`
}

var validationErrors = map[error]string{
	payroll.ErrInvalidMonth:         "month",
	payroll.ErrInvalidBasicSalary:   "basicSalary",
	payroll.ErrInvalidAllowances:    "allowances",
	payroll.ErrInvalidPaymentStatus: "paymentStatus",
	payroll.ErrRecomputeNeedsBasic:  "basicSalary",
}

// writeServiceError maps payroll errors onto responses. It reports false
// when err is nil.
func writeServiceError(w http.ResponseWriter, requestID string, err error) bool {
	if err == nil {
		return false
	}
	for target, field := range validationErrors {
		if errors.Is(err, target) {
			shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: field, Reason: target.Error()}})
			return true
		}
	}
	switch {
	case errors.Is(err, payroll.ErrEmployeeEmailMissing):
		api.Fail(w, http.StatusBadRequest, "employee_email_missing", err.Error(), requestID)
	case errors.Is(err, payroll.ErrSalaryRecordNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "salary record not found", requestID)
	case errors.Is(err, core.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
	case errors.Is(err, payroll.ErrSalaryRecordExists):
		api.Fail(w, http.StatusConflict, "salary_record_exists", err.Error(), requestID)
	case errors.Is(err, payroll.ErrPayslipDeliveryFailed):
		slog.Error("payslip delivery failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusBadGateway, "email_failed", payroll.ErrPayslipDeliveryFailed.Error(), requestID)
	default:
		slog.Error("salary request failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "salary_failed", "salary request failed", requestID)
	}
	return true
}

func recordIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "recordID")
	if !shared.ValidID(id) {
		api.Fail(w, http.StatusNotFound, "not_found", "salary record not found", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return id, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r)
	query := r.URL.Query()
	filter := payroll.Filter{
		EmployeeID:    query.Get("employeeId"),
		EmployeeName:  query.Get("employeeName"),
		Month:         query.Get("month"),
		PaymentStatus: strings.ToLower(query.Get("paymentStatus")),
	}
	v := shared.NewValidator()
	v.ID("employeeId", filter.EmployeeID)
	v.Enum("paymentStatus", filter.PaymentStatus, payroll.PaymentStatuses, "must be pending or paid")
	if v.Reject(w, requestID) {
		return
	}

	out, total, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if writeServiceError(w, requestID, err) {
		return
	}
	if out == nil {
		out = []payroll.SalaryRecord{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, out, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	rec, err := h.Service.Get(r.Context(), id)
	if writeServiceError(w, middleware.GetRequestID(r.Context()), err) {
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestHash := middleware.RequestHash(body)
	if idempotencyKey != "" && h.Idempotency != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, idempotencyEndpointCreate, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", err.Error(), requestID)
			return
		}
		if err != nil {
			slog.Warn("idempotency check failed", "requestId", requestID, "err", err)
		}
		if found {
			api.Created(w, json.RawMessage(stored), requestID)
			return
		}
	}

	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	v.ID("employeeId", payload.EmployeeID)
	v.Required("month", payload.Month, "is required")
	if payload.BasicSalary == nil {
		v.Add("basicSalary", "is required")
	}
	if v.Reject(w, requestID) {
		return
	}

	rec, err := h.Service.Create(r.Context(), payroll.CreateInput{
		EmployeeID:  payload.EmployeeID,
		Month:       payload.Month,
		BasicSalary: *payload.BasicSalary,
		Allowances:  payload.Allowances,
	})
	if writeServiceError(w, requestID, err) {
		return
	}
	h.Metrics.Inc("salary_records_created")

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.salary.create", payroll.AuditEntitySalaryRecord, rec.ID, requestID, shared.ClientIP(r), nil, rec); err != nil {
		slog.Warn("audit payroll.salary.create failed", "err", err)
	}

	if idempotencyKey != "" && h.Idempotency != nil {
		if encoded, err := json.Marshal(rec); err != nil {
			slog.Warn("idempotency encode failed", "requestId", requestID, "err", err)
		} else if err := h.Idempotency.Save(r.Context(), user.UserID, idempotencyEndpointCreate, idempotencyKey, requestHash, encoded); err != nil {
			slog.Warn("idempotency save failed", "requestId", requestID, "err", err)
		}
	}

	api.Created(w, rec, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}

	var payload updateRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	if payload.EmployeeID != nil {
		v := shared.NewValidator()
		v.Required("employeeId", *payload.EmployeeID, "must not be empty")
		v.ID("employeeId", *payload.EmployeeID)
		if v.Reject(w, requestID) {
			return
		}
	}

	before, err := h.Service.Get(r.Context(), id)
	if writeServiceError(w, requestID, err) {
		return
	}
	rec, err := h.Service.Update(r.Context(), id, payroll.UpdateInput{
		EmployeeID:    payload.EmployeeID,
		Month:         payload.Month,
		BasicSalary:   payload.BasicSalary,
		Allowances:    payload.Allowances,
		PaymentStatus: payload.PaymentStatus,
	})
	if writeServiceError(w, requestID, err) {
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.salary.update", payroll.AuditEntitySalaryRecord, rec.ID, requestID, shared.ClientIP(r), before, rec); err != nil {
		slog.Warn("audit payroll.salary.update failed", "err", err)
	}
	api.Success(w, rec, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}

	before, err := h.Service.Get(r.Context(), id)
	if writeServiceError(w, requestID, err) {
		return
	}
	if writeServiceError(w, requestID, h.Service.Delete(r.Context(), id)) {
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.salary.delete", payroll.AuditEntitySalaryRecord, id, requestID, shared.ClientIP(r), before, nil); err != nil {
		slog.Warn("audit payroll.salary.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}
	doc, err := h.Service.Payslip(r.Context(), id)
	if writeServiceError(w, middleware.GetRequestID(r.Context()), err) {
		return
	}
	api.Attachment(w, "application/pdf", doc.Filename, doc.Data)
}

func (h *Handler) handleEmailPayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	id, ok := recordIDParam(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.EmailPayslip(r.Context(), id)
	if writeServiceError(w, requestID, err) {
		return
	}
	h.Metrics.Inc("payslips_emailed")

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.payslip.email", payroll.AuditEntitySalaryRecord, id, requestID, shared.ClientIP(r), nil, map[string]string{"to": rec.EmployeeEmail}); err != nil {
		slog.Warn("audit payroll.payslip.email failed", "err", err)
	}
	api.Success(w, map[string]string{"message": "Payslip sent to " + rec.EmployeeEmail}, requestID)
}

func (h *Handler) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	month := r.URL.Query().Get("month")
	if strings.TrimSpace(month) == "" {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "month", Reason: "is required"}})
		return
	}

	records, err := h.Service.Register(r.Context(), month)
	if writeServiceError(w, requestID, err) {
		return
	}

	var buf bytes.Buffer
	if err := payroll.WriteRegister(&buf, records); err != nil {
		slog.Error("register export failed", "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "register_export_failed", "failed to export register", requestID)
		return
	}
	api.Attachment(w, "text/csv", "salary-register-"+strings.TrimSpace(month)+".csv", buf.Bytes())
}
