package supplierhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/audit"
	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/suppliers"
	"backoffice/internal/transport/http/api"
	"backoffice/internal/transport/http/middleware"
	"backoffice/internal/transport/http/shared"
)

type SupplierService interface {
	Get(ctx context.Context, id string) (suppliers.Transaction, error)
	List(ctx context.Context, filter suppliers.Filter, limit, offset int) ([]suppliers.Transaction, int, error)
	Create(ctx context.Context, d suppliers.Draft) (suppliers.Transaction, error)
	MarkPaid(ctx context.Context, id string) (suppliers.Transaction, error)
}

type Handler struct {
	Service SupplierService
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service SupplierService, perms middleware.PermissionStore, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/supplier-transactions", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSuppliersRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSuppliersWrite, h.Perms)).Post("/", h.handleCreate)
		r.Route("/{transactionID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermSuppliersRead, h.Perms)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermSuppliersWrite, h.Perms)).Post("/pay", h.handlePay)
		})
	})
}

type createRequest struct {
	Description string  `json:"description"`
	TotalAmount float64 `json:"totalAmount"`
	PaidStatus  string  `json:"paidStatus"`
}

var validationFields = map[error]string{
	suppliers.ErrDescriptionRequired: "description",
	suppliers.ErrInvalidAmount:       "totalAmount",
	suppliers.ErrInvalidStatus:       "paidStatus",
}

func writeSupplierError(w http.ResponseWriter, requestID string, err error) bool {
	if err == nil {
		return false
	}
	for target, field := range validationFields {
		if errors.Is(err, target) {
			shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: field, Reason: target.Error()}})
			return true
		}
	}
	if errors.Is(err, suppliers.ErrTransactionNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "supplier transaction not found", requestID)
		return true
	}
	slog.Error("supplier request failed", "requestId", requestID, "err", err)
	api.Fail(w, http.StatusInternalServerError, "supplier_failed", "supplier request failed", requestID)
	return true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r)
	query := r.URL.Query()
	filter := suppliers.Filter{
		Search:     query.Get("search"),
		PaidStatus: query.Get("paidStatus"),
	}

	out, total, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if writeSupplierError(w, requestID, err) {
		return
	}
	if out == nil {
		out = []suppliers.Transaction{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, out, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "transactionID")
	if !shared.ValidID(id) {
		api.Fail(w, http.StatusNotFound, "not_found", "supplier transaction not found", requestID)
		return
	}

	t, err := h.Service.Get(r.Context(), id)
	if writeSupplierError(w, requestID, err) {
		return
	}
	api.Success(w, t, requestID)
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
	v.Required("description", payload.Description, "is required")
	v.Money("totalAmount", payload.TotalAmount, suppliers.MinAmount, suppliers.MaxAmount)
	if v.Reject(w, requestID) {
		return
	}

	t, err := h.Service.Create(r.Context(), suppliers.Draft{
		Description: payload.Description,
		TotalAmount: payload.TotalAmount,
		PaidStatus:  payload.PaidStatus,
	})
	if writeSupplierError(w, requestID, err) {
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "suppliers.transaction.create", suppliers.AuditEntityTransaction, t.ID, requestID, shared.ClientIP(r), nil, t); err != nil {
		slog.Warn("audit suppliers.transaction.create failed", "err", err)
	}
	api.Created(w, t, requestID)
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	id := chi.URLParam(r, "transactionID")
	if !shared.ValidID(id) {
		api.Fail(w, http.StatusNotFound, "not_found", "supplier transaction not found", requestID)
		return
	}

	before, err := h.Service.Get(r.Context(), id)
	if writeSupplierError(w, requestID, err) {
		return
	}
	t, err := h.Service.MarkPaid(r.Context(), id)
	if writeSupplierError(w, requestID, err) {
		return
	}

	if before.PaidStatus != t.PaidStatus {
		if err := h.Audit.Record(r.Context(), user.UserID, "suppliers.transaction.pay", suppliers.AuditEntityTransaction, t.ID, requestID, shared.ClientIP(r), before, t); err != nil {
			slog.Warn("audit suppliers.transaction.pay failed", "err", err)
		}
	}
	api.Success(w, t, requestID)
}
