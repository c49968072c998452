package supplierhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/suppliers"
	"backoffice/internal/transport/http/middleware"
)

type memoryTransactions map[string]suppliers.Transaction

func (m memoryTransactions) Get(ctx context.Context, id string) (suppliers.Transaction, error) {
	t, ok := m[id]
	if !ok {
		return suppliers.Transaction{}, suppliers.ErrTransactionNotFound
	}
	return t, nil
}

func (m memoryTransactions) matching(filter suppliers.Filter) []suppliers.Transaction {
	var out []suppliers.Transaction
	for _, t := range m {
		if filter.PaidStatus != "" && t.PaidStatus != filter.PaidStatus {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(t.Description), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (m memoryTransactions) List(ctx context.Context, filter suppliers.Filter, limit, offset int) ([]suppliers.Transaction, error) {
	return m.matching(filter), nil
}

func (m memoryTransactions) Count(ctx context.Context, filter suppliers.Filter) (int, error) {
	return len(m.matching(filter)), nil
}

func (m memoryTransactions) Insert(ctx context.Context, t suppliers.Transaction) (suppliers.Transaction, error) {
	t.ID = uuid.NewString()
	m[t.ID] = t
	return t, nil
}

func (m memoryTransactions) UpdateStatus(ctx context.Context, t suppliers.Transaction) (suppliers.Transaction, error) {
	m[t.ID] = t
	return t, nil
}

type nopAudit struct{ actions []string }

func (n *nopAudit) Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	n.actions = append(n.actions, action)
	return nil
}

func newRouter() (http.Handler, *nopAudit) {
	recorder := &nopAudit{}
	h := NewHandler(suppliers.NewService(memoryTransactions{}), auth.RolePermissionStore{}, recorder)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			role := req.Header.Get("X-Test-Role")
			if role == "" {
				role = auth.RoleFinance
			}
			ctx := middleware.WithUser(req.Context(), auth.UserContext{UserID: "u-1", RoleName: role})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.RegisterRoutes(r)
	return r, recorder
}

func send(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeTransaction(t *testing.T, rr *httptest.ResponseRecorder) suppliers.Transaction {
	t.Helper()
	var body struct {
		Data suppliers.Transaction `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.Data
}

func TestSupplierTransactionLifecycle(t *testing.T) {
	router, recorder := newRouter()

	rr := send(router, http.MethodPost, "/supplier-transactions", `{"description":"Cotton fabric rolls","totalAmount":15000}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	created := decodeTransaction(t, rr)
	if created.PaidStatus != suppliers.StatusNotPaid || !created.IsPayable || created.PaidDate != nil {
		t.Fatalf("expected an unpaid payable transaction, got %+v", created)
	}

	rr = send(router, http.MethodPost, "/supplier-transactions", `{"description":"Buttons","totalAmount":250,"paidStatus":"Paid"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = send(router, http.MethodGet, "/supplier-transactions?paidStatus=Not%20Paid", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Total-Count"); got != "1" {
		t.Fatalf("expected one unpaid transaction, got X-Total-Count %q", got)
	}

	path := "/supplier-transactions/" + created.ID
	rr = send(router, http.MethodPost, path+"/pay", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on pay, got %d: %s", rr.Code, rr.Body.String())
	}
	paid := decodeTransaction(t, rr)
	if paid.PaidStatus != suppliers.StatusPaid || paid.IsPayable || paid.PaidDate == nil {
		t.Fatalf("expected a settled transaction, got %+v", paid)
	}

	if rr := send(router, http.MethodPost, path+"/pay", ""); rr.Code != http.StatusOK {
		t.Fatalf("expected paying twice to succeed, got %d", rr.Code)
	}
	if rr := send(router, http.MethodGet, path, ""); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 on get, got %d", rr.Code)
	}

	want := []string{"suppliers.transaction.create", "suppliers.transaction.create", "suppliers.transaction.pay"}
	if strings.Join(recorder.actions, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected audit actions %v", recorder.actions)
	}
}

func TestCreateSupplierTransactionValidation(t *testing.T) {
	router, _ := newRouter()
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "missing description", body: `{"totalAmount":100}`, wantCode: http.StatusBadRequest},
		{name: "zero amount", body: `{"description":"Thread","totalAmount":0}`, wantCode: http.StatusBadRequest},
		{name: "fractional cents", body: `{"description":"Thread","totalAmount":10.005}`, wantCode: http.StatusBadRequest},
		{name: "unknown status", body: `{"description":"Thread","totalAmount":10,"paidStatus":"partial"}`, wantCode: http.StatusBadRequest},
		{name: "unknown field", body: `{"description":"Thread","totalAmount":10,"vendor":"x"}`, wantCode: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if rr := send(router, http.MethodPost, "/supplier-transactions", tc.body); rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestSupplierTransactionNotFound(t *testing.T) {
	router, _ := newRouter()
	missing := "/supplier-transactions/" + uuid.NewString()

	if rr := send(router, http.MethodGet, missing, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr := send(router, http.MethodPost, missing+"/pay", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on pay, got %d", rr.Code)
	}
	if rr := send(router, http.MethodGet, "/supplier-transactions/not-a-uuid", ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", rr.Code)
	}
}

func TestSupplierTransactionsRequirePermission(t *testing.T) {
	router, _ := newRouter()
	req := httptest.NewRequest(http.MethodGet, "/supplier-transactions", nil)
	req.Header.Set("X-Test-Role", auth.RoleHR)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for hr, got %d", rr.Code)
	}
}
