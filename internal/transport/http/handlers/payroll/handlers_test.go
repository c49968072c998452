package payrollhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/payroll"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/transport/http/middleware"
)

const (
	recordID   = "7d9f4c1e-2b7a-4e55-9a0b-2f0c7b1d5e11"
	employeeID = "0b6f1d2c-8e3a-4c1b-9f0e-5a7d3c2b1e44"
)

type fakeService struct {
	mu       sync.Mutex
	records  map[string]payroll.SalaryRecord
	creates  int
	emailErr error
}

func newFakeService() *fakeService {
	return &fakeService{records: map[string]payroll.SalaryRecord{}}
}

func (f *fakeService) List(ctx context.Context, filter payroll.Filter, limit, offset int) ([]payroll.SalaryRecord, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.SalaryRecord
	for _, rec := range f.records {
		if filter.Month == "" || rec.Month == filter.Month {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

func (f *fakeService) Get(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return payroll.SalaryRecord{}, payroll.ErrSalaryRecordNotFound
	}
	return rec, nil
}

func (f *fakeService) Create(ctx context.Context, in payroll.CreateInput) (payroll.SalaryRecord, error) {
	if in.Month != "August-2025" {
		return payroll.SalaryRecord{}, payroll.ErrInvalidMonth
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.EmployeeID == in.EmployeeID && rec.Month == in.Month {
			return payroll.SalaryRecord{}, payroll.ErrSalaryRecordExists
		}
	}
	f.creates++
	rec := payroll.SalaryRecord{
		ID:            recordID,
		EmployeeID:    in.EmployeeID,
		EmployeeName:  "Nimal Perera",
		EmployeeEmail: "nimal@example.com",
		Month:         in.Month,
		BasicSalary:   in.BasicSalary,
		Allowances:    in.Allowances,
		PaymentStatus: payroll.PaymentStatusPending,
		IsPayable:     true,
	}
	rec.NetSalary = in.BasicSalary + in.Allowances
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeService) Update(ctx context.Context, id string, in payroll.UpdateInput) (payroll.SalaryRecord, error) {
	if in.BasicSalary == nil && (in.Month != nil || in.Allowances != nil || in.EmployeeID != nil) {
		return payroll.SalaryRecord{}, payroll.ErrRecomputeNeedsBasic
	}
	rec, err := f.Get(ctx, id)
	if err != nil {
		return payroll.SalaryRecord{}, err
	}
	if in.PaymentStatus != nil {
		rec.PaymentStatus = *in.PaymentStatus
		rec.IsPayable = payroll.IsPayable(rec.PaymentStatus)
	}
	f.mu.Lock()
	f.records[id] = rec
	f.mu.Unlock()
	return rec, nil
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return payroll.ErrSalaryRecordNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeService) Payslip(ctx context.Context, id string) (payroll.PayslipDocument, error) {
	if _, err := f.Get(ctx, id); err != nil {
		return payroll.PayslipDocument{}, err
	}
	return payroll.PayslipDocument{Filename: "Payslip-Nimal_Perera-August-2025.pdf", Data: []byte("%PDF-1.3")}, nil
}

func (f *fakeService) EmailPayslip(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	rec, err := f.Get(ctx, id)
	if err != nil {
		return payroll.SalaryRecord{}, err
	}
	if f.emailErr != nil {
		return payroll.SalaryRecord{}, f.emailErr
	}
	return rec, nil
}

func (f *fakeService) Register(ctx context.Context, month string) ([]payroll.SalaryRecord, error) {
	if month != "August-2025" {
		return nil, payroll.ErrInvalidMonth
	}
	out, _, err := f.List(ctx, payroll.Filter{Month: month}, 0, 0)
	return out, err
}

type auditCall struct {
	action string
	entity string
	id     string
}

type fakeAudit struct {
	mu    sync.Mutex
	calls []auditCall
}

func (f *fakeAudit) Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, auditCall{action: action, entity: entityType, id: entityID})
	return nil
}

type memoryIdempotency struct {
	mu      sync.Mutex
	entries map[string][2]string
}

func (m *memoryIdempotency) Check(ctx context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[userID+"|"+endpoint+"|"+key]
	if !ok {
		return nil, false, nil
	}
	if entry[0] != requestHash {
		return nil, false, middleware.ErrIdempotencyConflict
	}
	return json.RawMessage(entry[1]), true, nil
}

func (m *memoryIdempotency) Save(ctx context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[string][2]string{}
	}
	m.entries[userID+"|"+endpoint+"|"+key] = [2]string{requestHash, string(response)}
	return nil
}

type testEnv struct {
	router    http.Handler
	service   *fakeService
	audit     *fakeAudit
	collector *metrics.Collector
}

func newTestEnv() *testEnv {
	env := &testEnv{service: newFakeService(), audit: &fakeAudit{}, collector: metrics.New()}
	h := NewHandler(env.service, auth.RolePermissionStore{}, env.audit, &memoryIdempotency{}, env.collector)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			role := req.Header.Get("X-Test-Role")
			if role == "" {
				next.ServeHTTP(w, req)
				return
			}
			ctx := middleware.WithUser(req.Context(), auth.UserContext{UserID: "user-" + role, RoleName: role})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.RegisterRoutes(r)
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, role string, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rr.Body.String())
	}
	return env
}

const createBody = `{"employeeId":"` + employeeID + `","month":"August-2025","basicSalary":50000,"allowances":5000}`

func TestCreateSalaryRecord(t *testing.T) {
	env := newTestEnv()

	rr := env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, createBody, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var rec payroll.SalaryRecord
	if err := json.Unmarshal(decodeEnvelope(t, rr).Data, &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if rec.ID != recordID || rec.NetSalary != 55000 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(env.audit.calls) != 1 || env.audit.calls[0].action != "payroll.salary.create" {
		t.Fatalf("expected one create audit, got %+v", env.audit.calls)
	}
	counters := env.collector.Snapshot()["counters"].(map[string]uint64)
	if counters["salary_records_created"] != 1 {
		t.Fatalf("expected created counter 1, got %v", counters)
	}
}

func TestCreateSalaryRecordErrors(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		body     string
		wantCode int
		wantErr  string
	}{
		{name: "unauthenticated", body: createBody, wantCode: http.StatusUnauthorized, wantErr: "unauthorized"},
		{name: "hr cannot write payroll", role: auth.RoleHR, body: createBody, wantCode: http.StatusForbidden, wantErr: "forbidden"},
		{name: "missing fields", role: auth.RoleFinance, body: `{"month":"August-2025"}`, wantCode: http.StatusBadRequest, wantErr: "validation_error"},
		{name: "unknown field", role: auth.RoleFinance, body: `{"employeeId":"x","bonus":1}`, wantCode: http.StatusBadRequest, wantErr: "invalid_payload"},
		{name: "bad month", role: auth.RoleFinance, body: `{"employeeId":"` + employeeID + `","month":"2025/08","basicSalary":50000}`, wantCode: http.StatusBadRequest, wantErr: "validation_error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			rr := env.do(t, http.MethodPost, "/salaries", tc.role, tc.body, nil)
			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rr.Code, rr.Body.String())
			}
			if got := decodeEnvelope(t, rr); got.Error == nil || got.Error.Code != tc.wantErr {
				t.Fatalf("expected error %q, got %s", tc.wantErr, rr.Body.String())
			}
		})
	}
}

func TestCreateDuplicateEmployeeMonthConflicts(t *testing.T) {
	env := newTestEnv()
	if rr := env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, createBody, nil); rr.Code != http.StatusCreated {
		t.Fatalf("first create failed: %d", rr.Code)
	}
	rr := env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, createBody, nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateIdempotencyReplayAndConflict(t *testing.T) {
	env := newTestEnv()
	headers := map[string]string{"Idempotency-Key": "run-1"}

	first := env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, createBody, headers)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}
	replay := env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, createBody, headers)
	if replay.Code != http.StatusCreated {
		t.Fatalf("expected replay 201, got %d: %s", replay.Code, replay.Body.String())
	}
	if env.service.creates != 1 {
		t.Fatalf("expected a single create, got %d", env.service.creates)
	}
	var replayed payroll.SalaryRecord
	if err := json.Unmarshal(decodeEnvelope(t, replay).Data, &replayed); err != nil || replayed.ID != recordID {
		t.Fatalf("expected replayed record, got %s", replay.Body.String())
	}

	changed := strings.Replace(createBody, "50000", "60000", 1)
	conflict := env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, changed, headers)
	if conflict.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", conflict.Code)
	}
}

func TestUpdateRequiresBasicForRecompute(t *testing.T) {
	env := newTestEnv()
	env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, createBody, nil)

	rr := env.do(t, http.MethodPut, "/salaries/"+recordID, auth.RoleFinance, `{"allowances":100,"paymentStatus":"paid"}`, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "send paymentStatus alone") {
		t.Fatalf("expected guidance in rejection, got %s", rr.Body.String())
	}
	if rec, _ := env.service.Get(context.Background(), recordID); rec.PaymentStatus != payroll.PaymentStatusPending {
		t.Fatalf("rejected update must not change status, got %q", rec.PaymentStatus)
	}

	rr = env.do(t, http.MethodPut, "/salaries/"+recordID, auth.RoleFinance, `{"paymentStatus":"paid"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var rec payroll.SalaryRecord
	_ = json.Unmarshal(decodeEnvelope(t, rr).Data, &rec)
	if rec.PaymentStatus != payroll.PaymentStatusPaid || rec.IsPayable {
		t.Fatalf("expected paid and not payable, got %+v", rec)
	}
}

func TestGetAndDeleteNotFound(t *testing.T) {
	env := newTestEnv()
	for _, path := range []string{"/salaries/not-a-uuid", "/salaries/" + recordID} {
		if rr := env.do(t, http.MethodGet, path, auth.RoleHR, "", nil); rr.Code != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", path, rr.Code)
		}
	}
	if rr := env.do(t, http.MethodDelete, "/salaries/"+recordID, auth.RoleFinance, "", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on delete, got %d", rr.Code)
	}
}

func TestListSetsTotalCount(t *testing.T) {
	env := newTestEnv()
	env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, createBody, nil)

	rr := env.do(t, http.MethodGet, "/salaries?month=August-2025", auth.RoleHR, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("X-Total-Count"); got != "1" {
		t.Fatalf("expected total count 1, got %q", got)
	}
}

func TestPayslipDownload(t *testing.T) {
	env := newTestEnv()
	env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, createBody, nil)

	rr := env.do(t, http.MethodGet, "/salaries/"+recordID+"/slip", auth.RoleHR, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "Payslip-Nimal_Perera-August-2025.pdf") {
		t.Fatalf("unexpected disposition %q", cd)
	}
}

func TestEmailPayslip(t *testing.T) {
	env := newTestEnv()
	env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, createBody, nil)

	rr := env.do(t, http.MethodPost, "/salaries/"+recordID+"/email", auth.RoleFinance, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "nimal@example.com") {
		t.Fatalf("expected recipient in message, got %s", rr.Body.String())
	}

	env.service.emailErr = payroll.ErrEmployeeEmailMissing
	rr = env.do(t, http.MethodPost, "/salaries/"+recordID+"/email", auth.RoleFinance, "", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing email, got %d", rr.Code)
	}
	if got := decodeEnvelope(t, rr); got.Error == nil || got.Error.Code != "employee_email_missing" {
		t.Fatalf("expected employee_email_missing, got %s", rr.Body.String())
	}

	env.service.emailErr = errors.Join(payroll.ErrPayslipDeliveryFailed, errors.New("smtp down"))
	rr = env.do(t, http.MethodPost, "/salaries/"+recordID+"/email", auth.RoleFinance, "", nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for delivery failure, got %d", rr.Code)
	}
	if got := decodeEnvelope(t, rr); got.Error == nil || got.Error.Code != "email_failed" {
		t.Fatalf("expected email_failed, got %s", rr.Body.String())
	}
}

func TestExportRegister(t *testing.T) {
	env := newTestEnv()
	env.do(t, http.MethodPost, "/salaries", auth.RoleFinance, createBody, nil)

	rr := env.do(t, http.MethodGet, "/salaries/export/register?month=August-2025", auth.RoleHR, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("unexpected content type %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rr.Body.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "employee_id,") {
		t.Fatalf("unexpected register %q", rr.Body.String())
	}

	if rr := env.do(t, http.MethodGet, "/salaries/export/register", auth.RoleHR, "", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without month, got %d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/salaries/export/register?month=Smarch-2025", auth.RoleHR, "", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad month, got %d", rr.Code)
	}
}
