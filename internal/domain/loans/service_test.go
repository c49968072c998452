package loans

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/domain/core"
)

type memoryStore struct {
	loans map[string]Loan
	seq   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{loans: map[string]Loan{}}
}

func (m *memoryStore) Get(ctx context.Context, loanID string) (Loan, error) {
	l, ok := m.loans[loanID]
	if !ok {
		return Loan{}, ErrLoanNotFound
	}
	return l, nil
}

func (m *memoryStore) Active(ctx context.Context, employeeID string) (*Loan, error) {
	for _, l := range m.loans {
		if l.EmployeeID == employeeID && l.Status == StatusActive {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) List(ctx context.Context, filter Filter) ([]Loan, error) {
	var out []Loan
	for _, l := range m.loans {
		out = append(out, l)
	}
	return out, nil
}

func (m *memoryStore) Insert(ctx context.Context, l Loan) (Loan, error) {
	m.seq++
	l.ID = "loan-" + strconv.Itoa(m.seq)
	m.loans[l.ID] = l
	return l, nil
}

func (m *memoryStore) Update(ctx context.Context, l Loan) (Loan, error) {
	if _, ok := m.loans[l.ID]; !ok {
		return Loan{}, ErrLoanNotFound
	}
	m.loans[l.ID] = l
	return l, nil
}

func (m *memoryStore) Delete(ctx context.Context, loanID string) error {
	if _, ok := m.loans[loanID]; !ok {
		return ErrLoanNotFound
	}
	delete(m.loans, loanID)
	return nil
}

type employees map[string]core.Employee

func (e employees) GetEmployee(ctx context.Context, employeeID string) (core.Employee, error) {
	emp, ok := e[employeeID]
	if !ok {
		return core.Employee{}, core.ErrEmployeeNotFound
	}
	return emp, nil
}

var (
	start = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
)

func validLoan() Loan {
	return Loan{
		EmployeeID:        "e1",
		Principal:         36000,
		InstallmentAmount: 3000,
		Remaining:         36000,
		StartDate:         start,
		EndDate:           end,
		Status:            StatusActive,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(l *Loan)
		wantErr error
	}{
		{name: "valid", mutate: func(l *Loan) {}},
		{name: "installment equals principal", mutate: func(l *Loan) { l.InstallmentAmount = l.Principal }},
		{name: "missing employee", mutate: func(l *Loan) { l.EmployeeID = "" }, wantErr: ErrEmployeeRequired},
		{name: "zero principal", mutate: func(l *Loan) { l.Principal = 0 }, wantErr: ErrInvalidPrincipal},
		{name: "principal too high", mutate: func(l *Loan) { l.Principal = 50000000.01 }, wantErr: ErrInvalidPrincipal},
		{name: "principal with three decimals", mutate: func(l *Loan) { l.Principal = 1000.005 }, wantErr: ErrInvalidPrincipal},
		{name: "installment too small", mutate: func(l *Loan) { l.InstallmentAmount = 0 }, wantErr: ErrInvalidInstallment},
		{name: "installment exceeds principal", mutate: func(l *Loan) { l.InstallmentAmount = 36000.01 }, wantErr: ErrInstallmentExceedsPrincipal},
		{name: "negative remaining", mutate: func(l *Loan) { l.Remaining = -1 }, wantErr: ErrInvalidRemaining},
		{name: "end equals start", mutate: func(l *Loan) { l.EndDate = l.StartDate }, wantErr: ErrEndNotAfterStart},
		{name: "end before start", mutate: func(l *Loan) { l.EndDate = l.StartDate.AddDate(0, 0, -1) }, wantErr: ErrEndNotAfterStart},
		{name: "unknown status", mutate: func(l *Loan) { l.Status = "defaulted" }, wantErr: ErrInvalidStatus},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := validLoan()
			tc.mutate(&l)
			err := Validate(l)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestCreateDefaultsRemainingAndStatus(t *testing.T) {
	svc := NewService(newMemoryStore(), employees{"e1": {ID: "e1"}})

	l, err := svc.Create(context.Background(), Draft{
		EmployeeID:        "e1",
		Principal:         36000,
		InstallmentAmount: 3000,
		StartDate:         start,
		EndDate:           end,
	})
	require.NoError(t, err)
	assert.Equal(t, 36000.0, l.Remaining)
	assert.Equal(t, StatusActive, l.Status)
}

func TestCreateRejectsSecondActiveLoan(t *testing.T) {
	svc := NewService(newMemoryStore(), employees{"e1": {ID: "e1"}})
	draft := Draft{EmployeeID: "e1", Principal: 10000, InstallmentAmount: 1000, StartDate: start, EndDate: end}

	_, err := svc.Create(context.Background(), draft)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), draft)
	require.ErrorIs(t, err, ErrActiveLoanExists)

	draft.Status = StatusComplete
	_, err = svc.Create(context.Background(), draft)
	require.NoError(t, err)
}

func TestCreateUnknownEmployee(t *testing.T) {
	svc := NewService(newMemoryStore(), employees{})
	_, err := svc.Create(context.Background(), Draft{EmployeeID: "ghost", Principal: 100, InstallmentAmount: 10, StartDate: start, EndDate: end})
	require.ErrorIs(t, err, core.ErrEmployeeNotFound)
}

func TestUpdateRevalidatesMergedLoan(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, employees{"e1": {ID: "e1"}})
	created, err := svc.Create(context.Background(), Draft{EmployeeID: "e1", Principal: 10000, InstallmentAmount: 1000, StartDate: start, EndDate: end})
	require.NoError(t, err)

	tooBig := 20000.0
	_, err = svc.Update(context.Background(), created.ID, Patch{InstallmentAmount: &tooBig})
	require.ErrorIs(t, err, ErrInstallmentExceedsPrincipal)

	status := " Complete "
	remaining := 0.0
	updated, err := svc.Update(context.Background(), created.ID, Patch{Status: &status, Remaining: &remaining})
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, updated.Status)
	assert.Equal(t, 0.0, updated.Remaining)

	active, err := svc.ActiveLoan(context.Background(), "e1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestUpdateKeepsSameActiveLoan(t *testing.T) {
	svc := NewService(newMemoryStore(), employees{"e1": {ID: "e1"}})
	created, err := svc.Create(context.Background(), Draft{EmployeeID: "e1", Principal: 10000, InstallmentAmount: 1000, StartDate: start, EndDate: end})
	require.NoError(t, err)

	installment := 2000.0
	updated, err := svc.Update(context.Background(), created.ID, Patch{InstallmentAmount: &installment})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, updated.InstallmentAmount)
}

func TestDeleteMissingLoan(t *testing.T) {
	svc := NewService(newMemoryStore(), employees{})
	require.ErrorIs(t, svc.Delete(context.Background(), "nope"), ErrLoanNotFound)
}
