package reports

import (
	"context"
	"time"

	"backoffice/internal/domain/payroll"
	"backoffice/internal/domain/suppliers"
)

const expenseMonths = 12

type Dashboard struct {
	TotalExpenses          float64 `json:"totalExpenses"`
	PaidSalaryExpenses     float64 `json:"paidSalaryExpenses"`
	PaidSupplierExpenses   float64 `json:"paidSupplierExpenses"`
	SalariesPayable        float64 `json:"salariesPayable"`
	SupplierPayable        float64 `json:"supplierPayable"`
	SalaryRecords          int     `json:"salaryRecords"`
	ActiveLoans            int     `json:"activeLoans"`
	OutstandingLoanBalance float64 `json:"outstandingLoanBalance"`
}

type MonthlyExpense struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

type ExpenseBreakdown struct {
	MonthlyExpenses         []MonthlyExpense `json:"monthlyExpenses"`
	MonthlySupplierExpenses []MonthlyExpense `json:"monthlySupplierExpenses"`
}

type StoreAPI interface {
	NetSalaryTotal(ctx context.Context, paymentStatus string) (float64, error)
	SalaryRecordCount(ctx context.Context) (int, error)
	ActiveLoans(ctx context.Context) (int, float64, error)
	PaidByMonth(ctx context.Context, limit int) ([]MonthlyExpense, error)
	SupplierTotal(ctx context.Context, paidStatus string) (float64, error)
	SupplierPaidByMonth(ctx context.Context, limit int) ([]MonthlyExpense, error)
	PaidSalaryBetween(ctx context.Context, from, to time.Time) (float64, error)
	PaidSupplierBetween(ctx context.Context, from, to time.Time) (float64, error)
}

type Options struct {
	Location    *time.Location
	CompanyName string
	Currency    string
	Now         func() time.Time
}

type Service struct {
	store StoreAPI
	opts  Options
}

func NewService(store StoreAPI, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.CompanyName == "" {
		opts.CompanyName = "FashionStudio"
	}
	if opts.Currency == "" {
		opts.Currency = "LKR"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: store, opts: opts}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	var err error
	if out.PaidSalaryExpenses, err = s.store.NetSalaryTotal(ctx, payroll.PaymentStatusPaid); err != nil {
		return Dashboard{}, err
	}
	if out.SalariesPayable, err = s.store.NetSalaryTotal(ctx, payroll.PaymentStatusPending); err != nil {
		return Dashboard{}, err
	}
	if out.PaidSupplierExpenses, err = s.store.SupplierTotal(ctx, suppliers.StatusPaid); err != nil {
		return Dashboard{}, err
	}
	if out.SupplierPayable, err = s.store.SupplierTotal(ctx, suppliers.StatusNotPaid); err != nil {
		return Dashboard{}, err
	}
	if out.SalaryRecords, err = s.store.SalaryRecordCount(ctx); err != nil {
		return Dashboard{}, err
	}
	if out.ActiveLoans, out.OutstandingLoanBalance, err = s.store.ActiveLoans(ctx); err != nil {
		return Dashboard{}, err
	}
	out.TotalExpenses = out.PaidSalaryExpenses + out.PaidSupplierExpenses
	return out, nil
}

// ExpenseBreakdown lists paid net salary per month of payment and paid
// supplier amounts per month of their paid date. Each series holds the most
// recent twelve months that have any, oldest first.
func (s *Service) ExpenseBreakdown(ctx context.Context) (ExpenseBreakdown, error) {
	salaries, err := s.store.PaidByMonth(ctx, expenseMonths)
	if err != nil {
		return ExpenseBreakdown{}, err
	}
	supplierCosts, err := s.store.SupplierPaidByMonth(ctx, expenseMonths)
	if err != nil {
		return ExpenseBreakdown{}, err
	}
	return ExpenseBreakdown{
		MonthlyExpenses:         labelMonths(salaries),
		MonthlySupplierExpenses: labelMonths(supplierCosts),
	}, nil
}

func labelMonths(in []MonthlyExpense) []MonthlyExpense {
	if in == nil {
		return []MonthlyExpense{}
	}
	for i := range in {
		in[i].Label = payroll.MonthLabel(time.Date(in[i].Year, time.Month(in[i].Month), 1, 0, 0, 0, 0, time.UTC))
	}
	return in
}
