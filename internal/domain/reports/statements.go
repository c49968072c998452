package reports

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/domain/payroll"
	"backoffice/internal/domain/suppliers"
)

// ProfitLoss covers paid costs within one pay period. Sales revenue is not
// recorded by this service, so gross profit is the negated supplier cost.
type ProfitLoss struct {
	Period         string    `json:"period"`
	PeriodEnd      time.Time `json:"periodEnd"`
	SupplierCosts  float64   `json:"supplierCosts"`
	GrossProfit    float64   `json:"grossProfit"`
	SalaryExpenses float64   `json:"salaryExpenses"`
	NetProfit      float64   `json:"netProfit"`
}

// BalanceSheet states cash paid out up to the end of a period against the
// liabilities outstanding now.
type BalanceSheet struct {
	Period           string    `json:"period"`
	PeriodEnd        time.Time `json:"periodEnd"`
	Cash             float64   `json:"cash"`
	LoansPayable     float64   `json:"loansPayable"`
	AccountsPayable  float64   `json:"accountsPayable"`
	SalariesPayable  float64   `json:"salariesPayable"`
	TotalLiabilities float64   `json:"totalLiabilities"`
	RetainedEarnings float64   `json:"retainedEarnings"`
}

func (b BalanceSheet) TotalLiabilitiesAndEquity() float64 {
	return b.TotalLiabilities + b.RetainedEarnings
}

func (s *Service) period(month string) (payroll.Window, string, error) {
	window, err := payroll.ParseMonth(month, s.opts.Location)
	if err != nil {
		return payroll.Window{}, "", err
	}
	return window, payroll.MonthLabel(window.Start), nil
}

func (s *Service) ProfitLoss(ctx context.Context, month string) (ProfitLoss, error) {
	window, label, err := s.period(month)
	if err != nil {
		return ProfitLoss{}, err
	}
	cogs, err := s.store.PaidSupplierBetween(ctx, window.Start, window.End)
	if err != nil {
		return ProfitLoss{}, fmt.Errorf("supplier costs: %w", err)
	}
	salaries, err := s.store.PaidSalaryBetween(ctx, window.Start, window.End)
	if err != nil {
		return ProfitLoss{}, fmt.Errorf("salary expenses: %w", err)
	}
	gross := -cogs
	return ProfitLoss{
		Period:         label,
		PeriodEnd:      window.End.AddDate(0, 0, -1),
		SupplierCosts:  cogs,
		GrossProfit:    gross,
		SalaryExpenses: salaries,
		NetProfit:      gross - salaries,
	}, nil
}

func (s *Service) BalanceSheet(ctx context.Context, month string) (BalanceSheet, error) {
	window, label, err := s.period(month)
	if err != nil {
		return BalanceSheet{}, err
	}
	var since time.Time
	paidSalaries, err := s.store.PaidSalaryBetween(ctx, since, window.End)
	if err != nil {
		return BalanceSheet{}, fmt.Errorf("paid salaries: %w", err)
	}
	paidSuppliers, err := s.store.PaidSupplierBetween(ctx, since, window.End)
	if err != nil {
		return BalanceSheet{}, fmt.Errorf("paid suppliers: %w", err)
	}

	out := BalanceSheet{
		Period:    label,
		PeriodEnd: window.End.AddDate(0, 0, -1),
		Cash:      -(paidSalaries + paidSuppliers),
	}
	if _, out.LoansPayable, err = s.store.ActiveLoans(ctx); err != nil {
		return BalanceSheet{}, fmt.Errorf("loans payable: %w", err)
	}
	if out.AccountsPayable, err = s.store.SupplierTotal(ctx, suppliers.StatusNotPaid); err != nil {
		return BalanceSheet{}, fmt.Errorf("accounts payable: %w", err)
	}
	if out.SalariesPayable, err = s.store.NetSalaryTotal(ctx, payroll.PaymentStatusPending); err != nil {
		return BalanceSheet{}, fmt.Errorf("salaries payable: %w", err)
	}
	out.TotalLiabilities = out.LoansPayable + out.AccountsPayable + out.SalariesPayable
	out.RetainedEarnings = out.Cash - out.TotalLiabilities
	return out, nil
}
