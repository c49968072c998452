package reports

import (
	"context"
	"time"

	"backoffice/internal/domain/loans"
	"backoffice/internal/domain/payroll"
	"backoffice/internal/domain/suppliers"
	"backoffice/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) sum(ctx context.Context, query string, args ...any) (float64, error) {
	var total float64
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) NetSalaryTotal(ctx context.Context, paymentStatus string) (float64, error) {
	return s.sum(ctx, "SELECT COALESCE(SUM(net_salary),0) FROM salary_records WHERE payment_status = $1", paymentStatus)
}

func (s *Store) SupplierTotal(ctx context.Context, paidStatus string) (float64, error) {
	return s.sum(ctx, "SELECT COALESCE(SUM(total_amount),0) FROM supplier_transactions WHERE paid_status = $1", paidStatus)
}

// PaidSalaryBetween sums net salary of records marked paid in [from, to).
// A record's payment time is its last update.
func (s *Store) PaidSalaryBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return s.sum(ctx, `
    SELECT COALESCE(SUM(net_salary),0) FROM salary_records
    WHERE payment_status = $1 AND updated_at >= $2 AND updated_at < $3
  `, payroll.PaymentStatusPaid, from, to)
}

func (s *Store) PaidSupplierBetween(ctx context.Context, from, to time.Time) (float64, error) {
	return s.sum(ctx, `
    SELECT COALESCE(SUM(total_amount),0) FROM supplier_transactions
    WHERE paid_status = $1 AND paid_date >= $2 AND paid_date < $3
  `, suppliers.StatusPaid, from, to)
}

func (s *Store) SalaryRecordCount(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM salary_records").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ActiveLoans(ctx context.Context) (int, float64, error) {
	var count int
	var outstanding float64
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1), COALESCE(SUM(remaining),0) FROM loans WHERE status = $1", loans.StatusActive).Scan(&count, &outstanding)
	if err != nil {
		return 0, 0, err
	}
	return count, outstanding, nil
}

// PaidByMonth returns the latest limit months of paid net salary, oldest first.
func (s *Store) PaidByMonth(ctx context.Context, limit int) ([]MonthlyExpense, error) {
	return s.byMonth(ctx, `
    SELECT EXTRACT(YEAR FROM updated_at)::int AS year,
           EXTRACT(MONTH FROM updated_at)::int AS month,
           SUM(net_salary) AS total
    FROM salary_records
    WHERE payment_status = $1
    GROUP BY 1, 2`, payroll.PaymentStatusPaid, limit)
}

// SupplierPaidByMonth groups paid supplier amounts by the month of their paid date.
func (s *Store) SupplierPaidByMonth(ctx context.Context, limit int) ([]MonthlyExpense, error) {
	return s.byMonth(ctx, `
    SELECT EXTRACT(YEAR FROM paid_date)::int AS year,
           EXTRACT(MONTH FROM paid_date)::int AS month,
           SUM(total_amount) AS total
    FROM supplier_transactions
    WHERE paid_status = $1 AND paid_date IS NOT NULL
    GROUP BY 1, 2`, suppliers.StatusPaid, limit)
}

func (s *Store) byMonth(ctx context.Context, grouped, status string, limit int) ([]MonthlyExpense, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT year, month, total FROM (`+grouped+`
      ORDER BY 1 DESC, 2 DESC
      LIMIT $2
    ) recent
    ORDER BY year, month
  `, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyExpense
	for rows.Next() {
		var m MonthlyExpense
		if err := rows.Scan(&m.Year, &m.Month, &m.Total); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
