package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const salarySelect = `
    SELECT s.id, s.employee_id, e.name, COALESCE(e.email, ''), COALESCE(e.designation, ''), s.month, s.basic_salary, s.allowances,
           s.ot_hours_normal, s.ot_hours_holiday, s.ot_amount_normal, s.ot_amount_holiday,
           s.short_hours_deduction, s.loan_deduction, s.tax_deduction,
           s.epf_employee, s.epf_company, s.etf_company, s.gross_salary, s.net_salary,
           s.payment_status, s.is_payable, s.created_at, s.updated_at
    FROM salary_records s
    JOIN employees e ON e.id = s.employee_id`

func scanSalaryRecord(row pgx.Row) (SalaryRecord, error) {
	var r SalaryRecord
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.EmployeeName, &r.EmployeeEmail, &r.EmployeeDesignation, &r.Month, &r.BasicSalary, &r.Allowances,
		&r.OTHoursNormal, &r.OTHoursHoliday, &r.OTAmountNormal, &r.OTAmountHoliday,
		&r.ShortHoursDeduction, &r.LoanDeduction, &r.TaxDeduction,
		&r.EPFEmployee, &r.EPFCompany, &r.ETFCompany, &r.GrossSalary, &r.NetSalary,
		&r.PaymentStatus, &r.IsPayable, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func salaryWhere(filter Filter) (string, []any) {
	var clauses []string
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("s.employee_id = $%d", len(args)))
	}
	if name := strings.TrimSpace(filter.EmployeeName); name != "" {
		args = append(args, "%"+name+"%")
		clauses = append(clauses, fmt.Sprintf("e.name ILIKE $%d", len(args)))
	}
	if filter.Month != "" {
		args = append(args, filter.Month)
		clauses = append(clauses, fmt.Sprintf("s.month = $%d", len(args)))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		clauses = append(clauses, fmt.Sprintf("s.payment_status = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) CountSalaryRecords(ctx context.Context, filter Filter) (int, error) {
	where, args := salaryWhere(filter)
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM salary_records s JOIN employees e ON e.id = s.employee_id"+where, args...).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListSalaryRecords(ctx context.Context, filter Filter, limit, offset int) ([]SalaryRecord, error) {
	where, args := salaryWhere(filter)
	query := salarySelect + where + " ORDER BY s.created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SalaryRecord
	for rows.Next() {
		rec, err := scanSalaryRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) GetSalaryRecord(ctx context.Context, id string) (SalaryRecord, error) {
	rec, err := scanSalaryRecord(s.DB.QueryRow(ctx, salarySelect+" WHERE s.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return SalaryRecord{}, ErrSalaryRecordNotFound
	}
	return rec, err
}

func (s *Store) InsertSalaryRecord(ctx context.Context, rec SalaryRecord) (SalaryRecord, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO salary_records (
      employee_id, month, basic_salary, allowances,
      ot_hours_normal, ot_hours_holiday, ot_amount_normal, ot_amount_holiday,
      short_hours_deduction, loan_deduction, tax_deduction,
      epf_employee, epf_company, etf_company, gross_salary, net_salary,
      payment_status, is_payable
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
    RETURNING id
  `,
		rec.EmployeeID, rec.Month, rec.BasicSalary, rec.Allowances,
		rec.OTHoursNormal, rec.OTHoursHoliday, rec.OTAmountNormal, rec.OTAmountHoliday,
		rec.ShortHoursDeduction, rec.LoanDeduction, rec.TaxDeduction,
		rec.EPFEmployee, rec.EPFCompany, rec.ETFCompany, rec.GrossSalary, rec.NetSalary,
		rec.PaymentStatus, rec.IsPayable,
	).Scan(&id)
	if querier.IsUniqueViolation(err) {
		return SalaryRecord{}, ErrSalaryRecordExists
	}
	if err != nil {
		return SalaryRecord{}, err
	}
	return s.GetSalaryRecord(ctx, id)
}

func (s *Store) UpdateSalaryRecord(ctx context.Context, rec SalaryRecord) (SalaryRecord, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE salary_records
    SET employee_id = $2, month = $3, basic_salary = $4, allowances = $5,
        ot_hours_normal = $6, ot_hours_holiday = $7, ot_amount_normal = $8, ot_amount_holiday = $9,
        short_hours_deduction = $10, loan_deduction = $11, tax_deduction = $12,
        epf_employee = $13, epf_company = $14, etf_company = $15, gross_salary = $16, net_salary = $17,
        payment_status = $18, is_payable = $19, updated_at = now()
    WHERE id = $1
  `,
		rec.ID, rec.EmployeeID, rec.Month, rec.BasicSalary, rec.Allowances,
		rec.OTHoursNormal, rec.OTHoursHoliday, rec.OTAmountNormal, rec.OTAmountHoliday,
		rec.ShortHoursDeduction, rec.LoanDeduction, rec.TaxDeduction,
		rec.EPFEmployee, rec.EPFCompany, rec.ETFCompany, rec.GrossSalary, rec.NetSalary,
		rec.PaymentStatus, rec.IsPayable,
	)
	if querier.IsUniqueViolation(err) {
		return SalaryRecord{}, ErrSalaryRecordExists
	}
	if err != nil {
		return SalaryRecord{}, err
	}
	if tag.RowsAffected() == 0 {
		return SalaryRecord{}, ErrSalaryRecordNotFound
	}
	return s.GetSalaryRecord(ctx, rec.ID)
}

func (s *Store) DeleteSalaryRecord(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM salary_records WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSalaryRecordNotFound
	}
	return nil
}
