package loans

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

const loanSelect = `
    SELECT l.id, l.employee_id, e.name, l.principal, l.installment_amount, l.remaining,
           l.start_date, l.end_date, l.status, l.created_at, l.updated_at
    FROM loans l
    JOIN employees e ON e.id = l.employee_id`

func scanLoan(row pgx.Row) (Loan, error) {
	var l Loan
	err := row.Scan(&l.ID, &l.EmployeeID, &l.EmployeeName, &l.Principal, &l.InstallmentAmount, &l.Remaining,
		&l.StartDate, &l.EndDate, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (s *Store) Get(ctx context.Context, loanID string) (Loan, error) {
	l, err := scanLoan(s.DB.QueryRow(ctx, loanSelect+" WHERE l.id = $1", loanID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, ErrLoanNotFound
	}
	return l, err
}

// Active returns the employee's active loan, or nil when there is none.
func (s *Store) Active(ctx context.Context, employeeID string) (*Loan, error) {
	l, err := scanLoan(s.DB.QueryRow(ctx, loanSelect+" WHERE l.employee_id = $1 AND l.status = $2 ORDER BY l.created_at DESC LIMIT 1", employeeID, StatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Loan, error) {
	var clauses []string
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("l.employee_id = $%d", len(args)))
	}
	if name := strings.TrimSpace(filter.EmployeeName); name != "" {
		args = append(args, "%"+name+"%")
		clauses = append(clauses, fmt.Sprintf("e.name ILIKE $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("l.status = $%d", len(args)))
	}
	query := loanSelect
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY l.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) Insert(ctx context.Context, l Loan) (Loan, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO loans (employee_id, principal, installment_amount, remaining, start_date, end_date, status)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id
  `, l.EmployeeID, l.Principal, l.InstallmentAmount, l.Remaining, l.StartDate, l.EndDate, l.Status).Scan(&id)
	if querier.IsUniqueViolation(err) {
		return Loan{}, ErrActiveLoanExists
	}
	if err != nil {
		return Loan{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, l Loan) (Loan, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE loans
    SET principal = $2, installment_amount = $3, remaining = $4, start_date = $5, end_date = $6, status = $7, updated_at = now()
    WHERE id = $1
  `, l.ID, l.Principal, l.InstallmentAmount, l.Remaining, l.StartDate, l.EndDate, l.Status)
	if querier.IsUniqueViolation(err) {
		return Loan{}, ErrActiveLoanExists
	}
	if err != nil {
		return Loan{}, err
	}
	if tag.RowsAffected() == 0 {
		return Loan{}, ErrLoanNotFound
	}
	return s.Get(ctx, l.ID)
}

func (s *Store) Delete(ctx context.Context, loanID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM loans WHERE id = $1", loanID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLoanNotFound
	}
	return nil
}
