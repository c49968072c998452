package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, rec Record) (Record, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, check_in, check_out, is_holiday)
    VALUES ($1, $2, $3, $4)
    RETURNING id, created_at
  `, rec.EmployeeID, rec.CheckIn, rec.CheckOut, rec.IsHoliday).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// InWindow returns the employee's records whose check-in is in [start, end).
func (s *Store) InWindow(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error) {
	return s.List(ctx, Filter{EmployeeID: employeeID, From: start, To: end})
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	var clauses []string
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		clauses = append(clauses, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		clauses = append(clauses, fmt.Sprintf("check_in >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		clauses = append(clauses, fmt.Sprintf("check_in < $%d", len(args)))
	}
	query := "SELECT id, employee_id, check_in, check_out, is_holiday, created_at FROM attendance"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY check_in"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.CheckIn, &rec.CheckOut, &rec.IsHoliday, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
