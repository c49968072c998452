package suppliers

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

const transactionSelect = `
    SELECT id, description, total_amount, paid_status, paid_date, is_payable, created_at, updated_at
    FROM supplier_transactions`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Description, &t.TotalAmount, &t.PaidStatus, &t.PaidDate, &t.IsPayable, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func whereClause(filter Filter) (string, []any) {
	var clauses []string
	var args []any
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		clauses = append(clauses, fmt.Sprintf("description ILIKE $%d", len(args)))
	}
	if filter.PaidStatus != "" {
		args = append(args, filter.PaidStatus)
		clauses = append(clauses, fmt.Sprintf("paid_status = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) Get(ctx context.Context, id string) (Transaction, error) {
	t, err := scanTransaction(s.DB.QueryRow(ctx, transactionSelect+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	return t, err
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := whereClause(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM supplier_transactions"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]Transaction, error) {
	where, args := whereClause(filter)
	query := transactionSelect + where + " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Insert(ctx context.Context, t Transaction) (Transaction, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO supplier_transactions (description, total_amount, paid_status, paid_date, is_payable)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id
  `, t.Description, t.TotalAmount, t.PaidStatus, t.PaidDate, t.IsPayable).Scan(&id)
	if err != nil {
		return Transaction{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) UpdateStatus(ctx context.Context, t Transaction) (Transaction, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE supplier_transactions
    SET paid_status = $2, paid_date = $3, is_payable = $4, updated_at = now()
    WHERE id = $1
  `, t.ID, t.PaidStatus, t.PaidDate, t.IsPayable)
	if err != nil {
		return Transaction{}, err
	}
	if tag.RowsAffected() == 0 {
		return Transaction{}, ErrTransactionNotFound
	}
	return s.Get(ctx, t.ID)
}
