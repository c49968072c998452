package attendance

import (
	"context"
	"strings"
	"time"

	"backoffice/internal/domain/core"
)

type StoreAPI interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	InWindow(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error)
	List(ctx context.Context, filter Filter) ([]Record, error)
}

type EmployeeLookup interface {
	GetEmployee(ctx context.Context, employeeID string) (core.Employee, error)
}

type Service struct {
	store     StoreAPI
	employees EmployeeLookup
}

func NewService(store StoreAPI, employees EmployeeLookup) *Service {
	return &Service{store: store, employees: employees}
}

// Record stores a completed shift. Records are never edited afterwards.
func (s *Service) Record(ctx context.Context, rec Record) (Record, error) {
	rec.EmployeeID = strings.TrimSpace(rec.EmployeeID)
	if rec.EmployeeID == "" {
		return Record{}, ErrEmployeeRequired
	}
	if !rec.CheckOut.After(rec.CheckIn) {
		return Record{}, ErrInvalidShift
	}
	if _, err := s.employees.GetEmployee(ctx, rec.EmployeeID); err != nil {
		return Record{}, err
	}
	return s.store.Insert(ctx, rec)
}

func (s *Service) InWindow(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error) {
	return s.store.InWindow(ctx, employeeID, start, end)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Record, error) {
	return s.store.List(ctx, filter)
}
