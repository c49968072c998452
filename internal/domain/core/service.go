package core

import (
	"context"
	"strings"
)

type StoreAPI interface {
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	CountEmployees(ctx context.Context, filter EmployeeFilter) (int, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]Employee, error)
	CreateEmployee(ctx context.Context, emp Employee) (Employee, error)
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return s.store.GetEmployee(ctx, employeeID)
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]Employee, int, error) {
	total, err := s.store.CountEmployees(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.store.ListEmployees(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Service) CreateEmployee(ctx context.Context, emp Employee) (Employee, error) {
	emp.Name = strings.TrimSpace(emp.Name)
	emp.Email = strings.ToLower(strings.TrimSpace(emp.Email))
	emp.Designation = strings.TrimSpace(emp.Designation)
	if emp.Name == "" {
		return Employee{}, ErrEmployeeNameMissing
	}
	if emp.Status == "" {
		emp.Status = EmployeeStatusActive
	}
	return s.store.CreateEmployee(ctx, emp)
}
