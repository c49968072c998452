package loans

import (
	"context"
	"strings"

	"backoffice/internal/domain/core"
)

type StoreAPI interface {
	Get(ctx context.Context, loanID string) (Loan, error)
	Active(ctx context.Context, employeeID string) (*Loan, error)
	List(ctx context.Context, filter Filter) ([]Loan, error)
	Insert(ctx context.Context, l Loan) (Loan, error)
	Update(ctx context.Context, l Loan) (Loan, error)
	Delete(ctx context.Context, loanID string) error
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

func (s *Service) Get(ctx context.Context, loanID string) (Loan, error) {
	return s.store.Get(ctx, loanID)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Loan, error) {
	return s.store.List(ctx, filter)
}

// ActiveLoan returns the loan whose installment is deducted from pay, if any.
func (s *Service) ActiveLoan(ctx context.Context, employeeID string) (*Loan, error) {
	return s.store.Active(ctx, employeeID)
}

func (s *Service) Create(ctx context.Context, d Draft) (Loan, error) {
	l := Loan{
		EmployeeID:        strings.TrimSpace(d.EmployeeID),
		Principal:         d.Principal,
		InstallmentAmount: d.InstallmentAmount,
		Remaining:         d.Principal,
		StartDate:         d.StartDate,
		EndDate:           d.EndDate,
		Status:            strings.ToLower(strings.TrimSpace(d.Status)),
	}
	if d.Remaining != nil {
		l.Remaining = *d.Remaining
	}
	if l.Status == "" {
		l.Status = StatusActive
	}
	if err := Validate(l); err != nil {
		return Loan{}, err
	}
	if _, err := s.employees.GetEmployee(ctx, l.EmployeeID); err != nil {
		return Loan{}, err
	}
	if err := s.ensureSingleActive(ctx, l); err != nil {
		return Loan{}, err
	}
	return s.store.Insert(ctx, l)
}

func (s *Service) Update(ctx context.Context, loanID string, p Patch) (Loan, error) {
	current, err := s.store.Get(ctx, loanID)
	if err != nil {
		return Loan{}, err
	}
	if p.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*p.Status))
		p.Status = &status
	}
	next := p.apply(current)
	if err := Validate(next); err != nil {
		return Loan{}, err
	}
	if err := s.ensureSingleActive(ctx, next); err != nil {
		return Loan{}, err
	}
	return s.store.Update(ctx, next)
}

func (s *Service) Delete(ctx context.Context, loanID string) error {
	return s.store.Delete(ctx, loanID)
}

func (s *Service) ensureSingleActive(ctx context.Context, l Loan) error {
	if l.Status != StatusActive {
		return nil
	}
	existing, err := s.store.Active(ctx, l.EmployeeID)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != l.ID {
		return ErrActiveLoanExists
	}
	return nil
}
