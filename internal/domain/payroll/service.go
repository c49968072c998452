package payroll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/platform/email"
	"backoffice/internal/platform/money"
)

type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

type Options struct {
	Policy       Policy
	Location     *time.Location
	CompanyName  string
	Currency     string
	MailFrom     string
	MailFromName string
	Now          func() time.Time
}

type Service struct {
	store      StoreAPI
	attendance AttendanceSource
	loans      LoanSource
	employees  EmployeeDirectory
	mailer     Mailer
	opts       Options
}

func NewService(store StoreAPI, attendance AttendanceSource, loans LoanSource, employees EmployeeDirectory, mailer Mailer, opts Options) *Service {
	if opts.Policy.HoursPerDay == 0 {
		opts.Policy = DefaultPolicy()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.CompanyName == "" {
		opts.CompanyName = "FashionStudio"
	}
	if opts.Currency == "" {
		opts.Currency = "LKR"
	}
	if opts.MailFromName == "" {
		opts.MailFromName = opts.CompanyName + " HR"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:      store,
		attendance: attendance,
		loans:      loans,
		employees:  employees,
		mailer:     mailer,
		opts:       opts,
	}
}

func (s *Service) Policy() Policy {
	return s.opts.Policy
}

func ValidateInputs(in Inputs) error {
	if !money.Within(in.BasicSalary, MinBasicSalary, MaxBasicSalary) {
		return ErrInvalidBasicSalary
	}
	if !money.Within(in.Allowances, 0, MaxAllowances) {
		return ErrInvalidAllowances
	}
	return nil
}

func NormalizePaymentStatus(raw string) (string, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	for _, allowed := range PaymentStatuses {
		if status == allowed {
			return status, nil
		}
	}
	return "", ErrInvalidPaymentStatus
}

// Calculate loads the employee's attendance for month and their active loan,
// then runs the policy over them. Nothing is written.
func (s *Service) Calculate(ctx context.Context, employeeID, month string, in Inputs) (Breakdown, error) {
	window, err := ParseMonth(month, s.opts.Location)
	if err != nil {
		return Breakdown{}, err
	}

	records, err := s.attendance.InWindow(ctx, employeeID, window.Start, window.End)
	if err != nil {
		return Breakdown{}, fmt.Errorf("load attendance: %w", err)
	}
	shifts := make([]Shift, 0, len(records))
	for _, rec := range records {
		if !window.Contains(rec.CheckIn) {
			continue
		}
		shifts = append(shifts, Shift{CheckIn: rec.CheckIn, CheckOut: rec.CheckOut, Holiday: rec.IsHoliday})
	}

	installment := 0.0
	loan, err := s.loans.ActiveLoan(ctx, employeeID)
	if err != nil {
		return Breakdown{}, fmt.Errorf("load active loan: %w", err)
	}
	if loan != nil {
		installment = loan.InstallmentAmount
	}

	return s.opts.Policy.Calculate(in, shifts, installment), nil
}

// CanonicalMonth rewrites any accepted spelling of a pay period to the
// stored "MonthName-YYYY" form.
func (s *Service) CanonicalMonth(label string) (string, error) {
	window, err := ParseMonth(label, s.opts.Location)
	if err != nil {
		return "", err
	}
	return MonthLabel(window.Start), nil
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]SalaryRecord, int, error) {
	if strings.TrimSpace(filter.Month) != "" {
		month, err := s.CanonicalMonth(filter.Month)
		if err != nil {
			return nil, 0, err
		}
		filter.Month = month
	}
	total, err := s.store.CountSalaryRecords(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.store.ListSalaryRecords(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (SalaryRecord, error) {
	return s.store.GetSalaryRecord(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteSalaryRecord(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (SalaryRecord, error) {
	rec := SalaryRecord{
		EmployeeID:    strings.TrimSpace(in.EmployeeID),
		Month:         strings.TrimSpace(in.Month),
		BasicSalary:   in.BasicSalary,
		Allowances:    in.Allowances,
		PaymentStatus: PaymentStatusPending,
		IsPayable:     true,
	}
	if err := s.derive(ctx, &rec); err != nil {
		return SalaryRecord{}, err
	}
	return s.store.InsertSalaryRecord(ctx, rec)
}

// Update recomputes every derived figure when a basic salary is supplied.
// Without one only the payment status may change.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (SalaryRecord, error) {
	var status string
	if in.PaymentStatus != nil {
		normalized, err := NormalizePaymentStatus(*in.PaymentStatus)
		if err != nil {
			return SalaryRecord{}, err
		}
		status = normalized
	}
	if in.BasicSalary == nil && in.touchesInputs() {
		return SalaryRecord{}, ErrRecomputeNeedsBasic
	}

	rec, err := s.store.GetSalaryRecord(ctx, id)
	if err != nil {
		return SalaryRecord{}, err
	}
	if in.BasicSalary == nil && in.PaymentStatus == nil {
		return rec, nil
	}

	if in.BasicSalary != nil {
		if in.EmployeeID != nil {
			rec.EmployeeID = strings.TrimSpace(*in.EmployeeID)
		}
		if in.Month != nil {
			rec.Month = strings.TrimSpace(*in.Month)
		}
		if in.Allowances != nil {
			rec.Allowances = *in.Allowances
		}
		rec.BasicSalary = *in.BasicSalary
		if err := s.derive(ctx, &rec); err != nil {
			return SalaryRecord{}, err
		}
	}
	if in.PaymentStatus != nil {
		rec.PaymentStatus = status
		rec.IsPayable = IsPayable(status)
	}
	return s.store.UpdateSalaryRecord(ctx, rec)
}

// derive validates rec's inputs and overwrites its breakdown.
func (s *Service) derive(ctx context.Context, rec *SalaryRecord) error {
	if err := ValidateInputs(rec.Inputs()); err != nil {
		return err
	}
	month, err := s.CanonicalMonth(rec.Month)
	if err != nil {
		return err
	}
	rec.Month = month
	emp, err := s.employees.GetEmployee(ctx, rec.EmployeeID)
	if err != nil {
		return err
	}
	breakdown, err := s.Calculate(ctx, rec.EmployeeID, rec.Month, rec.Inputs())
	if err != nil {
		return err
	}
	rec.Breakdown = breakdown
	rec.EmployeeName = emp.Name
	rec.EmployeeEmail = emp.Email
	rec.EmployeeDesignation = emp.Designation
	return nil
}

// Register returns every record for month, newest first.
func (s *Service) Register(ctx context.Context, month string) ([]SalaryRecord, error) {
	month, err := s.CanonicalMonth(month)
	if err != nil {
		return nil, err
	}
	return s.store.ListSalaryRecords(ctx, Filter{Month: month}, 0, 0)
}
