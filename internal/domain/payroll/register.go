package payroll

import (
	"encoding/csv"
	"io"

	"backoffice/internal/platform/money"
)

var registerHeader = []string{
	"employee_id", "employee_name", "month", "basic_salary", "allowances",
	"ot_amount_normal", "ot_amount_holiday", "short_hours_deduction", "loan_deduction",
	"tax_deduction", "epf_employee", "epf_company", "etf_company",
	"gross_salary", "net_salary", "payment_status",
}

// WriteRegister writes records as CSV with amounts fixed to two decimals.
func WriteRegister(w io.Writer, records []SalaryRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(registerHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.EmployeeID, r.EmployeeName, r.Month,
			money.Format(r.BasicSalary), money.Format(r.Allowances),
			money.Format(r.OTAmountNormal), money.Format(r.OTAmountHoliday),
			money.Format(r.ShortHoursDeduction), money.Format(r.LoanDeduction),
			money.Format(r.TaxDeduction), money.Format(r.EPFEmployee),
			money.Format(r.EPFCompany), money.Format(r.ETFCompany),
			money.Format(r.GrossSalary), money.Format(r.NetSalary),
			r.PaymentStatus,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
