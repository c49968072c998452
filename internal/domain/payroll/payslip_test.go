package payroll

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitWordmark(t *testing.T) {
	head, tail := SplitWordmark("FashionStudio")
	assert.Equal(t, "FASHION", head)
	assert.Equal(t, "Studio", tail)

	head, tail = SplitWordmark("acme")
	assert.Equal(t, "ACME", head)
	assert.Empty(t, tail)
}

func TestPayslipRowsSkipZeroLines(t *testing.T) {
	rec := SalaryRecord{BasicSalary: 50000}
	rec.EPFEmployee = 4000
	rows := payslipRows(rec, DefaultPolicy())

	require.Len(t, rows, 2)
	assert.Equal(t, "Basic Salary", rows[0].Label)
	assert.Equal(t, "EPF (Employee Contribution - 8%)", rows[1].Label)
	assert.Equal(t, 4000.0, rows[1].Deduction)
}

func TestPayslipRowsFull(t *testing.T) {
	rec := SalaryRecord{BasicSalary: 60000, Allowances: 5000}
	rec.Breakdown = DefaultPolicy().Calculate(rec.Inputs(), []Shift{shiftOf(4, 10, false), shiftOf(5, 10, true), shiftOf(6, 6, false)}, 3000)

	var labels []string
	for _, r := range payslipRows(rec, DefaultPolicy()) {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{
		"Basic Salary", "Allowances", "Overtime (Normal)", "Overtime (Holiday)",
		"EPF (Employee Contribution - 8%)", "Tax Deduction (PAYE)", "Loan Repayment", "Short Hours",
	}, labels)
}

func TestRenderPayslip(t *testing.T) {
	rec := SalaryRecord{EmployeeName: "Nimal Perera", Month: "August-2025", BasicSalary: 60000}
	rec.Breakdown = DefaultPolicy().Calculate(rec.Inputs(), nil, 0)

	data, err := RenderPayslip(rec, DefaultPolicy(), "FashionStudio", "LKR", "2025-09-02")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestServicePayslip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, CreateInput{EmployeeID: "emp-1", Month: "August-2025", BasicSalary: 60000})
	require.NoError(t, err)

	doc, err := f.svc.Payslip(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Payslip-Nimal_Perera-August-2025.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}

func TestEmailPayslip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Create(ctx, CreateInput{EmployeeID: "emp-1", Month: "August-2025", BasicSalary: 60000})
	require.NoError(t, err)

	_, err = f.svc.EmailPayslip(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "nimal@example.com", msg.To)
	assert.Equal(t, "Your Payslip for August-2025", msg.Subject)
	assert.Contains(t, msg.Body, "Dear Nimal Perera,")
	assert.Equal(t, "FashionStudio HR", msg.FromName)
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "Payslip-August-2025.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
}

func TestEmailPayslipFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	noEmail, err := f.svc.Create(ctx, CreateInput{EmployeeID: "emp-2", Month: "August-2025", BasicSalary: 30000})
	require.NoError(t, err)
	_, err = f.svc.EmailPayslip(ctx, noEmail.ID)
	assert.ErrorIs(t, err, ErrEmployeeEmailMissing)

	_, err = f.svc.EmailPayslip(ctx, "missing")
	assert.ErrorIs(t, err, ErrSalaryRecordNotFound)

	rec, err := f.svc.Create(ctx, CreateInput{EmployeeID: "emp-1", Month: "August-2025", BasicSalary: 60000})
	require.NoError(t, err)
	f.mailer.err = errors.New("smtp down")
	_, err = f.svc.EmailPayslip(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrPayslipDeliveryFailed)
}
