package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"backoffice/internal/platform/email"
	"backoffice/internal/platform/money"
)

type PayslipDocument struct {
	Filename string
	Data     []byte
}

type payslipRow struct {
	Label     string
	Earning   float64
	Deduction float64
}

// payslipRows lists the table lines. Basic salary always appears, every
// other line only when its amount is positive.
func payslipRows(rec SalaryRecord, policy Policy) []payslipRow {
	rows := []payslipRow{{Label: "Basic Salary", Earning: rec.BasicSalary}}
	add := func(label string, earning, deduction float64) {
		if earning > 0 || deduction > 0 {
			rows = append(rows, payslipRow{Label: label, Earning: earning, Deduction: deduction})
		}
	}
	add("Allowances", rec.Allowances, 0)
	add("Overtime (Normal)", rec.OTAmountNormal, 0)
	add("Overtime (Holiday)", rec.OTAmountHoliday, 0)
	add(fmt.Sprintf("EPF (Employee Contribution - %s%%)", percent(policy.EPFEmployeeRate)), 0, rec.EPFEmployee)
	add("Tax Deduction (PAYE)", 0, rec.TaxDeduction)
	add("Loan Repayment", 0, rec.LoanDeduction)
	add("Short Hours", 0, rec.ShortHoursDeduction)
	return rows
}

func percent(rate float64) string {
	return money.Trim(math.Round(rate*10000) / 100)
}

// SplitWordmark breaks a name like "FashionStudio" at its first inner capital.
func SplitWordmark(name string) (string, string) {
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			return strings.ToUpper(name[:i]), name[i:]
		}
	}
	return strings.ToUpper(name), ""
}

var (
	colorBrand     = [3]int{30, 64, 175}
	colorPrimary   = [3]int{17, 24, 39}
	colorSecondary = [3]int{75, 85, 99}
	colorBorder    = [3]int{229, 231, 235}
)

func setText(pdf *gofpdf.Fpdf, c [3]int) { pdf.SetTextColor(c[0], c[1], c[2]) }

// RenderPayslip draws a single A4 page for rec.
func RenderPayslip(rec SalaryRecord, policy Policy, companyName, currency, payDate string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()

	const left, width = 40.0, 515.0
	y := 40.0

	head, tail := SplitWordmark(companyName)
	pdf.SetFont("Times", "B", 20)
	setText(pdf, colorPrimary)
	pdf.Text(left, y+20, head)
	if tail != "" {
		x := left + pdf.GetStringWidth(head) + 2
		pdf.SetFont("Helvetica", "B", 20)
		setText(pdf, colorBrand)
		pdf.Text(x, y+20, tail)
	}
	pdf.SetFont("Helvetica", "B", 16)
	setText(pdf, colorPrimary)
	pdf.SetXY(left, y+4)
	pdf.CellFormat(width, 20, "Payslip", "", 0, "R", false, 0, "")

	pdf.SetDrawColor(colorBorder[0], colorBorder[1], colorBorder[2])
	pdf.Line(left, y+40, left+width, y+40)

	y += 60
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(left, y, "Employee Details")
	boxY := y + 10
	pdf.Rect(left, boxY, width, 60, "D")

	designation := rec.EmployeeDesignation
	if designation == "" {
		designation = "N/A"
	}
	details := []struct {
		x, y         float64
		label, value string
	}{
		{60, boxY + 15, "EMPLOYEE NAME", rec.EmployeeName},
		{320, boxY + 15, "PAY PERIOD", rec.Month},
		{60, boxY + 35, "DESIGNATION", designation},
		{320, boxY + 35, "PAY DATE", payDate},
	}
	for _, d := range details {
		pdf.SetFont("Helvetica", "", 8)
		setText(pdf, colorSecondary)
		pdf.Text(d.x, d.y+8, d.label)
		pdf.SetFont("Helvetica", "B", 10)
		setText(pdf, colorPrimary)
		pdf.Text(d.x+100, d.y+8, tr(d.value))
	}

	y = boxY + 90
	pdf.SetFont("Helvetica", "B", 9)
	setText(pdf, colorSecondary)
	pdf.Text(60, y, "DESCRIPTION")
	pdf.SetXY(300, y-9)
	pdf.CellFormat(100, 12, fmt.Sprintf("EARNINGS (%s)", currency), "", 0, "R", false, 0, "")
	pdf.SetXY(450, y-9)
	pdf.CellFormat(100, 12, fmt.Sprintf("DEDUCTIONS (%s)", currency), "", 0, "R", false, 0, "")
	pdf.Line(left, y+6, left+width, y+6)

	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, colorPrimary)
	for _, row := range payslipRows(rec, policy) {
		y += 20
		pdf.Text(60, y, row.Label)
		if row.Earning > 0 || row.Label == "Basic Salary" {
			pdf.SetXY(300, y-9)
			pdf.CellFormat(100, 12, money.Format(row.Earning), "", 0, "R", false, 0, "")
		}
		if row.Deduction > 0 {
			pdf.SetXY(450, y-9)
			pdf.CellFormat(100, 12, money.Format(row.Deduction), "", 0, "R", false, 0, "")
		}
	}

	y += 14
	pdf.Line(left, y, left+width, y)
	y += 18
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(60, y, "Gross Earnings")
	pdf.SetXY(300, y-9)
	pdf.CellFormat(100, 12, money.Format(rec.GrossSalary), "", 0, "R", false, 0, "")
	y += 20
	pdf.Text(60, y, "Total Deductions")
	pdf.SetXY(450, y-9)
	pdf.CellFormat(100, 12, money.Format(rec.TotalDeductions()), "", 0, "R", false, 0, "")

	y += 20
	pdf.SetFillColor(colorBrand[0], colorBrand[1], colorBrand[2])
	pdf.Rect(left, y, width, 40, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(60, y+25, "NET SALARY PAYABLE")
	pdf.SetXY(300, y+13)
	pdf.CellFormat(235, 14, money.WithCurrency(currency, rec.NetSalary), "", 0, "R", false, 0, "")

	pdf.SetFont("Helvetica", "I", 8)
	setText(pdf, colorSecondary)
	pdf.SetXY(left, pageHeight-50)
	pdf.CellFormat(width, 10, "This is a computer-generated document. No signature is required.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) Payslip(ctx context.Context, id string) (PayslipDocument, error) {
	rec, err := s.store.GetSalaryRecord(ctx, id)
	if err != nil {
		return PayslipDocument{}, err
	}
	return s.renderFor(rec)
}

func (s *Service) renderFor(rec SalaryRecord) (PayslipDocument, error) {
	payDate := s.opts.Now().In(s.opts.Location).Format("2006-01-02")
	data, err := RenderPayslip(rec, s.opts.Policy, s.opts.CompanyName, s.opts.Currency, payDate)
	if err != nil {
		return PayslipDocument{}, fmt.Errorf("render payslip: %w", err)
	}
	return PayslipDocument{
		Filename: fmt.Sprintf("Payslip-%s-%s.pdf", strings.ReplaceAll(rec.EmployeeName, " ", "_"), rec.Month),
		Data:     data,
	}, nil
}

// EmailPayslip renders the payslip for id and sends it to the employee.
func (s *Service) EmailPayslip(ctx context.Context, id string) (SalaryRecord, error) {
	rec, err := s.store.GetSalaryRecord(ctx, id)
	if err != nil {
		return SalaryRecord{}, err
	}
	if strings.TrimSpace(rec.EmployeeEmail) == "" {
		return SalaryRecord{}, ErrEmployeeEmailMissing
	}
	doc, err := s.renderFor(rec)
	if err != nil {
		return SalaryRecord{}, err
	}

	msg := email.Message{
		FromName: s.opts.MailFromName,
		From:     s.opts.MailFrom,
		To:       rec.EmployeeEmail,
		Subject:  "Your Payslip for " + rec.Month,
		Body: fmt.Sprintf("Dear %s,\n\nPlease find your payslip for %s attached.\n\nBest regards,\n%s",
			rec.EmployeeName, rec.Month, s.opts.MailFromName),
		Attachments: []email.Attachment{{
			Filename:    "Payslip-" + rec.Month + ".pdf",
			ContentType: "application/pdf",
			Data:        doc.Data,
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return SalaryRecord{}, errors.Join(ErrPayslipDeliveryFailed, err)
	}
	return rec, nil
}
