package reports

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"backoffice/internal/domain/payroll"
	"backoffice/internal/platform/money"
)

type Document struct {
	Filename string
	Data     []byte
}

type Line struct {
	Label  string
	Amount float64
}

// Section is one titled block of a statement. Total is drawn under a rule.
type Section struct {
	Title string
	Lines []Line
	Total *Line
}

func (p ProfitLoss) Sections() []Section {
	return []Section{
		{
			Title: "Cost of Goods Sold (COGS)",
			Lines: []Line{{"Supplier and Material Costs", p.SupplierCosts}},
			Total: &Line{"Total Cost of Goods Sold", p.SupplierCosts},
		},
		{Title: "Gross Profit", Total: &Line{"Gross Profit", p.GrossProfit}},
		{
			Title: "Operating Expenses",
			Lines: []Line{{"Salaries and Employee Wages", p.SalaryExpenses}},
			Total: &Line{"Total Operating Expenses", p.SalaryExpenses},
		},
		{Title: "Net Profit", Total: &Line{"Net Profit", p.NetProfit}},
	}
}

func (b BalanceSheet) Sections() (assets, liabilities, equity Section) {
	assets = Section{
		Title: "ASSETS",
		Lines: []Line{{"Cash and Cash Equivalents (Bank)", b.Cash}},
		Total: &Line{"Total Assets", b.Cash},
	}
	liabilities = Section{
		Title: "LIABILITIES",
		Lines: []Line{
			{"Loans Payable", b.LoansPayable},
			{"Accounts Payable (Suppliers)", b.AccountsPayable},
			{"Salaries Payable", b.SalariesPayable},
		},
		Total: &Line{"Total Liabilities", b.TotalLiabilities},
	}
	equity = Section{
		Title: "EQUITY",
		Lines: []Line{{"Retained Earnings", b.RetainedEarnings}},
		Total: &Line{"Total Equity", b.RetainedEarnings},
	}
	return assets, liabilities, equity
}

var (
	colorBrand   = [3]int{30, 64, 175}
	colorPrimary = [3]int{17, 24, 39}
	colorMuted   = [3]int{107, 114, 128}
	colorRule    = [3]int{55, 65, 81}
)

const (
	pageLeft  = 50.0
	pageWidth = 495.0
)

type statement struct {
	pdf      *gofpdf.Fpdf
	currency string
}

func newStatement(companyName, currency, title string, periodEnd time.Time) (*statement, float64) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	st := &statement{pdf: pdf, currency: currency}

	head, tail := payroll.SplitWordmark(companyName)
	pdf.SetFont("Times", "B", 20)
	st.color(colorPrimary)
	pdf.Text(pageLeft, 70, head)
	if tail != "" {
		x := pageLeft + pdf.GetStringWidth(head) + 2
		pdf.SetFont("Helvetica", "B", 20)
		st.color(colorBrand)
		pdf.Text(x, 70, tail)
	}

	pdf.SetFont("Helvetica", "B", 16)
	st.color(colorPrimary)
	pdf.SetXY(pageLeft, 100)
	pdf.CellFormat(pageWidth, 20, title, "", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	st.color(colorMuted)
	pdf.SetXY(pageLeft, 125)
	pdf.CellFormat(pageWidth, 14, "For the Period Ending "+periodEnd.Format("2 January 2006"), "", 0, "C", false, 0, "")
	return st, 165
}

func (st *statement) color(c [3]int) { st.pdf.SetTextColor(c[0], c[1], c[2]) }

func (st *statement) row(x, width, y float64, label string, amount float64) {
	st.pdf.SetXY(x, y)
	st.pdf.CellFormat(width, 14, label, "", 0, "L", false, 0, "")
	st.pdf.SetXY(x, y)
	st.pdf.CellFormat(width, 14, money.WithCurrency(st.currency, amount), "", 0, "R", false, 0, "")
}

// section draws sec in the column [x, x+width] from y and returns the next free y.
func (st *statement) section(sec Section, x, width, y float64) float64 {
	st.pdf.SetFont("Helvetica", "B", 13)
	st.color(colorBrand)
	st.pdf.SetXY(x, y)
	st.pdf.CellFormat(width, 16, sec.Title, "", 0, "L", false, 0, "")
	y += 22

	st.pdf.SetFont("Helvetica", "", 11)
	st.color(colorPrimary)
	for _, line := range sec.Lines {
		st.row(x, width, y, line.Label, line.Amount)
		y += 18
	}
	if sec.Total != nil {
		y += 5
		st.pdf.SetDrawColor(colorRule[0], colorRule[1], colorRule[2])
		st.pdf.SetLineWidth(0.5)
		st.pdf.Line(x, y, x+width, y)
		y += 6
		st.pdf.SetFont("Helvetica", "B", 11)
		st.row(x, width, y, sec.Total.Label, sec.Total.Amount)
		y += 18
	}
	return y + 15
}

func (st *statement) finish(generated time.Time) ([]byte, error) {
	_, pageHeight := st.pdf.GetPageSize()
	st.pdf.SetFont("Helvetica", "I", 8)
	st.color(colorMuted)
	st.pdf.SetXY(pageLeft, pageHeight-64)
	st.pdf.CellFormat(pageWidth, 10, "Generated on: "+generated.Format("2006-01-02"), "", 0, "C", false, 0, "")
	st.pdf.SetFont("Helvetica", "", 8)
	st.pdf.SetXY(pageLeft, pageHeight-54)
	st.pdf.CellFormat(pageWidth, 10, "This is a computer-generated document.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := st.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderProfitLoss draws the statement as a single column of sections.
func RenderProfitLoss(p ProfitLoss, companyName, currency string, generated time.Time) ([]byte, error) {
	st, y := newStatement(companyName, currency, "Profit & Loss Statement", p.PeriodEnd)
	st.pdf.SetDrawColor(229, 231, 235)
	st.pdf.Line(pageLeft, y-20, pageLeft+pageWidth, y-20)
	for _, sec := range p.Sections() {
		y = st.section(sec, pageLeft, pageWidth, y)
	}
	return st.finish(generated)
}

// RenderBalanceSheet puts assets on the left and liabilities with equity
// on the right.
func RenderBalanceSheet(b BalanceSheet, companyName, currency string, generated time.Time) ([]byte, error) {
	const colWidth, rightX = 230.0, 315.0
	st, y := newStatement(companyName, currency, "Balance Sheet", b.PeriodEnd)
	assets, liabilities, equity := b.Sections()

	st.section(assets, pageLeft, colWidth, y)
	right := st.section(liabilities, rightX, colWidth, y)
	right = st.section(equity, rightX, colWidth, right-5)
	st.pdf.SetFont("Helvetica", "B", 11)
	st.color(colorPrimary)
	st.row(rightX, colWidth, right, "Total Liabilities and Equity", b.TotalLiabilitiesAndEquity())
	return st.finish(generated)
}

func statementFilename(title, period string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-")) + "-" + period + ".pdf"
}

func (s *Service) ProfitLossPDF(ctx context.Context, month string) (Document, error) {
	p, err := s.ProfitLoss(ctx, month)
	if err != nil {
		return Document{}, err
	}
	data, err := RenderProfitLoss(p, s.opts.CompanyName, s.opts.Currency, s.opts.Now().In(s.opts.Location))
	if err != nil {
		return Document{}, err
	}
	return Document{Filename: statementFilename("Profit Loss Statement", p.Period), Data: data}, nil
}

func (s *Service) BalanceSheetPDF(ctx context.Context, month string) (Document, error) {
	b, err := s.BalanceSheet(ctx, month)
	if err != nil {
		return Document{}, err
	}
	data, err := RenderBalanceSheet(b, s.opts.CompanyName, s.opts.Currency, s.opts.Now().In(s.opts.Location))
	if err != nil {
		return Document{}, err
	}
	return Document{Filename: statementFilename("Balance Sheet", b.Period), Data: data}, nil
}
