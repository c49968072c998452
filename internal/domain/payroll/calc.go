package payroll

import "time"

// Shift is one attendance entry as seen by the calculator.
type Shift struct {
	CheckIn  time.Time
	CheckOut time.Time
	Holiday  bool
}

func (s Shift) Hours() float64 {
	return s.CheckOut.Sub(s.CheckIn).Hours()
}

type Inputs struct {
	BasicSalary float64
	Allowances  float64
}

// Breakdown is every figure derived for a salary record.
type Breakdown struct {
	OTHoursNormal       float64 `json:"otHoursNormal"`
	OTHoursHoliday      float64 `json:"otHoursHoliday"`
	OTAmountNormal      float64 `json:"otAmountNormal"`
	OTAmountHoliday     float64 `json:"otAmountHoliday"`
	ShortHoursDeduction float64 `json:"shortHoursDeduction"`
	LoanDeduction       float64 `json:"loanDeduction"`
	TaxDeduction        float64 `json:"taxDeduction"`
	EPFEmployee         float64 `json:"epfEmployee"`
	EPFCompany          float64 `json:"epfCompany"`
	ETFCompany          float64 `json:"etfCompany"`
	GrossSalary         float64 `json:"grossSalary"`
	NetSalary           float64 `json:"netSalary"`
}

// TotalDeductions is the employee-side total subtracted from gross.
func (b Breakdown) TotalDeductions() float64 {
	return b.EPFEmployee + b.LoanDeduction + b.TaxDeduction + b.ShortHoursDeduction
}

// Calculate derives a salary breakdown from the inputs, the month's shifts
// and the active loan installment (0 when there is none). Shifts are assumed
// to be already filtered to the pay period.
func (p Policy) Calculate(in Inputs, shifts []Shift, loanInstallment float64) Breakdown {
	var out Breakdown
	rate := p.HourlyRate(in.BasicSalary)

	for _, shift := range shifts {
		hours := shift.Hours()
		if shift.Holiday {
			if hours > p.HoursPerDay {
				out.OTHoursHoliday += hours - p.HoursPerDay
			}
			continue
		}
		if hours > p.HoursPerDay {
			out.OTHoursNormal += hours - p.HoursPerDay
		} else if hours < p.HoursPerDay {
			// Charged against the full basic salary for each short day.
			out.ShortHoursDeduction += ((p.HoursPerDay - hours) / p.HoursPerDay) * in.BasicSalary
		}
	}

	out.OTAmountNormal = rate * out.OTHoursNormal * p.NormalOTMultiplier
	out.OTAmountHoliday = rate * out.OTHoursHoliday * p.HolidayOTMultiplier
	out.LoanDeduction = loanInstallment

	out.GrossSalary = in.BasicSalary + in.Allowances + out.OTAmountNormal + out.OTAmountHoliday
	out.TaxDeduction = p.Tax.Monthly(out.GrossSalary)

	out.EPFEmployee = in.BasicSalary * p.EPFEmployeeRate
	out.EPFCompany = in.BasicSalary * p.EPFEmployerRate
	out.ETFCompany = in.BasicSalary * p.ETFEmployerRate

	out.NetSalary = out.GrossSalary - (out.EPFEmployee + out.LoanDeduction + out.TaxDeduction + out.ShortHoursDeduction)
	return out
}
