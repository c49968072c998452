package payroll

import "fmt"

// Policy holds the jurisdiction constants the calculator runs against.
type Policy struct {
	HoursPerDay         float64
	DaysPerMonth        float64
	NormalOTMultiplier  float64
	HolidayOTMultiplier float64
	EPFEmployeeRate     float64
	EPFEmployerRate     float64
	ETFEmployerRate     float64
	Tax                 TaxTable
}

func DefaultPolicy() Policy {
	return Policy{
		HoursPerDay:         8,
		DaysPerMonth:        28,
		NormalOTMultiplier:  1.0,
		HolidayOTMultiplier: 1.5,
		EPFEmployeeRate:     0.08,
		EPFEmployerRate:     0.12,
		ETFEmployerRate:     0.03,
		Tax:                 DefaultTaxTable(),
	}
}

func (p Policy) Validate() error {
	if p.HoursPerDay <= 0 || p.HoursPerDay > 24 {
		return fmt.Errorf("hours per day must be in (0, 24], got %v", p.HoursPerDay)
	}
	if p.DaysPerMonth <= 0 || p.DaysPerMonth > 31 {
		return fmt.Errorf("days per month must be in (0, 31], got %v", p.DaysPerMonth)
	}
	if p.NormalOTMultiplier < 0 || p.HolidayOTMultiplier < 0 {
		return fmt.Errorf("overtime multipliers must not be negative")
	}
	for name, rate := range map[string]float64{
		"epf employee": p.EPFEmployeeRate,
		"epf employer": p.EPFEmployerRate,
		"etf employer": p.ETFEmployerRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s rate must be in [0, 1], got %v", name, rate)
		}
	}
	return p.Tax.Validate()
}

func (p Policy) HourlyRate(basicSalary float64) float64 {
	return basicSalary / (p.HoursPerDay * p.DaysPerMonth)
}
