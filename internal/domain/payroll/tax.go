package payroll

import (
	"fmt"
	"math"
)

// Bracket applies Rate to the slice of taxable income up to UpTo.
// The last bracket of a table uses math.Inf(1).
type Bracket struct {
	UpTo float64
	Rate float64
}

// TaxTable is an annual PAYE schedule applied to annualized monthly gross.
type TaxTable struct {
	AnnualRelief float64
	Brackets     []Bracket
}

func DefaultTaxTable() TaxTable {
	return TaxTable{
		AnnualRelief: 150000,
		Brackets: []Bracket{
			{UpTo: 83333, Rate: 0.06},
			{UpTo: 125000, Rate: 0.18},
			{UpTo: math.Inf(1), Rate: 0.24},
		},
	}
}

func (t TaxTable) Validate() error {
	if t.AnnualRelief < 0 {
		return fmt.Errorf("annual relief must not be negative")
	}
	if len(t.Brackets) == 0 {
		return fmt.Errorf("tax table needs at least one bracket")
	}
	lower := 0.0
	for i, b := range t.Brackets {
		if b.UpTo <= lower {
			return fmt.Errorf("bracket %d upper bound %v must exceed %v", i, b.UpTo, lower)
		}
		if b.Rate < 0 || b.Rate > 1 {
			return fmt.Errorf("bracket %d rate must be in [0, 1]", i)
		}
		lower = b.UpTo
	}
	if !math.IsInf(lower, 1) {
		return fmt.Errorf("last bracket must be unbounded")
	}
	return nil
}

// Monthly returns the monthly tax for a monthly gross. The result is not rounded.
func (t TaxTable) Monthly(grossMonthly float64) float64 {
	annual := grossMonthly * 12
	if annual <= t.AnnualRelief {
		return 0
	}
	taxable := annual - t.AnnualRelief

	tax := 0.0
	lower := 0.0
	for _, b := range t.Brackets {
		if taxable <= lower {
			break
		}
		tax += (math.Min(taxable, b.UpTo) - lower) * b.Rate
		lower = b.UpTo
	}
	return tax / 12
}
