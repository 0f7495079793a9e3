package analytics

import "github.com/shopspring/decimal"

// LoanFigures holds the closed-form amortization outputs. TotalInterest is
// always exactly TotalPayable minus the principal.
type LoanFigures struct {
	Monthly       decimal.Decimal `json:"monthly"`
	TotalPayable  decimal.Decimal `json:"totalPayable"`
	TotalInterest decimal.Decimal `json:"totalInterest"`
}

var twelveHundred = decimal.NewFromInt(1200)

// EMISchedule computes the equal monthly installment for a loan of the given
// principal at an annual percentage rate over a whole number of years:
//
//	emi = P * r * (1+r)^n / ((1+r)^n - 1)   with r = rate/1200, n = years*12
//
// This is a live display calculation, recomputed on every input change, so
// any non-positive input yields all-zero figures instead of an error.
func EMISchedule(principal, annualRate decimal.Decimal, years int) LoanFigures {
	if principal.Sign() <= 0 || annualRate.Sign() <= 0 || years <= 0 {
		return LoanFigures{
			Monthly:       decimal.Zero,
			TotalPayable:  decimal.Zero,
			TotalInterest: decimal.Zero,
		}
	}

	months := int64(years) * 12
	monthlyRate := annualRate.Div(twelveHundred)
	growth := decimal.NewFromInt(1).Add(monthlyRate).Pow(decimal.NewFromInt(months))

	emi := principal.Mul(monthlyRate).Mul(growth).
		Div(growth.Sub(decimal.NewFromInt(1)))
	total := emi.Mul(decimal.NewFromInt(months))

	return LoanFigures{
		Monthly:       emi,
		TotalPayable:  total,
		TotalInterest: total.Sub(principal),
	}
}
